package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/deppfellow/animedb/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asAppError(t *testing.T, err error) *errs.Error {
	t.Helper()
	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr), "expected *errs.Error, got %T", err)
	return appErr
}

func TestHandleErrorUniqueViolationOnProfileName(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "profiles_profile_name_key"`,
		TableName:      "profiles",
		ConstraintName: "profiles_profile_name_key",
	}

	err := HandleError(fmt.Errorf("insert profile: %w", pgErr))
	appErr := asAppError(t, err)

	assert.Equal(t, errs.KindConflict, appErr.Kind)
	assert.Equal(t, "PROFILE_ALREADY_EXISTS", appErr.Code)
	assert.Equal(t, "A Profile with this Profile Name already exists", appErr.Message)
	assert.ErrorIs(t, err, errs.ErrUsernameTaken)
	assert.ErrorIs(t, err, pgErr)
}

func TestHandleErrorPrimaryKeyCollisionIsNotUsernameTaken(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		TableName:      "profiles",
		ConstraintName: "profiles_pkey",
	})

	appErr := asAppError(t, err)
	assert.Equal(t, errs.KindConflict, appErr.Kind)
	assert.Equal(t, "PROFILE_ID_CONFLICT", appErr.Code)
	assert.NotErrorIs(t, err, errs.ErrUsernameTaken)
	assert.Equal(t, UniqueViolation, ErrCode(err))
}

func TestHandleErrorForeignKey(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23503",
		TableName:  "favorites",
		ColumnName: "profile_id",
	})

	appErr := asAppError(t, err)
	assert.Equal(t, errs.KindInvalid, appErr.Kind)
	assert.Equal(t, "FAVORITE_NOT_FOUND", appErr.Code)
	assert.Equal(t, "The referenced Profile does not exist", appErr.Message)
}

func TestHandleErrorNotNull(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "profiles",
		ColumnName: "password",
	})

	appErr := asAppError(t, err)
	assert.Equal(t, errs.KindInvalid, appErr.Kind)
	assert.Equal(t, "PROFILE_REQUIRED", appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "password", appErr.Errors[0].Field)
}

func TestHandleErrorCheckViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23514",
		TableName:  "reviews",
		ColumnName: "score",
	})

	appErr := asAppError(t, err)
	assert.Equal(t, "REVIEW_INVALID", appErr.Code)
	assert.Equal(t, "The Score value does not meet required conditions", appErr.Message)
}

func TestHandleErrorSerializationFailure(t *testing.T) {
	err := HandleError(&pgconn.PgError{Code: "40001"})

	appErr := asAppError(t, err)
	assert.Equal(t, errs.KindConflict, appErr.Kind)
	assert.Equal(t, "RECORD_CONFLICT", appErr.Code)
	assert.Equal(t, SerializationFailure, ErrCode(err))
}

func TestHandleErrorNoRows(t *testing.T) {
	appErr := asAppError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, errs.KindNotFound, appErr.Kind)
}

func TestHandleErrorUnknown(t *testing.T) {
	cause := errors.New("broken pipe")
	err := HandleError(cause)

	appErr := asAppError(t, err)
	assert.Equal(t, errs.KindInternal, appErr.Kind)
	assert.ErrorIs(t, err, cause)

	appErr = asAppError(t, HandleError(&pgconn.PgError{Code: "42601"}))
	assert.Equal(t, errs.KindInternal, appErr.Kind)

	appErr = asAppError(t, HandleError(context.DeadlineExceeded))
	assert.Equal(t, "operation cancelled", appErr.Message)
}

func TestHandleErrorPassThrough(t *testing.T) {
	assert.NoError(t, HandleError(nil))
	assert.Same(t, errs.ErrUsernameTaken, HandleError(errs.ErrUsernameTaken))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "profile_name", extractColumnForUniqueViolation("profiles_profile_name_key"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_profiles_email"))
	assert.Equal(t, "", extractColumnForUniqueViolation("profiles_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))
	assert.Equal(t, Other, MapCode("99999"))
}
