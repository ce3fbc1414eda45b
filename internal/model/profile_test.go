package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/deppfellow/animedb/internal/errs"
	"github.com/deppfellow/animedb/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfileValidate(t *testing.T) {
	ok := NewProfile{Name: "cleo", Gender: "F", Birthday: "2000-01-01", Password: "pw"}
	assert.NoError(t, validation.Check(ok))

	err := validation.Check(NewProfile{Name: "cleo", Birthday: "2000-13-01"})
	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr))

	fields := map[string]string{}
	for _, fe := range appErr.Errors {
		fields[fe.Field] = fe.Error
	}
	assert.Equal(t, "is required", fields["password"])
	assert.Equal(t, "must be a date formatted as YYYY-MM-DD", fields["birthday"])
}

func TestNewProfilePasswordByteLimit(t *testing.T) {
	// 36 runes of two bytes each sit exactly at the limit.
	atLimit := NewProfile{Name: "zoe", Password: strings.Repeat("é", 36)}
	assert.NoError(t, validation.Check(atLimit))

	over := NewProfile{Name: "zoe", Password: strings.Repeat("é", 40)}
	err := validation.Check(over)

	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errs.KindInvalid, appErr.Kind)
	assert.Equal(t, []errs.FieldError{{Field: "password", Error: "must not exceed 72 bytes"}}, appErr.Errors)
}
