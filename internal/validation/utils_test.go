package validation

import (
	"errors"
	"testing"

	"github.com/deppfellow/animedb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"profile_name" validate:"required,max=8"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Gender   string `json:"gender" validate:"omitempty,oneof=F M"`
	Limit    int    `json:"limit" validate:"gt=0"`
}

func (s signup) Validate() error { return Struct(s) }

type rejectAll struct{}

func (rejectAll) Validate() error {
	return CustomValidationErrors{{Field: "genres", Message: "must not be empty"}}
}

func fieldMap(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errs.KindInvalid, appErr.Kind)

	out := map[string]string{}
	for _, fe := range appErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

func TestCheckValid(t *testing.T) {
	assert.NoError(t, Check(signup{Name: "cleo", Birthday: "2000-01-01", Gender: "F", Limit: 1}))
	assert.NoError(t, Check(signup{Name: "cleo", Limit: 3}))
}

func TestCheckFieldErrors(t *testing.T) {
	err := Check(signup{Name: "", Birthday: "01/01/2000", Gender: "X", Limit: 0})

	fields := fieldMap(t, err)
	assert.Equal(t, "is required", fields["profile_name"])
	assert.Equal(t, "must be a date formatted as YYYY-MM-DD", fields["birthday"])
	assert.Equal(t, "must be one of: F M", fields["gender"])
	assert.Equal(t, "must be greater than 0", fields["limit"])
}

func TestCheckMaxLength(t *testing.T) {
	fields := fieldMap(t, Check(signup{Name: "a-very-long-name", Limit: 1}))
	assert.Equal(t, "must not exceed 8 characters", fields["profile_name"])
}

func TestCheckCustomErrors(t *testing.T) {
	fields := fieldMap(t, Check(rejectAll{}))
	assert.Equal(t, "must not be empty", fields["genres"])
}
