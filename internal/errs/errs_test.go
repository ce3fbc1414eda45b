package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCodes(t *testing.T) {
	assert.Equal(t, "INVALID", NewInvalidError("bad", nil, nil).Code)
	assert.Equal(t, "NOT_FOUND", NewNotFoundError("missing", nil).Code)
	assert.Equal(t, "CONFLICT", NewConflictError("clash", nil).Code)
	assert.Equal(t, "INTERNAL", NewInternalError(nil).Code)

	code := "ANIME_NOT_FOUND"
	assert.Equal(t, code, NewNotFoundError("missing", &code).Code)
}

func TestIsMatchesCodeThenKind(t *testing.T) {
	code := "PROFILE_ALREADY_EXISTS"
	err := fmt.Errorf("create: %w", NewConflictError("A Profile with this Profile Name already exists", &code))

	assert.True(t, errors.Is(err, ErrUsernameTaken))
	assert.True(t, errors.Is(err, &Error{Kind: KindConflict}))
	assert.True(t, errors.Is(err, &Error{}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound}))
	assert.False(t, errors.Is(NewConflictError("serialization", nil), ErrUsernameTaken))
}

func TestUnwrapCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal error: connection reset", err.Error())

	var target *Error
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Equal(t, KindInternal, target.Kind)
}

func TestWithMessageCopies(t *testing.T) {
	custom := ErrUsernameTaken.WithMessage("cleo is taken")

	assert.Equal(t, "cleo is taken", custom.Message)
	assert.Equal(t, "username is already taken", ErrUsernameTaken.Message)
	assert.ErrorIs(t, custom, ErrUsernameTaken)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
