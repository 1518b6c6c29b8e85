package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", ErrNotFound, CodeNotFound},
		{"conversation not found", ErrConversationNotFound, CodeNotFound},
		{"message not found", ErrMessageNotFound, CodeNotFound},
		{"duplicate", ErrDuplicateEntry, CodeDuplicateEntry},
		{"invalid input", ErrInvalidInput, CodeInvalidInput},
		{"blacklisted", ErrBlacklisted, CodeBlacklisted},
		{"unauthorized", ErrUnauthorized, CodeUnauthorized},
		{"unknown", stderrors.New("boom"), CodeInternalError},
		{"wrapped", Wrap(ErrConversationNotFound, "loading thread"), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCode(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	wrapped := Wrap(ErrBlacklisted, "ingesting delivery")
	assert.ErrorIs(t, wrapped, ErrBlacklisted)
	assert.Contains(t, wrapped.Error(), "ingesting delivery")
}

func TestAppError(t *testing.T) {
	appErr := NewAppError(ErrMessageNotFound, "message 7 gone", CodeNotFound)
	assert.Equal(t, "message 7 gone", appErr.Error())
	assert.ErrorIs(t, appErr, ErrMessageNotFound)

	bare := NewAppError(ErrInternal, "", CodeInternalError)
	assert.Equal(t, ErrInternal.Error(), bare.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(ErrConversationNotFound))
	assert.False(t, IsNotFound(ErrBlacklisted))
}
