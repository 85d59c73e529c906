package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotStable", ErrNotStable},
		{"ErrConfirmationDeclined", ErrConfirmationDeclined},
		{"ErrTransport", ErrTransport},
		{"ErrStreamClosed", ErrStreamClosed},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_WrappedStillMatch(t *testing.T) {
	wrapped := fmt.Errorf("star doc-1: %w", ErrRateLimited)

	assert.True(t, errors.Is(wrapped, ErrRateLimited))
	assert.False(t, errors.Is(wrapped, ErrAuthRequired))
}

func TestMessages_NotEmpty(t *testing.T) {
	assert.Equal(t, "Invalid Result Data", MessageInvalidResult)
	assert.NotEmpty(t, MessageConnectionLost)
	assert.NotEmpty(t, MessageDefaultNoResults)
}
