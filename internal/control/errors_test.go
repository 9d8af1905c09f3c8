package control

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeStrings(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{Success, "success"},
		{ErrEventQueueFull, "event queue full"},
		{ErrUninitialized, "core not initialized"},
		{ErrInvalidParameter, "invalid parameter"},
		{ErrOptionNotFound, "option not found"},
		{ErrOptionFormat, "unsupported format for accessing option"},
		{ErrOptionError, "error setting option"},
		{ErrPropertyNotFound, "property not found"},
		{ErrPropertyFormat, "unsupported format for accessing property"},
		{ErrPropertyUnavailable, "property unavailable"},
		{ErrPropertyError, "error accessing property"},
		{ErrCommand, "error running command"},
		{Code(-99), "unknown error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.String())
		assert.Equal(t, tt.want, tt.code.Error())
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "success", StatusText(nil))
	assert.Equal(t, "property not found", StatusText(ErrPropertyNotFound))
	assert.Equal(t, "something else", StatusText(errors.New("something else")))

	// Wrapped codes still resolve to their protocol text.
	wrapped := fmt.Errorf("context: %w", ErrCommand)
	assert.Equal(t, "error running command", StatusText(wrapped))
}

func TestCodesUsableWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrInvalidParameter)
	assert.ErrorIs(t, wrapped, ErrInvalidParameter)
	assert.NotErrorIs(t, wrapped, ErrCommand)
}
