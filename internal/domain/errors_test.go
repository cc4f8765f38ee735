package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"entry not found", ErrEntryNotFound, ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("fetch: %w", ErrEntryNotFound), ErrCodeNotFound},
		{"invalid filter", ErrInvalidFilter, ErrCodeBadQuery},
		{"unknown error", errors.New("some error"), "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
