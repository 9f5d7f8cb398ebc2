package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "sentinel", err: ErrNoteNotFound, want: KindNotFound},
		{name: "wrapped sentinel", err: fmt.Errorf("show: %w", ErrUsernameTaken), want: KindConflict},
		{name: "validation", err: Validation("title is required"), want: KindValidation},
		{name: "plain error", err: errors.New("connection reset"), want: KindStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Store("insert note", errors.New("pq: relation \"notes\" does not exist"))

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "relation")
	assert.Equal(t, "note not found", PublicMessage(ErrNoteNotFound))
}

func TestIsMatchesSentinelAfterWrap(t *testing.T) {
	err := Wrap(KindUnauthorized, "invalid username or password", errors.New("user_not_found"))

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}
