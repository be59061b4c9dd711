package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tillroom/shopd/internal/shop/cache"
)

func TestOTPIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	m := NewOTPManager(cache.NewMemory(), LogDispatcher{}, 0)

	code, err := m.Issue(ctx, "user-1", "user@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	t.Run("mismatch leaves the code in place", func(t *testing.T) {
		require.False(t, m.Verify(ctx, "user-1", "WRONG1"))
		require.True(t, m.Verify(ctx, "user-1", code))
	})

	t.Run("a consumed code cannot be replayed", func(t *testing.T) {
		require.False(t, m.Verify(ctx, "user-1", code))
	})

	t.Run("codes are owner-scoped", func(t *testing.T) {
		code, err := m.Issue(ctx, "user-2", "other@example.com")
		require.NoError(t, err)
		require.False(t, m.Verify(ctx, "user-1", code))
		require.True(t, m.Verify(ctx, "user-2", code))
	})
}

func TestOTPReissueInvalidatesPriorCode(t *testing.T) {
	ctx := context.Background()
	m := NewOTPManager(cache.NewMemory(), LogDispatcher{}, 0)

	first, err := m.Issue(ctx, "user-1", "user@example.com")
	require.NoError(t, err)
	second, err := m.Issue(ctx, "user-1", "user@example.com")
	require.NoError(t, err)

	if first == second {
		t.Skip("generated codes collided")
	}
	require.False(t, m.Verify(ctx, "user-1", first))
	require.True(t, m.Verify(ctx, "user-1", second))
}

func TestOTPExpires(t *testing.T) {
	ctx := context.Background()
	m := NewOTPManager(cache.NewMemory(), LogDispatcher{}, 20*time.Millisecond)

	code, err := m.Issue(ctx, "user-1", "user@example.com")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.False(t, m.Verify(ctx, "user-1", code))
}

type failingDispatcher struct{}

func (failingDispatcher) SendCode(context.Context, string, string) error {
	return errors.New("smtp unreachable")
}

func TestOTPDispatchFailureKeepsCodeVerifiable(t *testing.T) {
	ctx := context.Background()
	m := NewOTPManager(cache.NewMemory(), failingDispatcher{}, 0)

	code, err := m.Issue(ctx, "user-1", "user@example.com")
	require.NoError(t, err)
	require.True(t, m.Verify(ctx, "user-1", code))
}
