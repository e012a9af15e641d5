package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	wantErr := errors.New("down")
	calls := 0
	err := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return wantErr
	})
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}

func TestDo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Default.Do(ctx, func(ctx context.Context) error {
		t.Fatal("fn should not run on canceled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Policy{}.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 1, calls)
}
