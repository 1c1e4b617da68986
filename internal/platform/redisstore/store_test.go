package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/store"
)

// newUnreachableStore returns a store whose client points at a closed port.
// Validation runs before any command is sent, so it is usable for tests that
// never reach Redis.
func newUnreachableStore(t *testing.T) *Store {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test:", nil)
}

func TestKeys(t *testing.T) {
	s := newUnreachableStore(t)

	assert.Equal(t, "test:progress:a@b.com", s.progressKey("a@b.com"))
	assert.Equal(t, "test:attempts:a@b.com", s.attemptsKey("a@b.com"))
	assert.Equal(t, "test:attempt_ids", s.attemptIDsKey())
}

func TestNewPanicsOnNilClient(t *testing.T) {
	assert.Panics(t, func() { New(nil, "", nil) })
}

func TestUpsertRejectsInvalidState(t *testing.T) {
	s := newUnreachableStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		email string
		state *domain.ProgressState
	}{
		{name: "empty email", email: "", state: &domain.ProgressState{CurrentScenarioID: 1}},
		{name: "nil state", email: "a@b.com", state: nil},
		{name: "negative pointer", email: "a@b.com", state: &domain.ProgressState{CurrentScenarioID: -1}},
		{name: "negative version", email: "a@b.com", state: &domain.ProgressState{CurrentScenarioID: 1, Version: -2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			applied, err := s.Upsert(ctx, tc.email, tc.state)

			require.Error(t, err)
			assert.False(t, applied)
			assert.ErrorIs(t, err, store.ErrInvalidEntity)
		})
	}
}

func TestCreateRejectsInvalidAttempt(t *testing.T) {
	s := newUnreachableStore(t)
	ctx := context.Background()

	err := s.Create(ctx, nil)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	err = s.Create(ctx, &domain.AttemptRecord{ScenarioID: 1})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(redis.ErrClosed), store.ErrUnavailable)
	assert.ErrorIs(t, mapError(context.DeadlineExceeded), store.ErrUnavailable)

	other := errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
	mapped := mapError(other)
	assert.Equal(t, other, mapped)
	assert.False(t, errors.Is(mapped, store.ErrUnavailable))
}
