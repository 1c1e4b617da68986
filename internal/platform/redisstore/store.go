package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/store"
)

// upsertProgressScript applies a progress write unless a stored version is
// at least as new. ARGV[2] == 0 always writes.
var upsertProgressScript = redis.NewScript(`
local v = tonumber(ARGV[2])
if v > 0 then
  local cur = tonumber(redis.call('HGET', KEYS[1], 'version') or '-1')
  if cur >= v then
    return 0
  end
end
redis.call('HSET', KEYS[1], 'state', ARGV[1], 'version', ARGV[2])
return 1
`)

// appendAttemptScript appends an attempt once per attempt ID.
var appendAttemptScript = redis.NewScript(`
if redis.call('SADD', KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call('RPUSH', KEYS[2], ARGV[2])
return 1
`)

// Store implements store.ProgressStore and store.AttemptStore on Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// New creates a store on an existing client. All keys are namespaced by prefix.
// If logger is nil, a default logger will be used.
func New(client redis.UniversalClient, prefix string, logger *slog.Logger) *Store {
	if client == nil {
		panic("redis client cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.With(slog.String("component", "redis_store")),
	}
}

// Connect opens a client and verifies it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w: %w", store.ErrUnavailable, err)
	}
	return client, nil
}

var (
	_ store.ProgressStore = (*Store)(nil)
	_ store.AttemptStore  = (*Store)(nil)
)

func (s *Store) progressKey(email string) string {
	return s.prefix + "progress:" + email
}

func (s *Store) attemptsKey(email string) string {
	return s.prefix + "attempts:" + email
}

func (s *Store) attemptIDsKey() string {
	return s.prefix + "attempt_ids"
}

// Get implements store.ProgressStore.Get
func (s *Store) Get(ctx context.Context, email string) (*domain.ProgressState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := s.client.HGet(ctx, s.progressKey(email), "state").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			log.Debug("no stored progress")
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to load progress", slog.String("error", err.Error()))
		return nil, store.NewStoreError("progress", "get", "HGET failed", mapError(err))
	}

	var state domain.ProgressState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, store.NewStoreError("progress", "get", "stored state is malformed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	if state.CompletedScenarios == nil {
		state.CompletedScenarios = domain.CompletionMap{}
	}
	return &state, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *Store) Upsert(ctx context.Context, email string, state *domain.ProgressState) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if email == "" {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidEmail)
	}
	if state == nil {
		return false, fmt.Errorf("%w: progress state is nil", store.ErrInvalidEntity)
	}
	if err := state.Validate(); err != nil {
		log.Warn("progress validation failed during upsert", slog.String("error", err.Error()))
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	toSave := state.Clone()
	if toSave.CompletedScenarios == nil {
		toSave.CompletedScenarios = domain.CompletionMap{}
	}
	payload, err := json.Marshal(toSave)
	if err != nil {
		return false, store.NewStoreError("progress", "upsert", "failed to encode state", err)
	}

	applied, err := upsertProgressScript.Run(ctx, s.client,
		[]string{s.progressKey(email)}, string(payload), toSave.Version).Int()
	if err != nil {
		log.Error("failed to upsert progress", slog.String("error", err.Error()))
		return false, store.NewStoreError("progress", "upsert", "script failed", mapError(err))
	}
	if applied == 0 {
		log.Debug("stale progress write skipped", slog.Int64("version", toSave.Version))
		return false, nil
	}

	log.Debug("progress saved",
		slog.Int("current_id", toSave.CurrentScenarioID),
		slog.Int64("version", toSave.Version))
	return true, nil
}

// Create implements store.AttemptStore.Create
func (s *Store) Create(ctx context.Context, attempt *domain.AttemptRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if attempt == nil {
		return fmt.Errorf("%w: attempt is nil", store.ErrInvalidEntity)
	}
	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	payload, err := json.Marshal(attempt)
	if err != nil {
		return store.NewStoreError("attempt", "create", "failed to encode attempt", err)
	}

	added, err := appendAttemptScript.Run(ctx, s.client,
		[]string{s.attemptIDsKey(), s.attemptsKey(attempt.Email)},
		attempt.ID.String(), string(payload)).Int()
	if err != nil {
		log.Error("failed to record attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return store.NewStoreError("attempt", "create", "script failed", mapError(err))
	}
	if added == 0 {
		return fmt.Errorf("%w: %s", store.ErrAttemptExists, attempt.ID)
	}

	log.Debug("attempt recorded",
		slog.String("attempt_id", attempt.ID.String()),
		slog.Int("scenario_id", attempt.ScenarioID),
		slog.Bool("is_correct", attempt.IsCorrect))
	return nil
}

// Attempts returns the attempts recorded for email, oldest first.
func (s *Store) Attempts(ctx context.Context, email string) ([]domain.AttemptRecord, error) {
	raw, err := s.client.LRange(ctx, s.attemptsKey(email), 0, -1).Result()
	if err != nil {
		return nil, store.NewStoreError("attempt", "list", "LRANGE failed", mapError(err))
	}

	attempts := make([]domain.AttemptRecord, 0, len(raw))
	for _, item := range raw {
		var a domain.AttemptRecord
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, store.NewStoreError("attempt", "list", "stored attempt is malformed",
				fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

// Ping reports whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return mapError(err)
	}
	return nil
}

// mapError marks connection-level failures as store.ErrUnavailable.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
	return err
}
