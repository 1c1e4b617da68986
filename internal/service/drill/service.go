package drill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/domain/progress"
	"github.com/phrazzld/journal-drill/internal/domain/verify"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/redact"
	"github.com/phrazzld/journal-drill/internal/store"
)

// Feedback shown after a verification.
const (
	MessageProgress = "Great job! You're making progress!"
	MessageFinished = "Congratulations! You have finished all the bond journal entries in this app!"
	MessageRetry    = "Keep practicing! You'll get better with each attempt."
)

// DrillService runs one drill session per student.
type DrillService interface {
	// Session returns the student's current position, loading stored
	// progress and starting a session if none is active.
	Session(ctx context.Context, email string) (Snapshot, error)

	// Check verifies an entry for the current scenario and records the
	// attempt. A correct entry sets ReadyToAdvance but does not move the
	// pointer. Returns ErrSessionComplete when the student is DONE.
	Check(ctx context.Context, email string, lines []domain.CandidateLine) (*CheckResult, error)

	// Advance moves to the next scenario whether or not the current one was
	// solved. Advancing past the last scenario completes the session.
	Advance(ctx context.Context, email string) (Snapshot, error)

	// Reset clears all completion and returns to the first scenario.
	Reset(ctx context.Context, email string) (Snapshot, error)

	// End drops the in-memory session. Stored progress is kept.
	// Reports whether a session was active.
	End(ctx context.Context, email string) bool

	// EvictIdle ends every session unused for longer than idle and returns
	// how many were ended.
	EvictIdle(idle time.Duration) int

	// ActiveSessions returns the number of sessions in memory.
	ActiveSessions() int

	// Catalog returns the scenario catalog sessions walk through.
	Catalog() *domain.Catalog
}

// Snapshot is a read-only view of one student's progress.
type Snapshot struct {
	Email              string               `json:"email"`
	CurrentScenarioID  int                  `json:"currentId"`
	Done               bool                 `json:"done"`
	CompletedScenarios domain.CompletionMap `json:"completedScenarios"`
	Mastery            float64              `json:"mastery"`
	MasteryPercent     int                  `json:"masteryPercent"`
	CorrectCount       int                  `json:"correctCount"`
	AttemptedCount     int                  `json:"attemptedCount"`
	TotalScenarios     int                  `json:"totalScenarios"`
	Version            int64                `json:"version"`
}

// CheckResult is the outcome of one Check call.
type CheckResult struct {
	ScenarioID      int           `json:"scenarioId"`
	Result          verify.Result `json:"result"`
	Guidance        string        `json:"guidance"`
	ReadyToAdvance  bool          `json:"readyToAdvance"`
	SuccessMessage  string        `json:"successMessage,omitempty"`
	ProgressMessage string        `json:"progressMessage"`
	Snapshot        Snapshot      `json:"snapshot"`
}

type session struct {
	mu         sync.Mutex
	tracker    *progress.Tracker
	lastActive time.Time
	// ended is set when the session is removed from the map; holders of a
	// stale pointer must look the session up again.
	ended bool
}

// Option configures a drill service.
type Option func(*drillService)

// WithClock replaces time.Now, used to stamp session activity.
func WithClock(now func() time.Time) Option {
	return func(s *drillService) {
		s.now = now
	}
}

type drillService struct {
	catalog *domain.Catalog
	gateway Gateway
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
	// floors holds the last version of recently ended sessions. A session
	// reloaded for the same email resumes above it, so writes still queued
	// from the old session cannot mark the new one's saves as stale.
	floors map[string]versionFloor
}

type versionFloor struct {
	version int64
	at      time.Time
}

// NewDrillService creates a drill service over catalog that persists
// through gateway. If logger is nil, a default logger will be used.
func NewDrillService(catalog *domain.Catalog, gateway Gateway, logger *slog.Logger, opts ...Option) (DrillService, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &drillService{
		catalog:  catalog,
		gateway:  gateway,
		logger:   logger.With(slog.String("component", "drill_service")),
		now:      time.Now,
		sessions: make(map[string]*session),
		floors:   make(map[string]versionFloor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *drillService) Catalog() *domain.Catalog {
	return s.catalog
}

func (s *drillService) Session(ctx context.Context, email string) (Snapshot, error) {
	var snap Snapshot
	err := s.withSession(ctx, "session", email, func(id string, sess *session) error {
		snap = s.snapshot(id, sess.tracker)
		return nil
	})
	return snap, err
}

func (s *drillService) Check(ctx context.Context, email string, lines []domain.CandidateLine) (*CheckResult, error) {
	var out *CheckResult
	err := s.withSession(ctx, "check", email, func(id string, sess *session) error {
		if sess.tracker.Done() {
			return ErrSessionComplete
		}

		scenarioID := sess.tracker.CurrentID()
		scenario, ok := s.catalog.Get(scenarioID)
		if !ok {
			return NewServiceError("check", "current scenario missing from catalog",
				fmt.Errorf("%w: %d", domain.ErrUnknownScenario, scenarioID))
		}

		result := verify.Verify(lines, scenario.Solution)
		if err := sess.tracker.Attempt(scenarioID, result.Matches); err != nil {
			return NewServiceError("check", "failed to record attempt", err)
		}

		s.recordAttempt(ctx, id, scenarioID, result.Matches)
		s.save(ctx, id, sess.tracker)

		out = &CheckResult{
			ScenarioID:      scenarioID,
			Result:          result,
			Guidance:        result.Guidance(),
			ReadyToAdvance:  result.Matches,
			ProgressMessage: MessageRetry,
			Snapshot:        s.snapshot(id, sess.tracker),
		}
		if result.Matches {
			out.SuccessMessage = scenario.SuccessMessage
			if out.SuccessMessage == "" {
				out.SuccessMessage = verify.MessageCorrect
			}
			out.ProgressMessage = MessageProgress
			if s.catalog.IsLast(scenarioID) {
				out.ProgressMessage = MessageFinished
			}
		}

		logger.FromContextOrDefault(ctx, s.logger).Debug("entry checked",
			slog.Int("scenario_id", scenarioID),
			slog.String("reason", string(result.Reason)),
			slog.Bool("matches", result.Matches))
		return nil
	})
	return out, err
}

func (s *drillService) Advance(ctx context.Context, email string) (Snapshot, error) {
	var snap Snapshot
	err := s.withSession(ctx, "advance", email, func(id string, sess *session) error {
		if sess.tracker.Advance() {
			logger.FromContextOrDefault(ctx, s.logger).Info("session complete",
				slog.String("email", redact.Email(id)),
				slog.Float64("mastery", sess.tracker.Mastery()))
		}
		s.save(ctx, id, sess.tracker)
		snap = s.snapshot(id, sess.tracker)
		return nil
	})
	return snap, err
}

func (s *drillService) Reset(ctx context.Context, email string) (Snapshot, error) {
	var snap Snapshot
	err := s.withSession(ctx, "reset", email, func(id string, sess *session) error {
		sess.tracker.Reset()
		s.save(ctx, id, sess.tracker)
		snap = s.snapshot(id, sess.tracker)
		return nil
	})
	return snap, err
}

func (s *drillService) End(ctx context.Context, email string) bool {
	id := strings.TrimSpace(email)

	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	sess.mu.Lock()
	sess.ended = true
	version := sess.tracker.State().Version
	sess.mu.Unlock()

	s.mu.Lock()
	s.raiseFloor(id, version)
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("session ended",
		slog.String("email", redact.Email(id)))
	return true
}

func (s *drillService) EvictIdle(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		// A session busy with a request is not idle.
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastActive.Before(cutoff) {
			sess.ended = true
			s.raiseFloor(id, sess.tracker.State().Version)
			delete(s.sessions, id)
			evicted++
		}
		sess.mu.Unlock()
	}
	// Queued writes from sessions ended that long ago have drained.
	for id, floor := range s.floors {
		if floor.at.Before(cutoff) {
			delete(s.floors, id)
		}
	}

	if evicted > 0 {
		s.logger.Info("evicted idle sessions",
			slog.Int("evicted", evicted),
			slog.Int("remaining", len(s.sessions)))
	}
	return evicted
}

func (s *drillService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// withSession runs fn under the student's session lock, creating the
// session on first use.
func (s *drillService) withSession(
	ctx context.Context,
	operation, email string,
	fn func(id string, sess *session) error,
) error {
	id := strings.TrimSpace(email)
	if id == "" {
		return NewServiceError(operation, "email is required",
			fmt.Errorf("%w: %w", ErrInvalidIdentity, domain.ErrInvalidEmail))
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		sess := s.lookup(ctx, id)
		sess.mu.Lock()
		if sess.ended {
			sess.mu.Unlock()
			continue
		}
		sess.lastActive = s.now()
		err := fn(id, sess)
		sess.mu.Unlock()
		return err
	}
}

// lookup returns the active session for id, loading stored progress
// outside the service lock when none exists.
func (s *drillService) lookup(ctx context.Context, id string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	tracker := s.load(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing
	}
	if floor, ok := s.floors[id]; ok {
		if state := tracker.State(); state.Version < floor.version {
			state.Version = floor.version
			tracker = progress.Restore(s.catalog, state)
		}
		delete(s.floors, id)
	}
	loaded := &session{tracker: tracker, lastActive: s.now()}
	s.sessions[id] = loaded
	return loaded
}

// raiseFloor records version for id. Callers hold s.mu.
func (s *drillService) raiseFloor(id string, version int64) {
	if version == 0 {
		return
	}
	if floor, ok := s.floors[id]; ok && floor.version >= version {
		return
	}
	s.floors[id] = versionFloor{version: version, at: s.now()}
}

// load restores a tracker from the gateway. Any failure falls back to a
// fresh start; progression never depends on the store.
func (s *drillService) load(ctx context.Context, id string) *progress.Tracker {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stored, err := s.gateway.LoadProgress(ctx, id)
	switch {
	case err == nil && stored != nil:
		log.Debug("restored stored progress",
			slog.Int("current_id", stored.CurrentScenarioID),
			slog.Int64("version", stored.Version))
		return progress.Restore(s.catalog, *stored)
	case err == nil, errors.Is(err, store.ErrNotFound):
		return progress.NewTracker(s.catalog)
	default:
		log.Warn("failed to load progress, starting fresh",
			slog.String("email", redact.Email(id)),
			slog.String("error", err.Error()))
		return progress.NewTracker(s.catalog)
	}
}

func (s *drillService) save(ctx context.Context, id string, tracker *progress.Tracker) {
	if err := s.gateway.SaveProgress(ctx, id, tracker.State()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to save progress",
			slog.String("email", redact.Email(id)),
			slog.String("error", err.Error()))
	}
}

func (s *drillService) recordAttempt(ctx context.Context, id string, scenarioID int, correct bool) {
	if err := s.gateway.RecordAttempt(ctx, id, scenarioID, correct); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to record attempt",
			slog.String("email", redact.Email(id)),
			slog.Int("scenario_id", scenarioID),
			slog.String("error", err.Error()))
	}
}

func (s *drillService) snapshot(id string, tracker *progress.Tracker) Snapshot {
	state := tracker.State()
	size := s.catalog.Size()
	return Snapshot{
		Email:              id,
		CurrentScenarioID:  state.CurrentScenarioID,
		Done:               state.IsDone(),
		CompletedScenarios: state.CompletedScenarios,
		Mastery:            progress.Mastery(state.CompletedScenarios, size),
		MasteryPercent:     progress.Percent(state.CompletedScenarios, size),
		CorrectCount:       state.CompletedScenarios.CorrectCount(),
		AttemptedCount:     len(state.CompletedScenarios),
		TotalScenarios:     size,
		Version:            state.Version,
	}
}
