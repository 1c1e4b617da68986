// Package progress implements the per-student state machine that walks the
// scenario catalog, and the mastery score derived from it.
package progress

import (
	"fmt"

	"github.com/phrazzld/journal-drill/internal/domain"
)

// Tracker owns one student's ProgressState and applies transitions to it.
// A Tracker is not safe for concurrent use; callers serialize access per
// student.
type Tracker struct {
	catalog *domain.Catalog
	state   domain.ProgressState
}

// NewTracker creates a tracker positioned at the start of the catalog.
func NewTracker(catalog *domain.Catalog) *Tracker {
	if catalog == nil {
		panic("catalog cannot be nil") // ALLOW-PANIC
	}
	return &Tracker{
		catalog: catalog,
		state:   domain.NewProgressState(catalog.FirstID()),
	}
}

// Restore creates a tracker from a previously stored state, normalized
// against the catalog.
func Restore(catalog *domain.Catalog, stored domain.ProgressState) *Tracker {
	t := NewTracker(catalog)
	t.state = Normalize(catalog, stored)
	return t
}

// Normalize reconciles a stored state with the current catalog.
//
// Completion entries for scenarios no longer in the catalog are dropped. A
// pointer to a removed scenario snaps to the next scenario by ID, or to DONE
// when none remains. The version is kept.
func Normalize(catalog *domain.Catalog, stored domain.ProgressState) domain.ProgressState {
	out := domain.ProgressState{
		CurrentScenarioID:  stored.CurrentScenarioID,
		CompletedScenarios: make(domain.CompletionMap, len(stored.CompletedScenarios)),
		Version:            stored.Version,
	}
	if out.Version < 0 {
		out.Version = 0
	}

	for id, ok := range stored.CompletedScenarios {
		if catalog.Has(id) {
			out.CompletedScenarios[id] = ok
		}
	}

	switch {
	case out.CurrentScenarioID == domain.DoneScenarioID:
	case out.CurrentScenarioID < 0:
		out.CurrentScenarioID = catalog.FirstID()
	case !catalog.Has(out.CurrentScenarioID):
		out.CurrentScenarioID, _ = catalog.NextID(out.CurrentScenarioID)
	}
	return out
}

// State returns a copy of the current state.
func (t *Tracker) State() domain.ProgressState {
	return t.state.Clone()
}

// CurrentID returns the scenario the student is on, or DoneScenarioID.
func (t *Tracker) CurrentID() int {
	return t.state.CurrentScenarioID
}

// Done reports whether the student has moved past the last scenario.
func (t *Tracker) Done() bool {
	return t.state.IsDone()
}

// Mastery returns the current mastery score.
func (t *Tracker) Mastery() float64 {
	return Mastery(t.state.CompletedScenarios, t.catalog.Size())
}

// Attempt records a verification outcome for scenario id. A correct
// outcome is never overwritten by a later incorrect one. The pointer does
// not move.
func (t *Tracker) Attempt(id int, correct bool) error {
	if !t.catalog.Has(id) {
		return fmt.Errorf("%w: %d", domain.ErrUnknownScenario, id)
	}
	t.state.CompletedScenarios[id] = t.state.CompletedScenarios[id] || correct
	t.state.Version++
	return nil
}

// Advance moves to the next scenario by ID, whether or not the current one
// was solved. It returns true once the pointer is DONE. Advancing from DONE
// stays DONE.
func (t *Tracker) Advance() bool {
	if !t.state.IsDone() {
		t.state.CurrentScenarioID, _ = t.catalog.NextID(t.state.CurrentScenarioID)
	}
	t.state.Version++
	return t.state.IsDone()
}

// Reset clears all completion and returns to the first scenario.
func (t *Tracker) Reset() {
	t.state.CompletedScenarios = domain.CompletionMap{}
	t.state.CurrentScenarioID = t.catalog.FirstID()
	t.state.Version++
}
