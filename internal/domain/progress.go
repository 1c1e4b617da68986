package domain

import "fmt"

// DoneScenarioID is the pointer value of a session that has moved past the
// last scenario.
const DoneScenarioID = 0

// CompletionMap records, per scenario ID, whether the student has solved the
// scenario correctly at least once. An absent key means not yet attempted.
type CompletionMap map[int]bool

// CorrectCount returns the number of scenarios marked true.
func (m CompletionMap) CorrectCount() int {
	n := 0
	for _, ok := range m {
		if ok {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the map.
func (m CompletionMap) Clone() CompletionMap {
	out := make(CompletionMap, len(m))
	for id, ok := range m {
		out[id] = ok
	}
	return out
}

// ProgressState is the persisted position of one student in the catalog.
// Version increases with every transition so stores can discard stale writes;
// zero means the writer does not track versions.
type ProgressState struct {
	CurrentScenarioID  int           `json:"currentId"`
	CompletedScenarios CompletionMap `json:"completedScenarios"`
	Version            int64         `json:"version"`
}

// NewProgressState returns the starting state for a student: pointer on the
// given scenario and nothing attempted.
func NewProgressState(firstID int) ProgressState {
	return ProgressState{
		CurrentScenarioID:  firstID,
		CompletedScenarios: CompletionMap{},
	}
}

// IsDone reports whether the student has advanced past every scenario.
func (p ProgressState) IsDone() bool {
	return p.CurrentScenarioID == DoneScenarioID
}

// Clone returns a deep copy of the state.
func (p ProgressState) Clone() ProgressState {
	p.CompletedScenarios = p.CompletedScenarios.Clone()
	return p
}

// Validate checks the structural invariants of a state received from outside
// the process. It does not check IDs against a catalog.
func (p ProgressState) Validate() error {
	if p.CurrentScenarioID < 0 {
		return NewValidationError("currentId",
			fmt.Sprintf("must not be negative, got %d", p.CurrentScenarioID), ErrInvalidID)
	}
	if p.Version < 0 {
		return NewValidationError("version", "must not be negative", nil)
	}
	for id := range p.CompletedScenarios {
		if id <= 0 {
			return NewValidationError("completedScenarios",
				fmt.Sprintf("scenario ID %d is not positive", id), ErrInvalidID)
		}
	}
	return nil
}
