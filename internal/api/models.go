package api

import (
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/service/drill"
	"github.com/shopspring/decimal"
)

// MessageResponse is the body shape of the persistence endpoints.
// Error carries redacted detail on storage failures.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// AttemptRequest is the body of POST /api/attempt. Pointers distinguish a
// missing field from false or zero.
type AttemptRequest struct {
	Email      string `json:"email"`
	ScenarioID *int   `json:"scenario_id"`
	IsCorrect  *bool  `json:"is_correct"`
}

// ProgressPayload is the body of GET and POST /api/progress.
// Version is optional on POST; zero writes unconditionally.
type ProgressPayload struct {
	CompletedScenarios domain.CompletionMap `json:"completedScenarios"`
	CurrentID          *int                 `json:"currentId" validate:"required,gte=0"`
	Version            int64                `json:"version" validate:"gte=0"`
}

// CheckRequest is the body of POST /api/session/check.
type CheckRequest struct {
	Lines []domain.CandidateLine `json:"lines" validate:"max=20,dive"`
}

// ScenarioSummary is one row of GET /api/scenarios.
type ScenarioSummary struct {
	ID        int             `json:"id"`
	BondType  domain.BondType `json:"bondType"`
	FaceValue decimal.Decimal `json:"faceValue"`
	Task      string          `json:"task"`
	LineCount int             `json:"lineCount"`
}

// ScenarioResponse describes a scenario without revealing its solution.
type ScenarioResponse struct {
	ID               int              `json:"id"`
	BondType         domain.BondType  `json:"bondType"`
	FaceValue        decimal.Decimal  `json:"faceValue"`
	IssuePrice       decimal.Decimal  `json:"issuePrice"`
	StatedRate       *decimal.Decimal `json:"statedRate"`
	EffectiveRate    *decimal.Decimal `json:"effectiveRate"`
	LifeYears        int              `json:"lifeYears"`
	PaymentFrequency string           `json:"paymentFrequency"`
	Task             string           `json:"task"`
	LineCount        int              `json:"lineCount"`
	IsLast           bool             `json:"isLast"`
}

// SolutionLineResponse is one row of a solution. Blank sides are empty strings.
type SolutionLineResponse struct {
	Account string `json:"account"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
}

// SolutionTotals is the totals row under a solution.
type SolutionTotals struct {
	Debit  string `json:"debit"`
	Credit string `json:"credit"`
}

// SolutionResponse is the body of GET /api/scenarios/{id}/solution.
type SolutionResponse struct {
	ScenarioID      int                    `json:"scenarioId"`
	Lines           []SolutionLineResponse `json:"lines"`
	Totals          SolutionTotals         `json:"totals"`
	KeyCalculations domain.KeyCalculations `json:"keyCalculations"`
	SuccessMessage  string                 `json:"successMessage,omitempty"`
}

// SessionResponse is returned by the session endpoints. Scenario is nil
// once every scenario has been passed.
type SessionResponse struct {
	drill.Snapshot
	Scenario *ScenarioResponse `json:"scenario"`
}

// CheckResponse is the body of POST /api/session/check. Solution is included
// once the entry is correct so the student can review the calculations.
type CheckResponse struct {
	*drill.CheckResult
	Solution *SolutionResponse `json:"solution,omitempty"`
}

// EndSessionResponse is the body of DELETE /api/session.
type EndSessionResponse struct {
	Ended bool `json:"ended"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Scenarios      int    `json:"scenarios"`
	ActiveSessions int    `json:"activeSessions"`
	Storage        string `json:"storage"`
}

func newScenarioSummary(s domain.Scenario) ScenarioSummary {
	return ScenarioSummary{
		ID:        s.ID,
		BondType:  s.BondType,
		FaceValue: s.FaceValue,
		Task:      s.Task,
		LineCount: len(s.Solution),
	}
}

func newScenarioResponse(s domain.Scenario, isLast bool) *ScenarioResponse {
	return &ScenarioResponse{
		ID:               s.ID,
		BondType:         s.BondType,
		FaceValue:        s.FaceValue,
		IssuePrice:       s.IssuePrice,
		StatedRate:       s.StatedRate,
		EffectiveRate:    s.EffectiveRate,
		LifeYears:        s.LifeYears,
		PaymentFrequency: s.PaymentFrequency,
		Task:             s.Task,
		LineCount:        len(s.Solution),
		IsLast:           isLast,
	}
}

func newSolutionResponse(s domain.Scenario) *SolutionResponse {
	lines := make([]SolutionLineResponse, 0, len(s.Solution))
	for _, l := range s.Solution {
		lines = append(lines, SolutionLineResponse{
			Account: l.Account,
			Debit:   formatSide(l.Debit),
			Credit:  formatSide(l.Credit),
		})
	}
	debit, credit := s.SolutionTotals()
	return &SolutionResponse{
		ScenarioID:      s.ID,
		Lines:           lines,
		Totals:          SolutionTotals{Debit: debit.StringFixed(2), Credit: credit.StringFixed(2)},
		KeyCalculations: s.KeyCalculations,
		SuccessMessage:  s.SuccessMessage,
	}
}

func formatSide(d *decimal.Decimal) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
