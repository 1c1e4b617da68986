package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/service/drill"
)

// MockDrillService implements drill.DrillService for handler tests.
// Unset function fields return zero values.
type MockDrillService struct {
	SessionFn        func(ctx context.Context, email string) (drill.Snapshot, error)
	CheckFn          func(ctx context.Context, email string, lines []domain.CandidateLine) (*drill.CheckResult, error)
	AdvanceFn        func(ctx context.Context, email string) (drill.Snapshot, error)
	ResetFn          func(ctx context.Context, email string) (drill.Snapshot, error)
	EndFn            func(ctx context.Context, email string) bool
	EvictIdleFn      func(idle time.Duration) int
	ActiveSessionsFn func() int
	CatalogValue     *domain.Catalog
}

var _ drill.DrillService = (*MockDrillService)(nil)

// Session implements drill.DrillService.
func (m *MockDrillService) Session(ctx context.Context, email string) (drill.Snapshot, error) {
	if m.SessionFn != nil {
		return m.SessionFn(ctx, email)
	}
	return drill.Snapshot{}, nil
}

// Check implements drill.DrillService.
func (m *MockDrillService) Check(ctx context.Context, email string, lines []domain.CandidateLine) (*drill.CheckResult, error) {
	if m.CheckFn != nil {
		return m.CheckFn(ctx, email, lines)
	}
	return &drill.CheckResult{}, nil
}

// Advance implements drill.DrillService.
func (m *MockDrillService) Advance(ctx context.Context, email string) (drill.Snapshot, error) {
	if m.AdvanceFn != nil {
		return m.AdvanceFn(ctx, email)
	}
	return drill.Snapshot{}, nil
}

// Reset implements drill.DrillService.
func (m *MockDrillService) Reset(ctx context.Context, email string) (drill.Snapshot, error) {
	if m.ResetFn != nil {
		return m.ResetFn(ctx, email)
	}
	return drill.Snapshot{}, nil
}

// End implements drill.DrillService.
func (m *MockDrillService) End(ctx context.Context, email string) bool {
	if m.EndFn != nil {
		return m.EndFn(ctx, email)
	}
	return false
}

// EvictIdle implements drill.DrillService.
func (m *MockDrillService) EvictIdle(idle time.Duration) int {
	if m.EvictIdleFn != nil {
		return m.EvictIdleFn(idle)
	}
	return 0
}

// ActiveSessions implements drill.DrillService.
func (m *MockDrillService) ActiveSessions() int {
	if m.ActiveSessionsFn != nil {
		return m.ActiveSessionsFn()
	}
	return 0
}

// Catalog implements drill.DrillService.
func (m *MockDrillService) Catalog() *domain.Catalog {
	return m.CatalogValue
}
