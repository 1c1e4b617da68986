package progress

import "github.com/phrazzld/journal-drill/internal/domain"

// Mastery returns the fraction of the catalog solved correctly at least once.
//
// The result is count(true) / catalogSize clamped to [0, 1]. An empty catalog
// yields 0. The value is derived on demand and never stored.
func Mastery(completed domain.CompletionMap, catalogSize int) float64 {
	if catalogSize <= 0 {
		return 0
	}
	score := float64(completed.CorrectCount()) / float64(catalogSize)
	if score > 1 {
		return 1
	}
	return score
}

// Percent returns mastery as a whole percentage, rounded half up.
func Percent(completed domain.CompletionMap, catalogSize int) int {
	return int(Mastery(completed, catalogSize)*100 + 0.5)
}
