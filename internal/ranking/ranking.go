// Package ranking orders scored results and applies the minimum-score threshold. Scoring and
// filtering are separate steps: a ranked list can be filtered again with another threshold
// without scoring anything twice.
package ranking

import (
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"
)

// Scored is anything with a 0..100 score.
type Scored interface {
	Percent() float64
}

// Step describes what a filter did to a list.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

const ThresholdStep = "min_percent"

// Rank returns a copy of items sorted by score, highest first. Equal scores keep their input order.
func Rank[T Scored](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent() > out[j].Percent()
	})
	return out
}

var ErrInvalidThreshold = errors.New("threshold must be a number between 0 and 100")

// ValidateThreshold accepts 0..100. NaN compares false against everything, so it is rejected
// explicitly.
func ValidateThreshold(minPercent float64) error {
	if math.IsNaN(minPercent) || minPercent < 0 || minPercent > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

// FilterAtOrAbove keeps the entries scoring at least minPercent, in their current order.
func FilterAtOrAbove[T Scored](ranked []T, minPercent float64) ([]T, Step) {
	out := make([]T, 0, len(ranked))
	for _, item := range ranked {
		if item.Percent() >= minPercent {
			out = append(out, item)
		}
	}

	return out, Step{
		Name:    ThresholdStep,
		Initial: len(ranked),
		Dropped: len(ranked) - len(out),
		Left:    len(out),
	}
}

// LogStep reports a filter step the same way for every caller.
func LogStep(l *zap.Logger, step Step, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.Info("filter step", append([]zap.Field{
		zap.String("name", step.Name),
		zap.Int("initial", step.Initial),
		zap.Int("dropped", step.Dropped),
		zap.Int("left", step.Left),
	}, fields...)...)
}
