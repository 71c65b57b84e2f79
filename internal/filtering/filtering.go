package filtering

import (
	"fmt"

	"github.com/spigell/jobscout/internal/jobs"
	"go.uber.org/zap"
)

// Filter is a single pre-scoring gate over normalized jobs.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(list []*jobs.NormalizedJob) ([]*jobs.NormalizedJob, Step, error)
}

// Step describes the result of executing one filter.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the filters sequentially, logging a step summary for each.
// Filters only drop jobs; they never reorder or mutate them.
func Run(logger *zap.Logger, steps []Filter, list []*jobs.NormalizedJob) ([]*jobs.NormalizedJob, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(list)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		list = next
	}

	return list, nil
}
