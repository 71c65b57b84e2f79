package discovery

import (
	"context"
	"time"

	"github.com/spigell/jobscout/internal/jobs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is one job discovery backend. Implementations are best-effort: a
// failing source logs and contributes nothing, it never stops its siblings.
type Source interface {
	Name() string
	// Timeout bounds one full Discover call for this source.
	Timeout() time.Duration
	Discover(ctx context.Context, queries []string) ([]jobs.RawJob, error)
}

// Runner fans the query plan out to every configured source concurrently and
// gathers whatever they produce.
type Runner struct {
	sources []Source
	logger  *zap.Logger
}

func NewRunner(logger *zap.Logger, sources ...Source) *Runner {
	return &Runner{sources: sources, logger: logger}
}

// Run executes all sources and returns the combined raw postings. Per-source
// failures are logged and swallowed; the slice may be empty but never nil
// because one backend had a bad day.
func (r *Runner) Run(ctx context.Context, queries []string) []jobs.RawJob {
	results := make(chan []jobs.RawJob, len(r.sources))

	var g errgroup.Group
	for _, src := range r.sources {
		src := src
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, src.Timeout())
			defer cancel()

			started := time.Now()
			found, err := src.Discover(sctx, queries)
			if err != nil {
				r.logger.Warn("discovery source failed",
					zap.String("source", src.Name()),
					zap.Duration("elapsed", time.Since(started)),
					zap.Error(err),
				)
				return nil
			}

			r.logger.Info("discovery source finished",
				zap.String("source", src.Name()),
				zap.Int("jobs", len(found)),
				zap.Duration("elapsed", time.Since(started)),
			)
			results <- found
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	out := make([]jobs.RawJob, 0)
	for batch := range results {
		out = append(out, batch...)
	}
	return out
}
