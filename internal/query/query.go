package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/jobscout/internal/ai"
	"go.uber.org/zap"
)

const maxQueries = 15

var indianMetros = []string{
	"mumbai", "bangalore", "hyderabad", "pune",
	"delhi", "chennai", "gurgaon", "noida",
}

// Plan is the output of query synthesis. Degraded is non-empty when the
// generative path failed and the template fallback produced the queries.
type Plan struct {
	Queries  []string
	Degraded string
}

// Synthesizer produces search queries for a set of target roles. The
// generative path goes first; a deterministic template fallback guarantees a
// usable plan even when the model is unreachable.
type Synthesizer struct {
	generator ai.QueryGenerator
	logger    *zap.Logger
}

func New(generator ai.QueryGenerator, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{generator: generator, logger: logger}
}

func (s *Synthesizer) Synthesize(ctx context.Context, roles []string, location string, remoteOnly bool) (*Plan, error) {
	if len(roles) == 0 {
		return nil, fmt.Errorf("at least one role is required to build queries")
	}

	if s.generator != nil {
		queries, err := s.generator.GenerateQueries(ctx, roles, location, remoteOnly)
		if err == nil && len(queries) > 0 {
			return &Plan{Queries: dedupTruncate(queries)}, nil
		}

		reason := "generator returned no queries"
		if err != nil {
			reason = err.Error()
		}
		s.logger.Warn("query generation degraded to templates", zap.String("reason", reason))
		return &Plan{
			Queries:  FallbackQueries(roles, location, remoteOnly),
			Degraded: reason,
		}, nil
	}

	return &Plan{
		Queries:  FallbackQueries(roles, location, remoteOnly),
		Degraded: "no query generator configured",
	}, nil
}

// FallbackQueries expands roles into search queries using fixed templates.
// It is deterministic: same inputs, same queries, same order.
func FallbackQueries(roles []string, location string, remoteOnly bool) []string {
	if len(roles) > 5 {
		roles = roles[:5]
	}

	loc := strings.ToLower(strings.TrimSpace(location))
	india := strings.Contains(loc, "india") || strings.Contains(loc, "indian")

	var queries []string
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}

		queries = append(queries,
			fmt.Sprintf("%s job apply", role),
			fmt.Sprintf("%s hiring", role),
		)

		switch {
		case india:
			queries = append(queries, fmt.Sprintf("%s jobs india", role))
			for _, metro := range indianMetros {
				queries = append(queries, fmt.Sprintf("%s jobs %s", role, metro))
			}
		case loc != "":
			queries = append(queries, fmt.Sprintf("%s jobs %s", role, location))
		}

		if remoteOnly {
			queries = append(queries,
				fmt.Sprintf("%s remote jobs", role),
				fmt.Sprintf("%s work from home", role),
			)
		}
	}

	return dedupTruncate(queries)
}

func dedupTruncate(queries []string) []string {
	seen := make(map[string]bool, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) == maxQueries {
			break
		}
	}
	return out
}
