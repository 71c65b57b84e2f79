package normalize

import (
	"strings"

	"github.com/spigell/jobscout/internal/jobs"

	"go.uber.org/zap"
)

// finalRecencyDays is the last recency gate of the pipeline. It is stricter
// than the per-source windows applied during discovery; the narrowing funnel
// is deliberate.
const finalRecencyDays = 14

// Result carries the deduplicated jobs together with audit counts.
type Result struct {
	Jobs              []*jobs.NormalizedJob
	DuplicatesRemoved int
	TotalBefore       int
	TotalAfter        int
}

// Normalizer canonicalizes raw postings into one schema and merges
// duplicates found across sources.
type Normalizer struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Run deduplicates the raw postings. The first raw job seen for a key wins;
// later duplicates only contribute their source tag and backfill a missing
// description or salary. The key function is pure, so any permutation of
// the input produces the same final set.
func (n *Normalizer) Run(raw []jobs.RawJob) *Result {
	seen := make(map[string]*jobs.NormalizedJob, len(raw))
	order := make([]string, 0, len(raw))

	for _, rj := range raw {
		if rj.PostedDate != "" && !IsRecent(rj.PostedDate, finalRecencyDays) {
			continue
		}

		key := JobKey(rj.ApplyURL, rj.Title)

		existing, ok := seen[key]
		if ok {
			existing.SourcesFound = append(existing.SourcesFound, rj.Source)

			if existing.Description == "" && rj.Description != "" {
				existing.Description = rj.Description
			}
			if len(existing.Requirements) == 0 && len(rj.Requirements) > 0 {
				existing.Requirements = cleanLines(rj.Requirements)
			}
			if existing.SalaryMin == 0 && rj.SalaryRange != "" {
				n.backfillSalary(existing, rj.SalaryRange)
			}
			continue
		}

		seen[key] = n.normalize(key, rj)
		order = append(order, key)
	}

	out := make([]*jobs.NormalizedJob, 0, len(order))
	for _, key := range order {
		out = append(out, seen[key])
	}

	n.logger.Debug("normalized jobs",
		zap.Int("before", len(raw)),
		zap.Int("after", len(out)),
		zap.Int("duplicates_removed", len(raw)-len(out)),
	)

	return &Result{
		Jobs:              out,
		DuplicatesRemoved: len(raw) - len(out),
		TotalBefore:       len(raw),
		TotalAfter:        len(out),
	}
}

func (n *Normalizer) normalize(key string, rj jobs.RawJob) *jobs.NormalizedJob {
	title := CleanTitle(strings.TrimSpace(rj.Title))
	company := CleanCompany(strings.TrimSpace(rj.Company))
	location := CleanLocation(strings.TrimSpace(rj.Location))

	locationType := InferLocationType(location + " " + title + " " + rj.Description)

	salaryMin, salaryMax := 0, 0
	if rj.SalaryRange != "" {
		salaryMin, salaryMax = ParseSalaryRange(rj.SalaryRange)
	}
	if salaryMin == 0 && rj.Description != "" {
		salaryMin, salaryMax = ParseSalaryRange(rj.Description)
	}

	return &jobs.NormalizedJob{
		ID:           key,
		Title:        title,
		Company:      company,
		Location:     location,
		LocationType: locationType,
		Description:  rj.Description,
		Requirements: cleanLines(rj.Requirements),
		ApplyURL:     rj.ApplyURL,
		SalaryMin:    salaryMin,
		SalaryMax:    salaryMax,
		PostedDate:   rj.PostedDate,
		SourcesFound: []string{rj.Source},
	}
}

func cleanLines(in []string) []string {
	var out []string
	for _, line := range in {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (n *Normalizer) backfillSalary(job *jobs.NormalizedJob, salaryRange string) {
	minSal, maxSal := ParseSalaryRange(salaryRange)
	if minSal != 0 {
		job.SalaryMin = minSal
	}
	if maxSal != 0 {
		job.SalaryMax = maxSal
	}
}
