package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/jobscout/internal/ai"
	"github.com/spigell/jobscout/internal/filtering"
	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/normalize"
	"github.com/spigell/jobscout/internal/profile"
	"github.com/spigell/jobscout/internal/query"
	"github.com/spigell/jobscout/internal/scoring"
	"go.uber.org/zap"
)

const defaultEnrichTopN = 5

// Discoverer produces raw postings for a query plan. Satisfied by
// discovery.Runner.
type Discoverer interface {
	Run(ctx context.Context, queries []string) []jobs.RawJob
}

// Persister stores finished search results. Satisfied by store.Store.
type Persister interface {
	Save(ctx context.Context, result *jobs.SearchResult) error
}

// Runner drives one search through every pipeline stage. All AI
// collaborators are optional; each absence or failure degrades the run
// instead of failing it.
type Runner struct {
	expander    ai.RoleExpander
	synthesizer *query.Synthesizer
	discoverer  Discoverer
	normalizer  *normalize.Normalizer
	scorer      *scoring.Scorer
	analyzer    ai.SkillAnalyzer
	advisor     ai.InsightsGenerator
	persister   Persister
	logger      *zap.Logger
	enrichTopN  int
}

// Options wires the runner's collaborators.
type Options struct {
	Expander    ai.RoleExpander
	Synthesizer *query.Synthesizer
	Discoverer  Discoverer
	Normalizer  *normalize.Normalizer
	Scorer      *scoring.Scorer
	Analyzer    ai.SkillAnalyzer
	Advisor     ai.InsightsGenerator
	Persister   Persister
	EnrichTopN  int
}

func NewRunner(opts Options, logger *zap.Logger) *Runner {
	topN := opts.EnrichTopN
	if topN <= 0 {
		topN = defaultEnrichTopN
	}
	return &Runner{
		expander:    opts.Expander,
		synthesizer: opts.Synthesizer,
		discoverer:  opts.Discoverer,
		normalizer:  opts.Normalizer,
		scorer:      opts.Scorer,
		analyzer:    opts.Analyzer,
		advisor:     opts.Advisor,
		persister:   opts.Persister,
		logger:      logger,
		enrichTopN:  topN,
	}
}

// Run executes the full pipeline for one candidate. It fails only on
// broken intake or a query plan that cannot be built; everything after
// that degrades gracefully.
func (r *Runner) Run(ctx context.Context, resume *profile.ResumeProfile, manual *profile.ManualInput, prefs *profile.SearchPreferences) (*jobs.SearchResult, error) {
	candidate, err := profile.Build(resume, manual)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = &profile.SearchPreferences{}
	}

	targetRoles := r.expandRoles(ctx, candidate)
	r.logger.Info("roles resolved", zap.Strings("roles", targetRoles))

	plan, err := r.synthesizer.Synthesize(ctx, targetRoles, prefs.Location, prefs.RemoteOnly)
	if err != nil {
		return nil, fmt.Errorf("build query plan: %w", err)
	}
	if plan.Degraded != "" {
		r.logger.Warn("query plan degraded", zap.String("reason", plan.Degraded))
	}
	r.logger.Info("query plan ready", zap.Int("queries", len(plan.Queries)))

	raw := r.discoverer.Run(ctx, plan.Queries)
	r.logger.Info("discovery finished", zap.Int("raw_jobs", len(raw)))

	normalized := r.normalizer.Run(raw)

	filtered, err := filtering.Run(r.logger, []filtering.Filter{
		filtering.NewLocation(prefs.Location),
		filtering.NewRemoteOnly(prefs.RemoteOnly, prefs.HybridOK),
		filtering.NewSalaryFloor(prefs.SalaryMin),
	}, normalized.Jobs)
	if err != nil {
		return nil, fmt.Errorf("pre-filter jobs: %w", err)
	}

	scored := r.scorer.Score(ctx, &scoring.Input{
		Profile:           candidate,
		TargetRoles:       targetRoles,
		PreferredLocation: prefs.Location,
		RemoteOnly:        prefs.RemoteOnly,
	}, filtered)

	result := &jobs.SearchResult{
		ID:                uuid.NewString(),
		CreatedAt:         time.Now().UTC(),
		Queries:           plan.Queries,
		Jobs:              scored,
		TotalBefore:       normalized.TotalBefore,
		TotalAfter:        len(scored),
		DuplicatesRemoved: normalized.DuplicatesRemoved,
	}

	r.enrichTopJobs(ctx, candidate, result)
	result.Insights = r.insights(ctx, candidate, targetRoles, result)

	if r.persister != nil {
		if err := r.persister.Save(ctx, result); err != nil {
			r.logger.Warn("persisting search result failed", zap.Error(err))
		}
	}

	return result, nil
}

// expandRoles asks the collaborator for title variants and degrades to the
// candidate's own target role and domains when it is absent or fails.
func (r *Runner) expandRoles(ctx context.Context, candidate *profile.CandidateProfile) []string {
	if r.expander != nil {
		expansion, err := r.expander.ExpandRoles(ctx, candidate)
		if err == nil {
			return expansion.AllRoles()
		}
		r.logger.Warn("role expansion failed, using profile roles", zap.Error(err))
	}

	var roles []string
	if candidate.TargetRole != "" {
		roles = append(roles, candidate.TargetRole)
	}
	for _, domain := range candidate.Domains {
		roles = append(roles, domain+" specialist")
	}
	// Last resort: seed queries from the candidate's own skills. Roles are
	// only ever derived from what the candidate actually stated.
	if len(roles) == 0 {
		for _, skill := range candidate.Skills {
			roles = append(roles, skill)
			if len(roles) == 3 {
				break
			}
		}
	}
	return roles
}

func (r *Runner) enrichTopJobs(ctx context.Context, candidate *profile.CandidateProfile, result *jobs.SearchResult) {
	if r.analyzer == nil {
		return
	}

	for _, sj := range result.Top(r.enrichTopN) {
		analysis, err := r.analyzer.AnalyzeSkillMatch(ctx, candidate, sj.Job)
		if err != nil {
			r.logger.Debug("skill gap enrichment failed",
				zap.String("job_id", sj.Job.ID),
				zap.Error(err),
			)
			continue
		}
		sj.MatchingSkills = analysis.MatchingSkills
		sj.MissingSkills = analysis.MissingSkills
		sj.MatchExplain = analysis.Explanation
	}
}

func (r *Runner) insights(ctx context.Context, candidate *profile.CandidateProfile, targetRoles []string, result *jobs.SearchResult) *jobs.CareerInsights {
	missing := collectMissingSkills(result.Jobs)

	if r.advisor != nil {
		insights, err := r.advisor.GenerateInsights(ctx, &ai.InsightsInput{
			Profile:       candidate,
			TotalJobs:     result.Len(),
			AverageScore:  averageScore(result.Jobs),
			TopJobs:       result.Top(r.enrichTopN),
			MissingSkills: missing,
		})
		if err == nil {
			return insights
		}
		r.logger.Warn("insight generation failed, using deterministic fallback", zap.Error(err))
	}

	return fallbackInsights(targetRoles, missing, result.Jobs)
}

// fallbackInsights builds advisory output without any model: aggregated
// skill gaps, salary bounds observed in the result set, and career paths
// straight from the target roles.
func fallbackInsights(targetRoles, missingSkills []string, scored []*jobs.ScoredJob) *jobs.CareerInsights {
	insights := &jobs.CareerInsights{
		SkillGaps:   missingSkills,
		CareerPaths: targetRoles,
		ResumeImprovements: []string{
			"Mirror the exact titles and skills of your best-matching postings",
			"Lead each role with a quantified outcome, not a duty list",
		},
		InterviewTips: []string{
			"Prepare one concrete story per skill the top postings require",
		},
	}

	for _, skill := range missingSkills {
		insights.LearningRecommendations = append(insights.LearningRecommendations, jobs.LearningRecommendation{
			Skill:         skill,
			Resource:      "an introductory course plus one hands-on project",
			Platform:      "Coursera or the tool's official docs",
			EstimatedTime: "4-6 weeks",
		})
	}

	low, high, withSalary := salaryBounds(scored)
	if withSalary > 0 {
		insights.SalaryInsights = fmt.Sprintf(
			"%d of %d matched postings disclose salary, ranging roughly $%d to $%d per year",
			withSalary, len(scored), low, high)
	} else {
		insights.SalaryInsights = "None of the matched postings disclose salary"
	}

	return insights
}

func collectMissingSkills(scored []*jobs.ScoredJob) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sj := range scored {
		for _, skill := range sj.MissingSkills {
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			out = append(out, skill)
		}
	}
	return out
}

func averageScore(scored []*jobs.ScoredJob) float64 {
	if len(scored) == 0 {
		return 0
	}
	var sum float64
	for _, sj := range scored {
		sum += sj.MatchScore
	}
	return sum / float64(len(scored))
}

func salaryBounds(scored []*jobs.ScoredJob) (low, high, withSalary int) {
	for _, sj := range scored {
		if sj.Job == nil || sj.Job.SalaryMin == 0 {
			continue
		}
		withSalary++
		if low == 0 || sj.Job.SalaryMin < low {
			low = sj.Job.SalaryMin
		}
		top := sj.Job.SalaryMax
		if top == 0 {
			top = sj.Job.SalaryMin
		}
		if top > high {
			high = top
		}
	}
	return low, high, withSalary
}
