package scoring

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/spigell/jobscout/internal/ai"
	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/normalize"
	"github.com/spigell/jobscout/internal/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	weightSkills     = 0.40
	weightRoleFit    = 0.25
	weightExperience = 0.15
	weightLocation   = 0.10
	weightRecency    = 0.10

	// Recency is a constant placeholder for now. Deriving it from posting
	// age needs a reliable posted-date across all sources first.
	recencyScore = 0.7

	maxSkillsForEmbedding = 20
	maxDescriptionChars   = 1000
	defaultParallelism    = 8
)

// Input carries the candidate-side context every job is scored against.
type Input struct {
	Profile           *profile.CandidateProfile
	TargetRoles       []string
	PreferredLocation string
	RemoteOnly        bool
}

// Scorer ranks normalized jobs against a candidate. Scoring one job never
// touches shared state, so jobs run in parallel.
type Scorer struct {
	embedder    ai.Embedder
	logger      *zap.Logger
	parallelism int
}

// New builds a scorer. The embedder may be nil; skills similarity then uses
// the textual-overlap path for every job.
func New(embedder ai.Embedder, logger *zap.Logger) *Scorer {
	return &Scorer{embedder: embedder, logger: logger, parallelism: defaultParallelism}
}

// Score produces one scored job per input, sorted descending by match score.
func (s *Scorer) Score(ctx context.Context, in *Input, list []*jobs.NormalizedJob) []*jobs.ScoredJob {
	candidateVec := s.candidateVector(ctx, in.Profile)

	scored := make([]*jobs.ScoredJob, len(list))

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, job := range list {
		i, job := i, job
		g.Go(func() error {
			scored[i] = s.scoreOne(ctx, in, job, candidateVec)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	return scored
}

func (s *Scorer) scoreOne(ctx context.Context, in *Input, job *jobs.NormalizedJob, candidateVec []float32) *jobs.ScoredJob {
	components := map[string]float64{
		"skills":     s.skillsScore(ctx, in.Profile, job, candidateVec),
		"role_fit":   roleFitScore(in.TargetRoles, job.Title),
		"experience": experienceScore(in.Profile, job),
		"location":   locationScore(job, in.PreferredLocation, in.RemoteOnly),
		"recency":    recencyScore,
	}

	match := weightSkills*components["skills"] +
		weightRoleFit*components["role_fit"] +
		weightExperience*components["experience"] +
		weightLocation*components["location"] +
		weightRecency*components["recency"]

	return &jobs.ScoredJob{
		Job:             job,
		MatchScore:      round2(match),
		ComponentScores: components,
		MatchingSkills:  []string{},
		MissingSkills:   []string{},
	}
}

// candidateVector embeds the candidate's skill summary once per search.
// A nil return routes every job through the overlap fallback.
func (s *Scorer) candidateVector(ctx context.Context, p *profile.CandidateProfile) []float32 {
	if s.embedder == nil || p == nil || len(p.Skills) == 0 {
		return nil
	}

	skills := p.Skills
	if len(skills) > maxSkillsForEmbedding {
		skills = skills[:maxSkillsForEmbedding]
	}

	vec, err := s.embedder.Embed(ctx, "Skills and experience: "+strings.Join(skills, ", "))
	if err != nil {
		s.logger.Warn("candidate embedding failed, scoring degrades to skill overlap", zap.Error(err))
		return nil
	}
	return vec
}

func (s *Scorer) skillsScore(ctx context.Context, p *profile.CandidateProfile, job *jobs.NormalizedJob, candidateVec []float32) float64 {
	if p == nil || len(p.Skills) == 0 {
		return 0.5
	}

	jobText := jobSkillText(job)

	if candidateVec != nil {
		jobVec, err := s.embedder.Embed(ctx, jobText)
		if err == nil {
			return (cosine(candidateVec, jobVec) + 1) / 2
		}
		s.logger.Debug("job embedding failed, falling back to skill overlap",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}

	return overlapScore(p.Skills, jobText)
}

func jobSkillText(job *jobs.NormalizedJob) string {
	desc := job.Description
	if len(desc) > maxDescriptionChars {
		desc = desc[:maxDescriptionChars]
	}
	return strings.Join(job.Requirements, " ") + " " + desc
}

// overlapScore is the deterministic skills path: the fraction of candidate
// skills found verbatim in the job text, on a curve that rewards matching
// half the skill list with a full score.
func overlapScore(skills []string, jobText string) float64 {
	jobText = strings.ToLower(jobText)

	matches := 0
	for _, skill := range skills {
		if strings.Contains(jobText, strings.ToLower(skill)) {
			matches++
		}
	}

	score := float64(matches) / (float64(len(skills)) * 0.5)
	return math.Min(score, 1.0)
}

func roleFitScore(targetRoles []string, title string) float64 {
	if len(targetRoles) == 0 {
		return 0.7
	}

	title = strings.ToLower(title)
	for rank, role := range targetRoles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		if strings.Contains(title, role) || strings.Contains(role, title) {
			return math.Max(0.5, 1.0-0.1*float64(rank))
		}
	}
	return 0.4
}

func experienceScore(p *profile.CandidateProfile, job *jobs.NormalizedJob) float64 {
	if p == nil || p.ExperienceYears == 0 {
		return 0.6
	}

	text := strings.Join(job.Requirements, " ")
	if text == "" {
		text = job.Description
	}

	required := normalize.ExtractYearsRequired(text)
	if required == 0 {
		return 0.7
	}

	switch {
	case p.ExperienceYears >= required:
		return 1.0
	case required-p.ExperienceYears <= 2:
		return 0.7
	default:
		return 0.4
	}
}

func locationScore(job *jobs.NormalizedJob, preferred string, remoteOnly bool) float64 {
	remote := job.LocationType == jobs.LocationRemote

	if remoteOnly {
		if remote {
			return 1.0
		}
		return 0.0
	}

	if remote {
		return 1.0
	}

	preferred = strings.ToLower(strings.TrimSpace(preferred))
	if preferred == "" {
		return 0.7
	}

	if strings.Contains(strings.ToLower(job.Location), preferred) {
		return 1.0
	}
	return 0.5
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
