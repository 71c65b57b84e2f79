package ai

import (
	"context"

	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/profile"
)

// RoleExpansion is the typed result of the role expansion call.
type RoleExpansion struct {
	PrimaryRoles  []string `json:"primary_roles"`
	ExpandedRoles []string `json:"expanded_roles"`
}

// AllRoles returns primary roles followed by expanded roles, deduplicated
// while preserving priority order.
func (r *RoleExpansion) AllRoles() []string {
	if r == nil {
		return nil
	}

	seen := make(map[string]bool)
	out := make([]string, 0, len(r.PrimaryRoles)+len(r.ExpandedRoles))
	for _, role := range append(append([]string{}, r.PrimaryRoles...), r.ExpandedRoles...) {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		out = append(out, role)
	}
	return out
}

// SkillGapAnalysis is the typed result of the per-job skill gap call.
type SkillGapAnalysis struct {
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Explanation    string   `json:"explanation"`
}

// InsightsInput summarizes a scored result set for the insight synthesizer.
type InsightsInput struct {
	Profile       *profile.CandidateProfile
	TotalJobs     int
	AverageScore  float64
	TopJobs       []*jobs.ScoredJob
	MissingSkills []string
}

// RoleExpander produces job-title variants for a candidate profile.
type RoleExpander interface {
	ExpandRoles(ctx context.Context, p *profile.CandidateProfile) (*RoleExpansion, error)
}

// QueryGenerator is the primary (generative) path of the query synthesizer.
type QueryGenerator interface {
	GenerateQueries(ctx context.Context, roles []string, location string, remoteOnly bool) ([]string, error)
}

// SkillAnalyzer enriches a single scored job with matching/missing skills.
type SkillAnalyzer interface {
	AnalyzeSkillMatch(ctx context.Context, p *profile.CandidateProfile, job *jobs.NormalizedJob) (*SkillGapAnalysis, error)
}

// InsightsGenerator produces advisory career insights from a scored set.
type InsightsGenerator interface {
	GenerateInsights(ctx context.Context, in *InsightsInput) (*jobs.CareerInsights, error)
}

// Embedder maps text to a vector. Absence or failure must degrade to the
// textual-overlap scoring path, never surface to the caller.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
