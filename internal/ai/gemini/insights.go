package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/jobscout/internal/ai"
	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/util"
	"go.uber.org/zap"
)

//go:embed insights_prompt.md
var insightsPromptTemplate string

// Advisor synthesizes career insights from a scored result set.
type Advisor struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAdvisor(generator jsonGenerator, logger *zap.Logger) *Advisor {
	return &Advisor{generator: generator, logger: logger, maxLogLen: defaultMaxLogLength}
}

func (a *Advisor) GenerateInsights(ctx context.Context, in *ai.InsightsInput) (*jobs.CareerInsights, error) {
	if in == nil || in.Profile == nil {
		return nil, errors.New("insights input with a profile is required")
	}

	topJobs := make([]map[string]any, 0, len(in.TopJobs))
	for _, sj := range in.TopJobs {
		if sj == nil || sj.Job == nil {
			continue
		}
		topJobs = append(topJobs, map[string]any{
			"title":          sj.Job.Title,
			"company":        sj.Job.Company,
			"match_score":    sj.MatchScore,
			"missing_skills": sj.MissingSkills,
		})
	}

	summary := map[string]any{
		"candidate": map[string]any{
			"skills":           in.Profile.Skills,
			"experience_years": in.Profile.ExperienceYears,
			"domains":          in.Profile.Domains,
			"target_role":      in.Profile.TargetRole,
		},
		"total_jobs":             in.TotalJobs,
		"average_match_score":    in.AverageScore,
		"top_jobs":               topJobs,
		"missing_skills_overall": in.MissingSkills,
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal insights summary: %w", err)
	}

	prompt := strings.ReplaceAll(insightsPromptTemplate, "{{SUMMARY_JSON}}", string(summaryJSON))

	a.logger.Debug("gemini insights request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini insights response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	var insights jobs.CareerInsights
	if err := decodeResponse(raw, &insights); err != nil {
		return nil, err
	}

	return &insights, nil
}
