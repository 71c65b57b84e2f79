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
	"github.com/spigell/jobscout/internal/profile"
	"github.com/spigell/jobscout/internal/util"
	"go.uber.org/zap"
)

//go:embed skillgap_prompt.md
var skillGapPromptTemplate string

// Analyzer produces per-job skill gap assessments.
type Analyzer struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator jsonGenerator, logger *zap.Logger) *Analyzer {
	return &Analyzer{generator: generator, logger: logger, maxLogLen: defaultMaxLogLength}
}

func (a *Analyzer) AnalyzeSkillMatch(ctx context.Context, p *profile.CandidateProfile, job *jobs.NormalizedJob) (*ai.SkillGapAnalysis, error) {
	if p == nil {
		return nil, errors.New("candidate profile is required")
	}
	if job == nil {
		return nil, errors.New("job is required")
	}

	jobPayload := map[string]any{
		"title":        job.Title,
		"company":      job.Company,
		"description":  util.TruncateForLog(job.Description, 2000),
		"requirements": job.Requirements,
	}

	jobJSON, err := json.MarshalIndent(jobPayload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := strings.ReplaceAll(skillGapPromptTemplate, "{{SKILLS}}", joinLimited(p.Skills, 25))
	prompt = strings.ReplaceAll(prompt, "{{JOB_JSON}}", string(jobJSON))

	a.logger.Debug("gemini skill gap request",
		zap.String("job_id", job.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini skill gap response",
		zap.String("job_id", job.ID),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	var analysis ai.SkillGapAnalysis
	if err := decodeResponse(raw, &analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}
