package gemini

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/jobscout/internal/ai"
	"github.com/spigell/jobscout/internal/profile"
	"github.com/spigell/jobscout/internal/util"
	"go.uber.org/zap"
)

//go:embed expand_prompt.md
var expandPromptTemplate string

const defaultMaxLogLength = 200

// Expander turns a candidate profile into searchable job titles.
type Expander struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExpander(generator jsonGenerator, logger *zap.Logger) *Expander {
	return &Expander{generator: generator, logger: logger, maxLogLen: defaultMaxLogLength}
}

func (e *Expander) ExpandRoles(ctx context.Context, p *profile.CandidateProfile) (*ai.RoleExpansion, error) {
	if p == nil {
		return nil, errors.New("candidate profile is required")
	}

	prompt := buildExpandPrompt(p)

	e.logger.Debug("gemini role expansion request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini role expansion response",
		zap.String("response_preview", util.TruncateForLog(raw, e.maxLogLen)),
	)

	var expansion ai.RoleExpansion
	if err := decodeResponse(raw, &expansion); err != nil {
		return nil, err
	}

	// A target role the candidate stated explicitly always leads the list.
	if p.TargetRole != "" {
		expansion.PrimaryRoles = prependUnique(expansion.PrimaryRoles, p.TargetRole)
	}

	if len(expansion.AllRoles()) == 0 {
		return nil, fmt.Errorf("role expansion produced no roles")
	}

	return &expansion, nil
}

func buildExpandPrompt(p *profile.CandidateProfile) string {
	prompt := strings.ReplaceAll(expandPromptTemplate, "{{TARGET_ROLE}}", p.TargetRole)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", joinLimited(p.Skills, 25))
	prompt = strings.ReplaceAll(prompt, "{{DOMAINS}}", joinLimited(p.Domains, 10))
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE_YEARS}}", strconv.Itoa(p.ExperienceYears))
	return prompt
}

func prependUnique(roles []string, role string) []string {
	out := []string{role}
	for _, r := range roles {
		if !strings.EqualFold(strings.TrimSpace(r), role) {
			out = append(out, r)
		}
	}
	return out
}
