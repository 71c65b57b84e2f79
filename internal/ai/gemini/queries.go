package gemini

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/jobscout/internal/util"
	"go.uber.org/zap"
)

//go:embed queries_prompt.md
var queriesPromptTemplate string

// QueryWriter is the generative path of the query synthesizer.
type QueryWriter struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewQueryWriter(generator jsonGenerator, logger *zap.Logger) *QueryWriter {
	return &QueryWriter{generator: generator, logger: logger, maxLogLen: defaultMaxLogLength}
}

func (q *QueryWriter) GenerateQueries(ctx context.Context, roles []string, location string, remoteOnly bool) ([]string, error) {
	if len(roles) == 0 {
		return nil, errors.New("at least one role is required")
	}

	prompt := strings.ReplaceAll(queriesPromptTemplate, "{{ROLES}}", joinLimited(roles, 10))
	prompt = strings.ReplaceAll(prompt, "{{LOCATION}}", location)
	prompt = strings.ReplaceAll(prompt, "{{REMOTE_ONLY}}", strconv.FormatBool(remoteOnly))

	q.logger.Debug("gemini query generation request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, q.maxLogLen)),
	)

	raw, err := q.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	q.logger.Debug("gemini query generation response",
		zap.String("response_preview", util.TruncateForLog(raw, q.maxLogLen)),
	)

	var payload struct {
		Queries []string `json:"queries"`
	}
	if err := decodeResponse(raw, &payload); err != nil {
		return nil, err
	}

	queries := make([]string, 0, len(payload.Queries))
	for _, query := range payload.Queries {
		if query = strings.TrimSpace(query); query != "" {
			queries = append(queries, query)
		}
	}

	return queries, nil
}
