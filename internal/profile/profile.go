package profile

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// ErrNoInput is returned when neither a parsed resume nor manual input is
// available. It is the one intake condition that must reach the caller.
var ErrNoInput = errors.New("no resume profile or manual input provided")

// ResumeProfile is the output of an external resume parser.
type ResumeProfile struct {
	Skills          []string          `json:"skills" mapstructure:"skills"`
	ExperienceYears int               `json:"experience_years" mapstructure:"experience-years"`
	Domains         []string          `json:"domains" mapstructure:"domains"`
	Education       []json.RawMessage `json:"education,omitempty" mapstructure:"-"`
	Projects        []json.RawMessage `json:"projects,omitempty" mapstructure:"-"`
	RawText         string            `json:"raw_text,omitempty" mapstructure:"-"`
}

// ManualInput is what a candidate types in when no resume is supplied.
type ManualInput struct {
	TargetRole          string   `json:"target_role" mapstructure:"target-role"`
	Skills              []string `json:"skills" mapstructure:"skills"`
	ExperienceYears     int      `json:"experience_years" mapstructure:"experience-years"`
	PreferredIndustries []string `json:"preferred_industries" mapstructure:"preferred-industries"`
}

// SearchPreferences holds the per-search knobs. Immutable once a search runs.
type SearchPreferences struct {
	Location   string `json:"location,omitempty" mapstructure:"location"`
	RemoteOnly bool   `json:"remote_only" mapstructure:"remote-only"`
	HybridOK   bool   `json:"hybrid_ok" mapstructure:"hybrid-ok"`
	SalaryMin  int    `json:"salary_min,omitempty" mapstructure:"salary-min"`
	SalaryMax  int    `json:"salary_max,omitempty" mapstructure:"salary-max"`
}

// CandidateProfile is the unified candidate view every later stage consumes.
// Built once per search, immutable afterward.
type CandidateProfile struct {
	Skills          []string
	ExperienceYears int
	Domains         []string
	Education       []json.RawMessage
	Projects        []json.RawMessage
	// TargetRole is set only when the candidate stated one explicitly.
	TargetRole string
}

// Build unifies the two intake shapes into one candidate profile. A parsed
// resume wins over manual input when both are present.
func Build(resume *ResumeProfile, manual *ManualInput) (*CandidateProfile, error) {
	if resume != nil {
		p := &CandidateProfile{
			Skills:          cleanList(resume.Skills),
			ExperienceYears: resume.ExperienceYears,
			Domains:         cleanList(resume.Domains),
			Education:       resume.Education,
			Projects:        resume.Projects,
		}
		if manual != nil {
			p.TargetRole = strings.TrimSpace(manual.TargetRole)
		}
		return p, nil
	}

	if manual != nil && !manual.empty() {
		return &CandidateProfile{
			Skills:          cleanList(manual.Skills),
			ExperienceYears: manual.ExperienceYears,
			Domains:         cleanList(manual.PreferredIndustries),
			TargetRole:      strings.TrimSpace(manual.TargetRole),
		}, nil
	}

	return nil, ErrNoInput
}

// empty reports whether the manual input carries no usable signal at all.
// A blank form must not pass for intake.
func (m *ManualInput) empty() bool {
	return strings.TrimSpace(m.TargetRole) == "" &&
		len(cleanList(m.Skills)) == 0 &&
		m.ExperienceYears <= 0 &&
		len(cleanList(m.PreferredIndustries)) == 0
}

// LoadResume reads a parsed resume profile from a JSON file.
func LoadResume(path string) (*ResumeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p ResumeProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
