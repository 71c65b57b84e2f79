package jobs

import (
	"encoding/json"
	"os"
	"time"
)

// LocationType classifies where a job expects work to happen.
type LocationType string

const (
	LocationOnsite LocationType = "onsite"
	LocationRemote LocationType = "remote"
	LocationHybrid LocationType = "hybrid"
)

// RawJob is a posting exactly as a discovery source produced it. Multiple
// raw jobs may describe the same real posting; deduplication happens later.
type RawJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	// Requirements is populated only by sources that expose a structured
	// requirement list; most leave it empty and state them in the description.
	Requirements []string `json:"requirements,omitempty"`
	ApplyURL     string   `json:"apply_url"`
	SalaryRange  string   `json:"salary_range,omitempty"`
	PostedDate   string   `json:"posted_date,omitempty"`
	// Source is the provenance tag, e.g. "serpapi", "greenhouse_stripe",
	// "scraper_indeed".
	Source string `json:"source"`
}

// NormalizedJob is the canonical form of a posting after cleanup and
// deduplication. Exactly one exists per distinct ID within a search.
type NormalizedJob struct {
	// ID is the dedup key: first 16 hex characters of a sha256 digest over
	// the canonicalized apply URL and the lowercased title.
	ID           string       `json:"job_id"`
	Title        string       `json:"title"`
	Company      string       `json:"company"`
	Location     string       `json:"location"`
	LocationType LocationType `json:"location_type"`
	Description  string       `json:"description"`
	Requirements []string     `json:"requirements,omitempty"`
	ApplyURL     string       `json:"apply_url"`
	SalaryMin    int          `json:"salary_min,omitempty"`
	SalaryMax    int          `json:"salary_max,omitempty"`
	PostedDate   string       `json:"posted_date,omitempty"`
	// SourcesFound accumulates the provenance tags of every raw job that
	// collapsed into this record.
	SourcesFound []string `json:"sources_found"`
}

// ScoredJob wraps a normalized job with its relevance assessment.
type ScoredJob struct {
	Job             *NormalizedJob     `json:"job"`
	MatchScore      float64            `json:"match_score"`
	ComponentScores map[string]float64 `json:"component_scores"`
	MatchingSkills  []string           `json:"matching_skills"`
	MissingSkills   []string           `json:"missing_skills"`
	MatchExplain    string             `json:"match_explanation"`
}

// CareerInsights is the advisory output of the insight synthesizer.
type CareerInsights struct {
	SkillGaps               []string                 `json:"skill_gaps"`
	LearningRecommendations []LearningRecommendation `json:"learning_recommendations"`
	ResumeImprovements      []string                 `json:"resume_improvements"`
	CareerPaths             []string                 `json:"career_paths"`
	SalaryInsights          string                   `json:"salary_insights"`
	InterviewTips           []string                 `json:"interview_tips"`
}

type LearningRecommendation struct {
	Skill         string `json:"skill"`
	Resource      string `json:"resource"`
	Platform      string `json:"platform"`
	EstimatedTime string `json:"estimated_time"`
}

// SearchResult is the terminal aggregate of one pipeline run. Jobs are
// ordered descending by match score.
type SearchResult struct {
	ID                string          `json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	Queries           []string        `json:"queries"`
	Jobs              []*ScoredJob    `json:"jobs"`
	TotalBefore       int             `json:"total_before"`
	TotalAfter        int             `json:"total_after"`
	DuplicatesRemoved int             `json:"duplicates_removed"`
	Insights          *CareerInsights `json:"insights,omitempty"`
}

func (r *SearchResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Jobs)
}

// ReportByCompany groups the scored jobs by cleaned company name.
func (r *SearchResult) ReportByCompany() map[string][]string {
	report := make(map[string][]string)
	for _, sj := range r.Jobs {
		if sj == nil || sj.Job == nil {
			continue
		}
		report[sj.Job.Company] = append(report[sj.Job.Company], sj.Job.Title)
	}
	return report
}

// DumpToTmpFile writes the full result as indented JSON to a temp file and
// returns its name.
func (r *SearchResult) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobscout_result_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Top returns up to n highest-ranked jobs. The result slice shares backing
// entries with the receiver.
func (r *SearchResult) Top(n int) []*ScoredJob {
	if r == nil || n <= 0 {
		return nil
	}
	if n > len(r.Jobs) {
		n = len(r.Jobs)
	}
	return r.Jobs[:n]
}
