package normalize

import (
	"sort"
	"testing"

	"github.com/spigell/jobscout/internal/jobs"

	"go.uber.org/zap"
)

func sampleRawJobs() []jobs.RawJob {
	return []jobs.RawJob{
		{
			Title:       "Backend Engineer",
			Company:     "Acme Corp",
			Location:    "Berlin",
			Description: "Build services in Go. 3+ years required.",
			ApplyURL:    "https://example.com/jobs/1",
			PostedDate:  "2 days ago",
			Source:      "serpapi",
		},
		{
			// Same posting found through a scrape feed: URL noise and title
			// casing differ, salary and requirements only known here.
			Title:        "BACKEND ENGINEER",
			Company:      "Acme Corp",
			Location:     "Berlin",
			ApplyURL:     "https://EXAMPLE.com/jobs/1/?utm_source=feed",
			SalaryRange:  "$90,000 - $120,000",
			Requirements: []string{"Go", " 3+ years backend work ", ""},
			Source:       "scraper_boardx",
		},
		{
			Title:       "Data Scientist",
			Company:     "Widgets Inc",
			Location:    "Remote",
			Description: "Remote-first analytics role",
			ApplyURL:    "https://example.com/jobs/2",
			PostedDate:  "1 week ago",
			Source:      "serpapi",
		},
	}
}

func TestRunDeduplicatesAcrossSources(t *testing.T) {
	res := New(zap.NewNop()).Run(sampleRawJobs())

	if res.TotalBefore != 3 || res.TotalAfter != 2 || res.DuplicatesRemoved != 1 {
		t.Fatalf("unexpected counts: before=%d after=%d dups=%d",
			res.TotalBefore, res.TotalAfter, res.DuplicatesRemoved)
	}

	merged := res.Jobs[0]
	if len(merged.SourcesFound) != 2 {
		t.Fatalf("expected merged provenance, got %v", merged.SourcesFound)
	}

	// First-seen record had no salary; the duplicate backfills it.
	if merged.SalaryMin != 90000 || merged.SalaryMax != 120000 {
		t.Fatalf("expected salary backfill, got (%d, %d)", merged.SalaryMin, merged.SalaryMax)
	}

	// First-seen description wins and stays.
	if merged.Description == "" {
		t.Fatalf("expected description from the first record to be kept")
	}

	// The duplicate also backfills the requirement list, blanks dropped.
	if len(merged.Requirements) != 2 || merged.Requirements[1] != "3+ years backend work" {
		t.Fatalf("expected requirements backfill, got %v", merged.Requirements)
	}
}

func TestRunIsOrderIndependent(t *testing.T) {
	raw := sampleRawJobs()

	first := New(zap.NewNop()).Run(raw)

	reversed := make([]jobs.RawJob, len(raw))
	for i, rj := range raw {
		reversed[len(raw)-1-i] = rj
	}
	second := New(zap.NewNop()).Run(reversed)

	if first.TotalAfter != second.TotalAfter {
		t.Fatalf("permutation changed total_after: %d vs %d", first.TotalAfter, second.TotalAfter)
	}

	ids := func(res *Result) []string {
		out := make([]string, 0, len(res.Jobs))
		for _, j := range res.Jobs {
			out = append(out, j.ID)
		}
		sort.Strings(out)
		return out
	}

	a, b := ids(first), ids(second)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("permutation changed job ids: %v vs %v", a, b)
		}
	}
}

func TestRunAppliesFinalRecencyGate(t *testing.T) {
	raw := []jobs.RawJob{
		{
			Title:      "Old Posting",
			Company:    "Acme",
			ApplyURL:   "https://example.com/jobs/old",
			PostedDate: "2 months ago",
			Source:     "serpapi",
		},
		{
			Title:      "Fresh Posting",
			Company:    "Acme",
			ApplyURL:   "https://example.com/jobs/new",
			PostedDate: "3 days ago",
			Source:     "serpapi",
		},
		{
			// No posted date at all: kept, never unfairly dropped.
			Title:    "Undated Posting",
			Company:  "Acme",
			ApplyURL: "https://example.com/jobs/undated",
			Source:   "greenhouse_acme",
		},
	}

	res := New(zap.NewNop()).Run(raw)

	if res.TotalAfter != 2 {
		t.Fatalf("expected the 14-day gate to drop exactly one job, got %d left", res.TotalAfter)
	}

	for _, j := range res.Jobs {
		if j.Title == "Old Posting" {
			t.Fatalf("stale posting survived the final recency gate")
		}
	}
}

func TestRunNormalizesFields(t *testing.T) {
	raw := []jobs.RawJob{{
		Title:       "[Remote] Site Reliability Engineer (Apply Now)",
		Company:     "Initech LLC",
		Location:    "Location: United States",
		Description: "Keep the lights on. Salary $130,000 - $160,000. 4+ years experience.",
		ApplyURL:    "https://jobs.example.com/sre/42",
		Source:      "scraper_indeed",
	}}

	res := New(zap.NewNop()).Run(raw)
	if len(res.Jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(res.Jobs))
	}

	j := res.Jobs[0]

	if j.Title != "Remote Site Reliability Engineer" {
		t.Fatalf("unexpected cleaned title %q", j.Title)
	}

	if j.Company != "Initech" {
		t.Fatalf("expected corporate suffix stripped, got %q", j.Company)
	}

	if j.Location != "USA" {
		t.Fatalf("expected USA, got %q", j.Location)
	}

	if j.LocationType != jobs.LocationRemote {
		t.Fatalf("expected remote inference from title, got %q", j.LocationType)
	}

	// Salary field absent: parsed out of the description instead.
	if j.SalaryMin != 130000 || j.SalaryMax != 160000 {
		t.Fatalf("expected salary from description, got (%d, %d)", j.SalaryMin, j.SalaryMax)
	}

	if len(j.SourcesFound) != 1 || j.SourcesFound[0] != "scraper_indeed" {
		t.Fatalf("unexpected provenance: %v", j.SourcesFound)
	}
}
