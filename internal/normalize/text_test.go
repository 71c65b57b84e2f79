package normalize

import (
	"testing"

	"github.com/spigell/jobscout/internal/jobs"
)

func TestJobKeyIgnoresURLNoise(t *testing.T) {
	base := JobKey("https://example.com/careers/123", "Backend Engineer")

	variants := []string{
		"https://example.com/careers/123/",
		"https://EXAMPLE.com/careers/123?utm_source=feed",
		"HTTPS://example.com/careers/123#apply",
	}

	for _, v := range variants {
		if got := JobKey(v, "backend ENGINEER"); got != base {
			t.Fatalf("expected %q to collapse to the same key, got %q vs %q", v, got, base)
		}
	}

	if len(base) != 16 {
		t.Fatalf("expected a 16 character key, got %d", len(base))
	}
}

func TestJobKeyDistinguishesTitles(t *testing.T) {
	a := JobKey("https://example.com/careers/123", "Backend Engineer")
	b := JobKey("https://example.com/careers/123", "Frontend Engineer")

	if a == b {
		t.Fatalf("different titles must not collide")
	}
}

func TestInferLocationType(t *testing.T) {
	cases := []struct {
		text string
		want jobs.LocationType
	}{
		{"Remote - US timezones", jobs.LocationRemote},
		{"Work from home friendly", jobs.LocationRemote},
		{"WFH allowed", jobs.LocationRemote},
		{"Hybrid, 2 days in office", jobs.LocationHybrid},
		{"Flexible arrangement", jobs.LocationHybrid},
		{"New York, NY", jobs.LocationOnsite},
	}

	for _, tc := range cases {
		if got := InferLocationType(tc.text); got != tc.want {
			t.Fatalf("InferLocationType(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractYearsRequired(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"5+ years of Go, 3 years of SQL", 5},
		{"at least 2 yrs experience", 2},
		{"no experience needed", 0},
		{"", 0},
	}

	for _, tc := range cases {
		if got := ExtractYearsRequired(tc.text); got != tc.want {
			t.Fatalf("ExtractYearsRequired(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Software Engineer - Apply Now", "Software Engineer -"},
		{"[Senior] Data Scientist ($150k)", "Senior Data Scientist"},
		{"x", "Unspecified Position"},
		{"", "Unspecified Position"},
	}

	for _, tc := range cases {
		if got := CleanTitle(tc.input); got != tc.want {
			t.Fatalf("CleanTitle(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCleanCompany(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Acme Corp.", "Acme"},
		{"Widgets Inc", "Widgets"},
		{"", "Unknown Company"},
	}

	for _, tc := range cases {
		if got := CleanCompany(tc.input); got != tc.want {
			t.Fatalf("CleanCompany(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCleanLocation(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Location: Austin, United States", "Austin, USA"},
		{"London, United Kingdom", "London, UK"},
		{"WFH", "Remote"},
		{"", "Remote"},
	}

	for _, tc := range cases {
		if got := CleanLocation(tc.input); got != tc.want {
			t.Fatalf("CleanLocation(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
