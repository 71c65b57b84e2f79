package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestATSDiscoverBothDialects(t *testing.T) {
	recent := time.Now().UTC().Add(-48 * time.Hour)

	greenhouse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v1/boards/stripe/jobs") {
			t.Errorf("unexpected greenhouse path %q", r.URL.Path)
		}
		fmt.Fprintf(w, `{
			"jobs": [
				{"title": "Backend Engineer", "location": {"name": "Remote"}, "absolute_url": "https://gh.example.com/1", "updated_at": %q, "content": "Go services"},
				{"title": "Backend Engineer, Payments", "location": {"name": "Paris, France"}, "absolute_url": "https://gh.example.com/2", "updated_at": %q},
				{"title": "Chef", "location": {"name": "Remote"}, "absolute_url": "https://gh.example.com/3", "updated_at": %q}
			]
		}`, recent.Format(time.RFC3339), recent.Format(time.RFC3339), recent.Format(time.RFC3339))
	}))
	defer greenhouse.Close()

	lever := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v0/postings/figma") {
			t.Errorf("unexpected lever path %q", r.URL.Path)
		}
		fmt.Fprintf(w, `[
			{"text": "Backend Engineer", "hostedUrl": "https://lv.example.com/1", "createdAt": %d, "categories": {"location": "Remote"}, "descriptionPlain": "Go"}
		]`, recent.UnixMilli())
	}))
	defer lever.Close()

	boards := []Board{
		{Dialect: "greenhouse", Slug: "stripe", Company: "Stripe"},
		{Dialect: "lever", Slug: "figma", Company: "Figma"},
	}

	src := NewATS(boards, "Berlin", false, zap.NewNop())
	src.SetBaseURLs(greenhouse.URL, lever.URL)

	found, err := src.Discover(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Greenhouse: both remote postings kept, the Paris one fails the
	// location filter. Lever: remote posting kept.
	if len(found) != 3 {
		t.Fatalf("expected 3 postings, got %d: %+v", len(found), found)
	}

	bySource := map[string]bool{}
	for _, job := range found {
		bySource[job.Source] = true
	}
	if !bySource["greenhouse_stripe"] || !bySource["lever_figma"] {
		t.Fatalf("expected provenance from both dialects, got %v", bySource)
	}
}

func TestATSBoardFailureIsIsolated(t *testing.T) {
	recent := time.Now().UTC().Add(-24 * time.Hour)

	greenhouse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"jobs": [{"title": "Engineer", "location": {"name": "Remote"}, "absolute_url": "https://gh.example.com/1", "updated_at": %q}]}`, recent.Format(time.RFC3339))
	}))
	defer greenhouse.Close()

	boards := []Board{
		{Dialect: "greenhouse", Slug: "broken", Company: "Broken"},
		{Dialect: "greenhouse", Slug: "fine", Company: "Fine"},
	}

	src := NewATS(boards, "", false, zap.NewNop())
	src.SetBaseURLs(greenhouse.URL, greenhouse.URL)

	found, err := src.Discover(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(found) != 1 || found[0].Company != "Fine" {
		t.Fatalf("one broken board must not sink the rest, got %+v", found)
	}
}

func TestATSCapsPostingsPerBoard(t *testing.T) {
	recent := time.Now().UTC().Add(-24 * time.Hour)

	greenhouse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sb strings.Builder
		sb.WriteString(`{"jobs": [`)
		for i := 0; i < 9; i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, `{"title": "Engineer %d", "location": {"name": "Remote"}, "absolute_url": "https://gh.example.com/%d", "updated_at": %q}`, i, i, recent.Format(time.RFC3339))
		}
		sb.WriteString(`]}`)
		fmt.Fprint(w, sb.String())
	}))
	defer greenhouse.Close()

	src := NewATS([]Board{{Dialect: "greenhouse", Slug: "big", Company: "Big"}}, "", false, zap.NewNop())
	src.SetBaseURLs(greenhouse.URL, greenhouse.URL)

	found, err := src.Discover(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(found) != maxPostingsPerBoard {
		t.Fatalf("expected the per-board cap of %d, got %d", maxPostingsPerBoard, len(found))
	}
}

func TestATSRemoteOnlyDropsOnsite(t *testing.T) {
	recent := time.Now().UTC().Add(-24 * time.Hour)

	greenhouse := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"jobs": [
				{"title": "Engineer", "location": {"name": "New York, NY"}, "absolute_url": "https://gh.example.com/1", "updated_at": %q},
				{"title": "Engineer", "location": {"name": "Remote - US"}, "absolute_url": "https://gh.example.com/2", "updated_at": %q}
			]
		}`, recent.Format(time.RFC3339), recent.Format(time.RFC3339))
	}))
	defer greenhouse.Close()

	src := NewATS([]Board{{Dialect: "greenhouse", Slug: "acme", Company: "Acme"}}, "New York", true, zap.NewNop())
	src.SetBaseURLs(greenhouse.URL, greenhouse.URL)

	found, err := src.Discover(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A remote-only search must not surface onsite postings even when they
	// match the preferred location.
	if len(found) != 1 {
		t.Fatalf("expected only the remote posting, got %+v", found)
	}
	if found[0].Location != "Remote - US" {
		t.Fatalf("unexpected surviving posting: %+v", found[0])
	}
}

func TestMatchesLocation(t *testing.T) {
	cases := []struct {
		jobLoc     string
		preferred  string
		remoteOnly bool
		want       bool
	}{
		{"Remote - anywhere", "Berlin", false, true},
		{"Work From Home", "", false, true},
		{"Paris, France", "", false, true},
		{"Paris, France", "Berlin", false, false},
		{"Berlin, Germany", "Berlin", false, true},
		{"Bengaluru, Karnataka", "Mumbai, India", false, true},
		{"Paris, France", "Mumbai, India", false, false},
		{"Remote - anywhere", "Berlin", true, true},
		{"Berlin, Germany", "Berlin", true, false},
		{"New York, NY", "", true, false},
	}

	for _, tc := range cases {
		if got := matchesLocation(tc.jobLoc, tc.preferred, tc.remoteOnly); got != tc.want {
			t.Fatalf("matchesLocation(%q, %q, %v) = %v, want %v", tc.jobLoc, tc.preferred, tc.remoteOnly, got, tc.want)
		}
	}
}
