package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/jobscout/internal/jobs"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "jobscout.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	result := &jobs.SearchResult{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Queries:   []string{"backend engineer jobs"},
		Jobs: []*jobs.ScoredJob{{
			Job:        &jobs.NormalizedJob{ID: "j1", Title: "Backend Engineer", Company: "Acme"},
			MatchScore: 0.87,
		}},
		TotalBefore:       5,
		TotalAfter:        1,
		DuplicatesRemoved: 4,
	}

	if err := s.Save(ctx, result); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Get(ctx, result.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if loaded.TotalAfter != 1 || len(loaded.Jobs) != 1 {
		t.Fatalf("unexpected loaded result: %+v", loaded)
	}

	if loaded.Jobs[0].Job.Title != "Backend Engineer" || loaded.Jobs[0].MatchScore != 0.87 {
		t.Fatalf("job payload did not survive the round trip: %+v", loaded.Jobs[0])
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRequiresID(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save(context.Background(), &jobs.SearchResult{}); err == nil {
		t.Fatalf("expected an error without an id")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := &jobs.SearchResult{ID: uuid.NewString(), CreatedAt: time.Now().UTC().Add(-time.Hour), TotalAfter: 2}
	newer := &jobs.SearchResult{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), TotalAfter: 7}

	for _, r := range []*jobs.SearchResult{older, newer} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	recent, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}

	if len(recent) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(recent))
	}

	if recent[0].ID != newer.ID || recent[0].Jobs != 7 {
		t.Fatalf("expected the newest search first, got %+v", recent)
	}
}
