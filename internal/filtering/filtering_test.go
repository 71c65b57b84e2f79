package filtering

import (
	"testing"

	"github.com/spigell/jobscout/internal/jobs"
	"go.uber.org/zap"
)

func job(id, location string, lt jobs.LocationType) *jobs.NormalizedJob {
	return &jobs.NormalizedJob{ID: id, Location: location, LocationType: lt}
}

func TestLocationFilterKeepsRemoteAndMatches(t *testing.T) {
	list := []*jobs.NormalizedJob{
		job("remote", "Anywhere", jobs.LocationRemote),
		job("match", "Berlin, Germany", jobs.LocationOnsite),
		job("miss", "Paris, France", jobs.LocationOnsite),
	}

	kept, step, err := NewLocation("Berlin").Apply(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if step.Initial != 3 || step.Dropped != 1 || step.Left != 2 {
		t.Fatalf("unexpected step counts: %+v", step)
	}

	for _, j := range kept {
		if j.ID == "miss" {
			t.Fatalf("mismatched location survived the filter")
		}
	}
}

func TestLocationFilterIndianMarkers(t *testing.T) {
	list := []*jobs.NormalizedJob{
		job("metro", "Bengaluru, Karnataka", jobs.LocationOnsite),
		job("abroad", "Austin, TX", jobs.LocationOnsite),
	}

	kept, _, err := NewLocation("Mumbai, India").Apply(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 || kept[0].ID != "metro" {
		t.Fatalf("expected only the Indian metro posting, got %+v", kept)
	}
}

func TestLocationFilterDisabledWithoutPreference(t *testing.T) {
	if NewLocation("  ").IsEnabled() {
		t.Fatalf("expected the filter to be disabled without a preference")
	}
}

func TestRemoteOnlyFilter(t *testing.T) {
	list := []*jobs.NormalizedJob{
		job("r", "Remote", jobs.LocationRemote),
		job("h", "Berlin", jobs.LocationHybrid),
		job("o", "Berlin", jobs.LocationOnsite),
	}

	kept, _, err := NewRemoteOnly(true, false).Apply(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept) != 1 || kept[0].ID != "r" {
		t.Fatalf("expected only the remote job, got %+v", kept)
	}

	kept, _, err = NewRemoteOnly(true, true).Apply(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("expected hybrid kept when acceptable, got %+v", kept)
	}
}

func TestSalaryFloorFilter(t *testing.T) {
	list := []*jobs.NormalizedJob{
		{ID: "unknown"},
		{ID: "low", SalaryMin: 40000, SalaryMax: 60000},
		{ID: "fine", SalaryMin: 90000, SalaryMax: 120000},
	}

	kept, _, err := NewSalaryFloor(80000).Apply(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("expected the low-ceiling job dropped, got %+v", kept)
	}
	for _, j := range kept {
		if j.ID == "low" {
			t.Fatalf("low-salary job survived the floor")
		}
	}
}

func TestRunSkipsDisabledFilters(t *testing.T) {
	list := []*jobs.NormalizedJob{
		job("o", "Paris", jobs.LocationOnsite),
	}

	// Both filters disabled: the list passes through untouched.
	kept, err := Run(zap.NewNop(), []Filter{
		NewLocation(""),
		NewRemoteOnly(false, false),
	}, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 {
		t.Fatalf("disabled filters must not drop jobs, got %+v", kept)
	}
}

func TestRunChainsFilters(t *testing.T) {
	list := []*jobs.NormalizedJob{
		job("r", "Remote", jobs.LocationRemote),
		job("berlin", "Berlin", jobs.LocationOnsite),
		job("paris", "Paris", jobs.LocationOnsite),
	}

	kept, err := Run(zap.NewNop(), []Filter{
		NewLocation("Berlin"),
		NewRemoteOnly(true, false),
	}, list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 || kept[0].ID != "r" {
		t.Fatalf("expected only the remote job after chaining, got %+v", kept)
	}
}
