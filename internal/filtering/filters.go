package filtering

import (
	"strings"

	"github.com/spigell/jobscout/internal/jobs"
)

var indianLocationMarkers = []string{
	"india", "mumbai", "bombay", "delhi", "new delhi", "bengaluru",
	"bangalore", "hyderabad", "chennai", "pune", "kolkata", "calcutta",
	"ahmedabad", "gurgaon", "gurugram", "noida",
}

type locationFilter struct {
	preferred string
}

// NewLocation keeps remote jobs plus jobs whose location lines up with the
// preferred one. A preference mentioning India matches any Indian metro.
func NewLocation(preferred string) Filter {
	return &locationFilter{preferred: strings.ToLower(strings.TrimSpace(preferred))}
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) IsEnabled() bool { return f.preferred != "" }

func (f *locationFilter) Apply(list []*jobs.NormalizedJob) ([]*jobs.NormalizedJob, Step, error) {
	initial := len(list)

	kept := make([]*jobs.NormalizedJob, 0, initial)
	for _, job := range list {
		if job.LocationType == jobs.LocationRemote || f.matches(job.Location) {
			kept = append(kept, job)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *locationFilter) matches(location string) bool {
	loc := strings.ToLower(location)

	if strings.Contains(f.preferred, "india") {
		for _, marker := range indianLocationMarkers {
			if strings.Contains(loc, marker) {
				return true
			}
		}
		return false
	}

	return loc != "" && (strings.Contains(loc, f.preferred) || strings.Contains(f.preferred, loc))
}

type remoteOnlyFilter struct {
	enabled  bool
	hybridOK bool
}

// NewRemoteOnly drops everything that is not remote. Hybrid postings
// survive only when the candidate said they are acceptable.
func NewRemoteOnly(enabled, hybridOK bool) Filter {
	return &remoteOnlyFilter{enabled: enabled, hybridOK: hybridOK}
}

func (f *remoteOnlyFilter) Name() string { return "remote_only" }

func (f *remoteOnlyFilter) IsEnabled() bool { return f.enabled }

func (f *remoteOnlyFilter) Apply(list []*jobs.NormalizedJob) ([]*jobs.NormalizedJob, Step, error) {
	initial := len(list)

	kept := make([]*jobs.NormalizedJob, 0, initial)
	for _, job := range list {
		if job.LocationType == jobs.LocationRemote ||
			(f.hybridOK && job.LocationType == jobs.LocationHybrid) {
			kept = append(kept, job)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

type salaryFloorFilter struct {
	minimum int
}

// NewSalaryFloor drops jobs whose known salary ceiling is below the
// candidate's minimum. Jobs without salary data pass; absence of data is
// not evidence of a low offer.
func NewSalaryFloor(minimum int) Filter {
	return &salaryFloorFilter{minimum: minimum}
}

func (f *salaryFloorFilter) Name() string { return "salary_floor" }

func (f *salaryFloorFilter) IsEnabled() bool { return f.minimum > 0 }

func (f *salaryFloorFilter) Apply(list []*jobs.NormalizedJob) ([]*jobs.NormalizedJob, Step, error) {
	initial := len(list)

	kept := make([]*jobs.NormalizedJob, 0, initial)
	for _, job := range list {
		ceiling := job.SalaryMax
		if ceiling == 0 {
			ceiling = job.SalaryMin
		}
		if ceiling == 0 || ceiling >= f.minimum {
			kept = append(kept, job)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
