package normalize

import "testing"

func TestPostedDaysAgo(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantDays int
		wantOK   bool
	}{
		{name: "just posted", input: "just posted", wantDays: 0, wantOK: true},
		{name: "today", input: "Posted today", wantDays: 0, wantOK: true},
		{name: "yesterday", input: "yesterday", wantDays: 1, wantOK: true},
		{name: "hours", input: "5 hours ago", wantDays: 0, wantOK: true},
		{name: "days", input: "3 days ago", wantDays: 3, wantOK: true},
		{name: "weeks", input: "2 weeks ago", wantDays: 14, wantOK: true},
		{name: "months", input: "2 months ago", wantDays: 60, wantOK: true},
		{name: "iso timestamp", input: "2025-08-01T10:00:00Z", wantDays: 0, wantOK: false},
		{name: "empty", input: "", wantDays: 0, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, ok := PostedDaysAgo(tc.input)
			if days != tc.wantDays || ok != tc.wantOK {
				t.Fatalf("PostedDaysAgo(%q) = (%d, %v), want (%d, %v)",
					tc.input, days, ok, tc.wantDays, tc.wantOK)
			}
		})
	}
}

func TestIsRecentLayeredWindows(t *testing.T) {
	// "2 months ago" survives the discovery windows but not the final gate.
	posted := "2 months ago"

	if !IsRecent(posted, 60) {
		t.Fatalf("expected %q to pass the 60-day window", posted)
	}

	if IsRecent(posted, 30) {
		t.Fatalf("expected %q to fail the 30-day window", posted)
	}

	if IsRecent(posted, 14) {
		t.Fatalf("expected %q to fail the 14-day window", posted)
	}
}

func TestIsRecentUnknownIsRecent(t *testing.T) {
	if !IsRecent("who knows", 14) {
		t.Fatalf("unparseable posted date must count as recent")
	}
}
