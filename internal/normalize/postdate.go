package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var postedAgoRe = regexp.MustCompile(`(\d+)\s*(hour|day|week|month)`)

// PostedDaysAgo converts a free-text "posted" field into an age in days.
// The second return is false when the text carries no recognizable age, in
// which case callers must treat the posting as recent rather than drop it.
func PostedDaysAgo(posted string) (int, bool) {
	posted = strings.ToLower(strings.TrimSpace(posted))
	if posted == "" {
		return 0, false
	}

	if strings.Contains(posted, "just") || strings.Contains(posted, "today") {
		return 0, true
	}

	if strings.Contains(posted, "yesterday") {
		return 1, true
	}

	m := postedAgoRe.FindStringSubmatch(posted)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "hour":
		return 0, true
	case "day":
		return n, true
	case "week":
		return n * 7, true
	case "month":
		return n * 30, true
	}

	return 0, false
}

// IsRecent reports whether a posting is within the given window. Unknown
// ages count as recent so that unparseable feeds are not unfairly dropped.
func IsRecent(posted string, maxDays int) bool {
	days, ok := PostedDaysAgo(posted)
	if !ok {
		return true
	}
	return days <= maxDays
}
