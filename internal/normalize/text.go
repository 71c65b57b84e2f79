package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/jobscout/internal/jobs"
)

const (
	fallbackTitle    = "Unspecified Position"
	fallbackCompany  = "Unknown Company"
	fallbackLocation = "Remote"
)

var (
	titleSalaryDollarKRe = regexp.MustCompile(`(?i)\$\d+k?`)
	titleSalaryDollarRe  = regexp.MustCompile(`(?i)\$\d+,?\d*`)
	titleSalaryBareRe    = regexp.MustCompile(`(?i)\d+k?-?\d*k?`)

	yearsRequiredRe = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)
)

// JobKey computes the dedup key for a posting: the first 16 hex characters
// of a sha256 digest over the canonical apply URL and the lowercased title.
func JobKey(applyURL, title string) string {
	key := CanonicalURL(applyURL) + "|" + strings.ToLower(strings.TrimSpace(title))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// InferLocationType classifies free text as remote, hybrid or onsite.
func InferLocationType(text string) jobs.LocationType {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "remote") ||
		strings.Contains(lower, "work from home") ||
		strings.Contains(lower, "wfh"):
		return jobs.LocationRemote
	case strings.Contains(lower, "hybrid") || strings.Contains(lower, "flexible"):
		return jobs.LocationHybrid
	default:
		return jobs.LocationOnsite
	}
}

// ExtractYearsRequired returns the largest "N years" figure mentioned in
// the text, or zero when none is found.
func ExtractYearsRequired(text string) int {
	if text == "" {
		return 0
	}

	matches := yearsRequiredRe.FindAllStringSubmatch(strings.ToLower(text), -1)

	years := 0
	for _, m := range matches {
		if n, err := strconv.Atoi(m[1]); err == nil && n > years {
			years = n
		}
	}
	return years
}

// CleanTitle strips promotional phrases, brackets and embedded salary
// fragments from a job title.
func CleanTitle(title string) string {
	for _, junk := range []string{"Apply Now", "Apply Here", "[", "]", "(", ")"} {
		title = strings.ReplaceAll(title, junk, "")
	}

	title = titleSalaryDollarKRe.ReplaceAllString(title, "")
	title = titleSalaryDollarRe.ReplaceAllString(title, "")
	title = titleSalaryBareRe.ReplaceAllString(title, "")

	title = strings.TrimSpace(title)
	if len(title) < 2 {
		return fallbackTitle
	}
	return title
}

// CleanCompany strips generic corporate suffixes and trailing punctuation.
func CleanCompany(company string) string {
	for _, junk := range []string{"Company", "Corp", "Inc", "Ltd", "LLC"} {
		company = strings.ReplaceAll(company, junk, "")
	}

	company = strings.TrimSpace(company)
	company = strings.TrimRight(company, ".:,;-")

	company = strings.TrimSpace(company)
	if company == "" {
		return fallbackCompany
	}
	return company
}

// CleanLocation strips boilerplate and normalizes country names.
func CleanLocation(location string) string {
	for _, junk := range []string{"Location:", "Work From Home", "WFH"} {
		location = strings.ReplaceAll(location, junk, "")
	}

	location = strings.ReplaceAll(location, "United States", "USA")
	location = strings.ReplaceAll(location, "United Kingdom", "UK")

	location = strings.TrimSpace(location)
	if len(location) < 2 {
		return fallbackLocation
	}
	return location
}
