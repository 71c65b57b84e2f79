package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// Plausible annual salary window. Anything outside invalidates the
	// whole string rather than producing a garbage figure.
	minAnnualSalary = 10_000
	maxAnnualSalary = 1_000_000

	// Full-time hours per year, used to annualize hourly rates.
	hoursPerYear = 2080
)

var (
	salaryNumberRe = regexp.MustCompile(`\d+`)
	hourlyRateRe   = regexp.MustCompile(`\d+\.?\d*`)
)

// ParseSalaryRange extracts annual min/max salary figures from a free-text
// salary string. Zero values mean the bound could not be determined.
func ParseSalaryRange(salary string) (int, int) {
	if strings.TrimSpace(salary) == "" {
		return 0, 0
	}

	cleaned := strings.ToLower(salary)
	for _, junk := range []string{"$", ",", " per year", "/year", "usd", " a year"} {
		cleaned = strings.ReplaceAll(cleaned, junk, "")
	}

	if strings.Contains(cleaned, "/hr") || strings.Contains(cleaned, "per hour") || strings.Contains(cleaned, "/hour") {
		for _, junk := range []string{"/hr", "per hour", "/hour"} {
			cleaned = strings.ReplaceAll(cleaned, junk, "")
		}
		if m := hourlyRateRe.FindString(cleaned); m != "" {
			rate, err := strconv.ParseFloat(m, 64)
			if err != nil {
				return 0, 0
			}
			// Annualize only plausible hourly rates; "$8/hr" or "$500/hr"
			// are noise, not salaries.
			if rate >= 10 && rate <= 100 {
				return int(rate * hoursPerYear), 0
			}
			return 0, 0
		}
	}

	cleaned = strings.ReplaceAll(cleaned, "k", "000")

	numbers := salaryNumberRe.FindAllString(cleaned, -1)

	switch {
	case len(numbers) >= 2:
		minVal, err1 := strconv.Atoi(numbers[0])
		maxVal, err2 := strconv.Atoi(numbers[1])
		if err1 != nil || err2 != nil {
			return 0, 0
		}
		if plausibleAnnual(minVal) && plausibleAnnual(maxVal) && minVal <= maxVal {
			return minVal, maxVal
		}
	case len(numbers) == 1:
		val, err := strconv.Atoi(numbers[0])
		if err != nil {
			return 0, 0
		}
		if plausibleAnnual(val) {
			return val, 0
		}
	}

	return 0, 0
}

func plausibleAnnual(v int) bool {
	return v >= minAnnualSalary && v <= maxAnnualSalary
}
