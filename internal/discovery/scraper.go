package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/util"
	"go.uber.org/zap"
)

const (
	scraperTimeout      = 60 * time.Second
	scraperRequestDelay = 2 * time.Second
)

// Feed is one scraped JSON listing endpoint.
type Feed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// scrapedRow tolerates the field-name variance of third-party feeds: each
// field decodes from whichever alias the feed happens to use.
type scrapedRow struct {
	Title          string   `mapstructure:"title"`
	Position       string   `mapstructure:"position"`
	JobTitle       string   `mapstructure:"job_title"`
	Company        string   `mapstructure:"company"`
	Employer       string   `mapstructure:"employer"`
	CompanyName    string   `mapstructure:"company_name"`
	URL            string   `mapstructure:"url"`
	Link           string   `mapstructure:"link"`
	ApplyURL       string   `mapstructure:"apply_url"`
	Location       string   `mapstructure:"location"`
	City           string   `mapstructure:"city"`
	Description    string   `mapstructure:"description"`
	Summary        string   `mapstructure:"summary"`
	Requirements   []string `mapstructure:"requirements"`
	Qualifications []string `mapstructure:"qualifications"`
	Salary         string   `mapstructure:"salary"`
	SalaryRange    string   `mapstructure:"salary_range"`
	Posted         string   `mapstructure:"posted"`
	PostedDate     string   `mapstructure:"posted_date"`
	Date           string   `mapstructure:"date"`
}

// Scraper pulls postings from configured JSON feeds. It is feature-flagged
// off by default; feeds vary wildly in shape and reliability.
type Scraper struct {
	feeds  []Feed
	delay  time.Duration
	client *http.Client
	logger *zap.Logger
}

func NewScraper(feeds []Feed, logger *zap.Logger) *Scraper {
	return &Scraper{
		feeds:  feeds,
		delay:  scraperRequestDelay,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

func (s *Scraper) Name() string { return "scraper" }

func (s *Scraper) Timeout() time.Duration {
	t := scraperTimeout
	if extra := time.Duration(len(s.feeds)) * 30 * time.Second; extra > t {
		t = extra
	}
	return t
}

func (s *Scraper) Discover(ctx context.Context, _ []string) ([]jobs.RawJob, error) {
	var out []jobs.RawJob
	for i, feed := range s.feeds {
		if i > 0 {
			if err := util.WaitFor(ctx, s.delay); err != nil {
				return out, err
			}
		}

		found, err := s.fetchFeed(ctx, feed)
		if err != nil {
			s.logger.Warn("scrape feed failed", zap.String("feed", feed.Name), zap.Error(err))
			continue
		}
		out = append(out, found...)
	}
	return out, nil
}

func (s *Scraper) fetchFeed(ctx context.Context, feed Feed) ([]jobs.RawJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("scrape status %d", resp.StatusCode)
	}

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("scrape decode: %w", err)
	}

	source := s.Name()
	if feed.Name != "" {
		source = source + "_" + feed.Name
	}

	out := make([]jobs.RawJob, 0, len(rows))
	skipped := 0
	for _, rawRow := range rows {
		job, ok := decodeRow(rawRow, source)
		if !ok {
			skipped++
			continue
		}
		out = append(out, job)
	}

	if skipped > 0 {
		s.logger.Debug("scrape rows skipped",
			zap.String("feed", feed.Name),
			zap.Int("skipped", skipped),
		)
	}
	return out, nil
}

// decodeRow maps one loosely-shaped feed row onto a raw job. Rows without a
// resolvable title, company, and URL are dropped.
func decodeRow(rawRow map[string]any, source string) (jobs.RawJob, bool) {
	var row scrapedRow
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &row,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return jobs.RawJob{}, false
	}
	if err := dec.Decode(rawRow); err != nil {
		return jobs.RawJob{}, false
	}

	title := firstNonEmpty(row.Title, row.Position, row.JobTitle)
	company := firstNonEmpty(row.Company, row.Employer, row.CompanyName)
	applyURL := firstNonEmpty(row.URL, row.Link, row.ApplyURL)

	if title == "" || company == "" || applyURL == "" {
		return jobs.RawJob{}, false
	}

	requirements := row.Requirements
	if len(requirements) == 0 {
		requirements = row.Qualifications
	}

	return jobs.RawJob{
		Title:        title,
		Company:      company,
		Location:     firstNonEmpty(row.Location, row.City),
		Description:  firstNonEmpty(row.Description, row.Summary),
		Requirements: requirements,
		ApplyURL:     applyURL,
		SalaryRange:  firstNonEmpty(row.Salary, row.SalaryRange),
		PostedDate:   firstNonEmpty(row.Posted, row.PostedDate, row.Date),
		Source:       source,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
