package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/normalize"
	"go.uber.org/zap"
)

const (
	serpAPIDefaultBaseURL = "https://serpapi.com"
	serpAPITimeout        = 30 * time.Second
	serpAPIRecencyDays    = 30
	serpAPIMaxQueries     = 5
	userAgent             = "jobscout/1.0"
)

// countryContexts maps location markers to the Google country code the
// search should run under. First match wins; unknown locations fall back
// to "us".
var countryContexts = []struct {
	marker string
	code   string
}{
	{"india", "in"}, {"mumbai", "in"}, {"bangalore", "in"}, {"bengaluru", "in"},
	{"hyderabad", "in"}, {"pune", "in"}, {"delhi", "in"}, {"chennai", "in"},
	{"gurgaon", "in"}, {"gurugram", "in"}, {"noida", "in"}, {"kolkata", "in"},
	{"united states", "us"}, {"usa", "us"},
	{"united kingdom", "gb"}, {"london", "gb"}, {"uk", "gb"},
	{"canada", "ca"}, {"toronto", "ca"},
	{"germany", "de"}, {"berlin", "de"},
	{"australia", "au"}, {"sydney", "au"},
	{"singapore", "sg"},
}

// SerpAPI discovers postings through the Google Jobs engine of serpapi.com.
type SerpAPI struct {
	apiKey   string
	baseURL  string
	location string
	client   *http.Client
	limiter  *hostLimiter
	logger   *zap.Logger
}

func NewSerpAPI(apiKey, location string, logger *zap.Logger) *SerpAPI {
	return &SerpAPI{
		apiKey:   apiKey,
		baseURL:  serpAPIDefaultBaseURL,
		location: location,
		client:   &http.Client{Timeout: 20 * time.Second},
		limiter:  newHostLimiter(2, 1),
		logger:   logger,
	}
}

// SetBaseURL points the source at a different endpoint. Used by tests.
func (s *SerpAPI) SetBaseURL(base string) { s.baseURL = strings.TrimRight(base, "/") }

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Timeout() time.Duration { return serpAPITimeout }

func (s *SerpAPI) Discover(ctx context.Context, queries []string) ([]jobs.RawJob, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("serpapi api key is not configured")
	}

	gl := countryContext(s.location)

	// Each query costs one paid API call.
	if len(queries) > serpAPIMaxQueries {
		queries = queries[:serpAPIMaxQueries]
	}

	var out []jobs.RawJob
	for _, query := range queries {
		found, err := s.search(ctx, query, gl)
		if err != nil {
			// One bad query must not sink the rest of the plan.
			s.logger.Warn("serpapi query failed", zap.String("query", query), zap.Error(err))
			continue
		}
		out = append(out, found...)
	}

	return out, nil
}

type serpJob struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	JobID              string `json:"job_id"`
	DetectedExtensions struct {
		PostedAt string `json:"posted_at"`
		Salary   string `json:"salary"`
	} `json:"detected_extensions"`
	ApplyOptions []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"apply_options"`
	RelatedLinks []struct {
		Link string `json:"link"`
	} `json:"related_links"`
}

func (s *SerpAPI) search(ctx context.Context, query, gl string) ([]jobs.RawJob, error) {
	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", query)
	params.Set("gl", gl)
	params.Set("api_key", s.apiKey)

	endpoint := s.baseURL + "/search?" + params.Encode()

	if err := s.limiter.waitURL(ctx, endpoint); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("serpapi status %d", resp.StatusCode)
	}

	var payload struct {
		JobsResults []serpJob `json:"jobs_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("serpapi decode: %w", err)
	}

	out := make([]jobs.RawJob, 0, len(payload.JobsResults))
	for _, sj := range payload.JobsResults {
		if !normalize.IsRecent(sj.DetectedExtensions.PostedAt, serpAPIRecencyDays) {
			continue
		}

		out = append(out, jobs.RawJob{
			Title:       sj.Title,
			Company:     sj.CompanyName,
			Location:    sj.Location,
			Description: sj.Description,
			ApplyURL:    applyURL(sj),
			SalaryRange: sj.DetectedExtensions.Salary,
			PostedDate:  sj.DetectedExtensions.PostedAt,
			Source:      s.Name(),
		})
	}
	return out, nil
}

// applyURL picks the most direct application link available: an explicit
// apply option first, then a related link, then a reconstructable Google
// Jobs permalink.
func applyURL(sj serpJob) string {
	for _, opt := range sj.ApplyOptions {
		if opt.Link != "" {
			return opt.Link
		}
	}
	for _, rl := range sj.RelatedLinks {
		if rl.Link != "" {
			return rl.Link
		}
	}
	if sj.JobID != "" {
		return "https://www.google.com/search?ibp=htl;jobs#htidocid=" + url.QueryEscape(sj.JobID)
	}
	return ""
}

func countryContext(location string) string {
	loc := strings.ToLower(location)
	for _, cc := range countryContexts {
		if strings.Contains(loc, cc.marker) {
			return cc.code
		}
	}
	return "us"
}
