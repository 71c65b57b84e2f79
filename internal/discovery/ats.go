package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/normalize"
	"go.uber.org/zap"
)

const (
	atsPerRequestTimeout = 15 * time.Second
	atsRecencyDays       = 60
	maxCompaniesPerRun   = 10
	maxPostingsPerBoard  = 5
)

// Board identifies one public ATS job board.
type Board struct {
	Dialect string `mapstructure:"dialect"`
	Slug    string `mapstructure:"slug"`
	Company string `mapstructure:"company"`
}

// DefaultBoards is the catalog used when no boards are configured. These
// companies keep their ATS feeds public.
var DefaultBoards = []Board{
	{Dialect: "greenhouse", Slug: "airbnb", Company: "Airbnb"},
	{Dialect: "greenhouse", Slug: "stripe", Company: "Stripe"},
	{Dialect: "greenhouse", Slug: "twitch", Company: "Twitch"},
	{Dialect: "greenhouse", Slug: "lyft", Company: "Lyft"},
	{Dialect: "greenhouse", Slug: "netflix", Company: "Netflix"},
	{Dialect: "greenhouse", Slug: "coinbase", Company: "Coinbase"},
	{Dialect: "greenhouse", Slug: "databricks", Company: "Databricks"},
	{Dialect: "greenhouse", Slug: "notion", Company: "Notion"},
	{Dialect: "greenhouse", Slug: "plaid", Company: "Plaid"},
	{Dialect: "greenhouse", Slug: "airtable", Company: "Airtable"},
	{Dialect: "lever", Slug: "figma", Company: "Figma"},
	{Dialect: "lever", Slug: "netlify", Company: "Netlify"},
	{Dialect: "lever", Slug: "vercel", Company: "Vercel"},
	{Dialect: "lever", Slug: "linear", Company: "Linear"},
}

var indianLocationMarkers = []string{
	"india", "mumbai", "bombay", "delhi", "new delhi", "bengaluru",
	"bangalore", "hyderabad", "chennai", "pune", "kolkata", "calcutta",
	"ahmedabad", "gurgaon", "gurugram", "noida",
}

var remoteLocationMarkers = []string{"remote", "work from home", "wfh"}

// ATS discovers postings straight from public applicant tracking system
// feeds, bypassing search engines entirely.
type ATS struct {
	boards            []Board
	preferredLocation string
	remoteOnly        bool
	greenhouseBase    string
	leverBase         string
	client            *http.Client
	limiter           *hostLimiter
	logger            *zap.Logger
}

func NewATS(boards []Board, preferredLocation string, remoteOnly bool, logger *zap.Logger) *ATS {
	if len(boards) == 0 {
		boards = DefaultBoards
	}
	return &ATS{
		boards:            boards,
		preferredLocation: preferredLocation,
		remoteOnly:        remoteOnly,
		greenhouseBase:    "https://boards-api.greenhouse.io",
		leverBase:         "https://api.lever.co",
		client:            &http.Client{Timeout: atsPerRequestTimeout},
		limiter:           newHostLimiter(4, 2),
		logger:            logger,
	}
}

// SetBaseURLs overrides the upstream endpoints. Used by tests.
func (a *ATS) SetBaseURLs(greenhouse, lever string) {
	a.greenhouseBase = strings.TrimRight(greenhouse, "/")
	a.leverBase = strings.TrimRight(lever, "/")
}

func (a *ATS) Name() string { return "ats" }

func (a *ATS) Timeout() time.Duration {
	return atsPerRequestTimeout * time.Duration(maxCompaniesPerRun)
}

// Discover walks the board catalog; the query plan does not apply to ATS
// feeds. Board failures only cost that one board.
func (a *ATS) Discover(ctx context.Context, _ []string) ([]jobs.RawJob, error) {
	boards := a.boards
	if len(boards) > maxCompaniesPerRun {
		boards = boards[:maxCompaniesPerRun]
	}

	var out []jobs.RawJob
	for _, board := range boards {
		bctx, cancel := context.WithTimeout(ctx, atsPerRequestTimeout)
		found, err := a.fetchBoard(bctx, board)
		cancel()

		if err != nil {
			a.logger.Warn("ats board failed",
				zap.String("dialect", board.Dialect),
				zap.String("slug", board.Slug),
				zap.Error(err),
			)
			continue
		}
		out = append(out, found...)
	}
	return out, nil
}

func (a *ATS) fetchBoard(ctx context.Context, board Board) ([]jobs.RawJob, error) {
	switch board.Dialect {
	case "greenhouse":
		return a.fetchGreenhouse(ctx, board)
	case "lever":
		return a.fetchLever(ctx, board)
	default:
		return nil, fmt.Errorf("unknown ats dialect %q", board.Dialect)
	}
}

type greenhouseJob struct {
	Title    string `json:"title"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"`
}

func (a *ATS) fetchGreenhouse(ctx context.Context, board Board) ([]jobs.RawJob, error) {
	endpoint := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", a.greenhouseBase, board.Slug)

	var payload struct {
		Jobs []greenhouseJob `json:"jobs"`
	}
	if err := a.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	out := make([]jobs.RawJob, 0, maxPostingsPerBoard)
	for _, gj := range payload.Jobs {
		if len(out) == maxPostingsPerBoard {
			break
		}
		if !a.keep(gj.Location.Name, postedFromTimestamp(gj.UpdatedAt)) {
			continue
		}
		out = append(out, jobs.RawJob{
			Title:       gj.Title,
			Company:     board.Company,
			Location:    gj.Location.Name,
			Description: gj.Content,
			ApplyURL:    gj.AbsoluteURL,
			PostedDate:  postedFromTimestamp(gj.UpdatedAt),
			Source:      "greenhouse_" + board.Slug,
		})
	}
	return out, nil
}

type leverJob struct {
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"`
	Categories struct {
		Location string `json:"location"`
	} `json:"categories"`
	DescriptionPlain string `json:"descriptionPlain"`
}

func (a *ATS) fetchLever(ctx context.Context, board Board) ([]jobs.RawJob, error) {
	endpoint := fmt.Sprintf("%s/v0/postings/%s?mode=json", a.leverBase, board.Slug)

	var postings []leverJob
	if err := a.getJSON(ctx, endpoint, &postings); err != nil {
		return nil, err
	}

	out := make([]jobs.RawJob, 0, maxPostingsPerBoard)
	for _, lj := range postings {
		if len(out) == maxPostingsPerBoard {
			break
		}
		posted := postedFromEpochMillis(lj.CreatedAt)
		if !a.keep(lj.Categories.Location, posted) {
			continue
		}
		out = append(out, jobs.RawJob{
			Title:       lj.Text,
			Company:     board.Company,
			Location:    lj.Categories.Location,
			Description: lj.DescriptionPlain,
			ApplyURL:    lj.HostedURL,
			PostedDate:  posted,
			Source:      "lever_" + board.Slug,
		})
	}
	return out, nil
}

func (a *ATS) getJSON(ctx context.Context, endpoint string, target any) error {
	if err := a.limiter.waitURL(ctx, endpoint); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("ats get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ats status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("ats decode: %w", err)
	}
	return nil
}

// keep applies the location and recency gates for one posting.
func (a *ATS) keep(location, posted string) bool {
	if !matchesLocation(location, a.preferredLocation, a.remoteOnly) {
		return false
	}
	return normalize.IsRecent(posted, atsRecencyDays)
}

// matchesLocation keeps remote postings unconditionally. Under remoteOnly
// nothing else passes; otherwise postings must line up with the preferred
// location when one is set.
func matchesLocation(jobLocation, preferred string, remoteOnly bool) bool {
	loc := strings.ToLower(jobLocation)
	for _, marker := range remoteLocationMarkers {
		if strings.Contains(loc, marker) {
			return true
		}
	}

	if remoteOnly {
		return false
	}

	preferred = strings.ToLower(strings.TrimSpace(preferred))
	if preferred == "" {
		return true
	}

	if strings.Contains(preferred, "india") {
		for _, marker := range indianLocationMarkers {
			if strings.Contains(loc, marker) {
				return true
			}
		}
		return false
	}

	if loc == "" {
		return false
	}
	return strings.Contains(loc, preferred) || strings.Contains(preferred, loc)
}

func postedFromTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ""
	}
	days := int(time.Since(t).Hours() / 24)
	if days <= 0 {
		return "today"
	}
	return fmt.Sprintf("%d days ago", days)
}

func postedFromEpochMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return postedFromTimestamp(time.UnixMilli(ms).UTC().Format(time.RFC3339))
}
