package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/jobscout/internal/ai"
	"github.com/spigell/jobscout/internal/ai/gemini"
	"github.com/spigell/jobscout/internal/discovery"
	"github.com/spigell/jobscout/internal/jobs"
	"github.com/spigell/jobscout/internal/logger"
	"github.com/spigell/jobscout/internal/normalize"
	"github.com/spigell/jobscout/internal/profile"
	"github.com/spigell/jobscout/internal/query"
	"github.com/spigell/jobscout/internal/scoring"
	"github.com/spigell/jobscout/internal/search"
	"github.com/spigell/jobscout/internal/secrets"
	"github.com/spigell/jobscout/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit            = "Exit"
	PromptReportByCompany = "Report by company"
	PromptResultsToFile   = "Dump results to file"
	PromptTopMatches      = "Show top matches"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptTopMatches, PromptReportByCompany, PromptResultsToFile, PromptExit},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run the full discovery and matching pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("auto-approve", "y", false, "print the summary and exit without the interactive menu")
	searchCmd.Flags().IntP("top", "t", 10, "how many top matches to show")
}

// runSearch is the main command for the cli.
func runSearch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	resume, manual, err := candidateInputs(config.Candidate)
	if err != nil {
		logger.Fatal("loading candidate profile", zap.Error(err))
	}

	prefs := searchPreferences(config.Preferences)

	components, err := aiComponents(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("running without AI assistance", zap.Error(err))
	}

	sources, err := buildSources(config.Sources, prefs, logger)
	if err != nil {
		logger.Fatal("configuring discovery sources", zap.Error(err))
	}
	if len(sources) == 0 {
		logger.Fatal("no discovery sources enabled",
			zap.String("hint", "enable at least one source under 'sources' in the configuration file"),
		)
	}

	var persister search.Persister
	if config.StorePath != "" {
		st, err := store.Open(config.StorePath)
		if err != nil {
			logger.Fatal("opening the result store", zap.Error(err))
		}
		defer st.Close()
		persister = st
	}

	runner := search.NewRunner(search.Options{
		Expander:    components.expander,
		Synthesizer: query.New(components.queryWriter, logger),
		Discoverer:  discovery.NewRunner(logger, sources...),
		Normalizer:  normalize.New(logger),
		Scorer:      scoring.New(components.embedder, logger),
		Analyzer:    components.analyzer,
		Advisor:     components.advisor,
		Persister:   persister,
		EnrichTopN:  enrichTopN(config.AI),
	}, logger)

	result, err := runner.Run(ctx, resume, manual, prefs)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	logger.Info("search finished",
		zap.String("search_id", result.ID),
		zap.Int("raw_jobs", result.TotalBefore),
		zap.Int("duplicates_removed", result.DuplicatesRemoved),
		zap.Int("jobs_ranked", result.TotalAfter),
	)

	if result.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs matched"))
		return
	}

	topCount := 10
	if flag := cmd.Flag("top"); flag != nil {
		fmt.Sscanf(flag.Value.String(), "%d", &topCount)
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		printTopMatches(logger, result, topCount)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, result, topCount); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, result *jobs.SearchResult, topCount int) error {
	switch action {
	case PromptTopMatches:
		printTopMatches(logger, result, topCount)
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(result.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", result.Len()))
		return nil
	case PromptResultsToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printTopMatches(logger *zap.Logger, result *jobs.SearchResult, n int) {
	for i, sj := range result.Top(n) {
		fields := []zap.Field{
			zap.Int("rank", i+1),
			zap.Float64("score", sj.MatchScore),
			zap.String("company", sj.Job.Company),
			zap.String("location", sj.Job.Location),
			zap.String("apply_url", sj.Job.ApplyURL),
		}
		if len(sj.MissingSkills) > 0 {
			fields = append(fields, zap.Strings("missing_skills", sj.MissingSkills))
		}
		logger.Info(sj.Job.Title, fields...)
	}
}

func candidateInputs(cfg *CandidateConfig) (*profile.ResumeProfile, *profile.ManualInput, error) {
	if cfg == nil {
		return nil, nil, profile.ErrNoInput
	}

	var resume *profile.ResumeProfile
	if cfg.ResumeFile != "" {
		loaded, err := profile.LoadResume(cfg.ResumeFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load resume file: %w", err)
		}
		resume = loaded
	}

	manual := &profile.ManualInput{
		TargetRole:          cfg.TargetRole,
		Skills:              cfg.Skills,
		ExperienceYears:     cfg.ExperienceYears,
		PreferredIndustries: cfg.PreferredIndustries,
	}

	return resume, manual, nil
}

func searchPreferences(cfg *PreferencesConfig) *profile.SearchPreferences {
	if cfg == nil {
		return &profile.SearchPreferences{}
	}
	return &profile.SearchPreferences{
		Location:   cfg.Location,
		RemoteOnly: cfg.RemoteOnly,
		HybridOK:   cfg.HybridOK,
		SalaryMin:  cfg.SalaryMin,
		SalaryMax:  cfg.SalaryMax,
	}
}

// components bundles the optional AI collaborators. Any or all may be nil.
type components struct {
	expander    ai.RoleExpander
	queryWriter ai.QueryGenerator
	analyzer    ai.SkillAnalyzer
	advisor     ai.InsightsGenerator
	embedder    ai.Embedder
}

func aiComponents(ctx context.Context, cfg *AIConfig, log *zap.Logger) (components, error) {
	if cfg == nil || !cfg.Enabled {
		return components{}, errors.New("ai is not enabled in the configuration")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return components{}, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return components{}, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return components{}, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	client, err := gemini.NewClient(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel)
	if err != nil {
		return components{}, err
	}

	aiLogger := logger.WithCommonFields(log, "gemini", client.Model())

	out := components{
		expander:    gemini.NewExpander(client, aiLogger),
		queryWriter: gemini.NewQueryWriter(client, aiLogger),
		analyzer:    gemini.NewAnalyzer(client, aiLogger),
		advisor:     gemini.NewAdvisor(client, aiLogger),
	}
	if cfg.Embeddings {
		out.embedder = client
	}
	return out, nil
}

func buildSources(cfg *SourcesConfig, prefs *profile.SearchPreferences, log *zap.Logger) ([]discovery.Source, error) {
	if cfg == nil {
		return nil, nil
	}

	var sources []discovery.Source

	if cfg.SerpAPI != nil && cfg.SerpAPI.Enabled {
		apiKey, err := secrets.Load(secrets.Source{
			Name: "serpapi api key",
			File: cfg.SerpAPI.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set sources.serpapi.api-key-file or SERPAPI_KEY_FILE)", err)
		}
		sources = append(sources, discovery.NewSerpAPI(apiKey, prefs.Location, log))
	}

	if cfg.ATS != nil && cfg.ATS.Enabled {
		sources = append(sources, discovery.NewATS(cfg.ATS.Boards, prefs.Location, prefs.RemoteOnly, log))
	}

	if cfg.Scraper != nil && cfg.Scraper.Enabled {
		if len(cfg.Scraper.Feeds) == 0 {
			log.Warn("scraper enabled without feeds; skipping the source")
		} else {
			sources = append(sources, discovery.NewScraper(cfg.Scraper.Feeds, log))
		}
	}

	return sources, nil
}

func enrichTopN(cfg *AIConfig) int {
	if cfg == nil {
		return 0
	}
	return cfg.EnrichTopN
}
