package cmd

import (
	"log"

	"github.com/spigell/jobscout/internal/discovery"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobscout"
)

type Config struct {
	Candidate   *CandidateConfig   `mapstructure:"candidate"`
	Preferences *PreferencesConfig `mapstructure:"preferences"`
	Sources     *SourcesConfig     `mapstructure:"sources"`
	AI          *AIConfig          `mapstructure:"ai"`
	StorePath   string             `mapstructure:"store-path"`
}

type CandidateConfig struct {
	// ResumeFile points to a parsed resume profile in JSON form.
	ResumeFile          string   `mapstructure:"resume-file"`
	TargetRole          string   `mapstructure:"target-role"`
	Skills              []string `mapstructure:"skills"`
	ExperienceYears     int      `mapstructure:"experience-years"`
	PreferredIndustries []string `mapstructure:"preferred-industries"`
}

type PreferencesConfig struct {
	Location   string `mapstructure:"location"`
	RemoteOnly bool   `mapstructure:"remote-only"`
	HybridOK   bool   `mapstructure:"hybrid-ok"`
	SalaryMin  int    `mapstructure:"salary-min"`
	SalaryMax  int    `mapstructure:"salary-max"`
}

type SourcesConfig struct {
	SerpAPI *SerpAPIConfig `mapstructure:"serpapi"`
	ATS     *ATSConfig     `mapstructure:"ats"`
	Scraper *ScraperConfig `mapstructure:"scraper"`
}

type SerpAPIConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type ATSConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Boards  []discovery.Board `mapstructure:"boards"`
}

type ScraperConfig struct {
	Enabled bool             `mapstructure:"enabled"`
	Feeds   []discovery.Feed `mapstructure:"feeds"`
}

type AIConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Provider   string        `mapstructure:"provider"`
	Gemini     *GeminiConfig `mapstructure:"gemini"`
	Embeddings bool          `mapstructure:"embeddings"`
	EnrichTopN int           `mapstructure:"enrich-top-n"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobscout is a cli that discovers, deduplicates, and ranks job postings for a candidate",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("sources.serpapi.api-key-file", "SERPAPI_KEY_FILE"); err != nil {
		log.Fatalf("binding SERPAPI_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the search command. If there is no config, we can skip initialization.
	if searchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
