package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	Port   string `long:"port" env:"PORT" default:"8000" description:"HTTP server port"`
	DBPath string `long:"db-path" env:"DB_PATH" default:"./technews.db" description:"Path to the SQLite database file"`

	FeedsDir          string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing feed source files"`
	ArticleLimit      int    `long:"article-limit" env:"ARTICLE_LIMIT" default:"5" description:"Per-feed article cap per pass"`
	PacingDelay       int    `long:"pacing-delay" env:"PACING_DELAY" default:"1" description:"Delay in seconds between processed entries"`
	FetchTimeout      int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Timeout in seconds for each content fetch"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"1800" description:"Interval in seconds between ingestion passes"`

	OllamaURL  string `long:"ollama-url" env:"OLLAMA_API_URL" description:"Base URL of the Ollama API (empty disables enrichment)"`
	LLMModel   string `long:"llm-model" env:"LLM_MODEL" default:"llama3.2:latest" description:"Model name for classification and chat"`
	LLMTimeout int    `long:"llm-timeout" env:"LLM_TIMEOUT" default:"30" description:"Timeout in seconds for each classification call"`

	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"TechNews Aggregator/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		DBPath:            raw.DBPath,
		FeedsDir:          raw.FeedsDir,
		ArticleLimit:      raw.ArticleLimit,
		PacingDelay:       raw.PacingDelay,
		FetchTimeout:      raw.FetchTimeout,
		SchedulerInterval: raw.SchedulerInterval,
		OllamaURL:         raw.OllamaURL,
		LLMModel:          raw.LLMModel,
		LLMTimeout:        raw.LLMTimeout,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
