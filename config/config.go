package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the news agent.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug             bool          `mapstructure:"debug"`
	LogLevel          string        `mapstructure:"log_level"`
	MaxProcessingTime time.Duration `mapstructure:"max_processing_time"` // cap for a full run
	DefaultQuery      string        `mapstructure:"default_query"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// SourcesConfig lists the RSS/Atom feeds the agent pulls from.
type SourcesConfig struct {
	FeedURLs     []string `mapstructure:"feed_urls"`
	MaxPerSource int      `mapstructure:"max_per_source"` // entries kept per feed
}

func (s SourcesConfig) Validate() error {
	if len(s.FeedURLs) == 0 {
		return fmt.Errorf("sources.feed_urls must not be empty")
	}
	if s.MaxPerSource <= 0 {
		return fmt.Errorf("sources.max_per_source must be > 0")
	}
	return nil
}

// FetchConfig controls the outbound HTTP client used for feeds and pages.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
	Backoff time.Duration `mapstructure:"backoff"`
}

// Normalize applies defaults for unset fetch values.
func (f FetchConfig) Normalize() FetchConfig {
	if f.Timeout <= 0 {
		f.Timeout = 10 * time.Second
	}
	if f.Retries < 0 {
		f.Retries = 0
	}
	if f.Backoff <= 0 {
		f.Backoff = 300 * time.Millisecond
	}
	return f
}

// PipelineConfig selects the processing profile and pacing behaviour.
type PipelineConfig struct {
	Profile      string        `mapstructure:"profile"`       // "desktop" or "mobile"
	StepPause    time.Duration `mapstructure:"step_pause"`    // pause between pipeline steps
	ExtractDelay time.Duration `mapstructure:"extract_delay"` // courtesy delay between page fetches
}

func (p PipelineConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(p.Profile)) {
	case "", ProfileDesktop, ProfileMobile:
		return nil
	}
	return fmt.Errorf("pipeline.profile must be %q or %q", ProfileDesktop, ProfileMobile)
}

const (
	ProfileDesktop = "desktop"
	ProfileMobile  = "mobile"
)

// ProfileConfig captures the knobs that differ between the desktop and
// mobile renditions of the pipeline.
type ProfileConfig struct {
	Name               string
	UserAgent          string
	ExtractLimit       int  // articles whose pages are fetched
	ContentMaxChars    int  // stored content cap
	SummarySentences   int  // leading sentences kept by the summarizer
	SummaryMaxChars    int  // summary cap before the ellipsis
	ReportTopN         int  // articles listed in the report
	ReportSummaryChars int  // per-entry summary cap in the report
	TopicInsights      bool // include most-common-topics in the report
}

// DesktopProfile returns the full-fat pipeline profile.
func DesktopProfile() ProfileConfig {
	return ProfileConfig{
		Name:               ProfileDesktop,
		UserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		ExtractLimit:       10,
		ContentMaxChars:    2000,
		SummarySentences:   3,
		SummaryMaxChars:    200,
		ReportTopN:         5,
		ReportSummaryChars: 200,
		TopicInsights:      true,
	}
}

// MobileProfile returns the trimmed profile used on constrained devices.
func MobileProfile() ProfileConfig {
	return ProfileConfig{
		Name:               ProfileMobile,
		UserAgent:          "NewsAgent-Mobile/1.0",
		ExtractLimit:       5,
		ContentMaxChars:    1500,
		SummarySentences:   2,
		SummaryMaxChars:    150,
		ReportTopN:         3,
		ReportSummaryChars: 120,
		TopicInsights:      false,
	}
}

// ResolveProfile maps the configured profile name to its knobs.
func (p PipelineConfig) ResolveProfile() ProfileConfig {
	if strings.ToLower(strings.TrimSpace(p.Profile)) == ProfileMobile {
		return MobileProfile()
	}
	return DesktopProfile()
}

// TelemetryConfig contains telemetry and monitoring settings.
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("json")   // REQUIRED if the config file does not have the extension in the name
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.max_processing_time", "15m")
	viper.SetDefault("general.default_query", "Get me the latest news and summarize it")
	viper.SetDefault("server.address", ":10001")
	viper.SetDefault("sources.feed_urls", []string{
		"http://feeds.bbci.co.uk/news/rss.xml",
		"https://rss.cnn.com/rss/edition.rss",
		"https://feeds.reuters.com/reuters/topNews",
		"https://feeds.npr.org/1001/rss.xml",
	})
	viper.SetDefault("sources.max_per_source", 5)
	viper.SetDefault("fetch.timeout", "10s")
	viper.SetDefault("fetch.retries", 1)
	viper.SetDefault("fetch.backoff", "300ms")
	viper.SetDefault("pipeline.profile", ProfileDesktop)
	viper.SetDefault("pipeline.step_pause", "500ms")
	viper.SetDefault("pipeline.extract_delay", "1s")
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("NEWSAGENT")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (NEWSAGENT_*)

	// A missing config file is fine; defaults plus env cover every key.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.Fetch = config.Fetch.Normalize()

	if err := config.Sources.Validate(); err != nil {
		panic(err)
	}
	if err := config.Pipeline.Validate(); err != nil {
		panic(err)
	}
	return &config
}
