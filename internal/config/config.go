// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration. Every recognized option is
// enumerated here with a default; it is unmarshaled and validated once at
// startup rather than merged dynamically at call sites.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Network  NetworkConfig  `mapstructure:"network" yaml:"network"`
	Run      RunConfig      `mapstructure:"run" yaml:"run"`
	Stores   StoresConfig   `mapstructure:"stores" yaml:"stores"`
	Enhancer EnhancerConfig `mapstructure:"enhancer" yaml:"enhancer"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for console log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the headless browser process.
type BrowserConfig struct {
	Headless        bool     `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors bool     `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	Args            []string `mapstructure:"args" yaml:"args"`
}

// NetworkConfig tunes page-level timing.
type NetworkConfig struct {
	// NavigationTimeout is the single per-navigation bound; there is no
	// timeout escalation beyond it.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// RunConfig covers the pacing and recovery behavior of one profiling or
// submission pass.
type RunConfig struct {
	// InterDirectoryDelay throttles the request rate between directories.
	InterDirectoryDelay time.Duration `mapstructure:"inter_directory_delay" yaml:"inter_directory_delay"`
	// SettleDelay is the short pause between in-page steps.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// CaptchaWait is the fixed, non-cancellable grace period for a human to
	// solve a challenge. No polling or retry is attempted.
	CaptchaWait time.Duration `mapstructure:"captcha_wait" yaml:"captcha_wait"`
	// SubmitGrace is how long to wait for navigation after activating the
	// submit control before assuming an asynchronous submission.
	SubmitGrace              time.Duration `mapstructure:"submit_grace" yaml:"submit_grace"`
	CaptureScreenshotOnError bool          `mapstructure:"capture_screenshot_on_error" yaml:"capture_screenshot_on_error"`
	ScreenshotDir            string        `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	// DirectoryStatus filters which records of the directory list are
	// processed.
	DirectoryStatus string `mapstructure:"directory_status" yaml:"directory_status"`
}

// StoresConfig names the one-file-per-concern persistence paths.
type StoresConfig struct {
	DirectoryList string `mapstructure:"directory_list" yaml:"directory_list"`
	SiteProfiles  string `mapstructure:"site_profiles" yaml:"site_profiles"`
	Results       string `mapstructure:"results" yaml:"results"`
	FieldStats    string `mapstructure:"field_stats" yaml:"field_stats"`
}

// EnhancerConfig configures the optional content-generation collaborator.
type EnhancerConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Model   string        `mapstructure:"model" yaml:"model"`
	APIKey  string        `mapstructure:"api_key" yaml:"-"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults initializes default values for every recognized option.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "listforge")
	v.SetDefault("logger.log_file", "listforge.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)

	// -- Network --
	v.SetDefault("network.navigation_timeout", "45s")
	v.SetDefault("network.post_load_wait", "2s")

	// -- Run --
	v.SetDefault("run.inter_directory_delay", "5s")
	v.SetDefault("run.settle_delay", "1s")
	v.SetDefault("run.captcha_wait", "60s")
	v.SetDefault("run.submit_grace", "5s")
	v.SetDefault("run.capture_screenshot_on_error", false)
	v.SetDefault("run.screenshot_dir", "screenshots")
	v.SetDefault("run.directory_status", "pending")

	// -- Stores --
	v.SetDefault("stores.directory_list", "directories.csv")
	v.SetDefault("stores.site_profiles", "site_profiles.json")
	v.SetDefault("stores.results", "submission_results.json")
	v.SetDefault("stores.field_stats", "field_stats.json")

	// -- Enhancer --
	v.SetDefault("enhancer.enabled", false)
	v.SetDefault("enhancer.model", "gemini-2.5-flash")
	v.SetDefault("enhancer.timeout", "30s")
}

// NewDefaultConfig returns a Config populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewFromViper unmarshals and validates a configuration from a viper object.
func NewFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Sensitive values come from the environment, never the config file.
	v.BindEnv("enhancer.api_key", "LISTFORGE_GEMINI_API_KEY")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Enhancer.Enabled && cfg.Enhancer.APIKey == "" {
		cfg.Enhancer.APIKey = os.Getenv("LISTFORGE_GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Network.NavigationTimeout <= 0 {
		return fmt.Errorf("network.navigation_timeout must be a positive duration")
	}
	if c.Run.CaptchaWait <= 0 {
		return fmt.Errorf("run.captcha_wait must be a positive duration")
	}
	if c.Run.InterDirectoryDelay < 0 {
		return fmt.Errorf("run.inter_directory_delay must not be negative")
	}
	if c.Stores.SiteProfiles == "" || c.Stores.Results == "" || c.Stores.FieldStats == "" {
		return fmt.Errorf("stores paths must not be empty")
	}
	if c.Enhancer.Enabled && c.Enhancer.APIKey == "" {
		return fmt.Errorf("enhancer enabled but no API key found. Set LISTFORGE_GEMINI_API_KEY")
	}
	return nil
}
