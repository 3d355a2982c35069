package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the recommendation service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Report    ReportConfig    `mapstructure:"report"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	Listen         string        `mapstructure:"listen"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// LLMConfig contains the completion provider configuration. Models is the
// priority-ordered fallback chain tried by the orchestrator; the model list
// is external configuration, never hard-coded.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openrouter, openai, etc.
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Models      []string      `mapstructure:"models"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains web search settings
type SearchConfig struct {
	Provider     string        `mapstructure:"provider"` // serper or brave
	SerperAPIKey string        `mapstructure:"serper_api_key"`
	BraveAPIKey  string        `mapstructure:"brave_api_key"`
	MaxResults   int           `mapstructure:"max_results"`
	Retries      int           `mapstructure:"retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ReportConfig contains PDF report settings
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// APIKeyFor returns the key for the configured search provider.
func (s SearchConfig) APIKeyFor() string {
	switch s.Provider {
	case "brave":
		return s.BraveAPIKey
	default:
		return s.SerperAPIKey
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("cardwise_config")
		viper.SetConfigType("json")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("CARDWISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Config file is optional; defaults plus env are enough to run
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.listen", ":8080")
	viper.SetDefault("general.default_timeout", "60s")

	viper.SetDefault("llm.provider", "openrouter")
	viper.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("llm.models", []string{"openai/gpt-oss-20b:free", "openai/gpt-oss-120b:free"})
	viper.SetDefault("llm.max_tokens", 2000)
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.timeout", "45s")

	viper.SetDefault("search.provider", "serper")
	viper.SetDefault("search.max_results", 8)
	viper.SetDefault("search.retries", 2)
	viper.SetDefault("search.retry_delay", "2s")
	viper.SetDefault("search.timeout", "10s")

	viper.SetDefault("report.output_dir", "./reports")

	viper.SetDefault("telemetry.enabled", true)
}

// overrideFromEnv overrides configuration with environment variables for
// sensitive data. Keys never live in the committed config file.
func overrideFromEnv() {
	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
		viper.Set("llm.api_key", apiKey)
	}
	if apiKey := os.Getenv("SERPER_API_KEY"); apiKey != "" {
		viper.Set("search.serper_api_key", apiKey)
	}
	if apiKey := os.Getenv("BRAVE_SEARCH_KEY"); apiKey != "" {
		viper.Set("search.brave_api_key", apiKey)
	}
}

// validateConfig validates the configuration. A missing completion API key
// is fatal: the recommendation feature cannot run without it.
func validateConfig(config *Config) error {
	if config.LLM.APIKey == "" {
		return fmt.Errorf("completion provider API key not configured (set OPENROUTER_API_KEY or llm.api_key)")
	}
	if len(config.LLM.Models) == 0 {
		return fmt.Errorf("at least one model must be configured in llm.models")
	}
	switch config.Search.Provider {
	case "serper", "brave":
	default:
		return fmt.Errorf("unsupported search provider %q", config.Search.Provider)
	}
	if config.Search.APIKeyFor() == "" {
		return fmt.Errorf("search provider %q has no API key configured", config.Search.Provider)
	}
	return nil
}
