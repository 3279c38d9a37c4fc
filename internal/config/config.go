package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Completion CompletionConfig `yaml:"completion" mapstructure:"completion"`
	MarketData MarketDataConfig `yaml:"marketdata" mapstructure:"marketdata"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// CompletionConfig selects and configures the chat-completion provider.
type CompletionConfig struct {
	Provider    string          `yaml:"provider" mapstructure:"provider"`
	MaxTokens   int             `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int             `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DeepSeek    DeepSeekConfig  `yaml:"deepseek" mapstructure:"deepseek"`
	Anthropic   AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
}

// DeepSeekConfig holds DeepSeek API settings.
type DeepSeekConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// MarketDataConfig holds market data API settings.
type MarketDataConfig struct {
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// StoreConfig configures the run-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OutputConfig configures generated artifact output.
type OutputConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`
	MaxCorpusChars int    `yaml:"max_corpus_chars" mapstructure:"max_corpus_chars"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr             string `yaml:"addr" mapstructure:"addr"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	MaxUploadBytes   int64  `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LoadDotEnv populates the process environment from a .env file in the
// working directory. A missing file is not an error.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	if err := gotenv.Load(); err != nil {
		return eris.Wrap(err, "config: load .env")
	}
	return nil
}

// Load reads configuration from file and environment. An empty file path
// falls back to config.yaml in the working directory.
func Load(file string) (*Config, error) {
	v := viper.New()

	// Config file
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("MEMOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("completion.provider", "deepseek")
	v.SetDefault("completion.max_tokens", 8192)
	v.SetDefault("completion.timeout_secs", 120)
	v.SetDefault("completion.deepseek.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("completion.deepseek.model", "deepseek-chat")
	v.SetDefault("completion.deepseek.temperature", 0.3)
	v.SetDefault("completion.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("completion.anthropic.temperature", 0.3)
	v.SetDefault("marketdata.base_url", "https://financialmodelingprep.com")
	v.SetDefault("marketdata.requests_per_second", 4.0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "memogen.db")
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.max_corpus_chars", 7000)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout_secs", 30)
	v.SetDefault("server.write_timeout_secs", 300)
	v.SetDefault("server.max_upload_bytes", 25<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file. The conventional config.yaml is optional; a path
	// given explicitly must exist.
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound || file != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given mode.
// Mode is one of "generate", "infographic", or "serve".
func (c *Config) Validate(mode string) error {
	switch mode {
	case "generate", "infographic", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	var problems []string

	switch c.Completion.Provider {
	case "deepseek":
		if c.Completion.DeepSeek.APIKey == "" {
			problems = append(problems, "completion.deepseek.api_key is required")
		}
	case "anthropic":
		if c.Completion.Anthropic.APIKey == "" {
			problems = append(problems, "completion.anthropic.api_key is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("completion.provider %q is not supported (deepseek or anthropic)", c.Completion.Provider))
	}
	if c.Completion.MaxTokens <= 0 {
		problems = append(problems, "completion.max_tokens must be > 0")
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not supported (sqlite or postgres)", c.Store.Driver))
	}

	if c.Output.MaxCorpusChars <= 0 {
		problems = append(problems, "output.max_corpus_chars must be > 0")
	}

	if mode == "serve" {
		if c.Server.Addr == "" {
			problems = append(problems, "server.addr is required")
		}
		if c.Server.MaxUploadBytes <= 0 {
			problems = append(problems, "server.max_upload_bytes must be > 0")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// RequireMarketData checks that the market data API key is set. Callers
// invoke it before any operation that resolves live comparables.
func (c *Config) RequireMarketData() error {
	if c.MarketData.APIKey == "" {
		return eris.New("config: marketdata.api_key is required for resolved valuation")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
