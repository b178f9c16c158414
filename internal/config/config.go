package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/lingoz/internal/llm"
)

// Config holds application configuration loaded from an optional config
// file, a .env file and LINGOZ_* environment variables.
type Config struct {
	Env    string     `mapstructure:"env"` // "production" switches to JSON logs
	DB     DB         `mapstructure:"db"`
	LLM    llm.Config `mapstructure:"llm"`
	Exam   Exam       `mapstructure:"exam"`
	Enrich Enrich     `mapstructure:"enrich"`
	Log    Log        `mapstructure:"log"`
}

// DB selects the vocabulary store backend.
type DB struct {
	Driver          string        `mapstructure:"driver"` // sqlite or postgres
	Path            string        `mapstructure:"path"`   // sqlite file; empty means store.DefaultDBPath
	URL             string        `mapstructure:"url"`    // postgres DSN
	MaxConnections  int           `mapstructure:"max_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type Exam struct {
	DefaultLimit int           `mapstructure:"default_limit"`
	Tick         time.Duration `mapstructure:"tick"`
}

type Enrich struct {
	// Window is how many list positions around the focus are prefetched.
	Window int `mapstructure:"window"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty means stderr
}

// Load reads configuration. path names an explicit config file; when empty
// lingoz.yaml is looked up in the working directory and the user config dir.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lingoz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "lingoz"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix("LINGOZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if !cfg.LLM.HasKey() {
		adoptDiscovered(&cfg.LLM)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("env", "development")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "")
	v.SetDefault("db.url", "")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.max_conn_lifetime", "30m")

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.rate_limit", d.RateLimit)
	v.SetDefault("llm.burst", d.Burst)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetDefault("exam.default_limit", 10)
	v.SetDefault("exam.tick", time.Second)

	v.SetDefault("enrich.window", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// adoptDiscovered fills the provider and key from the vendors' standard
// API key variables, keeping every other configured setting.
func adoptDiscovered(c *llm.Config) {
	found, ok := llm.DiscoverConfig()
	if !ok {
		return
	}
	c.Provider = found.Provider
	switch found.Provider {
	case "gemini":
		c.Gemini.APIKey = found.Gemini.APIKey
	case "openai":
		c.OpenAI.APIKey = found.OpenAI.APIKey
	case "anthropic":
		c.Anthropic.APIKey = found.Anthropic.APIKey
	case "openrouter":
		c.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
}

// Validate checks settings that do not depend on the generator. A missing
// API key is not an error here; commands that need generation call
// LLM.Validate themselves.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite":
	case "postgres":
		if c.DB.URL == "" {
			return fmt.Errorf("db.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}
	if c.Exam.DefaultLimit <= 0 {
		return fmt.Errorf("exam.default_limit must be positive, got %d", c.Exam.DefaultLimit)
	}
	if c.Exam.Tick <= 0 {
		return fmt.Errorf("exam.tick must be positive, got %s", c.Exam.Tick)
	}
	if c.Enrich.Window <= 0 {
		return fmt.Errorf("enrich.window must be positive, got %d", c.Enrich.Window)
	}
	return nil
}
