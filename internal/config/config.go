package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"newsrobot/internal/domain"
)

const (
	defaultInterval      = 168 * time.Hour // weekly
	defaultRetentionDays = 30

	configPathEnv  = "NEWSROBOT_CONFIG"
	geminiKeyEnv   = "GEMINI_API_KEY"
	wpUsernameEnv  = "WORDPRESS_USERNAME"
	wpPasswordEnv  = "WORDPRESS_APP_PASSWORD"
	ledgerDSNEnv   = "LEDGER_DSN"
	serverPortEnv  = "PORT"
	bookmarksEnv   = "BOOKMARKS_PATH"
	ledgerPathEnv  = "LEDGER_PATH"
	geminiModelEnv = "GEMINI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Selection SelectionConfig `yaml:"selection"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	WordPress WordPressConfig `yaml:"wordpress"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`
	Style     domain.Style    `yaml:"style"`
	Sites     []SiteConfig    `yaml:"sites"`
	Topics    []domain.Topic  `yaml:"topics"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the HTTP trigger surface.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// SchedulerConfig defines the recurring run cadence.
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
}

// Every resolves the interval string to a duration, defaulting to one
// week when unset or unparsable.
func (s SchedulerConfig) Every() time.Duration {
	if s.Interval == "" {
		return defaultInterval
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		log.Printf("config: invalid scheduler interval %q, reverting to %s", s.Interval, defaultInterval)
		return defaultInterval
	}
	return d
}

// SelectionConfig bounds the newsletter size and topic diversity.
type SelectionConfig struct {
	TargetSize int `yaml:"targetSize"`
	TopicCap   int `yaml:"topicCap"`
}

// LedgerConfig describes where delivered URLs persist between runs.
// A non-empty DSN selects the Postgres store over the JSON file.
type LedgerConfig struct {
	Path          string `yaml:"path"`
	DSN           string `yaml:"dsn"`
	RetentionDays int    `yaml:"retentionDays"`
}

// Retention converts the configured day count to a duration.
func (l LedgerConfig) Retention() time.Duration {
	days := l.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// GeminiConfig wires the topic matcher and newsletter writer model.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// WordPressConfig describes the publishing target.
type WordPressConfig struct {
	SiteURL     string   `yaml:"siteUrl"`
	APIEndpoint string   `yaml:"apiEndpoint"`
	Username    string   `yaml:"username"`
	AppPassword string   `yaml:"appPassword"`
	Status      string   `yaml:"status"`
	Categories  []string `yaml:"categories"`
}

// BookmarksConfig points at the weekly bookmark file.
type BookmarksConfig struct {
	Path string `yaml:"path"`
}

// SiteConfig describes a single news source with its scanner strategy.
type SiteConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	Category string            `yaml:"category"`
	Options  map[string]string `yaml:"options"`
	Pages    []PageConfig      `yaml:"pages"`
}

// PageConfig holds one concrete feed or listing URL of a site.
type PageConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Catalog converts the configured topics into the immutable catalog
// consumed by the resolver.
func (c Config) Catalog() domain.Catalog {
	catalog := make(domain.Catalog, len(c.Topics))
	for _, t := range c.Topics {
		if t.Name == "" {
			continue
		}
		catalog[t.Name] = t
	}
	return catalog
}

// Load reads YAML configuration (if present) and applies environment
// overrides on top of the defaults.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyFallbacks()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv(wpUsernameEnv); v != "" {
		c.WordPress.Username = v
	}
	if v := os.Getenv(wpPasswordEnv); v != "" {
		c.WordPress.AppPassword = v
	}
	if v := os.Getenv(ledgerDSNEnv); v != "" {
		c.Ledger.DSN = v
	}
	if v := os.Getenv(ledgerPathEnv); v != "" {
		c.Ledger.Path = v
	}
	if v := os.Getenv(bookmarksEnv); v != "" {
		c.Bookmarks.Path = v
	}
	if v := os.Getenv(serverPortEnv); v != "" {
		c.Server.Port = v
	}
}

func (c *Config) applyFallbacks() {
	def := defaultConfig()
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Selection.TargetSize <= 0 {
		c.Selection.TargetSize = def.Selection.TargetSize
	}
	if c.Selection.TopicCap <= 0 {
		c.Selection.TopicCap = def.Selection.TopicCap
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = def.Ledger.Path
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = def.Gemini.Model
	}
	if c.WordPress.APIEndpoint == "" {
		c.WordPress.APIEndpoint = def.WordPress.APIEndpoint
	}
	if c.WordPress.Status == "" {
		c.WordPress.Status = def.WordPress.Status
	}
	if len(c.WordPress.Categories) == 0 {
		c.WordPress.Categories = def.WordPress.Categories
	}
	if c.Bookmarks.Path == "" {
		c.Bookmarks.Path = def.Bookmarks.Path
	}
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Server:    ServerConfig{Port: "8080"},
		Scheduler: SchedulerConfig{Enabled: false, Interval: "168h"},
		Selection: SelectionConfig{TargetSize: 20, TopicCap: 10},
		Ledger:    LedgerConfig{Path: "delivered_urls.json", RetentionDays: defaultRetentionDays},
		Gemini:    GeminiConfig{Model: "gemini-1.5-flash"},
		WordPress: WordPressConfig{
			APIEndpoint: "/wp-json/wp/v2",
			Status:      "private",
			Categories:  []string{"WeeklySummary"},
		},
		Bookmarks: BookmarksConfig{Path: "config/weekly_bookmarks.yaml"},
	}
}
