package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from YAML.
type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    string `yaml:"port"`
		Prefork bool   `yaml:"prefork"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Database DatabaseConfig `yaml:"database"`

	Site struct {
		URL        string   `yaml:"url"`
		Locale     string   `yaml:"locale"`
		Components []string `yaml:"components"`
	} `yaml:"site"`

	Export struct {
		MaxPages int `yaml:"max_pages"`
	} `yaml:"export"`

	Cache struct {
		RedisHost       string        `yaml:"redis_host"`
		SnapshotDB      int           `yaml:"snapshot_db"`
		RateLimitDB     int           `yaml:"rate_limit_db"`
		SnapshotEnabled bool          `yaml:"snapshot_enabled"`
		SnapshotTTL     time.Duration `yaml:"snapshot_ttl"`
	} `yaml:"cache"`

	RateLimiter struct {
		Interval          time.Duration `yaml:"interval"`
		UserLimit         int           `yaml:"user_limit"`
		EnableUserLimiter bool          `yaml:"enable_user_limiter"`
	} `yaml:"rate_limiter"`

	Auth struct {
		Required bool `yaml:"required"`
	} `yaml:"auth"`

	PDF struct {
		ChromePath      string  `yaml:"chrome_path"`
		ChromeNoSandbox bool    `yaml:"chrome_no_sandbox"`
		TimeoutSecs     int     `yaml:"timeout_secs"`
		PaperWidth      float64 `yaml:"paper_width"`
		PaperHeight     float64 `yaml:"paper_height"`
		Margin          float64 `yaml:"margin"`
	} `yaml:"pdf"`
}

// DatabaseConfig selects the SQL driver and connection for the BuddyPress tables.
type DatabaseConfig struct {
	// Driver is one of "mysql", "pgx" or "sqlite".
	Driver      string `yaml:"driver"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Database    string `yaml:"database"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	SSLMode     string `yaml:"sslmode"`
	Path        string `yaml:"path"`
	TablePrefix string `yaml:"table_prefix"`
}

// AppConfig holds the configuration loaded by LoadConfig.
var AppConfig Config

// GetConfig returns the last loaded configuration.
func GetConfig() Config {
	return AppConfig
}

// LoadConfig loads the file named by CONFIG_PATH, or config.yaml, and stores
// the result in AppConfig. It panics on unreadable or invalid configuration.
func LoadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	AppConfig = LoadFrom(path)
	return AppConfig
}

// LoadFrom reads, defaults and validates the configuration at path.
func LoadFrom(path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("cannot read config %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic(fmt.Sprintf("cannot parse config %s: %v", path, err))
	}

	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		panic(fmt.Sprintf("invalid config %s: %v", path, err))
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.Database.TablePrefix == "" {
		cfg.Database.TablePrefix = "wp_"
	}
	if cfg.Site.Locale == "" {
		cfg.Site.Locale = "en"
	}
	if cfg.Export.MaxPages == 0 {
		cfg.Export.MaxPages = 1000
	}
	if cfg.Cache.SnapshotTTL == 0 {
		cfg.Cache.SnapshotTTL = 24 * time.Hour
	}
	if cfg.RateLimiter.Interval == 0 {
		cfg.RateLimiter.Interval = time.Minute
	}
	if cfg.PDF.TimeoutSecs == 0 {
		cfg.PDF.TimeoutSecs = 30
	}
	if cfg.PDF.PaperWidth == 0 || cfg.PDF.PaperHeight == 0 {
		// A4 in inches
		cfg.PDF.PaperWidth, cfg.PDF.PaperHeight = 8.27, 11.69
	}
	if cfg.PDF.Margin == 0 {
		cfg.PDF.Margin = 0.4
	}
}

func validate(cfg Config) error {
	switch cfg.Database.Driver {
	case "mysql", "pgx":
		if cfg.Database.Host == "" {
			return fmt.Errorf("database.host is required for driver %q", cfg.Database.Driver)
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			return fmt.Errorf("database.path is required for driver sqlite")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	if cfg.Site.URL == "" {
		return fmt.Errorf("site.url is required")
	}
	if !strings.HasPrefix(cfg.Site.URL, "http://") && !strings.HasPrefix(cfg.Site.URL, "https://") {
		return fmt.Errorf("site.url must be an http(s) URL")
	}
	if cfg.Export.MaxPages < 0 {
		return fmt.Errorf("export.max_pages must not be negative")
	}
	if cfg.RateLimiter.UserLimit < 0 {
		return fmt.Errorf("rate_limiter.user_limit must not be negative")
	}
	if cfg.Cache.SnapshotEnabled && cfg.Cache.RedisHost == "" {
		return fmt.Errorf("cache.redis_host is required when snapshots are enabled")
	}
	return nil
}
