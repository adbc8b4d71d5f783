// Package config captures all runtime configuration into one immutable
// snapshot taken at process start. Nothing else in the application reads
// environment state; handlers and libraries receive this struct (or slices
// of it) explicitly.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Modes the application runs in.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)

// DefaultBaseURL is the loopback fallback used when no site URL is
// configured. Fine for local development, wrong for production; Warnings
// flags it there.
const DefaultBaseURL = "http://localhost:8080"

// Config is the application configuration grouped by concern.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Site      SiteConfig      `mapstructure:"site"`
	Server    ServerConfig    `mapstructure:"server"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Content   ContentConfig   `mapstructure:"content"`
}

// AppConfig identifies the process and its run mode.
type AppConfig struct {
	Name string `mapstructure:"name"`
	Mode string `mapstructure:"mode"` // development, production or test
}

// SiteConfig carries the site-wide values page metadata derives from.
type SiteConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	BaseURL     string `mapstructure:"base_url"`
	Locale      string `mapstructure:"locale"`
	TwitterSite string `mapstructure:"twitter_site"`
	OGImage     string `mapstructure:"og_image"`
	OGImageAlt  string `mapstructure:"og_image_alt"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AnalyticsConfig configures the tracking wrapper. An empty MeasurementID
// disables tracking entirely.
type AnalyticsConfig struct {
	MeasurementID string `mapstructure:"measurement_id"`
	APISecret     string `mapstructure:"api_secret"`
	Endpoint      string `mapstructure:"endpoint"`
	Debug         bool   `mapstructure:"debug"`
}

// ContentConfig points at the on-disk assets the server renders from.
type ContentConfig struct {
	TemplatesDir string `mapstructure:"templates_dir"`
	PublicDir    string `mapstructure:"public_dir"`
	PagesDir     string `mapstructure:"pages_dir"`
	LocalesDir   string `mapstructure:"locales_dir"`
}

// Load reads configs/site.yaml (when present) and applies TIM_WEB_* env
// overrides, e.g. TIM_WEB_SITE_BASE_URL or TIM_WEB_ANALYTICS_MEASUREMENT_ID.
// A local .env file is honored if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("site")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TIM_WEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read site.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "timeismoney-web")
	v.SetDefault("app.mode", ModeDevelopment)
	v.SetDefault("site.name", "Time is Money")
	v.SetDefault("site.description", "A browser extension that converts prices into hours of your working life.")
	v.SetDefault("site.base_url", DefaultBaseURL)
	v.SetDefault("site.locale", "en")
	v.SetDefault("site.twitter_site", "")
	v.SetDefault("site.og_image", "")
	v.SetDefault("site.og_image_alt", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	// Env-only keys still need registering for Unmarshal to see them.
	v.SetDefault("analytics.measurement_id", "")
	v.SetDefault("analytics.api_secret", "")
	v.SetDefault("analytics.debug", false)
	v.SetDefault("analytics.endpoint", "https://www.google-analytics.com/mp/collect")
	v.SetDefault("content.templates_dir", "templates")
	v.SetDefault("content.public_dir", "public")
	v.SetDefault("content.pages_dir", "content/pages")
	v.SetDefault("content.locales_dir", "locales")
}

// Validate checks the snapshot once at startup. Failures here are fatal and
// not recoverable at runtime.
func (c *Config) Validate() error {
	switch c.App.Mode {
	case ModeDevelopment, ModeProduction, ModeTest:
	default:
		return fmt.Errorf("config: app.mode %q is not one of development, production, test", c.App.Mode)
	}
	if strings.TrimSpace(c.Site.Name) == "" {
		return fmt.Errorf("config: site.name must not be empty")
	}
	if strings.TrimSpace(c.Site.Description) == "" {
		return fmt.Errorf("config: site.description must not be empty")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("config: site.base_url %q must be an absolute URL", c.Site.BaseURL)
	}
	return nil
}

// Warnings returns startup conditions worth logging but not fatal. Replaces
// the import-time warning the old site emitted on first use.
func (c *Config) Warnings() []string {
	var out []string
	if c.App.Mode == ModeProduction && c.Site.BaseURL == DefaultBaseURL {
		out = append(out, "site.base_url is the loopback default; canonical URLs will point at localhost")
	}
	if c.App.Mode == ModeProduction && c.Analytics.MeasurementID == "" {
		out = append(out, "analytics.measurement_id is empty; tracking is disabled")
	}
	return out
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool { return c.App.Mode == ModeProduction }
