package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jinkyeom/sciencestop/internal/postservice"
	"github.com/jinkyeom/sciencestop/internal/render"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Video   VideoConfig       `yaml:"video"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Video.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
	// ReloadThrottle is the minimum gap between content.reloaded events.
	ReloadThrottle time.Duration `yaml:"reload_throttle"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ReloadThrottle, validation.Min(time.Duration(0))),
	)
}

// ContentConfig says where articles live and how they are loaded.
//
// SkipInvalid relaxes the load: a document with broken front matter is
// logged and left out instead of failing the whole collection.
type ContentConfig struct {
	Path        string        `yaml:"path"`
	Dir         string        `yaml:"dir"`
	SkipInvalid bool          `yaml:"skip_invalid"`
	Watch       bool          `yaml:"watch"`
	Debounce    time.Duration `yaml:"debounce"`
	PageSize    int           `yaml:"page_size"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
		validation.Field(&c.PageSize, validation.Min(0), validation.Max(100)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

var hostRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9.-]*[a-z0-9])?$`)

// VideoConfig controls embedded players.
type VideoConfig struct {
	AllowedHosts    []string `yaml:"allowed_hosts"`
	CaptionLanguage string   `yaml:"caption_language"`
}

// Validate validates the video configuration.
func (c *VideoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AllowedHosts, validation.Required, validation.Each(validation.Required, validation.Match(hostRe))),
		validation.Field(&c.CaptionLanguage, validation.Required, validation.Length(2, 10)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:           8080,
				ReloadThrottle: 2 * time.Second,
			},
		},
		Content: ContentConfig{
			Path:     "./content",
			Debounce: 200 * time.Millisecond,
			PageSize: postservice.DefaultPageSize,
		},
		SQLite: SQLiteConfig{
			Path: "./sciencestop.db",
		},
		Video: VideoConfig{
			AllowedHosts:    append([]string(nil), render.DefaultAllowedHosts...),
			CaptionLanguage: "ko",
		},
	}
}
