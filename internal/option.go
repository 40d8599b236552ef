package internal

import (
	"io"
	"log/slog"

	"github.com/jinkyeom/sciencestop/internal/storage"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	provider storage.Provider
	logOut   io.Writer
	out      io.Writer
	version  string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithProvider serves articles from p instead of the configured content path,
// e.g. a storage.FromFS over embedded files.
func WithProvider(p storage.Provider) Option {
	return func(a *application) {
		a.provider = p
	}
}

// WithLogOutput sends the JSON log to w. The MCP command logs to stderr
// because stdout carries the protocol.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithOutput sets where command reports are written.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

func (a *application) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(a.logOut, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}
