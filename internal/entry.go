// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/jinkyeom/sciencestop/internal/api"
	"github.com/jinkyeom/sciencestop/internal/categories"
	"github.com/jinkyeom/sciencestop/internal/content"
	"github.com/jinkyeom/sciencestop/internal/index"
	"github.com/jinkyeom/sciencestop/internal/mcpserver"
	"github.com/jinkyeom/sciencestop/internal/postservice"
	"github.com/jinkyeom/sciencestop/internal/render"
	"github.com/jinkyeom/sciencestop/internal/sse"
	"github.com/jinkyeom/sciencestop/internal/storage"
	"github.com/jinkyeom/sciencestop/internal/tui"
	"github.com/jinkyeom/sciencestop/internal/video"
)

// ErrCheckFailed is returned by Check when a post cannot be rendered.
var ErrCheckFailed = errors.New("content check failed")

func newApplication(opts []Option) (*application, error) {
	app := &application{logOut: os.Stdout, out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// runtime is the loaded collection and the services built on it.
type runtime struct {
	logger   *slog.Logger
	provider storage.Provider
	loadOpts content.Options
	store    *content.Store
	db       *index.DB
	svc      *postservice.Service
}

// boot prepares the runtime and loads the collection. A failed load is fatal.
func (a *application) boot(ctx context.Context, withIndex bool) (*runtime, error) {
	rt, err := a.prepare(withIndex)
	if err != nil {
		return nil, err
	}
	if err := rt.load(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// prepare builds storage, the index and the services around an empty store.
// Until load succeeds the API and /health/ready answer 503.
func (a *application) prepare(withIndex bool) (*runtime, error) {
	cfg := a.config
	logger := a.logger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_path", cfg.Content.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("skip_invalid", cfg.Content.SkipInvalid),
		slog.String("log_level", cfg.App.LogLevel.String()))

	provider := a.provider
	if provider == nil {
		fsys, err := storage.NewFS(cfg.Content.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		provider = fsys
	}

	rt := &runtime{
		logger:   logger,
		provider: provider,
		loadOpts: content.Options{Dir: cfg.Content.Dir, SkipInvalid: cfg.Content.SkipInvalid},
		store:    content.NewStore(nil),
	}

	var idx index.PostIndex
	if withIndex {
		db, err := index.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
		rt.db = db
		idx = db
	}

	engine := render.NewEngine(
		render.WithAllowedHosts(cfg.Video.AllowedHosts...),
		render.WithCaptionLanguage(cfg.Video.CaptionLanguage),
	)
	rt.svc = postservice.NewService(rt.store, engine, idx, cfg.Content.PageSize)
	return rt, nil
}

// load reads the collection, syncs the index and starts serving it.
func (rt *runtime) load(ctx context.Context) error {
	c, err := content.Load(ctx, rt.provider, rt.loadOpts, rt.logger)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	if rt.db != nil {
		if _, err := index.Sync(ctx, rt.db, c, rt.logger); err != nil {
			rt.logger.Warn("initial sync failed", slog.String("error", err.Error()))
		}
	}
	rt.store.Swap(c)
	return nil
}

func (rt *runtime) Close() {
	if rt.db != nil {
		_ = rt.db.Close()
	}
}

// onReload keeps the index in step with a reloaded collection and tells
// clients about it.
func (rt *runtime) onReload(ctx context.Context, broker *sse.Broker) content.ReloadCallback {
	return func(c *content.Collection) {
		if rt.db != nil {
			st, err := index.Sync(ctx, rt.db, c, rt.logger)
			if err != nil {
				rt.logger.Warn("index sync failed", slog.String("error", err.Error()))
			} else {
				rt.logger.Info("index synced",
					slog.Int("indexed", st.Indexed),
					slog.Int("unchanged", st.Unchanged),
					slog.Int("removed", st.Removed))
			}
		}
		broker.PublishReload(sse.Reload{Cycle: c.ID(), Checksum: c.Checksum(), Documents: c.Len()})
	}
}

// handler builds the full HTTP handler: health checks plus the API under /api.
func (rt *runtime) handler(broker *sse.Broker) http.Handler {
	player := video.NewBroadcaster(broker)
	apiRouter := api.NewRouter(rt.svc, player, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		c := rt.store.Current()
		if c == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"cycle":     c.ID(),
			"documents": c.Len(),
			"loaded_at": c.LoadedAt(),
		})
	})

	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	rt, err := app.prepare(true)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.logger

	broker := sse.NewBroker(cfg.App.HTTP.ReloadThrottle)
	defer broker.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           rt.handler(broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Load the collection while the server answers 503, then reload it on
	// file changes.
	g.Go(func() error {
		if err := rt.load(gCtx); err != nil {
			return err
		}
		c := rt.store.Current()
		logger.Info("Content ready", slog.String("cycle", c.ID()), slog.Int("documents", c.Len()))

		if !cfg.Content.Watch {
			return nil
		}
		if rt.provider.Root() == "" {
			logger.Warn("content.watch ignored: content is not served from a directory")
			return nil
		}
		err := content.Watch(gCtx, rt.store, rt.provider, rt.loadOpts, cfg.Content.Debounce, logger, rt.onReload(gCtx, broker))
		if err != nil {
			logger.Error("watcher failed, serving the loaded collection", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Open event streams would hold Shutdown until the timeout.
		broker.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown stops the errgroup so the watcher exits with the server.
var errShutdown = errors.New("shutdown")

// ServeMCP serves the MCP tools over stdio until stdin closes.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	rt, err := app.boot(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	return mcpserver.New(rt.svc, app.version).ServeStdio()
}

// Read opens slug in the terminal reader.
func Read(ctx context.Context, slug string, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(io.Discard)}, opts...))
	if err != nil {
		return err
	}
	rt, err := app.boot(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if _, err := rt.svc.Meta(ctx, slug); err != nil {
		return err
	}
	return tui.Run(ctx, rt.svc, slug)
}

// CheckResult is what Check found for one post.
type CheckResult struct {
	Slug       string
	Headings   int
	Timestamps int
	Warnings   []string
	Err        error
}

// Check loads the collection with the strict policy, renders every post and
// writes a report. It fails with ErrCheckFailed when any post cannot be
// rendered; unknown categories and bad dates are only warnings.
func Check(ctx context.Context, opts ...Option) ([]CheckResult, error) {
	app, err := newApplication(append([]Option{WithLogOutput(io.Discard)}, opts...))
	if err != nil {
		return nil, err
	}
	strict := *app.config
	strict.Content.SkipInvalid = false
	app.config = &strict

	rt, err := app.boot(ctx, false)
	if err != nil {
		fmt.Fprintf(app.out, "FAIL load: %v\n", err)
		return nil, err
	}
	defer rt.Close()

	docs := rt.store.Current().Documents()
	results := make([]CheckResult, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, d := range docs {
		g.Go(func() error {
			res := CheckResult{Slug: d.Slug}
			if d.Date == "" {
				res.Warnings = append(res.Warnings, "no date")
			} else if _, ok := content.ParseDate(d.Date); !ok {
				res.Warnings = append(res.Warnings, fmt.Sprintf("unparseable date %q", d.Date))
			}
			for _, id := range d.Categories {
				if _, ok := categories.Lookup(id); !ok {
					res.Warnings = append(res.Warnings, fmt.Sprintf("unknown category %q", id))
				}
			}
			post, err := rt.svc.Get(gCtx, d.Slug)
			if err != nil {
				res.Err = err
			} else {
				res.Headings = len(post.TOC)
				res.Timestamps = len(post.Timestamps)
			}
			results[i] = res
			return gCtx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(app.out, "FAIL %s: %v\n", r.Slug, r.Err)
		default:
			fmt.Fprintf(app.out, "ok   %s (%d headings, %d timestamps)\n", r.Slug, r.Headings, r.Timestamps)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(app.out, "     warning: %s\n", w)
		}
	}
	fmt.Fprintf(app.out, "%d posts, %d failed, checksum %s\n", len(results), failed, rt.store.Current().Checksum())

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d posts", ErrCheckFailed, failed, len(results))
	}
	return results, nil
}
