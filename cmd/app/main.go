package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/jinkyeom/sciencestop/internal"
	pkgconfig "github.com/jinkyeom/sciencestop/pkg/config"
)

var version = "dev"

// options loads the config file and applies flag overrides.
func options(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadIfExists(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found && cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}
	// Flags win over the file.
	if cmd.IsSet("content") {
		cfg.Content.Path = cmd.String("content")
	}
	if cmd.Bool("skip-invalid") {
		cfg.Content.SkipInvalid = true
	}
	if cmd.Bool("watch") {
		cfg.Content.Watch = true
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "sciencestop",
		Usage:   "Read-only science blog: JSON API, MCP tools and a terminal reader over a Markdown collection",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "content",
				Usage:   "Content directory (overrides content.path)",
				Sources: cli.EnvVars("SCIENCESTOP_CONTENT"),
			},
			&cli.BoolFlag{
				Name:  "skip-invalid",
				Usage: "Skip articles with broken front matter instead of failing the load",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the JSON API and event stream (default)",
				Action: serve,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Reload the collection when articles change (overrides content.watch)",
					},
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve read-only MCP tools over stdio",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.ServeMCP(ctx, opts...)
				},
			},
			{
				Name:      "read",
				Usage:     "Open a post in the terminal reader",
				ArgsUsage: "<slug>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					slug := cmd.Args().First()
					if slug == "" {
						return errors.New("read: a post slug is required")
					}
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.Read(ctx, slug, opts...)
				},
			},
			{
				Name:  "check",
				Usage: "Load every post with the strict policy, render it and report problems",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					_, err = internal.Check(ctx, opts...)
					return err
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
