package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/landing/internal/logging"
	"github.com/vango-dev/landing/internal/server"
	"github.com/vango-dev/landing/internal/site"
	"github.com/vango-dev/landing/internal/watch"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		addr    string
		content string
		liveURL string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page with live interactions",
		Long: `Serve the landing page over HTTP.

Each browser opens a WebSocket session that runs the header, navigation,
modal, form, toast, scroll and reveal behaviour on the server.

Examples:
  landing serve
  landing serve --addr=:3000
  landing serve --content=content.yaml --watch
  LANDING_LOG_FORMAT=json landing serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if content != "" {
				cfg.Site.Content = content
			}
			if liveURL != "" {
				cfg.Site.LiveURL = liveURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			c, err := loadContent(cfg)
			if err != nil {
				return err
			}

			logger, closer := logging.New(cfg.Log, os.Stderr)
			defer closer.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg, c, server.WithLogger(logger))
			if watch && cfg.Site.Content != "" {
				go watchContent(ctx, srv, cfg.Site.Content, logger)
				info("Watching %s", cfg.Site.Content)
			}
			success("Serving %s", server.URL(cfg.Server.Addr))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from landing.yaml)")
	cmd.Flags().StringVar(&content, "content", "", "Content YAML file")
	cmd.Flags().StringVar(&liveURL, "live-url", "", "WebSocket URL written into the page")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the content file when it changes")

	return cmd
}

// watchContent reloads the content file on change. A file that fails to
// parse keeps the previous copy.
func watchContent(ctx context.Context, srv *server.Server, path string, logger *slog.Logger) {
	w := watch.New(watch.DefaultInterval, path)
	w.OnChange(func([]string) {
		c, err := site.LoadContent(path)
		if err != nil {
			logger.Warn("content reload failed", "path", path, "error", err)
			return
		}
		srv.SetContent(c)
	})
	_ = w.Start(ctx)
}
