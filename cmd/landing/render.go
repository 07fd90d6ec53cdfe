package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/landing/internal/config"
	"github.com/vango-dev/landing/internal/errors"
	"github.com/vango-dev/landing/internal/site"
)

// buildFlags are shared by render and publish.
type buildFlags struct {
	static      bool
	liveURL     string
	assetPrefix string
}

func (b *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&b.static, "static", false, "Plain HTML without the live client")
	cmd.Flags().StringVar(&b.liveURL, "live-url", "", "WebSocket URL written into the page")
	cmd.Flags().StringVar(&b.assetPrefix, "asset-prefix", "", "Prefix for asset URLs, such as a CDN origin")
}

func (b *buildFlags) build(cfg *config.Config) (*site.Bundle, error) {
	if b.liveURL != "" {
		cfg.Site.LiveURL = b.liveURL
	}
	if b.assetPrefix != "" {
		cfg.Site.AssetPrefix = b.assetPrefix
	}
	c, err := loadContent(cfg)
	if err != nil {
		return nil, err
	}
	bundle, err := site.Build(c, site.Options{
		LiveURL:     cfg.Site.LiveURL,
		AssetPrefix: cfg.Site.AssetPrefix,
		Static:      b.static,
	})
	if err != nil {
		return nil, errors.New("E204").Wrap(err)
	}
	return bundle, nil
}

func renderCmd(g *globalFlags) *cobra.Command {
	var (
		output string
		clean  bool
		bf     buildFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the page to static files",
		Long: `Render the landing page with its assets and manifest.

Asset URLs carry content versions, so the output can be served with long
cache lifetimes.

Examples:
  landing render
  landing render -o public --static
  landing render --asset-prefix=https://cdn.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Site.Output = output
			}

			bundle, err := bf.build(cfg)
			if err != nil {
				return err
			}

			if clean {
				info("Cleaning %s...", cfg.Site.Output)
				if err := os.RemoveAll(cfg.Site.Output); err != nil {
					return errors.New("E303").Wrap(err)
				}
			}
			written, err := bundle.Export(cfg.Site.Output)
			if err != nil {
				return errors.New("E303").Wrap(err)
			}

			for _, f := range bundle.Files {
				info("%-22s %s", f.Path, formatBytes(int64(len(f.Data))))
			}
			success("Rendered %d files to %s/", len(written), cfg.Site.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from landing.yaml)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove the output directory first")
	bf.register(cmd)

	return cmd
}
