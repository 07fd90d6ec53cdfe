package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/landing/internal/config"
	"github.com/vango-dev/landing/internal/errors"
	"github.com/vango-dev/landing/internal/site"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "landing",
		Short: "Serve and publish the studio landing page",
		Long: `landing serves the studio landing page with its live interaction
layer, renders it to static files and publishes them to S3.

Configuration is read from landing.yaml and LANDING_* environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", config.ConfigFileName, "Config file")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		serveCmd(g),
		renderCmd(g),
		publishCmd(g),
		configCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the config named by --config. The default file may be
// absent; an explicitly named one must exist.
func loadConfig(cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(g.configPath); err != nil {
			return nil, errors.New("E101").Wrap(err)
		}
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return cfg, nil
}

// loadContent returns the configured site copy.
func loadContent(cfg *config.Config) (site.Content, error) {
	if cfg.Site.Content == "" {
		return site.DefaultContent(), nil
	}
	c, err := site.LoadContent(cfg.Site.Content)
	if err != nil {
		return c, errors.New("E103").Wrap(err).WithDetailf("Reading %s failed.", cfg.Site.Content)
	}
	return c, nil
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
