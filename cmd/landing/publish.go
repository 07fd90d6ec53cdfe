package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/landing/internal/logging"
	"github.com/vango-dev/landing/internal/publish"
)

func publishCmd(g *globalFlags) *cobra.Command {
	var (
		bucket   string
		prefix   string
		region   string
		endpoint string
		dryRun   bool
		bf       buildFlags
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the rendered page to S3",
		Long: `Render the landing page and upload it to an S3 bucket.

Assets and the manifest are uploaded before index.html. Credentials are
read from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  landing publish --bucket=my-site
  landing publish --bucket=my-site --prefix=www --static
  landing publish --endpoint=http://localhost:9000 --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Publish.Bucket = bucket
			}
			if prefix != "" {
				cfg.Publish.Prefix = prefix
			}
			if region != "" {
				cfg.Publish.Region = region
			}
			if endpoint != "" {
				cfg.Publish.Endpoint = endpoint
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			bundle, err := bf.build(cfg)
			if err != nil {
				return err
			}

			logger, closer := logging.New(cfg.Log, os.Stderr)
			defer closer.Close()

			p, err := publish.New(publish.NewClient(cfg.Publish), cfg.Publish,
				publish.WithLogger(logger),
				publish.WithDryRun(dryRun),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			objects, err := p.Publish(ctx, bundle)
			for _, obj := range objects {
				info("s3://%s/%s  %s", cfg.Publish.Bucket, obj.Key, formatBytes(int64(obj.Size)))
			}
			if err != nil {
				return err
			}
			if dryRun {
				warn("Dry run: nothing was uploaded")
				return nil
			}
			success("Published %d objects", len(objects))
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Target bucket (default from landing.yaml)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix")
	cmd.Flags().StringVar(&region, "region", "", "AWS region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List objects without uploading")
	bf.register(cmd)

	return cmd
}
