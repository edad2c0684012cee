package main

import (
	"github.com/spf13/cobra"

	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/publish"
)

func (a *app) publishCmd() *cobra.Command {
	var (
		bucket    string
		prefix    string
		region    string
		endpoint  string
		pathStyle bool
		escape    bool
	)

	cmd := &cobra.Command{
		Use:   "publish <file>...",
		Short: "Compile documents and upload them to S3",
		Long: `Compile each document and upload the page to an S3 bucket.

Pages are stored as <prefix>/<name>.html. Credentials are read from
AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.
Every document is compiled before anything is uploaded.

Examples:
  htoml publish index.toml --bucket=my-site
  htoml publish *.toml --bucket=site --prefix=blog
  htoml publish index.toml --endpoint=http://localhost:9000 --path-style`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.CodeNoFileGiven)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			pc := cfg.Publish
			if bucket != "" {
				pc.Bucket = bucket
			}
			if prefix != "" {
				pc.Prefix = prefix
			}
			if region != "" {
				pc.Region = region
			}
			if endpoint != "" {
				pc.Endpoint = endpoint
			}
			if pathStyle {
				pc.PathStyle = true
			}
			if pc.Bucket == "" {
				return errors.New(errors.CodeNoBucket)
			}

			c := a.newCompiler(cfg, escape)
			pages := make([]string, len(args))
			for i, path := range args {
				res, err := c.CompileFileContent(cmd.Context(), path)
				if err != nil {
					return err
				}
				pages[i] = res.HTML
			}

			client, err := a.newObjectAPI(pc)
			if err != nil {
				return err
			}
			p, err := publish.NewS3Publisher(client, pc.Bucket, pc.Prefix)
			if err != nil {
				return err
			}

			for i, path := range args {
				key, err := p.Publish(cmd.Context(), path, pages[i])
				if err != nil {
					return err
				}
				a.success("%s → s3://%s/%s", path, p.Bucket(), key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (default from htoml.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix")
	cmd.Flags().StringVar(&region, "region", "", "Bucket region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Custom S3 endpoint")
	cmd.Flags().BoolVar(&pathStyle, "path-style", false, "Use path-style addressing")
	cmd.Flags().BoolVar(&escape, "escape", false, "HTML-escape text and attribute values")

	return cmd
}
