// Package publish uploads compiled pages to S3 or an S3-compatible store.
//
// Example usage:
//
//	client, err := publish.NewS3Client(cfg.Publish)
//	p, err := publish.NewS3Publisher(client, cfg.Publish.Bucket, cfg.Publish.Prefix)
//	key, err := p.Publish(ctx, "site/index.toml", res.HTML)
//
// Credentials are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_SESSION_TOKEN when the client makes its first request.
package publish
