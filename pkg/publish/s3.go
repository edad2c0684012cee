package publish

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/htoml-dev/htoml/internal/config"
	"github.com/htoml-dev/htoml/internal/errors"
)

// ContentType is sent with every uploaded page.
const ContentType = "text/html; charset=utf-8"

// ObjectAPI is the subset of *s3.Client used by S3Publisher.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads pages under a key prefix in one bucket.
type S3Publisher struct {
	client ObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Publisher creates a publisher. An empty bucket is a configuration
// error.
func NewS3Publisher(client ObjectAPI, bucket, prefix string) (*S3Publisher, error) {
	if bucket == "" {
		return nil, errors.New(errors.CodeNoBucket)
	}
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}, nil
}

// Bucket returns the destination bucket.
func (p *S3Publisher) Bucket() string {
	return p.bucket
}

// Key returns the object key for a source document: the prefix joined with
// the source's base name, extension replaced by .html.
func (p *S3Publisher) Key(source string) string {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish uploads html as the page for source and returns its key.
func (p *S3Publisher) Publish(ctx context.Context, source, html string) (string, error) {
	key := p.Key(source)

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(html),
		ContentType: aws.String(ContentType),
		Metadata: map[string]string{
			"source":       filepath.ToSlash(source),
			"publish-time": p.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		// Credential failures arrive wrapped by the SDK and keep their detail.
		return "", errors.FromError(err, errors.CodePublishFailed).
			WithSubject("s3://" + p.bucket + "/" + key)
	}
	return key, nil
}

// NewS3Client builds an S3 client from the publish configuration.
// Credentials come from the environment.
func NewS3Client(cfg config.PublishConfig) (*s3.Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errors.CodeNoBucket)
	}
	region := cfg.Region
	if region == "" {
		region = config.DefaultRegion
	}

	opts := s3.Options{
		Region:       region,
		Credentials:  aws.NewCredentialsCache(envCredentials()),
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts), nil
}

// envCredentials reads static credentials from the standard AWS variables.
func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		id := os.Getenv("AWS_ACCESS_KEY_ID")
		secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, errors.New(errors.CodePublishFailed).
				WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set.")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}, nil
	})
}
