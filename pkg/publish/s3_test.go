package publish

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/htoml-dev/htoml/internal/config"
	"github.com/htoml-dev/htoml/internal/errors"
)

type fakeObjects struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestNewS3PublisherRequiresBucket(t *testing.T) {
	_, err := NewS3Publisher(&fakeObjects{}, "", "site")
	if !errors.HasCode(err, errors.CodeNoBucket) {
		t.Fatalf("err = %v, want %s", err, errors.CodeNoBucket)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		prefix string
		source string
		want   string
	}{
		{"", "index.toml", "index.html"},
		{"site", "index.toml", "site/index.html"},
		{"/site/", "docs/about.toml", "site/about.html"},
		{"a/b", "notes", "a/b/notes.html"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+"|"+tt.source, func(t *testing.T) {
			p, err := NewS3Publisher(&fakeObjects{}, "bucket", tt.prefix)
			if err != nil {
				t.Fatal(err)
			}
			if got := p.Key(tt.source); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestPublish(t *testing.T) {
	fake := &fakeObjects{}
	p, err := NewS3Publisher(fake, "my-bucket", "blog")
	if err != nil {
		t.Fatal(err)
	}
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	key, err := p.Publish(context.Background(), "posts/first.toml", "<p>hi</p>")
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if key != "blog/first.html" {
		t.Errorf("key = %q, want blog/first.html", key)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if got := aws.ToString(in.Bucket); got != "my-bucket" {
		t.Errorf("Bucket = %q", got)
	}
	if got := aws.ToString(in.Key); got != "blog/first.html" {
		t.Errorf("Key = %q", got)
	}
	if got := aws.ToString(in.ContentType); got != ContentType {
		t.Errorf("ContentType = %q, want %q", got, ContentType)
	}
	if fake.bodies[0] != "<p>hi</p>" {
		t.Errorf("body = %q", fake.bodies[0])
	}
	if got := in.Metadata["source"]; got != "posts/first.toml" {
		t.Errorf("source metadata = %q", got)
	}
	if got := in.Metadata["publish-time"]; got != "2026-01-02T03:04:05Z" {
		t.Errorf("publish-time metadata = %q", got)
	}
}

func TestPublishFailure(t *testing.T) {
	cause := stderrors.New("access denied")
	p, err := NewS3Publisher(&fakeObjects{err: cause}, "b", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Publish(context.Background(), "index.toml", "x")
	if !errors.HasCode(err, errors.CodePublishFailed) {
		t.Fatalf("err = %v, want %s", err, errors.CodePublishFailed)
	}
	if !stderrors.Is(err, cause) {
		t.Error("publish error should wrap the client error")
	}
	if he := errors.FromError(err, ""); he.Subject != "s3://b/index.html" {
		t.Errorf("Subject = %q", he.Subject)
	}
}

func TestPublishFailureKeepsCredentialDetail(t *testing.T) {
	detail := "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set."
	cause := fmt.Errorf("operation error S3: PutObject: %w",
		errors.New(errors.CodePublishFailed).WithDetail(detail))
	p, err := NewS3Publisher(&fakeObjects{err: cause}, "b", "site")
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Publish(context.Background(), "index.toml", "x")
	he := errors.FromError(err, "")
	if he.Code != errors.CodePublishFailed {
		t.Fatalf("err = %v, want %s", err, errors.CodePublishFailed)
	}
	if he.Detail != detail {
		t.Errorf("Detail = %q, want %q", he.Detail, detail)
	}
	if he.Subject != "s3://b/site/index.html" {
		t.Errorf("Subject = %q", he.Subject)
	}
}

func TestNewS3Client(t *testing.T) {
	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3Client(config.PublishConfig{})
		if !errors.HasCode(err, errors.CodeNoBucket) {
			t.Fatalf("err = %v, want %s", err, errors.CodeNoBucket)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := NewS3Client(config.PublishConfig{Bucket: "b"})
		if err != nil {
			t.Fatal(err)
		}
		opts := client.Options()
		if opts.Region != config.DefaultRegion {
			t.Errorf("Region = %q, want %q", opts.Region, config.DefaultRegion)
		}
		if opts.BaseEndpoint != nil {
			t.Errorf("BaseEndpoint = %q, want nil", *opts.BaseEndpoint)
		}
	})

	t.Run("custom endpoint", func(t *testing.T) {
		client, err := NewS3Client(config.PublishConfig{
			Bucket:    "b",
			Region:    "eu-west-1",
			Endpoint:  "http://localhost:9000",
			PathStyle: true,
		})
		if err != nil {
			t.Fatal(err)
		}
		opts := client.Options()
		if opts.Region != "eu-west-1" {
			t.Errorf("Region = %q", opts.Region)
		}
		if aws.ToString(opts.BaseEndpoint) != "http://localhost:9000" {
			t.Errorf("BaseEndpoint = %q", aws.ToString(opts.BaseEndpoint))
		}
		if !opts.UsePathStyle {
			t.Error("UsePathStyle = false, want true")
		}
	})
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	t.Setenv("AWS_SESSION_TOKEN", "TOKEN")

	creds, err := envCredentials().Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if creds.AccessKeyID != "AKID" || creds.SecretAccessKey != "SECRET" || creds.SessionToken != "TOKEN" {
		t.Errorf("credentials = %+v", creds)
	}

	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials().Retrieve(context.Background()); !errors.HasCode(err, errors.CodePublishFailed) {
		t.Errorf("err = %v, want %s", err, errors.CodePublishFailed)
	}
}
