package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/htoml-dev/htoml/internal/config"
	"github.com/htoml-dev/htoml/internal/errors"
	"github.com/htoml-dev/htoml/pkg/publish"
)

const sampleDoc = `html = "5"
lang = "en"
body = [{ type = "p", cont = "hello" }, { type = "br" }]

[head]
title = "Home"
`

const sampleHTML = `<!DOCTYPE 5><html><head><title>Home</title></head><body lang="en"><p>hello</p><br /></body></html>`

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI on a and returns stdout and the command error.
func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a.stdout = &out
	a.stderr = io.Discard
	root := a.rootCmd()
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunExitStatus(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"--no-color"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit status = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), errors.CodeNoCommand) {
		t.Errorf("stderr = %q, want it to mention %s", stderr.String(), errors.CodeNoCommand)
	}

	stdout.Reset()
	stderr.Reset()
	if code := run(context.Background(), []string{"version", "--short"}, &stdout, &stderr); code != 0 {
		t.Errorf("exit status = %d, want 0", code)
	}
	if stdout.String() != version+"\n" {
		t.Errorf("stdout = %q, want %q", stdout.String(), version+"\n")
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCode    string
		wantSubject string
	}{
		{"no command", nil, errors.CodeNoCommand, ""},
		{"unknown command", []string{"frobnicate"}, errors.CodeUnknownCommand, "frobnicate"},
		{"unknown help topic", []string{"help", "frobnicate"}, errors.CodeUnknownCommand, "frobnicate"},
		{"compile without file", []string{"compile"}, errors.CodeNoFileGiven, ""},
		{"cp without file", []string{"cp"}, errors.CodeNoFileGiven, ""},
		{"c without file", []string{"c"}, errors.CodeNoFileGiven, ""},
		{"publish without file", []string{"publish"}, errors.CodeNoFileGiven, ""},
		{"inspect without file", []string{"inspect"}, errors.CodeNoFileGiven, ""},
		{"compile missing file", []string{"compile", "does-not-exist.toml"}, errors.CodeReadFile, "does-not-exist.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, newApp(io.Discard, io.Discard), tt.args...)
			if !errors.HasCode(err, tt.wantCode) {
				t.Fatalf("err = %v, want %s", err, tt.wantCode)
			}
			if he := errors.FromError(err, ""); he.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", he.Subject, tt.wantSubject)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	for _, args := range [][]string{{"help"}, {"h"}, {"--help"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			out, err := execute(t, newApp(io.Discard, io.Discard), args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range []string{"init", "compile", "serve", "publish", "inspect"} {
				if !strings.Contains(out, want) {
					t.Errorf("help output missing %q:\n%s", want, out)
				}
			}
		})
	}

	out, err := execute(t, newApp(io.Discard, io.Discard), "h", "compile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "--out-dir") {
		t.Errorf("compile help missing flags:\n%s", out)
	}
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "index.toml", sampleDoc)

	for _, alias := range []string{"compile", "cp", "c"} {
		t.Run(alias, func(t *testing.T) {
			out, err := execute(t, newApp(io.Discard, io.Discard), alias, src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			data, err := os.ReadFile(filepath.Join(dir, "index.html"))
			if err != nil {
				t.Fatalf("output not written: %v", err)
			}
			if string(data) != sampleHTML {
				t.Errorf("output = %q, want %q", data, sampleHTML)
			}
			if !strings.Contains(out, "index.html") {
				t.Errorf("stdout = %q, want it to name the output", out)
			}
		})
	}
}

func TestCompileCommandFlags(t *testing.T) {
	dir := t.TempDir()
	src := writeDoc(t, dir, "page.toml", "html = \"5\"\nbody = \"<b>\"\n")

	t.Run("stdout", func(t *testing.T) {
		out, err := execute(t, newApp(io.Discard, io.Discard), "compile", "--stdout", src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "<!DOCTYPE 5><html><head></head><body><b></body></html>\n"; out != want {
			t.Errorf("stdout = %q, want %q", out, want)
		}
		if _, err := os.Stat(filepath.Join(dir, "page.html")); !os.IsNotExist(err) {
			t.Error("--stdout should not write files")
		}
	})

	t.Run("escape", func(t *testing.T) {
		out, err := execute(t, newApp(io.Discard, io.Discard), "compile", "--stdout", "--escape", src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "<body>&lt;b&gt;</body>") {
			t.Errorf("stdout = %q, want escaped body", out)
		}
	})

	t.Run("out-dir", func(t *testing.T) {
		outDir := filepath.Join(dir, "public")
		if _, err := execute(t, newApp(io.Discard, io.Discard), "compile", "-o", outDir, src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(outDir, "page.html")); err != nil {
			t.Errorf("output not in out-dir: %v", err)
		}
	})
}

func TestCompileCommandStopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	bad := writeDoc(t, dir, "bad.toml", "html = \"5\"\nbody = { type = \"blink\", cont = \"x\" }\n")
	good := writeDoc(t, dir, "good.toml", sampleDoc)

	_, err := execute(t, newApp(io.Discard, io.Discard), "compile", bad, good)
	if !errors.HasCode(err, errors.CodeUnknownElement) {
		t.Fatalf("err = %v, want %s", err, errors.CodeUnknownElement)
	}
	for _, name := range []string{"bad.html", "good.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should not be written", name)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	src := writeDoc(t, t.TempDir(), "index.toml", sampleDoc)

	out, err := execute(t, newApp(io.Discard, io.Discard), "inspect", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `body: sequence of 2
  [0]: element <p>
    cont: text "hello"
    type: text "p"
  [1]: element <br>
    type: text "br"
head: table
  title: text "Home"
html: text "5"
lang: text "en"
`
	if out != want {
		t.Errorf("outline:\n%s\nwant:\n%s", out, want)
	}

	dump, err := execute(t, newApp(io.Discard, io.Discard), "inspect", "--dump", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(dump, `"title": (string) (len=4) "Home"`) {
		t.Errorf("dump missing title:\n%s", dump)
	}
}

type fakeObjects struct {
	keys []string
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func TestPublishCommand(t *testing.T) {
	dir := t.TempDir()
	index := writeDoc(t, dir, "index.toml", sampleDoc)
	about := writeDoc(t, dir, "about.toml", sampleDoc)

	fake := &fakeObjects{}
	var got config.PublishConfig
	a := newApp(io.Discard, io.Discard)
	a.newObjectAPI = func(cfg config.PublishConfig) (publish.ObjectAPI, error) {
		got = cfg
		return fake, nil
	}

	out, err := execute(t, a, "publish", "--bucket", "site", "--prefix", "blog", "--path-style", index, about)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"site/blog/index.html", "site/blog/about.html"}; strings.Join(fake.keys, ",") != strings.Join(want, ",") {
		t.Errorf("uploaded %v, want %v", fake.keys, want)
	}
	if !got.PathStyle || got.Region != config.DefaultRegion {
		t.Errorf("publish config = %+v", got)
	}
	if !strings.Contains(out, "s3://site/blog/index.html") {
		t.Errorf("stdout = %q", out)
	}
}

func TestPublishCommandErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "index.toml", sampleDoc)
	bad := writeDoc(t, dir, "bad.toml", `lang = "en"`)

	t.Run("no bucket", func(t *testing.T) {
		_, err := execute(t, newApp(io.Discard, io.Discard), "publish", good)
		if !errors.HasCode(err, errors.CodeNoBucket) {
			t.Fatalf("err = %v, want %s", err, errors.CodeNoBucket)
		}
	})

	t.Run("compile error uploads nothing", func(t *testing.T) {
		fake := &fakeObjects{}
		a := newApp(io.Discard, io.Discard)
		a.newObjectAPI = func(config.PublishConfig) (publish.ObjectAPI, error) { return fake, nil }

		_, err := execute(t, a, "publish", "--bucket", "site", good, bad)
		if !errors.HasCode(err, errors.CodeUndeclaredFile) {
			t.Fatalf("err = %v, want %s", err, errors.CodeUndeclaredFile)
		}
		if len(fake.keys) != 0 {
			t.Errorf("uploaded %v, want nothing", fake.keys)
		}
	})
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "notes")

	out, err := execute(t, newApp(io.Discard, io.Discard), "init", dir, "--starter=site", "--title=Field notes", "--bucket=notes-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Created site project", "about.toml", "htoml.json", "index.toml"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("generated config: %v", err)
	}
	if cfg.Publish.Bucket != "notes-bucket" {
		t.Errorf("publish.bucket = %q, want notes-bucket", cfg.Publish.Bucket)
	}

	for _, name := range []string{"index.toml", "about.toml"} {
		out, err := execute(t, newApp(io.Discard, io.Discard), "compile", filepath.Join(dir, name), "--stdout")
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		if !strings.HasPrefix(out, "<!DOCTYPE html><html><head>") {
			t.Errorf("compile %s = %q", name, out)
		}
	}

	_, err = execute(t, newApp(io.Discard, io.Discard), "init", dir)
	if !errors.HasCode(err, errors.CodeProjectExists) {
		t.Errorf("second init err = %v, want %s", err, errors.CodeProjectExists)
	}

	_, err = execute(t, newApp(io.Discard, io.Discard), "init", t.TempDir(), "--starter=blog")
	if !errors.HasCode(err, errors.CodeUnknownStarter) {
		t.Errorf("err = %v, want %s", err, errors.CodeUnknownStarter)
	}

	out, err = execute(t, newApp(io.Discard, io.Discard), "init", "--list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "minimal") || !strings.Contains(out, "site") {
		t.Errorf("--list output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, newApp(io.Discard, io.Discard), "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Version:", version, "Go version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}
