package dev

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/htoml-dev/htoml/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// touch gives path a modification time distinct from any earlier write.
func touch(t *testing.T, path string, offset time.Duration) {
	t.Helper()
	when := time.Now().Add(offset)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherPoll(t *testing.T) {
	tmpDir := t.TempDir()
	doc := filepath.Join(tmpDir, "index.toml")
	writeFile(t, doc, `html = "5"`)

	watcher := NewWatcher(WatcherConfig{Paths: []string{tmpDir}})
	watcher.Scan()

	if changes := watcher.Poll(); len(changes) != 0 {
		t.Fatalf("Poll() after Scan = %v, want none", changes)
	}

	writeFile(t, doc, `html = "html"`)
	touch(t, doc, time.Hour)
	asset := filepath.Join(tmpDir, "style.css")
	writeFile(t, asset, "body {}")

	got := watcher.Poll()
	want := []Change{
		{Path: doc, Type: ChangeDocument},
		{Path: asset, Type: ChangeAsset},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Poll() = %v, want %v", got, want)
	}

	if err := os.Remove(asset); err != nil {
		t.Fatal(err)
	}
	got = watcher.Poll()
	want = []Change{{Path: asset, Type: ChangeAsset, Removed: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Poll() after remove = %v, want %v", got, want)
	}
}

func TestWatcherPollCallsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	watcher := NewWatcher(WatcherConfig{Paths: []string{tmpDir}})
	watcher.Scan()

	var seen []string
	watcher.OnChange(func(c Change) {
		seen = append(seen, filepath.Base(c.Path))
	})

	writeFile(t, filepath.Join(tmpDir, "b.toml"), `html = "5"`)
	writeFile(t, filepath.Join(tmpDir, "a.toml"), `html = "5"`)
	watcher.Poll()

	if want := []string{"a.toml", "b.toml"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("callback saw %v, want %v", seen, want)
	}
}

func TestWatcherStart(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{tmpDir},
		Interval: 20 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- watcher.Start(ctx) }()

	// Wait for the initial scan
	time.Sleep(100 * time.Millisecond)

	newFile := filepath.Join(tmpDir, "new.toml")
	writeFile(t, newFile, `html = "5"`)

	select {
	case change := <-changes:
		if change.Type != ChangeDocument {
			t.Errorf("Type = %v, want document", change.Type)
		}
		if change.Path != newFile {
			t.Errorf("Path = %q, want %q", change.Path, newFile)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}

	if !watcher.IsRunning() {
		t.Error("watcher should be running")
	}
	watcher.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	if watcher.IsRunning() {
		t.Error("watcher should not be running after Stop")
	}
}

func TestWatcherShouldIgnore(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{
		Ignore: append([]string{"drafts/old", "build/*.toml"}, DefaultIgnore...),
	})

	tests := []struct {
		path string
		want bool
	}{
		{"site/.git/HEAD", true},
		{"site/node_modules/x/index.toml", true},
		{"site/page.toml.swp", true},
		{"site/page.tmp", true},
		{"site/page.toml~", true},
		{"site/drafts/old/a.toml", true},
		{"site/drafts/older/a.toml", false},
		{"build/a.toml", true},
		{"build/a.css", false},
		{"site/index.toml", false},
		{"site/gitignore.toml", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := watcher.shouldIgnore(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcherSkipsIgnoredDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "node_modules", "pkg", "a.toml"), `html = "5"`)
	writeFile(t, filepath.Join(tmpDir, "index.toml"), `html = "5"`)

	watcher := NewWatcher(WatcherConfig{Paths: []string{tmpDir}})
	files := watcher.walk()
	if len(files) != 1 {
		t.Fatalf("walk() found %d files, want 1: %v", len(files), files)
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"index.toml", ChangeDocument},
		{"docs/ABOUT.TOML", ChangeDocument},
		{"htoml.json", ChangeConfig},
		{"site/htoml.json", ChangeConfig},
		{"style.css", ChangeAsset},
		{"index.html", ChangeAsset},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := classifyChange(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCollectWatchPaths(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		cfg := config.New()
		cfg.Serve.Root = "site"
		if got := CollectWatchPaths(cfg); !reflect.DeepEqual(got, []string{"site"}) {
			t.Errorf("CollectWatchPaths() = %v", got)
		}
	})

	t.Run("config inside root", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, config.ConfigFileName), `{}`)
		cfg, err := config.Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got := CollectWatchPaths(cfg); !reflect.DeepEqual(got, []string{dir}) {
			t.Errorf("CollectWatchPaths() = %v, want [%s]", got, dir)
		}
	})

	t.Run("config outside root", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, config.ConfigFileName), `{"serve":{"root":"site"}}`)
		cfg, err := config.Load(dir)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{filepath.Join(dir, "site"), filepath.Join(dir, config.ConfigFileName)}
		if got := CollectWatchPaths(cfg); !reflect.DeepEqual(got, want) {
			t.Errorf("CollectWatchPaths() = %v, want %v", got, want)
		}
	})
}
