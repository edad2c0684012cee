package dev

import (
	"path/filepath"

	"github.com/htoml-dev/htoml/internal/config"
)

// CollectWatchPaths returns the paths the dev server watches: the document
// root and, when it lives outside the root, the config file.
func CollectWatchPaths(cfg *config.Config) []string {
	paths := []string{cfg.RootPath()}
	if p := cfg.Path(); p != "" {
		paths = append(paths, p)
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			continue
		}
		if len(unique) > 0 && isWithinDir(clean, unique[0]) {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}
	return unique
}
