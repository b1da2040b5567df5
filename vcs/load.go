package vcs

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"effdiff/logger"
)

// loadConcurrency bounds parallel content fetches per LoadAll call.
const loadConcurrency = 8

// LoadAll fetches the given paths from src concurrently and returns a map of
// path to content. A nil src loads nothing. Missing paths are simply absent
// from the map, and a fetch failure for one path is logged without affecting
// the others: downstream move analysis treats absent content as an empty
// file rather than aborting.
func LoadAll(ctx context.Context, src FileSource, paths []string) map[string]string {
	uniq := dedupe(paths)
	files := make(map[string]string, len(uniq))
	if src == nil || len(uniq) == 0 {
		return files
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for _, path := range uniq {
		g.Go(func() error {
			content, ok, err := src.Content(gctx, path)
			if err != nil {
				// Fetch failures are non-fatal; the report still
				// accounts for the affected move's lines.
				logger.Warn("vcs: %s: reading %s: %v", src.Label(), path, err)
				return nil
			}
			if !ok {
				logger.Debug("vcs: %s: no content for %s", src.Label(), path)
				return nil
			}
			mu.Lock()
			files[path] = content
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return files
}

// dedupe returns the unique paths in sorted order so fetch scheduling is
// deterministic.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var uniq []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
	}
	sort.Strings(uniq)
	return uniq
}
