package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	m "gomu.dev/pkg/gomu/internal/model"
)

// hashWorkers bounds the parallel fingerprinting of discovered files.
const hashWorkers = 4

// discoverSources walks the given paths and returns every non-test Go file,
// sorted by path. The sort is what makes identifier assignment reproducible
// across runs: the transform pass consumes sources strictly in this order.
//
// Paths follow the Go tool convention: "./..." descends recursively, a bare
// directory scans only itself.
func (w *workflow) discoverSources(ctx context.Context, paths []m.Path, exclude []string) ([]m.Source, error) {
	if len(paths) == 0 {
		paths = []m.Path{m.Path("." + string(filepath.Separator) + "...")}
	}

	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	var sources []m.Source

	seen := make(map[m.Path]struct{})

	for _, path := range paths {
		root, recursive := splitPathPattern(path)

		collected, err := w.collectGoFiles(ctx, root, recursive, excludes)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}

		for _, source := range collected {
			if _, ok := seen[source.Origin.FullPath]; ok {
				continue
			}

			seen[source.Origin.FullPath] = struct{}{}
			sources = append(sources, source)
		}
	}

	if err := w.hashSources(ctx, sources); err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Origin.FullPath < sources[j].Origin.FullPath
	})

	return sources, nil
}

func splitPathPattern(path m.Path) (m.Path, bool) {
	str := string(path)
	if strings.HasSuffix(str, "...") {
		trimmed := strings.TrimSuffix(str, "...")
		trimmed = strings.TrimSuffix(trimmed, string(filepath.Separator))

		if trimmed == "" {
			trimmed = "."
		}

		return m.Path(trimmed), true
	}

	return path, false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func (w *workflow) collectGoFiles(ctx context.Context, root m.Path, recursive bool, excludes []*regexp.Regexp) ([]m.Source, error) {
	var sources []m.Source

	walkErr := w.Walk(ctx, root, recursive, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		for _, re := range excludes {
			if re.MatchString(path) {
				return nil
			}
		}

		fullPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		shortPath, relErr := w.RelPath(ctx, root, m.Path(path))
		if relErr != nil {
			shortPath = m.Path(path)
		}

		sources = append(sources, m.Source{
			Origin: &m.File{
				FullPath:  m.Path(fullPath),
				ShortPath: shortPath,
			},
		})

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return sources, nil
}

// hashSources fingerprints every discovered file. Hashing is parallel; the
// result slice order is untouched, so determinism is unaffected.
func (w *workflow) hashSources(ctx context.Context, sources []m.Source) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(hashWorkers)

	for _, source := range sources {
		group.Go(func() error {
			hash, err := w.HashFile(groupCtx, source.Origin.FullPath)
			if err != nil {
				return fmt.Errorf("hash %s: %w", source.Origin.FullPath, err)
			}

			source.Origin.Hash = hash

			return nil
		})
	}

	return group.Wait()
}
