package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/clonefuse/clonefuse/domain"
)

// BundleLoaderImpl loads analysis bundles produced by the upstream
// collaborators (extractor, embedder, dynamic tester, bug detectors).
// Bundles are JSON or YAML files; several shards can be merged by passing
// glob patterns.
type BundleLoaderImpl struct{}

// NewBundleLoader creates a new bundle loader
func NewBundleLoader() *BundleLoaderImpl {
	return &BundleLoaderImpl{}
}

// LoadBundles loads and merges every bundle matching the given glob
// patterns, minus those matching the exclude patterns
func (l *BundleLoaderImpl) LoadBundles(patterns []string, excludePatterns []string) (*domain.AnalysisBundle, error) {
	files, err := l.collectFiles(patterns, excludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no bundle files matched the given patterns", nil)
	}

	merged := &domain.AnalysisBundle{}
	for _, path := range files {
		bundle, err := l.loadBundleFile(path)
		if err != nil {
			return nil, err
		}
		merged.Units = append(merged.Units, bundle.Units...)
		merged.SemanticPairs = append(merged.SemanticPairs, bundle.SemanticPairs...)
		merged.Dynamic = append(merged.Dynamic, bundle.Dynamic...)
		merged.Bugs = append(merged.Bugs, bundle.Bugs...)
	}

	return merged, nil
}

// collectFiles expands patterns into a sorted, deduplicated file list
func (l *BundleLoaderImpl) collectFiles(patterns []string, excludePatterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if l.isExcluded(path, excludePatterns) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, pattern := range patterns {
		// Literal paths take priority over glob expansion
		if info, err := os.Stat(pattern); err == nil && !info.IsDir() {
			add(pattern)
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid bundle pattern: %s", pattern), err)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				add(m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// isExcluded reports whether a path matches any exclude pattern
func (l *BundleLoaderImpl) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, err := doublestar.PathMatch(pattern, filepath.ToSlash(path)); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}

// loadBundleFile decodes one bundle file by extension
func (l *BundleLoaderImpl) loadBundleFile(path string) (*domain.AnalysisBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewBundleError(path, err)
	}

	var bundle domain.AnalysisBundle
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return nil, domain.NewBundleError(path, err)
		}
	default:
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, domain.NewBundleError(path, err)
		}
	}

	return &bundle, nil
}
