package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonefuse/clonefuse/domain"
)

func writeBundleFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const jsonBundle = `{
  "units": [
    {"file": "a.py", "func_name": "f", "code": "x = 1"},
    {"file": "b.py", "func_name": "g", "code": "x = 1"}
  ],
  "semantic_pairs": [
    {"a": {"file": "a.py", "func_name": "f"}, "b": {"file": "b.py", "func_name": "g"}, "score": 0.88}
  ],
  "dynamic": [
    {"path": "b.py", "runs": 5, "anomalies": [{"exit_code": 1}]}
  ],
  "bugs": [
    {"file": "a.py", "function": "f", "line": 3, "severity": "high", "category": "Logic", "message": "broken", "detector": "Pattern Matcher"}
  ]
}`

func TestLoadBundles(t *testing.T) {
	loader := NewBundleLoader()

	t.Run("loads a json bundle", func(t *testing.T) {
		dir := t.TempDir()
		path := writeBundleFile(t, dir, "run1.bundle.json", jsonBundle)

		bundle, err := loader.LoadBundles([]string{path}, nil)
		require.NoError(t, err)

		require.Len(t, bundle.Units, 2)
		require.Len(t, bundle.SemanticPairs, 1)
		assert.Equal(t, 0.88, bundle.SemanticPairs[0].Score)
		require.Len(t, bundle.Dynamic, 1)
		assert.True(t, bundle.Dynamic[0].HasAnomalies())
		require.Len(t, bundle.Bugs, 1)
		assert.Equal(t, domain.SeverityHigh, bundle.Bugs[0].Severity)
	})

	t.Run("loads a yaml bundle", func(t *testing.T) {
		dir := t.TempDir()
		path := writeBundleFile(t, dir, "run1.bundle.yaml", `
units:
  - file: a.py
    func_name: f
    code: "x = 1"
bugs:
  - file: a.py
    function: f
    line: 1
    severity: critical
    category: Logic
    message: bad
    detector: Pattern Matcher
`)

		bundle, err := loader.LoadBundles([]string{path}, nil)
		require.NoError(t, err)
		require.Len(t, bundle.Units, 1)
		require.Len(t, bundle.Bugs, 1)
		assert.Equal(t, domain.SeverityCritical, bundle.Bugs[0].Severity)
	})

	t.Run("merges shards matched by glob", func(t *testing.T) {
		dir := t.TempDir()
		writeBundleFile(t, dir, "run1.bundle.json", `{"units": [{"file": "a.py", "func_name": "f"}]}`)
		writeBundleFile(t, dir, "run2.bundle.json", `{"units": [{"file": "b.py", "func_name": "g"}]}`)

		bundle, err := loader.LoadBundles([]string{filepath.Join(dir, "*.bundle.json")}, nil)
		require.NoError(t, err)
		assert.Len(t, bundle.Units, 2)
	})

	t.Run("exclude patterns filter shards", func(t *testing.T) {
		dir := t.TempDir()
		writeBundleFile(t, dir, "run1.bundle.json", `{"units": [{"file": "a.py", "func_name": "f"}]}`)
		writeBundleFile(t, dir, "skip.bundle.json", `{"units": [{"file": "b.py", "func_name": "g"}]}`)

		bundle, err := loader.LoadBundles(
			[]string{filepath.Join(dir, "*.bundle.json")},
			[]string{"skip.*"},
		)
		require.NoError(t, err)
		require.Len(t, bundle.Units, 1)
		assert.Equal(t, "a.py", bundle.Units[0].File)
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := loader.LoadBundles([]string{filepath.Join(t.TempDir(), "*.json")}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no bundle files matched")
	})

	t.Run("malformed bundle", func(t *testing.T) {
		dir := t.TempDir()
		path := writeBundleFile(t, dir, "bad.json", "{not json")

		_, err := loader.LoadBundles([]string{path}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load bundle")
	})
}

func TestCandidatePairsFromBundle(t *testing.T) {
	t.Run("semantic pairs resolve full units and anomaly flags", func(t *testing.T) {
		bundle := &domain.AnalysisBundle{
			Units: []*domain.CodeUnit{
				{File: "a.py", Function: "f", Code: "x = 1"},
				{File: "b.py", Function: "g", Code: "x = 2"},
			},
			SemanticPairs: []*domain.SemanticPair{
				{
					A:     &domain.CodeUnit{File: "a.py", Function: "f"},
					B:     &domain.CodeUnit{File: "b.py", Function: "g"},
					Score: 0.9,
				},
			},
			Dynamic: []*domain.DynamicResult{
				{Path: "b.py", Runs: 3, Anomalies: []map[string]any{{"exit_code": 2}}},
			},
		}

		pairs := bundle.CandidatePairs()
		require.Len(t, pairs, 1)

		// Pair sides were resolved against the units section
		assert.Equal(t, "x = 1", pairs[0].A.Code)
		assert.Equal(t, "x = 2", pairs[0].B.Code)
		assert.Equal(t, 0.9, pairs[0].SemanticSim)
		assert.True(t, pairs[0].DynamicAnomaly)
	})

	t.Run("falls back to all unit pairings", func(t *testing.T) {
		bundle := &domain.AnalysisBundle{
			Units: []*domain.CodeUnit{
				{File: "a.py", Function: "f"},
				{File: "b.py", Function: "g"},
				{File: "c.py", Function: "h"},
			},
		}

		pairs := bundle.CandidatePairs()
		assert.Len(t, pairs, 3)
		for _, p := range pairs {
			assert.Zero(t, p.SemanticSim)
		}
	})

	t.Run("nil bundle", func(t *testing.T) {
		var bundle *domain.AnalysisBundle
		assert.Nil(t, bundle.CandidatePairs())
	})
}
