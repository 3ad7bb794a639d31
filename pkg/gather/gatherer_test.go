package gather

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arieostack/arieo-tools/pkg/manifest"
)

func setupGatherRoot(t *testing.T) string {
	t.Helper()

	root, err := os.MkdirTemp("", "gather-test-*")
	require.NoError(t, err, "failed to create temp directory")
	t.Cleanup(func() {
		os.RemoveAll(root)
	})

	return root
}

func writeManifest(t *testing.T, dir, content string) *manifest.Manifest {
	t.Helper()

	path := filepath.Join(dir, manifest.DefaultManifestName)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err, "failed to write manifest file")

	m, err := manifest.Load(path)
	require.NoError(t, err, "failed to load manifest")

	return m
}

func writePackageDir(t *testing.T, root, dirName, descriptorContent string) string {
	t.Helper()

	pkgDir := filepath.Join(root, dirName)
	err := os.MkdirAll(pkgDir, 0755)
	require.NoError(t, err, "failed to create package directory")

	err = os.WriteFile(filepath.Join(pkgDir, manifest.DescriptorFileName), []byte(descriptorContent), 0644)
	require.NoError(t, err, "failed to write package descriptor")

	return pkgDir
}

func newTestGatherer(opts Options) *Gatherer {
	return New(opts, zap.NewNop().Sugar())
}

func TestRunCopiesDescriptors(t *testing.T) {
	root := setupGatherRoot(t)
	cacheDir := filepath.Join(root, ".cache")

	descriptorContent := "name: pkg-core\nversion: 1.0.0\n"
	pkgDir := writePackageDir(t, root, "pkg-core-src", descriptorContent)
	m := writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n", pkgDir))

	result, err := newTestGatherer(Options{}).Run(m, cacheDir)
	require.NoError(t, err, "gathering failed")

	assert.Equal(t, Result{Copied: 1}, result, "result counters mismatch")

	copied, err := os.ReadFile(filepath.Join(cacheDir, "pkg-core", manifest.DescriptorFileName))
	require.NoError(t, err, "copied descriptor missing")
	assert.Equal(t, descriptorContent, string(copied), "copied descriptor content mismatch")
}

func TestRunEmptyManifest(t *testing.T) {
	t.Run("does not create cache directory", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")

		m := writeManifest(t, root, "packages: []\n")

		result, err := newTestGatherer(Options{}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")

		assert.Equal(t, Result{}, result, "expected zero counters")
		_, err = os.Stat(cacheDir)
		assert.True(t, os.IsNotExist(err), "cache directory should not be created")
	})

	t.Run("does not clean an existing cache", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		stale := filepath.Join(cacheDir, "stale-pkg", manifest.DescriptorFileName)
		require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
		require.NoError(t, os.WriteFile(stale, []byte("name: stale-pkg\n"), 0644))

		m := writeManifest(t, root, "packages: []\n")

		_, err := newTestGatherer(Options{Clean: true}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")

		_, err = os.Stat(stale)
		assert.NoError(t, err, "empty manifest must not clean the cache")
	})
}

func TestRunSkipsGitEntries(t *testing.T) {
	root := setupGatherRoot(t)
	cacheDir := filepath.Join(root, ".cache")

	m := writeManifest(t, root, "packages:\n  - git: https://github.com/arieo/pkg-net.git@v1.2.0\n")

	result, err := newTestGatherer(Options{Verbose: true}).Run(m, cacheDir)
	require.NoError(t, err, "gathering failed")

	assert.Equal(t, Result{Skipped: 1}, result, "git entry should be skipped")

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err, "cache directory should exist")
	assert.Empty(t, entries, "nothing should be copied for git entries")
}

func TestRunEntryErrors(t *testing.T) {
	t.Run("unknown entry format", func(t *testing.T) {
		root := setupGatherRoot(t)

		m := writeManifest(t, root, "packages:\n  - vendor: acme\n")

		result, err := newTestGatherer(Options{}).Run(m, filepath.Join(root, ".cache"))
		require.NoError(t, err, "gathering failed")
		assert.Equal(t, Result{Errors: 1}, result)
	})

	t.Run("missing package folder", func(t *testing.T) {
		root := setupGatherRoot(t)

		m := writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n", filepath.Join(root, "nonexistent")))

		result, err := newTestGatherer(Options{}).Run(m, filepath.Join(root, ".cache"))
		require.NoError(t, err, "gathering failed")
		assert.Equal(t, Result{Errors: 1}, result)
	})

	t.Run("missing descriptor", func(t *testing.T) {
		root := setupGatherRoot(t)
		emptyDir := filepath.Join(root, "empty-pkg")
		require.NoError(t, os.MkdirAll(emptyDir, 0755))

		m := writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n", emptyDir))

		result, err := newTestGatherer(Options{}).Run(m, filepath.Join(root, ".cache"))
		require.NoError(t, err, "gathering failed")
		assert.Equal(t, Result{Errors: 1}, result)
	})

	t.Run("invalid descriptor", func(t *testing.T) {
		root := setupGatherRoot(t)
		pkgDir := writePackageDir(t, root, "bad-pkg", "name: [unclosed\n")

		m := writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n", pkgDir))

		result, err := newTestGatherer(Options{}).Run(m, filepath.Join(root, ".cache"))
		require.NoError(t, err, "gathering failed")
		assert.Equal(t, Result{Errors: 1}, result)
	})

	t.Run("bad entry does not abort the rest", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		goodDir := writePackageDir(t, root, "good-pkg", "name: pkg-good\n")

		m := writeManifest(t, root, fmt.Sprintf(
			"packages:\n  - local: %s\n  - local: %s\n",
			filepath.Join(root, "nonexistent"), goodDir,
		))

		result, err := newTestGatherer(Options{}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")

		assert.Equal(t, Result{Copied: 1, Errors: 1}, result)
		_, err = os.Stat(filepath.Join(cacheDir, "pkg-good", manifest.DescriptorFileName))
		assert.NoError(t, err, "good package should still be gathered")
	})
}

func TestRunNameCollisions(t *testing.T) {
	setupCollision := func(t *testing.T, root string) *manifest.Manifest {
		first := writePackageDir(t, root, "first-src", "name: pkg-dup\nversion: 1.0.0\n")
		second := writePackageDir(t, root, "second-src", "name: pkg-dup\nversion: 2.0.0\n")
		return writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n  - local: %s\n", first, second))
	}

	t.Run("last entry wins by default", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		m := setupCollision(t, root)

		result, err := newTestGatherer(Options{}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")

		assert.Equal(t, Result{Copied: 2}, result, "both entries count as copied")

		copied, err := os.ReadFile(filepath.Join(cacheDir, "pkg-dup", manifest.DescriptorFileName))
		require.NoError(t, err, "copied descriptor missing")
		assert.Contains(t, string(copied), "version: 2.0.0", "later entry should overwrite earlier one")
	})

	t.Run("strict mode aborts on duplicate", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		m := setupCollision(t, root)

		result, err := newTestGatherer(Options{Strict: true}).Run(m, cacheDir)
		require.Error(t, err, "expected duplicate name error")
		assert.Contains(t, err.Error(), "duplicate package name 'pkg-dup'")
		assert.Equal(t, 1, result.Copied, "first entry is gathered before the abort")
	})
}

func TestRunClean(t *testing.T) {
	seedStale := func(t *testing.T, cacheDir string) string {
		stale := filepath.Join(cacheDir, "stale-pkg", manifest.DescriptorFileName)
		require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
		require.NoError(t, os.WriteFile(stale, []byte("name: stale-pkg\n"), 0644))
		return stale
	}

	t.Run("clean removes stale cache entries", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		stale := seedStale(t, cacheDir)

		pkgDir := writePackageDir(t, root, "pkg-src", "name: pkg-fresh\n")
		m := writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n", pkgDir))

		result, err := newTestGatherer(Options{Clean: true}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")

		assert.Equal(t, Result{Copied: 1}, result)
		_, err = os.Stat(stale)
		assert.True(t, os.IsNotExist(err), "stale package should be removed")
		_, err = os.Stat(filepath.Join(cacheDir, "pkg-fresh", manifest.DescriptorFileName))
		assert.NoError(t, err, "fresh package should be gathered")
	})

	t.Run("without clean stale entries survive", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		stale := seedStale(t, cacheDir)

		pkgDir := writePackageDir(t, root, "pkg-src", "name: pkg-fresh\n")
		m := writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n", pkgDir))

		_, err := newTestGatherer(Options{}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")

		_, err = os.Stat(stale)
		assert.NoError(t, err, "stale package should survive without clean")
	})
}

func TestRunIsIdempotent(t *testing.T) {
	root := setupGatherRoot(t)
	cacheDir := filepath.Join(root, ".cache")

	pkgDir := writePackageDir(t, root, "pkg-src", "name: pkg-core\n")
	m := writeManifest(t, root, fmt.Sprintf("packages:\n  - local: %s\n", pkgDir))

	g := newTestGatherer(Options{})
	for run := 0; run < 2; run++ {
		result, err := g.Run(m, cacheDir)
		require.NoError(t, err, "gathering failed on run %d", run+1)
		assert.Equal(t, Result{Copied: 1}, result, "run %d counters mismatch", run+1)
	}
}

func TestRunPathResolution(t *testing.T) {
	t.Run("manifest dir token", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		writePackageDir(t, root, "pkg-src", "name: pkg-core\n")

		m := writeManifest(t, root, "packages:\n  - local: ${CUR_MANIFEST_FILE_DIR}/pkg-src\n")

		result, err := newTestGatherer(Options{}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")
		assert.Equal(t, Result{Copied: 1}, result)
	})

	t.Run("environment variables", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")
		writePackageDir(t, root, "pkg-src", "name: pkg-core\n")

		t.Setenv("PKG_ROOT", root)

		m := writeManifest(t, root, "packages:\n  - local: ${PKG_ROOT}/pkg-src\n")

		result, err := newTestGatherer(Options{}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")
		assert.Equal(t, Result{Copied: 1}, result)
	})

	t.Run("relative paths resolve against working directory", func(t *testing.T) {
		root := setupGatherRoot(t)
		cacheDir := filepath.Join(root, ".cache")

		manifestDir := filepath.Join(root, "manifests")
		require.NoError(t, os.MkdirAll(manifestDir, 0755))
		workDir := filepath.Join(root, "work")
		writePackageDir(t, workDir, "pkg-rel", "name: pkg-rel\n")

		m := writeManifest(t, manifestDir, "packages:\n  - local: ./pkg-rel\n")

		cwd, err := os.Getwd()
		require.NoError(t, err, "failed to get working directory")
		require.NoError(t, os.Chdir(workDir), "failed to change directory")
		defer os.Chdir(cwd)

		result, err := newTestGatherer(Options{}).Run(m, cacheDir)
		require.NoError(t, err, "gathering failed")
		assert.Equal(t, Result{Copied: 1}, result, "relative path should resolve against the working directory, not the manifest directory")
	})
}
