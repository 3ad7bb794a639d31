package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	// DefaultManifestName is the manifest file probed in the current
	// directory when no explicit path is given
	DefaultManifestName = "packages.manifest.yaml"

	// DescriptorFileName is the package descriptor looked up inside each
	// package folder and copied into the cache
	DescriptorFileName = "ArieoPackage.yaml"

	// DirToken expands to the directory containing the manifest file.
	// It is replaced before OS environment variables are expanded.
	DirToken = "${CUR_MANIFEST_FILE_DIR}"
)

// Manifest represents the structure of a packages.manifest.yaml file.
// The cache folder key keeps its historical spelling; manifests in the
// wild use it and renaming it would break them.
type Manifest struct {
	Packages    []PackageEntry `yaml:"packages"`
	CacheFolder string         `yaml:"pachages_cache_folder"`

	dir string
}

// Dir returns the absolute directory containing the manifest file.
func (m *Manifest) Dir() string {
	return m.dir
}

// Load reads and parses a package manifest. An empty path probes for
// packages.manifest.yaml in the current directory.
func Load(path string) (*Manifest, error) {
	if path == "" {
		if _, err := os.Stat(DefaultManifestName); err != nil {
			return nil, fmt.Errorf("%s not found", DefaultManifestName)
		}
		path = DefaultManifestName
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("manifest file not found at %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	manifest.dir = filepath.Dir(absPath)

	return &manifest, nil
}

// ExpandPath substitutes the manifest directory token and OS environment
// variables in a path taken from the manifest.
func (m *Manifest) ExpandPath(path string) string {
	expanded := strings.ReplaceAll(path, DirToken, m.dir)
	return os.ExpandEnv(expanded)
}

// CacheDir resolves the cache directory for this manifest. The manifest's
// own pachages_cache_folder wins; fallback is used when the manifest does
// not name one. Relative paths are resolved against the manifest directory.
func (m *Manifest) CacheDir(fallback string) string {
	folder := m.CacheFolder
	if folder == "" {
		folder = fallback
	}

	expanded := m.ExpandPath(folder)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(m.dir, expanded)
	}

	return filepath.Clean(expanded)
}
