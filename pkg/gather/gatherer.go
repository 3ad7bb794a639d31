package gather

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arieostack/arieo-tools/internal/ui"
	"github.com/arieostack/arieo-tools/pkg/manifest"
)

// Options controls a gathering run.
type Options struct {
	// Clean removes the cache directory before gathering
	Clean bool

	// Strict aborts the run when two entries resolve to the same package name.
	// Without it, the last entry wins.
	Strict bool

	// Verbose enables per-entry detail in the progress output
	Verbose bool
}

// Result counts the outcome of a gathering run per entry.
type Result struct {
	Copied  int
	Skipped int
	Errors  int
}

// Gatherer copies package descriptors named by a manifest into a cache
// directory. One Gatherer can run multiple manifests.
type Gatherer struct {
	opts Options
	log  *zap.SugaredLogger
}

// New creates a Gatherer.
func New(opts Options, log *zap.SugaredLogger) *Gatherer {
	return &Gatherer{opts: opts, log: log}
}

// Run gathers every package entry of the manifest into cacheDir. Entry
// failures are reported and counted, they never abort the run. The
// returned error is reserved for run-level failures: an unusable cache
// directory, or a duplicate package name in strict mode.
func (g *Gatherer) Run(m *manifest.Manifest, cacheDir string) (Result, error) {
	var result Result

	if len(m.Packages) == 0 {
		fmt.Println("No packages defined in manifest.")
		return result, nil
	}

	if g.opts.Clean {
		if _, err := os.Stat(cacheDir); err == nil {
			if g.opts.Verbose {
				fmt.Printf("Cleaning cache directory: %s\n", cacheDir)
			}
			if err := os.RemoveAll(cacheDir); err != nil {
				return result, fmt.Errorf("failed to clean cache directory: %w", err)
			}
		}
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create cache directory: %w", err)
	}

	total := len(m.Packages)
	fmt.Printf("\nProcessing %d package entries from manifest...\n", total)

	seen := make(map[string]string, total)

	for i, entry := range m.Packages {
		idx := i + 1

		switch entry.Kind() {
		case manifest.EntryLocal:
			if err := g.gatherLocal(m, entry, idx, total, cacheDir, seen, &result); err != nil {
				return result, err
			}

		case manifest.EntryGit:
			g.log.Debugw("skipping git entry", "url", entry.Git)
			if g.opts.Verbose {
				ui.PrintEntrySkip(idx, total, fmt.Sprintf("Skipping git entry: %s (not cloned)", entry.RepoDisplayName()))
			}
			result.Skipped++

		default:
			ui.PrintEntryError(idx, total, fmt.Sprintf("Unknown entry format: %s", entry.String()))
			result.Errors++
		}
	}

	fmt.Println()
	ui.PrintRule()
	fmt.Println("Results:")
	fmt.Printf("  Copied:  %d\n", result.Copied)
	fmt.Printf("  Skipped: %d (git entries)\n", result.Skipped)
	fmt.Printf("  Errors:  %d\n", result.Errors)
	ui.PrintRule()

	return result, nil
}

// gatherLocal validates one local package folder and copies its descriptor
// into the cache. The returned error is non-nil only for strict-mode
// duplicates; everything else is reported and counted on result.
func (g *Gatherer) gatherLocal(m *manifest.Manifest, entry manifest.PackageEntry, idx, total int, cacheDir string, seen map[string]string, result *Result) error {
	path := m.ExpandPath(entry.Local)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if _, err := os.Stat(path); err != nil {
		ui.PrintEntryError(idx, total, fmt.Sprintf("Package folder not found: %s", path))
		result.Errors++
		return nil
	}

	descriptorPath := filepath.Join(path, manifest.DescriptorFileName)
	if _, err := os.Stat(descriptorPath); err != nil {
		ui.PrintEntryError(idx, total, fmt.Sprintf("%s not found in: %s", manifest.DescriptorFileName, path))
		result.Errors++
		return nil
	}

	descriptor, err := manifest.VerifyDescriptor(descriptorPath)
	if err != nil {
		ui.PrintEntryError(idx, total, fmt.Sprintf("Invalid YAML: %v", err))
		result.Errors++
		return nil
	}

	if previous, duplicate := seen[descriptor.Name]; duplicate && g.opts.Strict {
		return fmt.Errorf("duplicate package name '%s' in %s: already gathered from %s", descriptor.Name, path, previous)
	}
	seen[descriptor.Name] = path

	destDir := filepath.Join(cacheDir, descriptor.Name)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		ui.PrintEntryError(idx, total, fmt.Sprintf("Failed to copy: %v", err))
		result.Errors++
		return nil
	}

	destPath := filepath.Join(destDir, manifest.DescriptorFileName)
	if err := copyFile(descriptorPath, destPath); err != nil {
		ui.PrintEntryError(idx, total, fmt.Sprintf("Failed to copy: %v", err))
		result.Errors++
		return nil
	}

	g.log.Debugw("copied package descriptor", "name", descriptor.Name, "dest", destPath)
	result.Copied++

	if g.opts.Verbose {
		ui.PrintEntryOK(idx, total, fmt.Sprintf("%s -> %s", descriptor.Name, filepath.Join(descriptor.Name, manifest.DescriptorFileName)))
	} else {
		ui.PrintEntryOK(idx, total, descriptor.Name)
	}

	return nil
}

// copyFile copies src to dst preserving the source file mode.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, info.Mode())
}
