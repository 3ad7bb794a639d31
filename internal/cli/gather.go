package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arieostack/arieo-tools/internal/config"
	"github.com/arieostack/arieo-tools/internal/logging"
	"github.com/arieostack/arieo-tools/internal/ui"
	"github.com/arieostack/arieo-tools/pkg/gather"
	"github.com/arieostack/arieo-tools/pkg/manifest"
)

// NewGatherCommand creates the arieo-gather root command.
func NewGatherCommand(version string) *cobra.Command {
	var (
		manifestPath string
		clean        bool
		strict       bool
		verbose      bool
		configPath   string
	)

	cmd := &cobra.Command{
		Use:   "arieo-gather",
		Short: "Gather ArieoPackage.yaml descriptors into the package cache",
		Long: `Collect the package descriptors named by a packages.manifest.yaml into
the package cache.

Each local entry is validated and its ArieoPackage.yaml is copied to
<cache>/<package name>/ArieoPackage.yaml, where the package name comes
from the descriptor itself. Git entries are skipped until they are
cloned. A broken entry is reported and counted, the remaining entries
are still gathered.

The cache location comes from the manifest's pachages_cache_folder key,
falling back to ./.cache next to the manifest. Paths in the manifest may
reference ${CUR_MANIFEST_FILE_DIR} and OS environment variables.`,
		Example: `  # Gather using packages.manifest.yaml from the current directory
  arieo-gather

  # Gather from an explicit manifest, starting from a clean cache
  arieo-gather --manifest ./engine/packages.manifest.yaml --clean

  # Fail instead of overwriting when two entries share a package name
  arieo-gather --strict`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(c *cobra.Command, _ []string) error {
			log := logging.New(verbose)
			defer log.Sync()

			ui.PrintTitle("ArieoEngine Package Gatherer")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			path := manifestPath
			if path == "" {
				path = cfg.Gather.Manifest
			}

			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			log.Debugw("loaded manifest", "dir", m.Dir(), "entries", len(m.Packages))

			cacheDir := m.CacheDir(cfg.Gather.Cache)

			if verbose {
				fmt.Printf("Manifest directory: %s\n", m.Dir())
				fmt.Printf("Cache directory: %s\n", cacheDir)
			}

			g := gather.New(gather.Options{Clean: clean, Strict: strict, Verbose: verbose}, log)
			result, err := g.Run(m, cacheDir)
			if err != nil {
				return err
			}

			fmt.Println()
			ui.PrintRule()
			if result.Copied > 0 {
				ui.PrintSuccess(fmt.Sprintf("Package gathering complete: %d package(s) in %s", result.Copied, cacheDir))
			} else {
				ui.PrintFailure("No packages gathered")
			}
			ui.PrintRule()

			if result.Copied == 0 {
				return &ExitError{Code: 1}
			}

			return nil
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeDashes)
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Path to packages.manifest.yaml")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean the cache folder before gathering")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when two entries resolve to the same package name")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to the configuration file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}
