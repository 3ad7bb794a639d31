package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arieostack/arieo-tools/internal/config"
	"github.com/arieostack/arieo-tools/internal/logging"
	"github.com/arieostack/arieo-tools/pkg/driver"
)

// NewBuildCommand creates the arieo-build root command.
func NewBuildCommand(version string) *cobra.Command {
	var (
		cmakeDir   string
		buildDir   string
		presets    []string
		buildTypes []string
		packages   []string
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "arieo-build",
		Short: "Configure and build ArieoEngine packages with CMake",
		Long: `Drive CMake configure and build steps across build presets and build types.

For every preset and build type combination the driver:

1. Creates <build_dir>/<preset>/<build_type> under the build root
2. Configures the source tree, forwarding the pair as -DARIEO_PRESET
   and -DCMAKE_BUILD_TYPE
3. Builds the directory, restricted to the requested packages when given

The run stops at the first failing step and exits with that step's exit
code. Presets, build types, the generator and the cmake binary can also
be set in the configuration file or through ARIEO_ environment variables.`,
		Example: `  # Build with the defaults: preset "default", build type "Release"
  arieo-build --cmake ./engine

  # Build two presets in both Debug and Release
  arieo-build --cmake ./engine --preset default --preset headless \
    --build_type Debug --build_type Release

  # Restrict the build to specific packages
  arieo-build --cmake ./engine --package pkg-core --package pkg-net`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(c *cobra.Command, _ []string) error {
			log := logging.New(verbose)
			defer log.Sync()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			opts := driver.Options{
				SourceDir:  cmakeDir,
				BuildDir:   buildDir,
				CMakeBin:   cfg.Build.CMake,
				Generator:  cfg.Build.Generator,
				Presets:    cfg.Build.Presets,
				BuildTypes: cfg.Build.Types,
				Packages:   packages,
			}
			if opts.BuildDir == "" {
				opts.BuildDir = filepath.Join(cmakeDir, cfg.Build.Dir)
			}
			if c.Flags().Changed("preset") {
				opts.Presets = presets
			}
			if c.Flags().Changed("build_type") {
				opts.BuildTypes = buildTypes
			}

			log.Debugw("resolved build options",
				"source", opts.SourceDir,
				"build_dir", opts.BuildDir,
				"presets", opts.Presets,
				"build_types", opts.BuildTypes,
				"packages", opts.Packages)

			d, err := driver.New(opts, log)
			if err != nil {
				return err
			}

			return d.Run()
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeDashes)
	cmd.Flags().StringVar(&cmakeDir, "cmake", "", "Path to the directory containing the top-level CMakeLists.txt")
	cmd.Flags().StringVar(&buildDir, "build_dir", "", "Base build output directory (default: <cmake>/build)")
	cmd.Flags().StringArrayVar(&presets, "preset", nil, "Build preset (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&buildTypes, "build_type", nil, "Build type (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&packages, "package", nil, "Package to build (can be specified multiple times)")
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to the configuration file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	_ = cmd.MarkFlagRequired("cmake")

	return cmd
}

// normalizeDashes accepts dashed spellings of the underscore flags, so
// --build-dir and --build_dir both work.
func normalizeDashes(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}
