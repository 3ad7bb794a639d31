package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arieostack/arieo-tools/internal/ui"
)

// Options describes one build driver invocation. Every preset is
// configured and built against every build type.
type Options struct {
	// SourceDir is the directory containing the top-level CMakeLists.txt
	SourceDir string `validate:"required"`

	// BuildDir is the base output directory. Empty means <SourceDir>/build.
	// Per-pair directories are created underneath it.
	BuildDir string

	// CMakeBin is the cmake executable to invoke
	CMakeBin string `validate:"required"`

	// Generator is passed to the configure step via -G
	Generator string `validate:"required"`

	// Presets to configure, each forwarded as -DARIEO_PRESET
	Presets []string `validate:"min=1,dive,required"`

	// BuildTypes to configure, each forwarded as -DCMAKE_BUILD_TYPE
	BuildTypes []string `validate:"min=1,dive,required"`

	// Packages narrows the build to specific targets. Empty builds everything.
	Packages []string `validate:"dive,required"`
}

// Driver runs cmake configure and build steps over the preset and build
// type matrix described by its Options.
type Driver struct {
	opts Options
	log  *zap.SugaredLogger
}

// New resolves paths, applies defaults and validates the options.
func New(opts Options, log *zap.SugaredLogger) (*Driver, error) {
	if opts.CMakeBin == "" {
		opts.CMakeBin = "cmake"
	}
	if opts.Generator == "" {
		opts.Generator = "Ninja"
	}
	if len(opts.Presets) == 0 {
		opts.Presets = []string{"default"}
	}
	if len(opts.BuildTypes) == 0 {
		opts.BuildTypes = []string{"Release"}
	}

	if opts.SourceDir != "" {
		abs, err := filepath.Abs(opts.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source directory: %w", err)
		}
		opts.SourceDir = abs
	}

	if opts.BuildDir == "" {
		opts.BuildDir = filepath.Join(opts.SourceDir, "build")
	} else {
		abs, err := filepath.Abs(opts.BuildDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve build directory: %w", err)
		}
		opts.BuildDir = abs
	}

	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid build options: %w", err)
	}

	return &Driver{opts: opts, log: log}, nil
}

// Run walks the preset x build type matrix in order: for each pair it
// creates the build directory, configures, then builds. The first failing
// step aborts the whole run and its error carries the cmake exit code.
func (d *Driver) Run() error {
	packagesStr := strings.Join(d.opts.Packages, ";")

	for _, preset := range d.opts.Presets {
		for _, buildType := range d.opts.BuildTypes {
			buildDir := filepath.Join(d.opts.BuildDir, preset, buildType)
			if err := os.MkdirAll(buildDir, 0755); err != nil {
				return fmt.Errorf("failed to create build directory %s: %w", buildDir, err)
			}

			ui.PrintSection(fmt.Sprintf("Configuring: preset=%s, build_type=%s, packages=%s", preset, buildType, packagesStr))

			configureArgs := []string{
				"-G", d.opts.Generator,
				"-S", d.opts.SourceDir,
				"-B", buildDir,
				"-DCMAKE_BUILD_TYPE=" + buildType,
				"-DARIEO_PRESET=" + preset,
			}
			if err := d.runCMake(configureArgs); err != nil {
				fmt.Println(ui.ErrorStyle.Bold(true).Render(fmt.Sprintf("Configure failed for preset=%s, build_type=%s", preset, buildType)))
				return fmt.Errorf("configure preset=%s build_type=%s: %w", preset, buildType, err)
			}

			ui.PrintSection(fmt.Sprintf("Building: preset=%s, build_type=%s, packages=%s", preset, buildType, packagesStr))

			buildArgs := []string{"--build", buildDir}
			if len(d.opts.Packages) > 0 {
				buildArgs = append(buildArgs, "--target")
				buildArgs = append(buildArgs, d.opts.Packages...)
			}
			if err := d.runCMake(buildArgs); err != nil {
				fmt.Println(ui.ErrorStyle.Bold(true).Render(fmt.Sprintf("Build failed for preset=%s, build_type=%s", preset, buildType)))
				return fmt.Errorf("build preset=%s build_type=%s: %w", preset, buildType, err)
			}
		}
	}

	ui.PrintSection("All builds completed successfully")
	return nil
}

// runCMake executes cmake with its output streamed straight through, so
// the user sees configure and build progress as it happens.
func (d *Driver) runCMake(args []string) error {
	d.log.Debugw("running cmake", "bin", d.opts.CMakeBin, "args", args)

	cmd := exec.Command(d.opts.CMakeBin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
