package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration constants
const (
	// DefaultConfigPath is the default path to the config file
	DefaultConfigPath = "~/.arieo/config.yaml"

	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "ARIEO_"
)

// Config holds all configuration for the arieo tools
type Config struct {
	// Build driver options
	Build BuildConfig `koanf:"build"`

	// Package gatherer options
	Gather GatherConfig `koanf:"gather"`
}

// BuildConfig holds build driver configuration
type BuildConfig struct {
	// CMake executable to invoke
	CMake string `koanf:"cmake"`

	// CMake generator passed via -G
	Generator string `koanf:"generator"`

	// Name of the build directory under the source tree
	Dir string `koanf:"dir"`

	// Presets to configure and build when none are given on the command line
	Presets []string `koanf:"presets"`

	// Build types to configure and build when none are given on the command line
	Types []string `koanf:"types"`
}

// GatherConfig holds package gatherer configuration
type GatherConfig struct {
	// Manifest file to load when --manifest is not given. Empty means
	// probe for packages.manifest.yaml in the current directory.
	Manifest string `koanf:"manifest"`

	// Cache directory used when the manifest does not name one
	Cache string `koanf:"cache"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			CMake:     "cmake",
			Generator: "Ninja",
			Dir:       "build",
			Presets:   []string{"default"},
			Types:     []string{"Release"},
		},
		Gather: GatherConfig{
			Cache: "./.cache",
		},
	}
}

// Load loads configuration from the specified path and environment variables
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Set default values
	err := k.Load(newStructProvider(Default()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// Expand tilde in config path if needed
	expandedPath := configPath
	if strings.HasPrefix(configPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			expandedPath = filepath.Join(homeDir, configPath[2:])
		}
	}

	// Try to load from config file (if it exists)
	if _, err := os.Stat(expandedPath); err == nil {
		if err := k.Load(file.Provider(expandedPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Load from environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal into Config struct
	var config Config
	if err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:      &config,
			ErrorUnused: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// structProvider is a provider that loads configuration from a struct
type structProvider struct {
	cfg interface{}
}

// newStructProvider creates a new struct provider
func newStructProvider(cfg interface{}) *structProvider {
	return &structProvider{cfg: cfg}
}

// Read reads the configuration from the struct
func (s *structProvider) Read() (map[string]interface{}, error) {
	var out map[string]interface{}

	// Use mapstructure to convert struct to map
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "koanf",
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(s.cfg); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadBytes is required by the Provider interface but not used for struct providers
func (s *structProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not supported for struct provider")
}
