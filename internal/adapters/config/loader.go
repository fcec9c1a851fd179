// Package config provides the configuration loader for kiln.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/kiln/internal/adapters/codegen"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load discovers kiln.yaml upwards from cwd and returns the resolved
// settings. A missing file yields the built-in defaults.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	settings := defaultSettings()

	configPath, found := findConfiguration(cwd)
	if !found {
		return settings, nil
	}

	var file Kilnfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if err := l.apply(settings, &file, configPath); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return settings, nil
}

func defaultSettings() *domain.Settings {
	return &domain.Settings{
		CacheRoot:        domain.DefaultCacheRoot(),
		Toolchains:       codegen.DefaultToolchains(),
		DefaultToolchain: domain.DefaultToolchainName,
	}
}

// findConfiguration walks from cwd towards the filesystem root and
// returns the first kiln.yaml it encounters.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd

	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", false
}

func (l *Loader) apply(settings *domain.Settings, file *Kilnfile, configPath string) error {
	if file.Version != "" && file.Version != "1" {
		l.Logger.Warn(fmt.Sprintf("unsupported config version %q in %s, continuing", file.Version, domain.ConfigFileName))
	}

	if file.CacheRoot != "" {
		settings.CacheRoot = resolveCacheRoot(configPath, file.CacheRoot)
	}

	for name := range file.Toolchains {
		dto := file.Toolchains[name]
		toolchain, err := buildToolchain(name, dto, settings.Toolchains[name])
		if err != nil {
			return zerr.With(err, "toolchain", name)
		}
		settings.Toolchains[name] = toolchain
	}

	if file.DefaultToolchain != "" {
		if _, ok := settings.Toolchains[file.DefaultToolchain]; !ok {
			return zerr.With(domain.ErrUnknownToolchain, "toolchain", file.DefaultToolchain)
		}
		settings.DefaultToolchain = file.DefaultToolchain
	}

	settings.Env = environmentPairs(file.Environment)
	return nil
}

// buildToolchain merges a DTO over the built-in toolchain of the same
// name. Custom toolchains must define their source file and both
// command vectors; built-ins may be partially overridden.
func buildToolchain(name string, dto *ToolchainDTO, base domain.Toolchain) (domain.Toolchain, error) {
	toolchain := base
	toolchain.Name = name

	if dto.SourceFile != "" {
		toolchain.SourceFile = dto.SourceFile
	}
	if dto.Template != "" {
		toolchain.Template = dto.Template
	}
	if len(dto.Build) > 0 {
		toolchain.Build.Argv = slices.Clone(dto.Build)
	}
	if len(dto.Run) > 0 {
		toolchain.Run.Argv = slices.Clone(dto.Run)
	}

	if toolchain.SourceFile == "" {
		return toolchain, zerr.Wrap(domain.ErrConfigParseFailed, "toolchain has no sourceFile")
	}
	if len(toolchain.Build.Argv) == 0 || len(toolchain.Run.Argv) == 0 {
		return toolchain, zerr.Wrap(domain.ErrConfigParseFailed, "toolchain must define build and run commands")
	}

	var err error
	toolchain.Build.Timeout, err = resolveTimeout(dto.BuildTimeout, toolchain.Build.Timeout, domain.DefaultBuildTimeout)
	if err != nil {
		return toolchain, err
	}
	toolchain.Run.Timeout, err = resolveTimeout(dto.RunTimeout, toolchain.Run.Timeout, domain.DefaultRunTimeout)
	if err != nil {
		return toolchain, err
	}

	return toolchain, nil
}

func resolveTimeout(configured string, current, fallback time.Duration) (time.Duration, error) {
	if configured == "" {
		if current > 0 {
			return current, nil
		}
		return fallback, nil
	}

	d, err := time.ParseDuration(configured)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	if d <= 0 {
		return 0, zerr.Wrap(domain.ErrConfigParseFailed, "timeout must be positive: "+configured)
	}
	return d, nil
}

// environmentPairs converts the environment map to sorted KEY=VALUE
// pairs so downstream consumers see a deterministic order.
func environmentPairs(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	slices.Sort(pairs)
	return pairs
}

// resolveCacheRoot resolves a relative cacheRoot against the directory
// holding the configuration file.
func resolveCacheRoot(configPath, configuredRoot string) string {
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(configPath), configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
