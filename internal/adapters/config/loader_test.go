package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), domain.FilePerm)
	require.NoError(t, err)
}

func TestLoader_Load_NoConfigFile(t *testing.T) {
	settings, err := newLoader(t).Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultCacheRoot(), settings.CacheRoot)
	assert.Equal(t, domain.DefaultToolchainName, settings.DefaultToolchain)
	require.Contains(t, settings.Toolchains, "shell")
	assert.Equal(t, domain.DefaultBuildTimeout, settings.Toolchains["shell"].Build.Timeout)
	assert.Equal(t, domain.DefaultRunTimeout, settings.Toolchains["shell"].Run.Timeout)
	assert.Empty(t, settings.Env)
}

func TestLoader_Load_FullConfig(t *testing.T) {
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
version: "1"
cacheRoot: .cache
defaultToolchain: python
environment:
  LC_ALL: C
  PYTHONUNBUFFERED: "1"
toolchains:
  python:
    sourceFile: main.py
    build: ["python3", "-m", "py_compile", "main.py"]
    run: ["python3", "main.py"]
    buildTimeout: 30s
    runTimeout: 5m
`)

	settings, err := newLoader(t).Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(rootDir, ".cache"), settings.CacheRoot)
	assert.Equal(t, "python", settings.DefaultToolchain)
	assert.Equal(t, []string{"LC_ALL=C", "PYTHONUNBUFFERED=1"}, settings.Env)

	python := settings.Toolchains["python"]
	assert.Equal(t, "main.py", python.SourceFile)
	assert.Equal(t, []string{"python3", "-m", "py_compile", "main.py"}, python.Build.Argv)
	assert.Equal(t, []string{"python3", "main.py"}, python.Run.Argv)
	assert.Equal(t, 30*time.Second, python.Build.Timeout)
	assert.Equal(t, 5*time.Minute, python.Run.Timeout)

	// Built-ins survive alongside custom toolchains.
	assert.Contains(t, settings.Toolchains, "shell")
}

func TestLoader_Load_OverridesBuiltinToolchain(t *testing.T) {
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
toolchains:
  shell:
    runTimeout: 10s
`)

	settings, err := newLoader(t).Load(rootDir)
	require.NoError(t, err)

	shell := settings.Toolchains["shell"]
	assert.Equal(t, 10*time.Second, shell.Run.Timeout)
	// Untouched fields keep their built-in values.
	assert.Equal(t, "main.sh", shell.SourceFile)
	assert.NotEmpty(t, shell.Build.Argv)
	assert.Equal(t, domain.DefaultBuildTimeout, shell.Build.Timeout)
}

func TestLoader_Load_DiscoversUpwards(t *testing.T) {
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "cacheRoot: store\n")

	nested := filepath.Join(rootDir, "docs", "guides")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	settings, err := newLoader(t).Load(nested)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(rootDir, "store"), settings.CacheRoot)
}

func TestLoader_Load_UnknownDefaultToolchain(t *testing.T) {
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "defaultToolchain: fortran\n")

	_, err := newLoader(t).Load(rootDir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnknownToolchain.Error())
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "toolchains: [broken\n")

	_, err := newLoader(t).Load(rootDir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_CustomToolchainMissingCommands(t *testing.T) {
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
toolchains:
  broken:
    sourceFile: main.rb
    build: ["ruby", "-c", "main.rb"]
`)

	_, err := newLoader(t).Load(rootDir)
	require.Error(t, err)
	assert.ErrorContains(t, err, "build and run")
}

func TestLoader_Load_InvalidTimeout(t *testing.T) {
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
toolchains:
  shell:
    runTimeout: whenever
`)

	_, err := newLoader(t).Load(rootDir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_WarnsOnUnknownVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "version: \"2\"\n")

	_, err := config.NewLoader(mockLogger).Load(rootDir)
	require.NoError(t, err)
}

func TestLoader_Load_AbsoluteCacheRoot(t *testing.T) {
	rootDir := t.TempDir()
	target := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "cacheRoot: "+target+"\n")

	settings, err := newLoader(t).Load(rootDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(target), settings.CacheRoot)
}
