package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	_ "go.trai.ch/kiln/internal/wiring" // Register providers
)

func TestAppWiring(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	defer func() {
		errChdir := os.Chdir(cwd)
		require.NoError(t, errChdir)
	}()

	// A local config keeps the cache root inside the test directory.
	tmpDir := t.TempDir()
	configData := "version: \"1\"\ncacheRoot: .kiln-cache\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, domain.ConfigFileName), []byte(configData), 0o644))
	require.NoError(t, os.Chdir(tmpDir))

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
