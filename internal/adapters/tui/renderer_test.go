package tui_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/tui"
)

func newTestRenderer(t *testing.T) *tui.Renderer {
	t.Helper()
	model := tui.NewModel(nil)
	return tui.NewRenderer(&model, tea.WithoutRenderer(), tea.WithInput(nil))
}

func TestRenderer_LifecycleTerminatesOnStop(t *testing.T) {
	r := newTestRenderer(t)

	require.NoError(t, r.Start(context.Background()))

	r.OnPlanEmit([]string{"build", "execute"})
	r.OnStageStart("s1", "", "build", time.Now())
	r.OnStageLog("s1", []byte("output\n"))
	r.OnStageComplete("s1", time.Now(), nil)

	require.NoError(t, r.Stop())

	done := make(chan error, 1)
	go func() { done <- r.Wait() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("renderer did not terminate after Stop")
	}
}

func TestRenderer_ExposesProgram(t *testing.T) {
	r := newTestRenderer(t)
	assert.NotNil(t, r.Program())
}
