package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
)

// TestAdapterGraph statically validates the kiln node graph: every
// adapter that declares a dependency (settings, logger) resolves it
// through graft.Dep, and nothing resolves a node it never declared.
// Registration itself happens through the blank imports in wiring.go.
func TestAdapterGraph(t *testing.T) {
	graft.AssertDepsValid(t, "../../internal")
}
