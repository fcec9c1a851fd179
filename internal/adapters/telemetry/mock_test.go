package telemetry_test

import (
	"context"
	"sync"
	"time"
)

// mockRenderer is a simple test double for ports.Renderer.
type mockRenderer struct {
	mu            sync.Mutex
	planCalls     int
	planStages    []string
	startCalls    int
	startNames    []string
	logCalls      int
	logs          [][]byte
	completeCalls int
	completeErrs  []error
}

func (m *mockRenderer) Start(_ context.Context) error { return nil }
func (m *mockRenderer) Stop() error                   { return nil }
func (m *mockRenderer) Wait() error                   { return nil }

func (m *mockRenderer) OnPlanEmit(stages []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.planCalls++
	m.planStages = stages
}

func (m *mockRenderer) OnStageStart(_, _, name string, _ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startCalls++
	m.startNames = append(m.startNames, name)
}

func (m *mockRenderer) OnStageLog(_ string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCalls++
	m.logs = append(m.logs, data)
}

func (m *mockRenderer) OnStageComplete(_ string, _ time.Time, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
	m.completeErrs = append(m.completeErrs, err)
}

func (m *mockRenderer) snapshot() (plan, start, log, complete int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.planCalls, m.startCalls, m.logCalls, m.completeCalls
}
