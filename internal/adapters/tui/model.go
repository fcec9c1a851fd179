// Package tui provides the interactive progress view for notebook runs.
package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/ui/output"
)

const (
	stageListWidthRatio = 0.3
	logPaneBorderWidth  = 4
)

// StageStatus represents the current state of a pipeline stage.
type StageStatus string

const (
	// StatusPending indicates the stage is waiting to start.
	StatusPending StageStatus = "Pending"
	// StatusRunning indicates the stage is currently executing.
	StatusRunning StageStatus = "Running"
	// StatusDone indicates the stage completed successfully.
	StatusDone StageStatus = "Done"
	// StatusError indicates the stage failed.
	StatusError StageStatus = "Error"
)

// StageNode represents a single pipeline stage in the UI list.
type StageNode struct {
	Name   string
	Status StageStatus
	Log    *LogWindow
}

// Model represents the main TUI state: a stage list on the left and the
// selected stage's log tail on the right.
type Model struct {
	Stages          []*StageNode
	StageMap        map[string]*StageNode
	SpanMap         map[string]*StageNode
	ActiveStageName string
	SelectedIdx     int
	ListOffset      int
	ListHeight      int
	LogWidth        int
	LogHeight       int
	FollowMode      bool
}

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := output.Terminal(w, output.Interactive())
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Stages:     make([]*StageNode, 0),
		StageMap:   make(map[string]*StageNode),
		SpanMap:    make(map[string]*StageNode),
		FollowMode: true,
	}
}

// Init initializes the model.
//
//nolint:gocritic // hugeParam ignored
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selectStage(name string) {
	m.ActiveStageName = name
	for i, stage := range m.Stages {
		if stage.Name == name {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
}

// addStage appends a stage that was not part of the announced plan.
func (m *Model) addStage(name string) *StageNode {
	node := &StageNode{
		Name:   name,
		Status: StatusPending,
		Log:    m.newSizedLog(),
	}
	m.Stages = append(m.Stages, node)
	m.StageMap[name] = node
	return node
}

func (m *Model) newSizedLog() *LogWindow {
	log := NewLogWindow()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		log.SetSize(m.LogWidth, m.LogHeight)
	}
	return log
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop,gocritic // hugeParam ignored, cyclop ignored
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
				m.ensureVisible()
				m.syncActive()
			}
		case "j", "down":
			if m.SelectedIdx < len(m.Stages)-1 {
				m.SelectedIdx++
				m.FollowMode = false
				m.ensureVisible()
				m.syncActive()
			}
		case "esc":
			m.FollowMode = true
			// Jump to the currently running stage if any.
			for i, stage := range m.Stages {
				if stage.Status == StatusRunning {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
			m.syncActive()
		}

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * stageListWidthRatio)
		logWidth := msg.Width - listWidth - logPaneBorderWidth

		headerHeight := lipgloss.Height(titleStyle.Render("TEST"))
		logHeight := msg.Height - headerHeight

		m.LogWidth = logWidth
		m.LogHeight = logHeight

		fullHeader := titleStyle.Render("STAGES") + "\n\n"
		m.ListHeight = msg.Height - lipgloss.Height(fullHeader)
		m.ensureVisible()

		for _, stage := range m.Stages {
			stage.Log.SetSize(logWidth, logHeight)
		}

	case telemetry.MsgInitStages:
		m.Stages = make([]*StageNode, len(msg.Stages))
		m.StageMap = make(map[string]*StageNode, len(msg.Stages))
		m.SpanMap = make(map[string]*StageNode)
		for i, name := range msg.Stages {
			m.Stages[i] = &StageNode{
				Name:   name,
				Status: StatusPending,
				Log:    m.newSizedLog(),
			}
			m.StageMap[name] = m.Stages[i]
		}

	case telemetry.MsgStageStart:
		node, ok := m.StageMap[msg.Name]
		if !ok {
			node = m.addStage(msg.Name)
		}
		node.Status = StatusRunning
		m.SpanMap[msg.SpanID] = node

		// Focus follows activity only while FollowMode is on.
		if m.FollowMode {
			m.selectStage(msg.Name)
		}

	case telemetry.MsgStageLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Log.Write(msg.Data)
		}

	case telemetry.MsgStageComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, nil
}

func (m *Model) syncActive() {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Stages) {
		m.ActiveStageName = m.Stages[m.SelectedIdx].Name
	}
}
