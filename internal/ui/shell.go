// Package ui implements the terminal dashboard: a tabbed shell over three
// panels (stock analysis, news processing, agent dashboard). Key input goes
// to the active tab only; settled results and timer ticks are forwarded to
// every panel so background state survives tab switches.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"findash/internal/backend"
	"findash/internal/store"
)

// Backend is the slice of the API client the panels consume.
type Backend interface {
	Research(ctx context.Context, symbol string) (backend.ResearchResponse, error)
	StockData(ctx context.Context, symbol string) (backend.DataResponse, error)
	StockNews(ctx context.Context, symbol string) (backend.NewsResponse, error)
	ProcessNews(ctx context.Context, articles []backend.Article) (backend.ProcessNewsResponse, error)
	Health(ctx context.Context) (backend.HealthResponse, error)
	WorkflowStatus(ctx context.Context) (backend.WorkflowStatusResponse, error)
}

const (
	tabResearch = iota
	tabPipeline
	tabAgents
	tabCount
)

var tabNames = [tabCount]string{"Stock Analysis", "News Pipeline", "Agents"}

// Model is the shell: the active-tab index plus all three panels. Inactive
// panels keep receiving async messages so their state is current when the
// user switches back.
type Model struct {
	active   int
	research researchModel
	pipeline pipelineModel
	agents   agentsModel

	spinner       spinner.Model
	viewport      viewport.Model
	ready         bool
	width, height int
	logger        *slog.Logger
}

// Options configures the shell.
type Options struct {
	API              Backend
	History          store.ResearchStore // nil disables the history view
	Logger           *slog.Logger
	HealthInterval   time.Duration
	WorkflowInterval time.Duration
}

// NewModel builds the shell and its panels.
func NewModel(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return Model{
		research: newResearchModel(opts.API, opts.History, opts.Logger),
		pipeline: newPipelineModel(opts.API),
		agents:   newAgentsModel(opts.API, opts.HealthInterval, opts.WorkflowInterval),
		spinner:  sp,
		logger:   opts.Logger,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.agents.init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.active = (m.active + 1) % tabCount
			m.syncViewport()
			return m, nil
		case "shift+tab":
			m.active = (m.active + tabCount - 1) % tabCount
			m.syncViewport()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		// Other keys go to the active panel only.
		cmd := m.updatePanel(m.active, msg)
		m.syncViewport()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2 // header and footer bars
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.syncViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Async results and timer ticks reach every panel; each panel ignores
	// messages that are not its own.
	var cmds []tea.Cmd
	for i := 0; i < tabCount; i++ {
		cmds = append(cmds, m.updatePanel(i, msg))
	}
	m.syncViewport()
	return m, tea.Batch(cmds...)
}

// updatePanel dispatches a message to one panel. The panel structs are
// stored by value, so the updated copy is written back.
func (m *Model) updatePanel(idx int, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch idx {
	case tabResearch:
		m.research, cmd = m.research.Update(msg)
	case tabPipeline:
		m.pipeline, cmd = m.pipeline.Update(msg)
	case tabAgents:
		m.agents, cmd = m.agents.Update(msg)
	}
	return cmd
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.activeView())
}

func (m *Model) activeView() string {
	switch m.active {
	case tabResearch:
		return m.research.View(m.width)
	case tabPipeline:
		return m.pipeline.View(m.width)
	default:
		return m.agents.View(m.width)
	}
}

func (m Model) activeLoading() bool {
	switch m.active {
	case tabResearch:
		return m.research.loading()
	case tabPipeline:
		return m.pipeline.loading()
	default:
		return m.agents.loading()
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf(" %s ", name)
		if i == m.active {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	header := " findash  " + strings.Join(tabs, " ")
	if m.activeLoading() {
		header += "  " + m.spinner.View()
	}
	headerLine := headerBarStyle.Width(m.width).Render(header)

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := " tab/shift+tab switch  pgup/pgdn scroll  ctrl+c quit"
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerLeft) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footerLine := footerBarStyle.Render(padOrTrunc(footerLeft+strings.Repeat(" ", gap)+footerRight, m.width))

	return headerLine + "\n" + m.viewport.View() + "\n" + footerLine
}
