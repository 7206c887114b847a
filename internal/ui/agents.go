package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/backend"
	"findash/internal/project"
	"findash/internal/query"
)

type clockMsg time.Time

func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// agentsModel is the agent dashboard panel: service health and workflow
// status each on their own refresh interval, plus a local clock that keeps
// running regardless of network state.
type agentsModel struct {
	health    *query.Query[backend.HealthResponse]
	workflows *query.Query[backend.WorkflowStatusResponse]

	started time.Time
	now     time.Time
}

func newAgentsModel(api Backend, healthInterval, workflowInterval time.Duration) agentsModel {
	now := time.Now()
	return agentsModel{
		started: now,
		now:     now,
		health: query.New(healthInterval, func(ctx context.Context, _ string) (backend.HealthResponse, error) {
			return api.Health(ctx)
		}),
		workflows: query.New(workflowInterval, func(ctx context.Context, _ string) (backend.WorkflowStatusResponse, error) {
			return api.WorkflowStatus(ctx)
		}),
	}
}

// init starts both auto-queries, their interval timers, and the local clock.
func (m *agentsModel) init() tea.Cmd {
	return tea.Batch(
		m.health.Configure("health", true),
		m.health.StartTicker(),
		m.workflows.Configure("workflows", true),
		m.workflows.StartTicker(),
		clockCmd(),
	)
}

func (m agentsModel) loading() bool {
	return m.health.Pending() || m.workflows.Pending()
}

func (m agentsModel) Update(msg tea.Msg) (agentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, tea.Batch(m.health.Refetch(), m.workflows.Refetch())
		}
		return m, nil

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockCmd()

	case query.TickMsg:
		return m, tea.Batch(m.health.OnTick(msg), m.workflows.OnTick(msg))

	case query.ResultMsg[backend.HealthResponse]:
		m.health.Apply(msg)
		return m, nil

	case query.ResultMsg[backend.WorkflowStatusResponse]:
		m.workflows.Apply(msg)
		return m, nil
	}

	return m, nil
}

func (m agentsModel) View(width int) string {
	var b strings.Builder

	elapsed := m.now.Sub(m.started).Round(time.Second)
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %s    up %s    r refresh",
		m.now.Format("15:04:05"), elapsed)))
	b.WriteString("\n\n")

	switch st := m.health.State(); st.Status {
	case query.StatusIdle, query.StatusPending:
		b.WriteString(dimStyle.Render(" Checking service health..."))
		b.WriteString("\n")
	case query.StatusFailure:
		b.WriteString(errorStyle.Render(" Health check failed: " + st.Reason))
		b.WriteString("\n")
	case query.StatusSuccess:
		if sections := project.Health(st.Data); sections != nil {
			renderSections(&b, sections)
		} else {
			b.WriteString(dimStyle.Render(" No service health reported"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	switch st := m.workflows.State(); st.Status {
	case query.StatusIdle, query.StatusPending:
		b.WriteString(dimStyle.Render(" Loading workflow status..."))
		b.WriteString("\n")
	case query.StatusFailure:
		b.WriteString(errorStyle.Render(" Workflow status failed: " + st.Reason))
		b.WriteString("\n")
	case query.StatusSuccess:
		renderSections(&b, project.Workflows(st.Data))
	}

	return b.String()
}
