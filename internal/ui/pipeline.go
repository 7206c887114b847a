package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/backend"
	"findash/internal/project"
	"findash/internal/query"
)

// pipelineModel is the news processing panel: a multi-line article field
// feeding one mutation that runs the backend's full analysis chain. The
// submit action is a no-op while a run is in flight or the field is blank.
type pipelineModel struct {
	editor  textarea.Model
	process *query.Mutation[[]backend.Article, backend.ProcessNewsResponse]
	nowFn   func() time.Time
}

func newPipelineModel(api Backend) pipelineModel {
	ed := textarea.New()
	ed.Placeholder = "Paste one or more news articles, one per line..."
	ed.SetHeight(8)
	ed.CharLimit = 0
	ed.Focus()

	return pipelineModel{
		editor: ed,
		nowFn:  time.Now,
		process: query.NewMutation(func(ctx context.Context, articles []backend.Article) (backend.ProcessNewsResponse, error) {
			return api.ProcessNews(ctx, articles)
		}),
	}
}

func (m pipelineModel) loading() bool { return m.process.Pending() }

func (m *pipelineModel) submit() tea.Cmd {
	if m.process.Pending() {
		return nil
	}
	articles := backend.ParseArticles(m.editor.Value(), m.nowFn())
	if articles == nil {
		return nil
	}
	return m.process.Trigger(articles)
}

func (m pipelineModel) Update(msg tea.Msg) (pipelineModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return m, m.submit()
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd

	case query.ResultMsg[backend.ProcessNewsResponse]:
		m.process.Apply(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m pipelineModel) View(width int) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render(" News articles"))
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n")

	switch {
	case m.process.Pending():
		b.WriteString(dimStyle.Render(" Processing..."))
	case strings.TrimSpace(m.editor.Value()) == "":
		b.WriteString(dimStyle.Render(" ctrl+s process (enter at least one line first)"))
	default:
		n := len(backend.ParseArticles(m.editor.Value(), m.nowFn()))
		b.WriteString(dimStyle.Render(fmt.Sprintf(" ctrl+s process %d article(s)", n)))
	}
	b.WriteString("\n\n")

	switch st := m.process.State(); st.Status {
	case query.StatusFailure:
		b.WriteString(errorStyle.Render(" Processing failed: " + st.Reason))
		b.WriteString("\n")
	case query.StatusSuccess:
		renderSections(&b, project.Chain(st.Data))
	}

	return b.String()
}
