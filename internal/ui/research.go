package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/backend"
	"findash/internal/project"
	"findash/internal/query"
	"findash/internal/store"
)

const historyLimit = 20

type historyLoadedMsg struct {
	symbol string
	recs   []store.ResearchRecord
	err    error
}

type historySavedMsg struct {
	symbol string
	err    error
}

// researchModel is the stock analysis panel: one symbol form field driving
// three independent queries (research, financial data, news) against the
// normalized symbol. The panel is loading while any of the three is in
// flight; only a research failure is a panel-level error, the other two
// degrade to an inline not-available line.
type researchModel struct {
	input  textinput.Model
	symbol string // submitted request key

	research *query.Query[backend.ResearchResponse]
	data     *query.Query[backend.DataResponse]
	news     *query.Query[backend.NewsResponse]

	history store.ResearchStore // nil disables the history view
	logger  *slog.Logger

	historyMode    bool
	historyLoading bool
	historyRecs    []store.ResearchRecord
	historyErr     string
}

func newResearchModel(api Backend, hist store.ResearchStore, logger *slog.Logger) researchModel {
	in := textinput.New()
	in.Placeholder = "symbol (e.g. AAPL)"
	in.CharLimit = 12
	in.Width = 20
	in.Focus()

	return researchModel{
		input:   in,
		history: hist,
		logger:  logger,
		research: query.New(0, func(ctx context.Context, key string) (backend.ResearchResponse, error) {
			return api.Research(ctx, key)
		}),
		data: query.New(0, func(ctx context.Context, key string) (backend.DataResponse, error) {
			return api.StockData(ctx, key)
		}),
		news: query.New(0, func(ctx context.Context, key string) (backend.NewsResponse, error) {
			return api.StockNews(ctx, key)
		}),
	}
}

func (m researchModel) loading() bool {
	return m.research.Pending() || m.data.Pending() || m.news.Pending()
}

// submit derives the request key from the form field and points all three
// queries at it. Re-submitting an unchanged symbol issues nothing.
func (m *researchModel) submit() tea.Cmd {
	sym := backend.NormalizeSymbol(m.input.Value())
	if sym == "" {
		return nil
	}
	m.symbol = sym
	m.historyMode = false
	m.input.Blur()
	return tea.Batch(
		m.research.Configure(sym, true),
		m.data.Configure(sym, true),
		m.news.Configure(sym, true),
	)
}

func (m *researchModel) loadHistoryCmd() tea.Cmd {
	st := m.history
	sym := m.symbol
	return func() tea.Msg {
		recs, err := st.ListResearch(context.Background(), sym, historyLimit)
		return historyLoadedMsg{symbol: sym, recs: recs, err: err}
	}
}

// saveCmd persists a completed research run so it shows up in history.
func (m *researchModel) saveCmd(r backend.ResearchResponse) tea.Cmd {
	st := m.history
	rec := store.ResearchRecord{Symbol: m.symbol}
	if r.Analysis != nil {
		rec.Report = r.Analysis.FinalReport
	}
	if r.QualityAssessment != nil {
		rec.Assessment = r.QualityAssessment.AssessmentText
	}
	if r.Iterations != nil {
		rec.Iterations = *r.Iterations
	}
	return func() tea.Msg {
		err := st.SaveResearch(context.Background(), &rec)
		return historySavedMsg{symbol: rec.Symbol, err: err}
	}
}

func (m researchModel) Update(msg tea.Msg) (researchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "enter":
				return m, m.submit()
			case "esc":
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "i", "/":
			m.historyMode = false
			return m, m.input.Focus()
		case "r":
			return m, tea.Batch(m.research.Refetch(), m.data.Refetch(), m.news.Refetch())
		case "h":
			if m.history == nil || m.symbol == "" {
				return m, nil
			}
			if m.historyMode {
				m.historyMode = false
				return m, nil
			}
			m.historyMode = true
			m.historyLoading = true
			return m, m.loadHistoryCmd()
		}
		return m, nil

	case query.ResultMsg[backend.ResearchResponse]:
		if m.research.Apply(msg) {
			st := m.research.State()
			if st.Status == query.StatusSuccess && st.Data.Success && m.history != nil {
				return m, m.saveCmd(st.Data)
			}
		}
		return m, nil

	case query.ResultMsg[backend.DataResponse]:
		m.data.Apply(msg)
		return m, nil

	case query.ResultMsg[backend.NewsResponse]:
		m.news.Apply(msg)
		return m, nil

	case historyLoadedMsg:
		m.historyLoading = false
		if msg.symbol != m.symbol {
			return m, nil
		}
		if msg.err != nil {
			m.historyErr = msg.err.Error()
			m.historyRecs = nil
		} else {
			m.historyErr = ""
			m.historyRecs = msg.recs
		}
		return m, nil

	case historySavedMsg:
		if msg.err != nil {
			m.logger.Warn("saving research history", "symbol", msg.symbol, "error", msg.err)
		} else {
			m.logger.Info("research saved to history", "symbol", msg.symbol)
		}
		return m, nil
	}

	return m, nil
}

func (m researchModel) View(width int) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render(" Symbol: "))
	b.WriteString(m.input.View())
	if m.symbol != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("   analyzing %s", m.symbol)))
	}
	b.WriteString("\n")
	if m.input.Focused() {
		b.WriteString(dimStyle.Render(" enter submit  esc done"))
	} else {
		b.WriteString(dimStyle.Render(" i edit symbol  r refresh  h history"))
	}
	b.WriteString("\n\n")

	if m.historyMode {
		m.renderHistory(&b, width)
		return b.String()
	}

	if m.symbol == "" {
		b.WriteString(dimStyle.Render(" Enter a symbol to start the analysis."))
		b.WriteString("\n")
		return b.String()
	}

	// Research result is the panel's main body.
	switch st := m.research.State(); st.Status {
	case query.StatusPending:
		b.WriteString(dimStyle.Render(" Researching " + m.symbol + "..."))
		b.WriteString("\n")
	case query.StatusFailure:
		b.WriteString(errorStyle.Render(" Research failed: " + st.Reason))
		b.WriteString("\n")
	case query.StatusSuccess:
		renderSections(&b, project.Research(st.Data))
	}

	b.WriteString("\n")

	// Financial data and news degrade to a not-available line on failure.
	switch st := m.data.State(); st.Status {
	case query.StatusPending:
		b.WriteString(dimStyle.Render(" Loading financial data..."))
		b.WriteString("\n")
	case query.StatusFailure:
		b.WriteString(dimStyle.Render(" Financial data not available (" + st.Reason + ")"))
		b.WriteString("\n")
	case query.StatusSuccess:
		if sections := project.FinancialData(st.Data); sections != nil {
			renderSections(&b, sections)
		} else {
			b.WriteString(dimStyle.Render(" Financial data not available"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	switch st := m.news.State(); st.Status {
	case query.StatusPending:
		b.WriteString(dimStyle.Render(" Loading news..."))
		b.WriteString("\n")
	case query.StatusFailure:
		b.WriteString(dimStyle.Render(" News not available (" + st.Reason + ")"))
		b.WriteString("\n")
	case query.StatusSuccess:
		if sections := project.News(st.Data); sections != nil {
			renderSections(&b, sections)
		} else {
			b.WriteString(dimStyle.Render(" News not available"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m researchModel) renderHistory(b *strings.Builder, width int) {
	bar := fmt.Sprintf(" Research history  %s ", m.symbol)
	b.WriteString(historyBar.Render(padOrTrunc(bar, width)))
	b.WriteString("\n\n")

	switch {
	case m.historyLoading:
		b.WriteString(dimStyle.Render(" Loading history..."))
		b.WriteString("\n")
	case m.historyErr != "":
		b.WriteString(errorStyle.Render(" History unavailable: " + m.historyErr))
		b.WriteString("\n")
	case len(m.historyRecs) == 0:
		b.WriteString(dimStyle.Render(" No saved research for " + m.symbol + "."))
		b.WriteString("\n")
	default:
		for _, rec := range m.historyRecs {
			header := fmt.Sprintf("%s  (%d iterations)", rec.CreatedAt.Format("2006-01-02 15:04"), rec.Iterations)
			b.WriteString(sectionStyle.Render(" " + header + " "))
			b.WriteString("\n")
			for _, line := range strings.Split(strings.TrimSpace(rec.Report), "\n") {
				b.WriteString("  ")
				b.WriteString(line)
				b.WriteString("\n")
			}
			if rec.Assessment != "" {
				b.WriteString(dimStyle.Render("  assessment: " + rec.Assessment))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
}
