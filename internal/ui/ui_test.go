package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/backend"
	"findash/internal/store"
	"findash/internal/util"
)

// fakeAPI returns canned responses and counts calls per endpoint.
type fakeAPI struct {
	researchRes backend.ResearchResponse
	researchErr error
	dataRes     backend.DataResponse
	dataErr     error
	newsRes     backend.NewsResponse
	newsErr     error
	processRes  backend.ProcessNewsResponse
	processErr  error
	healthRes   backend.HealthResponse
	healthErr   error
	wfRes       backend.WorkflowStatusResponse
	wfErr       error

	researchCalls, dataCalls, newsCalls int
	processCalls, healthCalls, wfCalls  int
	lastArticles                        []backend.Article
}

func (f *fakeAPI) Research(_ context.Context, _ string) (backend.ResearchResponse, error) {
	f.researchCalls++
	return f.researchRes, f.researchErr
}

func (f *fakeAPI) StockData(_ context.Context, _ string) (backend.DataResponse, error) {
	f.dataCalls++
	return f.dataRes, f.dataErr
}

func (f *fakeAPI) StockNews(_ context.Context, _ string) (backend.NewsResponse, error) {
	f.newsCalls++
	return f.newsRes, f.newsErr
}

func (f *fakeAPI) ProcessNews(_ context.Context, articles []backend.Article) (backend.ProcessNewsResponse, error) {
	f.processCalls++
	f.lastArticles = articles
	return f.processRes, f.processErr
}

func (f *fakeAPI) Health(_ context.Context) (backend.HealthResponse, error) {
	f.healthCalls++
	return f.healthRes, f.healthErr
}

func (f *fakeAPI) WorkflowStatus(_ context.Context) (backend.WorkflowStatusResponse, error) {
	f.wfCalls++
	return f.wfRes, f.wfErr
}

func successResearch() backend.ResearchResponse {
	iter := 2
	return backend.ResearchResponse{
		Success:    true,
		Symbol:     "AAPL",
		Iterations: &iter,
		Analysis:   &backend.Analysis{FinalReport: "strong buy thesis"},
	}
}

// runCmds executes commands synchronously, expanding batches, and returns
// the produced messages.
func runCmds(cmds ...tea.Cmd) []tea.Msg {
	var msgs []tea.Msg
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			msgs = append(msgs, runCmds(batch...)...)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSubmitNormalizesSymbol(t *testing.T) {
	api := &fakeAPI{researchRes: successResearch(), dataRes: backend.DataResponse{Success: true}, newsRes: backend.NewsResponse{Success: true}}
	m := newResearchModel(api, nil, util.Discard())
	m.input.SetValue(" aapl ")

	m, cmd := m.Update(keyMsg("enter"))
	if m.symbol != "AAPL" {
		t.Errorf("symbol = %q, want %q", m.symbol, "AAPL")
	}
	if m.research.Key() != "AAPL" {
		t.Errorf("research key = %q, want %q", m.research.Key(), "AAPL")
	}
	if cmd == nil {
		t.Fatal("submit issued no commands")
	}
	msgs := runCmds(cmd)
	if len(msgs) != 3 {
		t.Fatalf("got %d settle messages, want 3", len(msgs))
	}
	if api.researchCalls != 1 || api.dataCalls != 1 || api.newsCalls != 1 {
		t.Errorf("calls = %d/%d/%d, want 1 each", api.researchCalls, api.dataCalls, api.newsCalls)
	}
}

func TestSubmitBlankSymbolDoesNothing(t *testing.T) {
	api := &fakeAPI{}
	m := newResearchModel(api, nil, util.Discard())
	m.input.SetValue("   ")

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("blank submit issued a command")
	}
	if m.symbol != "" {
		t.Errorf("symbol = %q, want empty", m.symbol)
	}
}

func TestResearchFailureIsPanelError(t *testing.T) {
	api := &fakeAPI{
		researchErr: errors.New("backend returned 503: service unavailable"),
		dataRes:     backend.DataResponse{Success: true},
		newsRes:     backend.NewsResponse{Success: true},
	}
	m := newResearchModel(api, nil, util.Discard())
	m.input.SetValue("AAPL")
	m, cmd := m.Update(keyMsg("enter"))

	for _, msg := range runCmds(cmd) {
		m, _ = m.Update(msg)
	}

	view := m.View(80)
	if !strings.Contains(view, "Research failed: backend returned 503") {
		t.Errorf("view missing research error:\n%s", view)
	}
}

func TestDataFailureDegradesInline(t *testing.T) {
	api := &fakeAPI{
		researchRes: successResearch(),
		dataErr:     errors.New("backend returned 500: boom"),
		newsRes:     backend.NewsResponse{Success: true},
	}
	m := newResearchModel(api, nil, util.Discard())
	m.input.SetValue("AAPL")
	m, cmd := m.Update(keyMsg("enter"))

	for _, msg := range runCmds(cmd) {
		m, _ = m.Update(msg)
	}

	view := m.View(80)
	if !strings.Contains(view, "strong buy thesis") {
		t.Errorf("view missing research report:\n%s", view)
	}
	if !strings.Contains(view, "Financial data not available") {
		t.Errorf("view missing inline data degradation:\n%s", view)
	}
	if strings.Contains(view, "Research failed") {
		t.Errorf("data failure escalated to panel error:\n%s", view)
	}
}

func TestEmptyDataTreeRendersNotAvailable(t *testing.T) {
	api := &fakeAPI{
		researchRes: successResearch(),
		dataRes:     backend.DataResponse{Success: true}, // data: {}
		newsRes:     backend.NewsResponse{Success: true},
	}
	m := newResearchModel(api, nil, util.Discard())
	m.input.SetValue("AAPL")
	m, cmd := m.Update(keyMsg("enter"))
	for _, msg := range runCmds(cmd) {
		m, _ = m.Update(msg)
	}

	if !strings.Contains(m.View(80), "Financial data not available") {
		t.Error("empty data tree did not render the not-available branch")
	}
}

func TestResearchSuccessSavedToHistory(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "findash.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer st.Close()

	api := &fakeAPI{
		researchRes: successResearch(),
		dataRes:     backend.DataResponse{Success: true},
		newsRes:     backend.NewsResponse{Success: true},
	}
	m := newResearchModel(api, st, util.Discard())
	m.input.SetValue("AAPL")
	m, cmd := m.Update(keyMsg("enter"))

	// Settle the queries, then run the save command the research result
	// produces.
	for _, msg := range runCmds(cmd) {
		var next tea.Cmd
		m, next = m.Update(msg)
		for _, followup := range runCmds(next) {
			m, _ = m.Update(followup)
		}
	}

	recs, err := st.ListResearch(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("ListResearch: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d history records, want 1", len(recs))
	}
	if recs[0].Report != "strong buy thesis" || recs[0].Iterations != 2 {
		t.Errorf("record = %+v, want saved report and iterations", recs[0])
	}
}

func TestPipelineBlankSubmitIgnored(t *testing.T) {
	api := &fakeAPI{}
	m := newPipelineModel(api)

	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd != nil {
		t.Error("blank submit issued a command")
	}
	if api.processCalls != 0 {
		t.Errorf("processCalls = %d, want 0", api.processCalls)
	}
	if m.process.Pending() {
		t.Error("mutation pending after blank submit")
	}
}

func TestPipelineSubmitParsesArticles(t *testing.T) {
	api := &fakeAPI{processRes: backend.ProcessNewsResponse{Success: true, FinalSummary: "summary text"}}
	m := newPipelineModel(api)
	m.editor.SetValue("line one\nline two\nline three")

	m, cmd := m.Update(keyMsg("ctrl+s"))
	for _, msg := range runCmds(cmd) {
		m, _ = m.Update(msg)
	}

	if api.processCalls != 1 {
		t.Fatalf("processCalls = %d, want 1", api.processCalls)
	}
	if len(api.lastArticles) != 3 {
		t.Fatalf("got %d articles, want 3", len(api.lastArticles))
	}
	if api.lastArticles[0].Title != "News Article 1" {
		t.Errorf("first title = %q", api.lastArticles[0].Title)
	}
	if !strings.Contains(m.View(80), "summary text") {
		t.Error("view missing pipeline summary")
	}
}

func TestPipelineSubmitWhilePendingIgnored(t *testing.T) {
	api := &fakeAPI{processRes: backend.ProcessNewsResponse{Success: true}}
	m := newPipelineModel(api)
	m.editor.SetValue("some news")

	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd == nil {
		t.Fatal("first submit issued nothing")
	}
	if _, second := m.Update(keyMsg("ctrl+s")); second != nil {
		t.Error("submit while pending issued a command")
	}
}

func TestAgentsManualRefresh(t *testing.T) {
	api := &fakeAPI{
		healthRes: backend.HealthResponse{Status: "healthy", Services: map[string]string{"research": "available"}},
		wfRes:     backend.WorkflowStatusResponse{Status: "ok"},
	}
	m := newAgentsModel(api, 0, 0)

	for _, msg := range runCmds(m.init()) {
		m, _ = m.Update(msg)
	}
	if api.healthCalls != 1 || api.wfCalls != 1 {
		t.Fatalf("initial calls = %d/%d, want 1/1", api.healthCalls, api.wfCalls)
	}

	m, cmd := m.Update(keyMsg("r"))
	for _, msg := range runCmds(cmd) {
		m, _ = m.Update(msg)
	}
	if api.healthCalls != 2 || api.wfCalls != 2 {
		t.Errorf("after refresh calls = %d/%d, want 2/2", api.healthCalls, api.wfCalls)
	}
	if !strings.Contains(m.View(80), "research") {
		t.Error("view missing service health")
	}
}

func TestTabSwitchPreservesPanelState(t *testing.T) {
	api := &fakeAPI{
		researchRes: successResearch(),
		dataRes:     backend.DataResponse{Success: true},
		newsRes:     backend.NewsResponse{Success: true},
	}
	shell := NewModel(Options{API: api, Logger: util.Discard()})

	var model tea.Model = shell
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	// Submit a symbol on the research tab and settle its queries.
	m := model.(Model)
	m.research.input.SetValue("AAPL")
	var cmd tea.Cmd
	model, cmd = m.Update(keyMsg("enter"))
	for _, msg := range runCmds(cmd) {
		model, _ = model.Update(msg)
	}

	// Switch away and back.
	model, _ = model.Update(keyMsg("tab"))
	model, _ = model.Update(keyMsg("tab"))
	model, _ = model.Update(keyMsg("tab"))

	m = model.(Model)
	if m.active != tabResearch {
		t.Fatalf("active tab = %d, want %d", m.active, tabResearch)
	}
	if !strings.Contains(m.View(), "strong buy thesis") {
		t.Error("research payload lost across tab switches")
	}
	if api.researchCalls != 1 {
		t.Errorf("researchCalls = %d, want 1 (no refetch on tab switch)", api.researchCalls)
	}
}
