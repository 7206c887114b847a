// Package project turns backend payloads into renderable sections. Every
// function here is pure and total over the backend's schema: any sub-tree
// may be absent, an absent sub-tree omits its section, and a missing leaf
// under a present sub-tree renders as an explicit placeholder. Payloads
// whose own content signals failure (success=false) project to a single
// error section instead of their data sections.
package project

import (
	"fmt"
	"sort"
	"strings"

	"findash/internal/backend"
)

// Section is one renderable block of a panel: a title and plain lines.
// Styling is the caller's concern.
type Section struct {
	Title string
	Lines []string
}

// Failure builds the section shown for a domain failure. An empty reason
// still yields a readable line.
func Failure(title, reason string) Section {
	if strings.TrimSpace(reason) == "" {
		reason = "backend reported a failure with no detail"
	}
	return Section{Title: title, Lines: []string{reason}}
}

// ---------------------------------------------------------------------------
// Stock research
// ---------------------------------------------------------------------------

// Research projects a research response. A success=false payload renders
// only its error text; the plan and report are never projected alongside it.
func Research(r backend.ResearchResponse) []Section {
	if !r.Success {
		return []Section{Failure("Research Failed", r.Error)}
	}

	var sections []Section

	var overview []string
	if r.Symbol != "" {
		overview = append(overview, "Symbol: "+r.Symbol)
	}
	if r.Iterations != nil {
		overview = append(overview, fmt.Sprintf("Iterations: %d", *r.Iterations))
	}
	if len(overview) > 0 {
		sections = append(sections, Section{Title: "Overview", Lines: overview})
	}

	if len(r.ResearchPlan) > 0 {
		lines := make([]string, 0, len(r.ResearchPlan))
		for i, step := range r.ResearchPlan {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, orMissing(step)))
		}
		sections = append(sections, Section{Title: "Research Plan", Lines: lines})
	}

	if r.Analysis != nil {
		sections = append(sections, Section{
			Title: "Analysis",
			Lines: textLines(r.Analysis.FinalReport),
		})
	}

	if r.QualityAssessment != nil {
		sections = append(sections, Section{
			Title: "Quality Assessment",
			Lines: textLines(r.QualityAssessment.AssessmentText),
		})
	}

	return sections
}

// ---------------------------------------------------------------------------
// Financial data
// ---------------------------------------------------------------------------

// FinancialData projects a financial-data response. An empty or absent data
// tree yields no sections; the caller decides how to say "not available".
func FinancialData(d backend.DataResponse) []Section {
	if !d.Success {
		reason := d.Error
		if reason == "" {
			reason = d.Message
		}
		return []Section{Failure("Financial Data Failed", reason)}
	}

	if d.Data == nil || d.Data.YahooFinance == nil {
		return nil
	}
	yf := d.Data.YahooFinance

	var sections []Section

	if ci := yf.CompanyInfo; ci != nil {
		sections = append(sections, Section{
			Title: "Company",
			Lines: []string{
				"Name:       " + orMissing(ci.Name),
				"Sector:     " + orMissing(ci.Sector),
				"Market Cap: " + FormatMoney(ci.MarketCap),
				"P/E Ratio:  " + FormatRatio(ci.PERatio),
			},
		})
	}

	if pd := yf.PriceData; pd != nil {
		sections = append(sections, Section{
			Title: "Price",
			Lines: []string{
				"Current:  " + FormatPrice(pd.CurrentPrice),
				"Day High: " + FormatPrice(pd.DayHigh),
				"Day Low:  " + FormatPrice(pd.DayLow),
				"52w High: " + FormatPrice(pd.Week52High),
			},
		})
	}

	return sections
}

// ---------------------------------------------------------------------------
// Symbol news
// ---------------------------------------------------------------------------

// News projects a symbol-news response. Articles keep their received order.
func News(n backend.NewsResponse) []Section {
	if !n.Success {
		return []Section{Failure("News Failed", n.Error)}
	}
	if n.News == nil {
		return nil
	}

	var lines []string
	for _, a := range n.News.Articles {
		lines = append(lines, "• "+orMissing(a.Title))
		lines = append(lines, "  "+orMissing(a.Source)+" · "+orMissing(a.PublishedAt))
		if a.Description != "" {
			lines = append(lines, "  "+a.Description)
		}
	}
	if lines == nil {
		lines = []string{"no articles returned"}
	}

	return []Section{{Title: "News", Lines: lines}}
}

// ---------------------------------------------------------------------------
// News processing chain
// ---------------------------------------------------------------------------

// Chain projects a news-processing response: one section per pipeline step
// that is present in chain_results, plus the final summary.
func Chain(p backend.ProcessNewsResponse) []Section {
	if !p.Success {
		return []Section{Failure("Processing Failed", p.Error)}
	}

	sections := []Section{{
		Title: "Pipeline",
		Lines: []string{fmt.Sprintf("Articles processed: %d", p.ProcessedArticles)},
	}}

	if p.FinalSummary != "" {
		sections = append(sections, Section{Title: "Summary", Lines: textLines(p.FinalSummary)})
	}

	cr := p.ChainResults
	if cr == nil {
		return sections
	}

	if ing := cr.Ingested; ing != nil {
		lines := []string{
			fmt.Sprintf("Valid articles: %d", len(ing.ValidArticles)),
		}
		if ing.RejectedCount != nil {
			lines = append(lines, fmt.Sprintf("Rejected: %d", *ing.RejectedCount))
		} else {
			lines = append(lines, "Rejected: "+Missing)
		}
		for _, reason := range ing.RejectionReasons {
			lines = append(lines, "  - "+reason)
		}
		for _, a := range ing.ValidArticles {
			lines = append(lines, "• "+orMissing(a.Title))
		}
		sections = append(sections, Section{Title: "Ingestion", Lines: lines})
	}

	if pre := cr.Preprocessed; pre != nil {
		var lines []string
		for _, a := range pre.PreprocessedArticles {
			lines = append(lines, "• "+orMissing(a.Title))
			for _, kind := range sortedKeys(a.Entities) {
				if vals := a.Entities[kind]; len(vals) > 0 {
					lines = append(lines, "  "+kind+": "+strings.Join(vals, ", "))
				}
			}
		}
		if lines == nil {
			lines = []string{"no preprocessed articles"}
		}
		sections = append(sections, Section{Title: "Preprocessing", Lines: lines})
	}

	if cl := cr.Classified; cl != nil {
		var lines []string
		for _, a := range cl.ClassifiedArticles {
			lines = append(lines, "• "+orMissing(a.Title))
			for _, label := range sortedKeys(a.Classifications) {
				line := "  " + label + ": " + orMissing(a.Classifications[label])
				if score, ok := a.ConfidenceScores[label]; ok {
					line += fmt.Sprintf(" (%.2f)", score)
				}
				lines = append(lines, line)
			}
		}
		if lines == nil {
			lines = []string{"no classified articles"}
		}
		sections = append(sections, Section{Title: "Classification", Lines: lines})
	}

	if ex := cr.Extracted; ex != nil {
		var lines []string
		for _, a := range ex.ExtractedArticles {
			lines = append(lines, "• "+orMissing(a.Title))
			for _, group := range sortedKeys(a.KeyFacts) {
				if facts := a.KeyFacts[group]; len(facts) > 0 {
					lines = append(lines, "  "+group+": "+strings.Join(facts, "; "))
				}
			}
			for _, k := range sortedKeys(a.RiskFactors) {
				lines = append(lines, "  risk/"+k+": "+orMissing(a.RiskFactors[k]))
			}
		}
		if lines == nil {
			lines = []string{"no extracted articles"}
		}
		sections = append(sections, Section{Title: "Extraction", Lines: lines})
	}

	return sections
}

// ---------------------------------------------------------------------------
// Agents: health and workflows
// ---------------------------------------------------------------------------

// Health projects the agent health response. Services are listed in name
// order for stable rendering.
func Health(h backend.HealthResponse) []Section {
	var sections []Section

	if h.Status != "" {
		sections = append(sections, Section{
			Title: "Service",
			Lines: []string{"Overall: " + h.Status},
		})
	}

	if h.Services != nil {
		names := make([]string, 0, len(h.Services))
		for name := range h.Services {
			names = append(names, name)
		}
		sort.Strings(names)

		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("%-20s %s", name, orMissing(h.Services[name])))
		}
		if len(lines) == 0 {
			lines = []string{"no services reported"}
		}
		sections = append(sections, Section{Title: "Agents", Lines: lines})
	}

	return sections
}

// Workflows projects the workflow status response, one block per workflow
// in name order.
func Workflows(w backend.WorkflowStatusResponse) []Section {
	sections := []Section{{
		Title: "Workflows",
		Lines: []string{fmt.Sprintf("Available: %d/%d", w.AvailableWorkflows, w.TotalWorkflows)},
	}}

	if w.Workflows == nil {
		return sections
	}

	names := make([]string, 0, len(w.Workflows))
	for name := range w.Workflows {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		wf := w.Workflows[name]
		mark := "✗"
		if wf.Available {
			mark = "✓"
		}
		lines = append(lines, mark+" "+name)
		lines = append(lines, "  "+orMissing(wf.Description))
		if wf.Endpoint != "" {
			lines = append(lines, "  "+wf.Endpoint)
		}
	}
	if lines == nil {
		lines = []string{"no workflows reported"}
	}
	sections = append(sections, Section{Title: "Detail", Lines: lines})

	return sections
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// textLines splits a free-form text blob into lines, substituting the
// placeholder for empty text.
func textLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{Missing}
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
