package backend

// Request and response shapes for the analysis backend's JSON API. The
// backend assembles most of these from LLM output, so every sub-tree is
// optional: pointer fields and omitempty everywhere, and nothing downstream
// may assume presence.

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// Article is one news article submitted to the processing pipeline.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
}

// researchRequest is the body for POST /api/agents/research.
type researchRequest struct {
	Symbol string `json:"symbol"`
}

// processNewsRequest is the body for POST /api/analysis/news/process.
type processNewsRequest struct {
	NewsArticles   []Article `json:"news_articles"`
	ProcessingType string    `json:"processing_type"`
}

// ---------------------------------------------------------------------------
// Stock research
// ---------------------------------------------------------------------------

// ResearchResponse is the payload of POST /api/agents/research.
type ResearchResponse struct {
	Success           bool               `json:"success"`
	Symbol            string             `json:"symbol,omitempty"`
	Iterations        *int               `json:"iterations,omitempty"`
	ResearchPlan      []string           `json:"research_plan,omitempty"`
	Analysis          *Analysis          `json:"analysis,omitempty"`
	QualityAssessment *QualityAssessment `json:"quality_assessment,omitempty"`
	Error             string             `json:"error,omitempty"`
}

// Analysis holds the generated research report.
type Analysis struct {
	FinalReport string `json:"final_report,omitempty"`
}

// QualityAssessment holds the evaluator's verdict on the report.
type QualityAssessment struct {
	AssessmentText string `json:"assessment_text,omitempty"`
}

// ---------------------------------------------------------------------------
// Financial data
// ---------------------------------------------------------------------------

// DataResponse is the payload of GET /api/agents/data/{symbol}.
type DataResponse struct {
	Success bool       `json:"success"`
	Data    *StockData `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// StockData groups data by upstream provider.
type StockData struct {
	YahooFinance *YahooFinance `json:"yahoo_finance,omitempty"`
}

// YahooFinance holds the provider's company and price sub-trees.
type YahooFinance struct {
	CompanyInfo *CompanyInfo `json:"company_info,omitempty"`
	PriceData   *PriceData   `json:"price_data,omitempty"`
}

// CompanyInfo describes the listed company.
type CompanyInfo struct {
	Name      string   `json:"name,omitempty"`
	Sector    string   `json:"sector,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
	PERatio   *float64 `json:"pe_ratio,omitempty"`
}

// PriceData holds current trading levels.
type PriceData struct {
	CurrentPrice *float64 `json:"current_price,omitempty"`
	DayHigh      *float64 `json:"day_high,omitempty"`
	DayLow       *float64 `json:"day_low,omitempty"`
	Week52High   *float64 `json:"52_week_high,omitempty"`
}

// ---------------------------------------------------------------------------
// Symbol news
// ---------------------------------------------------------------------------

// NewsResponse is the payload of GET /api/agents/news/{symbol}.
type NewsResponse struct {
	Success bool      `json:"success"`
	News    *NewsData `json:"news,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// NewsData wraps the article list.
type NewsData struct {
	Articles []NewsItem `json:"articles,omitempty"`
}

// NewsItem is one fetched headline.
type NewsItem struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// ---------------------------------------------------------------------------
// News processing pipeline
// ---------------------------------------------------------------------------

// ProcessNewsResponse is the payload of POST /api/analysis/news/process.
type ProcessNewsResponse struct {
	Success           bool          `json:"success"`
	ProcessedArticles int           `json:"processed_articles"`
	FinalSummary      string        `json:"final_summary,omitempty"`
	ChainResults      *ChainResults `json:"chain_results,omitempty"`
	Error             string        `json:"error,omitempty"`
}

// ChainResults carries per-step output of the pipeline:
// ingest, preprocess, classify, extract. Any step may be absent.
type ChainResults struct {
	Ingested     *IngestResult     `json:"ingested,omitempty"`
	Preprocessed *PreprocessResult `json:"preprocessed,omitempty"`
	Classified   *ClassifyResult   `json:"classified,omitempty"`
	Extracted    *ExtractResult    `json:"extracted,omitempty"`
	Summary      string            `json:"summary,omitempty"`
}

// IngestResult is the validation step's output.
type IngestResult struct {
	ValidArticles    []Article `json:"valid_articles,omitempty"`
	RejectedCount    *int      `json:"rejected_count,omitempty"`
	RejectionReasons []string  `json:"rejection_reasons,omitempty"`
}

// PreprocessResult is the cleaning/entity-extraction step's output.
type PreprocessResult struct {
	PreprocessedArticles []PreprocessedArticle `json:"preprocessed_articles,omitempty"`
}

// PreprocessedArticle is one cleaned article with extracted entities.
type PreprocessedArticle struct {
	Title    string              `json:"title,omitempty"`
	Content  string              `json:"content,omitempty"`
	Entities map[string][]string `json:"entities,omitempty"`
}

// ClassifyResult is the classification step's output.
type ClassifyResult struct {
	ClassifiedArticles []ClassifiedArticle `json:"classified_articles,omitempty"`
}

// ClassifiedArticle is one article with its classification labels.
type ClassifiedArticle struct {
	Title            string             `json:"title,omitempty"`
	Classifications  map[string]string  `json:"classifications,omitempty"`
	ConfidenceScores map[string]float64 `json:"confidence_scores,omitempty"`
}

// ExtractResult is the information-extraction step's output.
type ExtractResult struct {
	ExtractedArticles []ExtractedArticle `json:"extracted_articles,omitempty"`
}

// ExtractedArticle is one article's extracted facts and impact assessment.
type ExtractedArticle struct {
	Title             string              `json:"title,omitempty"`
	KeyFacts          map[string][]string `json:"key_facts,omitempty"`
	RiskFactors       map[string]string   `json:"risk_factors,omitempty"`
	StakeholderImpact map[string]string   `json:"stakeholder_impact,omitempty"`
}

// ---------------------------------------------------------------------------
// Service health and workflow status
// ---------------------------------------------------------------------------

// HealthResponse is the payload of GET /api/agents/health.
type HealthResponse struct {
	Status   string            `json:"status,omitempty"`
	Version  string            `json:"version,omitempty"`
	Services map[string]string `json:"services,omitempty"`
}

// WorkflowStatusResponse is the payload of GET /api/analysis/workflows/status.
type WorkflowStatusResponse struct {
	Status             string              `json:"status,omitempty"`
	AvailableWorkflows int                 `json:"available_workflows"`
	TotalWorkflows     int                 `json:"total_workflows"`
	Workflows          map[string]Workflow `json:"workflows,omitempty"`
}

// Workflow describes one backend workflow's availability.
type Workflow struct {
	Available   bool   `json:"available"`
	Description string `json:"description,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
}
