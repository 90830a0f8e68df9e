package models

import (
	"time"
)

type Classification string

const (
	ClassificationJailbreak          Classification = "jailbreak"
	ClassificationAdvice             Classification = "advice"
	ClassificationNonMF              Classification = "non_mf"
	ClassificationSchemeNotAvailable Classification = "scheme_not_available"
	ClassificationFactual            Classification = "factual"
)

// Input message

type AskRequest struct {
	QueryID string `json:"query_id"`
	Query   string `json:"query"`
}

// Normalized internal object. Owned by a single call stack per request,
// never shared across goroutines.
type Query struct {
	ID            string          `json:"query_id"`
	Original      string          `json:"original_query"`
	Normalized    string          `json:"normalized_query"`
	Expanded      string          `json:"expanded_query"`
	SchemeName    string          `json:"scheme_name,omitempty"`
	FactualIntent string          `json:"factual_intent,omitempty"`
	Class         Classification  `json:"classification"`
	Canned        *CannedResponse `json:"canned_response,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CannedResponse is the precomputed payload attached to every non-factual
// classification. Invariant: present iff Class != ClassificationFactual.
type CannedResponse struct {
	Answer             string `json:"answer"`
	SourceURL          string `json:"source_url"`
	IsNonMF            bool   `json:"is_non_mf,omitempty"`
	IsAdviceQuery      bool   `json:"is_advice_query,omitempty"`
	IsJailbreak        bool   `json:"is_jailbreak,omitempty"`
	SchemeNotAvailable bool   `json:"scheme_not_available,omitempty"`
	RequestedScheme    string `json:"requested_scheme,omitempty"`
}

// Chunk is one ranked retrieval hit from the vector index.
type Chunk struct {
	ID            string  `json:"id"`
	Score         float64 `json:"score"`
	RerankedScore float64 `json:"reranked_score,omitempty"`
	Text          string  `json:"text"`
	SourceURL     string  `json:"source_url"`
	SchemeName    string  `json:"scheme_name"`
	DocumentType  string  `json:"document_type"`
	ChunkIndex    int     `json:"chunk_index"`
	FactualData   string  `json:"factual_data"`
}

// ValidationReport accumulates one validation pass over a generated answer.
// IsValid flips to false only through AddError; warnings and fixes never
// change it.
type ValidationReport struct {
	IsValid      bool     `json:"is_valid"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	FixesApplied []string `json:"fixes_applied"`
}

func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		IsValid:      true,
		Errors:       []string{},
		Warnings:     []string{},
		FixesApplied: []string{},
	}
}

func (r *ValidationReport) AddError(err string) {
	r.IsValid = false
	r.Errors = append(r.Errors, err)
}

func (r *ValidationReport) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

func (r *ValidationReport) AddFix(fix string) {
	r.FixesApplied = append(r.FixesApplied, fix)
}

// Final output emitted to the caller. SourceURL is always a well-formed
// absolute URL; the formatter enforces that.
type FormattedResponse struct {
	Answer       string   `json:"answer"`
	SourceURL    string   `json:"source_url"`
	IsValid      bool     `json:"is_valid"`
	Warnings     []string `json:"warnings"`
	FixesApplied []string `json:"fixes_applied"`
	Query        string   `json:"query,omitempty"`
	SchemeName   string   `json:"scheme_name,omitempty"`
}
