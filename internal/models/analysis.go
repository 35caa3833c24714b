package models

import (
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/glossary"
)

// NoContentMessage replaces the extracted text when a document yields none.
const NoContentMessage = "No content found in file."

// MissingInputMessage is returned by the ask flow when the document or the
// question is blank.
const MissingInputMessage = "⚠️ Please provide both a document and a prompt."

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

// Analysis is the outcome of analyzing one document. It is never modified
// after it is created.
type Analysis struct {
	ID            string          `json:"id,omitempty" db:"id"`
	Filename      string          `json:"filename" db:"filename"`
	ExtractedText string          `json:"extracted_text" db:"extracted_text"`
	Excerpt       string          `json:"excerpt" db:"excerpt"`
	Summary       string          `json:"summary" db:"summary"`
	GlossaryRaw   string          `json:"glossary_raw" db:"glossary_raw"`
	GlossaryHTML  string          `json:"glossary_html" db:"glossary_html"`
	GlossaryTerms []glossary.Term `json:"glossary_terms,omitempty" db:"-"`
	Verdict       string          `json:"verdict" db:"verdict"`
	ReportPath    *string         `json:"report_path" db:"report_path"`
	SourceHash    string          `json:"source_hash,omitempty" db:"source_hash"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// EmptyAnalysis is the fixed result for documents without text.
func EmptyAnalysis(filename string) *Analysis {
	return &Analysis{
		Filename:      filename,
		ExtractedText: NoContentMessage,
	}
}

type AskRequest struct {
	DocumentText string `json:"document_text"`
	Question     string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// AnalysisSummary is the list view of a stored analysis.
type AnalysisSummary struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	Summary    string    `json:"summary" db:"summary"`
	Verdict    string    `json:"verdict" db:"verdict"`
	ReportPath *string   `json:"report_path" db:"report_path"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
