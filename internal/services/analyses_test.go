package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/analyzer"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/models"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/prompt"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/report"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) }

type fakeSummarizer struct {
	inputs []string
	err    error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return "", f.err
	}
	return "A short summary.", nil
}

type generateCall struct {
	prompt    string
	maxLength int
}

type fakeGenerator struct {
	calls []generateCall
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, p string, maxLength int) (string, error) {
	f.calls = append(f.calls, generateCall{prompt: p, maxLength: maxLength})
	if f.err != nil {
		return "", f.err
	}
	switch len(f.calls) {
	case 1:
		return "Term: Tort\nExplanation: a civil wrong", nil
	case 2:
		return "The plaintiff is likely to succeed.", nil
	default:
		return "answer", nil
	}
}

type fakeRepo struct {
	created []*models.Analysis
	err     error
}

func (r *fakeRepo) Create(ctx context.Context, a *models.Analysis) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, a)
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Analysis, error) {
	for _, a := range r.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) List(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	out := []models.AnalysisSummary{}
	for _, a := range r.created {
		out = append(out, models.AnalysisSummary{ID: a.ID, Filename: a.Filename})
	}
	return out, nil
}

func (r *fakeRepo) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	for _, a := range r.created {
		if a.SourceHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) All(ctx context.Context) ([]models.Analysis, error) {
	out := []models.Analysis{}
	for _, a := range r.created {
		out = append(out, *a)
	}
	return out, nil
}

type fixture struct {
	svc        AnalysisService
	repo       *fakeRepo
	summarizer *fakeSummarizer
	generator  *fakeGenerator
	dir        string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := utils.NewLoggerWithWriter("error", io.Discard)
	dir := filepath.Join(t.TempDir(), "reports")

	f := &fixture{
		repo:       &fakeRepo{},
		summarizer: &fakeSummarizer{},
		generator:  &fakeGenerator{},
		dir:        dir,
	}
	writer := report.NewWriter(dir, fixedClock{}, nil, logger)
	f.svc = NewService(f.repo, f.summarizer, f.generator, writer, logger)
	return f
}

func statusOf(err error) int {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}

func TestAnalyze(t *testing.T) {
	f := newFixture(t)

	analysis, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "case.txt",
		File:     []byte("The defendant breached the contract."),
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if analysis.Summary != "A short summary." {
		t.Errorf("unexpected summary: %q", analysis.Summary)
	}
	if analysis.Verdict != "The plaintiff is likely to succeed." {
		t.Errorf("unexpected verdict: %q", analysis.Verdict)
	}
	if !strings.Contains(analysis.GlossaryHTML, "<b style='color:#1e3a8a'>Term</b>: Tort<br>") {
		t.Errorf("unexpected glossary html: %q", analysis.GlossaryHTML)
	}
	if len(analysis.GlossaryTerms) != 1 || analysis.GlossaryTerms[0].Term != "Tort" {
		t.Errorf("unexpected glossary terms: %+v", analysis.GlossaryTerms)
	}
	if analysis.ID == "" {
		t.Error("expected an id")
	}

	wantPath := filepath.Join(f.dir, "LegalSummary_2024-01-01_10-00-00.txt")
	if analysis.ReportPath == nil || *analysis.ReportPath != wantPath {
		t.Fatalf("unexpected report path: %v", analysis.ReportPath)
	}
	content, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(content), "📄 File: case.txt\n") {
		t.Errorf("unexpected report content: %q", content)
	}

	if len(f.repo.created) != 1 {
		t.Errorf("expected 1 stored analysis, got %d", len(f.repo.created))
	}
	if len(f.generator.calls) != 2 {
		t.Fatalf("expected 2 generate calls, got %d", len(f.generator.calls))
	}
	for _, c := range f.generator.calls {
		if c.maxLength != analyzer.DefaultMaxLength {
			t.Errorf("expected max length %d, got %d", analyzer.DefaultMaxLength, c.maxLength)
		}
	}
}

func TestAnalyze_UsesExcerptForAllPrompts(t *testing.T) {
	f := newFixture(t)

	head := strings.Repeat("é", prompt.ExcerptLength)
	text := head + "TAIL-MARKER"

	analysis, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "long.txt",
		File:     []byte(text),
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(f.summarizer.inputs) != 1 || f.summarizer.inputs[0] != head {
		t.Fatalf("summarizer should receive exactly the first %d characters", prompt.ExcerptLength)
	}

	want := prompt.Build(head)
	if f.generator.calls[0].prompt != want.Glossary {
		t.Error("glossary prompt does not embed the excerpt")
	}
	if f.generator.calls[1].prompt != want.Verdict {
		t.Error("verdict prompt does not embed the excerpt")
	}
	for _, c := range f.generator.calls {
		if strings.Contains(c.prompt, "TAIL-MARKER") {
			t.Error("prompt contains text beyond the excerpt")
		}
	}

	if analysis.ExtractedText != text || analysis.Excerpt != head {
		t.Error("analysis should carry full text and excerpt")
	}
}

func TestAnalyze_EmptyContent(t *testing.T) {
	f := newFixture(t)

	analysis, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "blank.txt",
		File:     []byte("  \n\t \n"),
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if analysis.ExtractedText != models.NoContentMessage {
		t.Errorf("unexpected text: %q", analysis.ExtractedText)
	}
	if analysis.Summary != "" || analysis.GlossaryHTML != "" || analysis.Verdict != "" {
		t.Errorf("expected empty artifacts, got %+v", analysis)
	}
	if analysis.ReportPath != nil {
		t.Errorf("expected nil report path, got %q", *analysis.ReportPath)
	}

	if len(f.summarizer.inputs) != 0 || len(f.generator.calls) != 0 {
		t.Error("no model should be called for empty content")
	}
	if len(f.repo.created) != 0 {
		t.Error("empty content should not be stored")
	}
	if _, err := os.Stat(f.dir); !os.IsNotExist(err) {
		t.Errorf("report directory should not exist, stat err: %v", err)
	}
}

func TestAnalyze_UnsupportedFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "scan.png",
		File:     []byte("not a document"),
	})
	if statusOf(err) != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %v", err)
	}

	var appErr *utils.AppError
	errors.As(err, &appErr)
	if appErr.Message != "Unsupported file format." {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
	if len(f.summarizer.inputs) != 0 || len(f.generator.calls) != 0 {
		t.Error("no model should be called for unsupported files")
	}
}

func TestAnalyze_MalformedDocument(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "broken.docx",
		File:     []byte("not a zip archive"),
	})
	if statusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAnalyze_ModelFailure(t *testing.T) {
	f := newFixture(t)
	f.generator.err = errors.New("upstream unavailable")

	_, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "case.txt",
		File:     []byte("text"),
	})
	if statusOf(err) != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", err)
	}
	if len(f.repo.created) != 0 {
		t.Error("failed analysis should not be stored")
	}
	if _, err := os.Stat(f.dir); !os.IsNotExist(err) {
		t.Error("no report should be written when generation fails")
	}
}

func TestAnalyze_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("disk full")

	_, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "case.txt",
		File:     []byte("text"),
	})
	if statusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		question  string
		want      string
		wantCalls int
	}{
		{"answers", "The lease ends in May.", "When does the lease end?", "answer", 1},
		{"empty question", "The lease ends in May.", "", models.MissingInputMessage, 0},
		{"blank question", "The lease ends in May.", "   ", models.MissingInputMessage, 0},
		{"empty document", "", "When?", models.MissingInputMessage, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			// Skip the canned glossary and verdict responses.
			f.generator.calls = make([]generateCall, 2)

			got, err := f.svc.Ask(context.Background(), tt.document, tt.question)
			if err != nil {
				t.Fatalf("Ask returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if calls := len(f.generator.calls) - 2; calls != tt.wantCalls {
				t.Errorf("expected %d generate calls, got %d", tt.wantCalls, calls)
			}
		})
	}
}

func TestAsk_PromptAndFailure(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Ask(context.Background(), " doc ", " question? "); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if f.generator.calls[0].prompt != prompt.Question("doc", "question?") {
		t.Errorf("unexpected prompt: %q", f.generator.calls[0].prompt)
	}

	f.generator.err = errors.New("timeout")
	if _, err := f.svc.Ask(context.Background(), "doc", "question?"); statusOf(err) != http.StatusBadGateway {
		t.Errorf("expected 502, got %v", err)
	}
}

func TestAskAnalysis(t *testing.T) {
	f := newFixture(t)

	analysis, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "case.txt",
		File:     []byte("The contract was signed in 2020."),
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	answer, err := f.svc.AskAnalysis(context.Background(), analysis.ID, "When was it signed?")
	if err != nil {
		t.Fatalf("AskAnalysis returned error: %v", err)
	}
	if answer != "answer" {
		t.Errorf("unexpected answer: %q", answer)
	}
	last := f.generator.calls[len(f.generator.calls)-1]
	if !strings.Contains(last.prompt, "The contract was signed in 2020.") {
		t.Errorf("prompt should embed stored text: %q", last.prompt)
	}

	if _, err := f.svc.AskAnalysis(context.Background(), "missing", "q"); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestGetReport(t *testing.T) {
	f := newFixture(t)

	analysis, err := f.svc.Analyze(context.Background(), &models.UploadRequest{
		Filename: "case.txt",
		File:     []byte("text"),
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	name, data, err := f.svc.GetReport(context.Background(), analysis.ID)
	if err != nil {
		t.Fatalf("GetReport returned error: %v", err)
	}
	if name != "LegalSummary_2024-01-01_10-00-00.txt" {
		t.Errorf("unexpected name: %q", name)
	}
	if !strings.Contains(string(data), "=== ⚖️ Verdict ===\nThe plaintiff is likely to succeed.\n") {
		t.Errorf("unexpected report: %q", data)
	}

	if err := os.Remove(*analysis.ReportPath); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.svc.GetReport(context.Background(), analysis.ID); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for deleted report, got %v", err)
	}
}

func TestListAndExport(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Analyze(context.Background(), &models.UploadRequest{Filename: "a.txt", File: []byte("a")}); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	list, err := f.svc.ListAnalyses(context.Background(), 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListAnalyses = %v, %v", list, err)
	}

	data, err := f.svc.ExportAnalyses(context.Background())
	if err != nil {
		t.Fatalf("ExportAnalyses returned error: %v", err)
	}
	// XLSX files are zip archives.
	if len(data) < 4 || string(data[:2]) != "PK" {
		t.Error("export is not an xlsx archive")
	}
}

func TestIsAnalyzed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	content := []byte("The tenant withheld rent.")

	seen, err := f.svc.IsAnalyzed(ctx, content)
	if err != nil || seen {
		t.Fatalf("IsAnalyzed before analysis = %v, %v", seen, err)
	}

	analysis, err := f.svc.Analyze(ctx, &models.UploadRequest{Filename: "rent.txt", File: content})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if analysis.SourceHash != utils.ContentHash(content) {
		t.Errorf("unexpected source hash: %q", analysis.SourceHash)
	}

	seen, err = f.svc.IsAnalyzed(ctx, content)
	if err != nil || !seen {
		t.Errorf("IsAnalyzed after analysis = %v, %v", seen, err)
	}
	if seen, _ := f.svc.IsAnalyzed(ctx, []byte("other")); seen {
		t.Error("different content should not be reported as analyzed")
	}
}

func TestIsAnalyzed_EmptyContentNotRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Analyze(ctx, &models.UploadRequest{Filename: "blank.txt", File: []byte("  ")}); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if seen, _ := f.svc.IsAnalyzed(ctx, []byte("  ")); seen {
		t.Error("documents without text are not stored and should not count as analyzed")
	}
}
