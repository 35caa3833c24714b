package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/analyzer"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/export"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/extractor"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/glossary"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/models"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/prompt"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/report"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/repository"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

type AnalysisService interface {
	Analyze(ctx context.Context, req *models.UploadRequest) (*models.Analysis, error)
	Ask(ctx context.Context, documentText, question string) (string, error)
	AskAnalysis(ctx context.Context, id, question string) (string, error)
	GetAnalysis(ctx context.Context, id string) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error)
	ExportAnalyses(ctx context.Context) ([]byte, error)
	GetReport(ctx context.Context, id string) (string, []byte, error)
	IsAnalyzed(ctx context.Context, data []byte) (bool, error)
}

type analysisService struct {
	repo       repository.Repository
	summarizer analyzer.Summarizer
	generator  analyzer.Generator
	reports    *report.Writer
	logger     *utils.Logger
}

func NewService(repo repository.Repository, summarizer analyzer.Summarizer, generator analyzer.Generator, reports *report.Writer, logger *utils.Logger) AnalysisService {
	return &analysisService{
		repo:       repo,
		summarizer: summarizer,
		generator:  generator,
		reports:    reports,
		logger:     logger,
	}
}

func (s *analysisService) Analyze(ctx context.Context, req *models.UploadRequest) (*models.Analysis, error) {
	text, err := extractor.Extract(req.Filename, req.File)
	if errors.Is(err, extractor.ErrUnsupportedFormat) {
		s.logger.Warn("Unsupported file format", "filename", req.Filename, "content_type", req.ContentType)
		return nil, utils.NewUnsupportedMediaError(extractor.UnsupportedFormatMessage)
	}
	if err != nil {
		s.logger.Error("Failed to extract text", "error", err, "filename", req.Filename)
		return nil, utils.NewUnprocessableError("Failed to extract text from document", err)
	}

	if utils.IsBlank(text) {
		s.logger.Warn("No text extracted from document", "filename", req.Filename)
		return models.EmptyAnalysis(req.Filename), nil
	}

	excerpt := prompt.Excerpt(text)
	prompts := prompt.Build(excerpt)

	s.logger.Info("Starting document analysis", "filename", req.Filename, "text_length", len(text))

	summary, err := s.summarizer.Summarize(ctx, excerpt)
	if err != nil {
		s.logger.Error("Failed to summarize document", "error", err, "filename", req.Filename)
		return nil, utils.NewBadGatewayError("Failed to summarize document", err)
	}

	glossaryRaw, err := s.generator.Generate(ctx, prompts.Glossary, analyzer.DefaultMaxLength)
	if err != nil {
		s.logger.Error("Failed to generate glossary", "error", err, "filename", req.Filename)
		return nil, utils.NewBadGatewayError("Failed to generate glossary", err)
	}

	verdict, err := s.generator.Generate(ctx, prompts.Verdict, analyzer.DefaultMaxLength)
	if err != nil {
		s.logger.Error("Failed to predict verdict", "error", err, "filename", req.Filename)
		return nil, utils.NewBadGatewayError("Failed to predict verdict", err)
	}

	path, err := s.reports.Write(ctx, report.Report{
		Filename: req.Filename,
		Summary:  summary,
		Glossary: glossaryRaw,
		Verdict:  verdict,
	})
	if err != nil {
		s.logger.Error("Failed to write report", "error", err, "filename", req.Filename)
		return nil, utils.WrapInternalError("Failed to write report", err)
	}

	analysis := &models.Analysis{
		ID:            utils.GenerateID(),
		Filename:      req.Filename,
		ExtractedText: text,
		Excerpt:       excerpt,
		Summary:       summary,
		GlossaryRaw:   glossaryRaw,
		GlossaryHTML:  glossary.FormatHTML(glossaryRaw),
		GlossaryTerms: glossary.Parse(glossaryRaw),
		Verdict:       verdict,
		ReportPath:    &path,
		SourceHash:    utils.ContentHash(req.File),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, analysis); err != nil {
		s.logger.Error("Failed to save analysis", "error", err, "id", analysis.ID)
		return nil, utils.WrapInternalError("Failed to save analysis", err)
	}

	s.logger.Info("Document analyzed successfully",
		"id", analysis.ID,
		"filename", req.Filename,
		"report", path,
		"summary_length", len(summary))

	return analysis, nil
}

// Ask answers question from documentText. A blank document or question
// yields models.MissingInputMessage without calling the generator.
func (s *analysisService) Ask(ctx context.Context, documentText, question string) (string, error) {
	if utils.IsBlank(documentText) || utils.IsBlank(question) {
		return models.MissingInputMessage, nil
	}

	answer, err := s.generator.Generate(ctx, prompt.Question(documentText, question), analyzer.DefaultMaxLength)
	if err != nil {
		s.logger.Error("Failed to answer question", "error", err)
		return "", utils.NewBadGatewayError("Failed to answer question", err)
	}
	return answer, nil
}

func (s *analysisService) AskAnalysis(ctx context.Context, id, question string) (string, error) {
	analysis, err := s.GetAnalysis(ctx, id)
	if err != nil {
		return "", err
	}
	return s.Ask(ctx, analysis.ExtractedText, question)
}

func (s *analysisService) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	analysis, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get analysis", "error", err, "id", id)
		return nil, utils.WrapInternalError("Failed to retrieve analysis", err)
	}
	if analysis == nil {
		return nil, utils.NewNotFoundError("Analysis not found")
	}

	analysis.GlossaryTerms = glossary.Parse(analysis.GlossaryRaw)
	return analysis, nil
}

func (s *analysisService) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	analyses, err := s.repo.List(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list analyses", "error", err)
		return nil, utils.WrapInternalError("Failed to list analyses", err)
	}
	return analyses, nil
}

func (s *analysisService) ExportAnalyses(ctx context.Context) ([]byte, error) {
	analyses, err := s.repo.All(ctx)
	if err != nil {
		s.logger.Error("Failed to load analyses for export", "error", err)
		return nil, utils.WrapInternalError("Failed to load analyses", err)
	}

	data, err := export.AnalysesXLSX(analyses)
	if err != nil {
		s.logger.Error("Failed to build workbook", "error", err)
		return nil, utils.WrapInternalError("Failed to export analyses", err)
	}

	s.logger.Info("Analyses exported", "count", len(analyses))
	return data, nil
}

// GetReport returns the report file name and content of a stored analysis.
func (s *analysisService) GetReport(ctx context.Context, id string) (string, []byte, error) {
	analysis, err := s.GetAnalysis(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if analysis.ReportPath == nil {
		return "", nil, utils.NewNotFoundError("Report not found")
	}

	data, err := s.reports.Read(ctx, *analysis.ReportPath)
	if err != nil {
		s.logger.Error("Failed to read report", "error", err, "id", id, "path", *analysis.ReportPath)
		return "", nil, utils.NewNotFoundError(fmt.Sprintf("Report %s is no longer available", filepath.Base(*analysis.ReportPath)))
	}

	return filepath.Base(*analysis.ReportPath), data, nil
}

// IsAnalyzed reports whether a document with the same bytes has already been
// analyzed and stored.
func (s *analysisService) IsAnalyzed(ctx context.Context, data []byte) (bool, error) {
	exists, err := s.repo.ExistsByHash(ctx, utils.ContentHash(data))
	if err != nil {
		s.logger.Error("Failed to look up document hash", "error", err)
		return false, utils.WrapInternalError("Failed to look up document", err)
	}
	return exists, nil
}
