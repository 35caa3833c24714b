package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/models"
	"github.com/jmoiron/sqlx"
)

const DefaultListLimit = 50

type Repository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	GetByID(ctx context.Context, id string) (*models.Analysis, error)
	List(ctx context.Context, limit int) ([]models.AnalysisSummary, error)
	All(ctx context.Context) ([]models.Analysis, error)
	ExistsByHash(ctx context.Context, hash string) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, analysis *models.Analysis) error {
	query := `
		INSERT INTO analyses (id, filename, extracted_text, excerpt, summary, glossary_raw,
		                      glossary_html, verdict, report_path, source_hash, created_at)
		VALUES (:id, :filename, :extracted_text, :excerpt, :summary, :glossary_raw,
		        :glossary_html, :verdict, :report_path, :source_hash, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, analysis)
	return err
}

// GetByID returns nil, nil when no analysis has the id.
func (r *repository) GetByID(ctx context.Context, id string) (*models.Analysis, error) {
	var analysis models.Analysis

	query := `
		SELECT id, filename, extracted_text, excerpt, summary, glossary_raw,
		       glossary_html, verdict, report_path, source_hash, created_at
		FROM analyses
		WHERE id = ?
	`

	err := r.db.GetContext(ctx, &analysis, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &analysis, nil
}

// List returns the most recent analyses first.
func (r *repository) List(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, filename, summary, verdict, report_path, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ?
	`

	analyses := []models.AnalysisSummary{}
	if err := r.db.SelectContext(ctx, &analyses, query, limit); err != nil {
		return nil, err
	}

	return analyses, nil
}

// All returns every stored analysis, oldest first.
func (r *repository) All(ctx context.Context) ([]models.Analysis, error) {
	query := `
		SELECT id, filename, extracted_text, excerpt, summary, glossary_raw,
		       glossary_html, verdict, report_path, source_hash, created_at
		FROM analyses
		ORDER BY created_at ASC
	`

	analyses := []models.Analysis{}
	if err := r.db.SelectContext(ctx, &analyses, query); err != nil {
		return nil, err
	}

	return analyses, nil
}

// ExistsByHash reports whether an analysis was stored for a document with
// the given content hash.
func (r *repository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM analyses WHERE source_hash = ?)`
	if err := r.db.GetContext(ctx, &exists, query, hash); err != nil {
		return false, err
	}
	return exists, nil
}
