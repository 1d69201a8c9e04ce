package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id, userID string) (*models.Document, error)
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)
	UpdateStatus(ctx context.Context, id string, status models.DocumentStatus) error
	SaveExtractedText(ctx context.Context, id, text string, status models.DocumentStatus) error
	Delete(ctx context.Context, id, userID string) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, user_id, file_name, file_path, file_size, mime_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.FilePath,
		doc.FileSize,
		doc.MimeType,
		doc.Status,
		doc.CreatedAt,
	)

	return err
}

func (r *documentRepository) GetByID(ctx context.Context, id, userID string) (*models.Document, error) {
	var doc models.Document

	query := `
		SELECT id, user_id, file_name, file_path, file_size, mime_type, status, extracted_text, created_at
		FROM documents
		WHERE id = $1 AND user_id = $2
	`

	err := r.db.GetContext(ctx, &doc, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	docs := []models.Document{}

	query := `
		SELECT id, user_id, file_name, file_path, file_size, mime_type, status, extracted_text, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	if err := r.db.SelectContext(ctx, &docs, query, userID); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id string, status models.DocumentStatus) error {
	query := `UPDATE documents SET status = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *documentRepository) SaveExtractedText(ctx context.Context, id, text string, status models.DocumentStatus) error {
	query := `UPDATE documents SET extracted_text = $2, status = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, text, status)
	return err
}

// Delete removes the document row; dependent analyses go with it via the
// foreign-key cascade. The stored blob is left behind on purpose — only
// the shredder removes it.
func (r *documentRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM documents WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
