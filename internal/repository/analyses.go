package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
)

type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	GetByID(ctx context.Context, id, userID string) (*models.Analysis, error)
	ListByUser(ctx context.Context, userID string) ([]models.Analysis, error)
	AttachSignature(ctx context.Context, id, userID, signatureData string, signedAt time.Time) error
	Delete(ctx context.Context, id, userID string) error
}

type analysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

// analysisRow mirrors the table, with the result sequences held as the
// JSON text they are stored as.
type analysisRow struct {
	ID              string     `db:"id"`
	DocumentID      string     `db:"document_id"`
	UserID          string     `db:"user_id"`
	Opportunities   string     `db:"opportunities"`
	Risks           string     `db:"risks"`
	Recommendations string     `db:"recommendations"`
	CarbonImpact    string     `db:"carbon_impact"`
	ComplianceScore int        `db:"compliance_score"`
	AISummary       string     `db:"ai_summary"`
	SignedAt        *time.Time `db:"signed_at"`
	SignatureData   *string    `db:"signature_data"`
	CreatedAt       time.Time  `db:"created_at"`
	FileName        *string    `db:"file_name"`
}

func (row *analysisRow) toModel() (*models.Analysis, error) {
	a := &models.Analysis{
		ID:              row.ID,
		DocumentID:      row.DocumentID,
		UserID:          row.UserID,
		ComplianceScore: row.ComplianceScore,
		AISummary:       row.AISummary,
		SignedAt:        row.SignedAt,
		SignatureData:   row.SignatureData,
		CreatedAt:       row.CreatedAt,
	}
	if row.FileName != nil {
		a.FileName = *row.FileName
	}

	if err := json.Unmarshal([]byte(row.Opportunities), &a.Opportunities); err != nil {
		return nil, fmt.Errorf("failed to decode opportunities: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Risks), &a.Risks); err != nil {
		return nil, fmt.Errorf("failed to decode risks: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Recommendations), &a.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	if err := json.Unmarshal([]byte(row.CarbonImpact), &a.CarbonImpact); err != nil {
		return nil, fmt.Errorf("failed to decode carbon impact: %w", err)
	}

	return a, nil
}

func (r *analysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	opportunities, err := json.Marshal(analysis.Opportunities)
	if err != nil {
		return fmt.Errorf("failed to encode opportunities: %w", err)
	}
	risks, err := json.Marshal(analysis.Risks)
	if err != nil {
		return fmt.Errorf("failed to encode risks: %w", err)
	}
	recommendations, err := json.Marshal(analysis.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}
	carbonImpact, err := json.Marshal(analysis.CarbonImpact)
	if err != nil {
		return fmt.Errorf("failed to encode carbon impact: %w", err)
	}

	query := `
		INSERT INTO document_analyses
			(id, document_id, user_id, opportunities, risks, recommendations,
			 carbon_impact, compliance_score, ai_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.DocumentID,
		analysis.UserID,
		string(opportunities),
		string(risks),
		string(recommendations),
		string(carbonImpact),
		analysis.ComplianceScore,
		analysis.AISummary,
		analysis.CreatedAt,
	)

	return err
}

func (r *analysisRepository) GetByID(ctx context.Context, id, userID string) (*models.Analysis, error) {
	var row analysisRow

	query := `
		SELECT a.id, a.document_id, a.user_id, a.opportunities, a.risks,
		       a.recommendations, a.carbon_impact, a.compliance_score,
		       a.ai_summary, a.signed_at, a.signature_data, a.created_at,
		       d.file_name
		FROM document_analyses a
		JOIN documents d ON d.id = a.document_id
		WHERE a.id = $1 AND a.user_id = $2
	`

	err := r.db.GetContext(ctx, &row, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row.toModel()
}

func (r *analysisRepository) ListByUser(ctx context.Context, userID string) ([]models.Analysis, error) {
	rows := []analysisRow{}

	query := `
		SELECT a.id, a.document_id, a.user_id, a.opportunities, a.risks,
		       a.recommendations, a.carbon_impact, a.compliance_score,
		       a.ai_summary, a.signed_at, a.signature_data, a.created_at,
		       d.file_name
		FROM document_analyses a
		JOIN documents d ON d.id = a.document_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
	`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	analyses := make([]models.Analysis, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *a)
	}

	return analyses, nil
}

// AttachSignature commits the attestation only when the row is still
// unsigned; re-signing a signed analysis matches no rows.
func (r *analysisRepository) AttachSignature(ctx context.Context, id, userID, signatureData string, signedAt time.Time) error {
	query := `
		UPDATE document_analyses
		SET signed_at = $3, signature_data = $4
		WHERE id = $1 AND user_id = $2 AND signed_at IS NULL
	`

	res, err := r.db.ExecContext(ctx, query, id, userID, signedAt, signatureData)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *analysisRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM document_analyses WHERE id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, id, userID)
	return err
}
