package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/repository"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

// AnalysisService serves analysis reads and the signature attestation.
type AnalysisService struct {
	analyses repository.AnalysisRepository
	logger   *utils.Logger
	now      func() time.Time
}

func NewAnalysisService(analyses repository.AnalysisRepository, logger *utils.Logger) *AnalysisService {
	return &AnalysisService{
		analyses: analyses,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AnalysisService) List(ctx context.Context, userID string) ([]models.Analysis, error) {
	analyses, err := s.analyses.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list analyses", "error", err, "user_id", userID)
		return nil, utils.NewInternalError("Failed to load analyses")
	}
	return analyses, nil
}

func (s *AnalysisService) Get(ctx context.Context, userID, id string) (*models.Analysis, error) {
	analysis, err := s.analyses.GetByID(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to get analysis", "error", err, "analysis_id", id)
		return nil, utils.NewInternalError("Failed to retrieve analysis")
	}
	if analysis == nil {
		return nil, utils.NewNotFoundError("Analysis not found")
	}
	return analysis, nil
}

// Sign attaches the attestation to an analysis. All three inputs are
// required together; once signed_at is set the analysis refuses any
// further signing.
func (s *AnalysisService) Sign(ctx context.Context, userID, id string, req *models.SignRequest) (*models.Analysis, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Image == "" || !req.Consent {
		return nil, utils.NewBadRequestError("Name, drawn signature and consent are all required")
	}

	analysis, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if analysis.SignedAt != nil {
		return nil, utils.NewConflictError("Analysis is already signed")
	}

	signedAt := s.now()
	signature := models.Signature{
		Image:     req.Image,
		Name:      name,
		Timestamp: signedAt,
	}

	data, err := json.Marshal(signature)
	if err != nil {
		s.logger.Error("failed to encode signature", "error", err, "analysis_id", id)
		return nil, utils.NewInternalError("Failed to save signature")
	}

	signatureData := string(data)
	err = s.analyses.AttachSignature(ctx, id, userID, signatureData, signedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost a race with another signer; the first one wins.
		return nil, utils.NewConflictError("Analysis is already signed")
	}
	if err != nil {
		s.logger.Error("failed to save signature", "error", err, "analysis_id", id)
		return nil, utils.NewInternalError("Failed to save signature")
	}

	analysis.SignedAt = &signedAt
	analysis.SignatureData = &signatureData

	s.logger.Info("analysis signed", "analysis_id", id, "signed_by", name)

	return analysis, nil
}
