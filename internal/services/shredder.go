package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidsmith/tender-analyzer-api/internal/repository"
	"github.com/bidsmith/tender-analyzer-api/internal/storage"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

type ShredStage string

const (
	StageConfirm   ShredStage = "confirm"
	StageShredding ShredStage = "shredding"
	StageComplete  ShredStage = "complete"
)

// ConfirmationToken must match the request token exactly before anything
// is deleted. Clients uppercase as the user types, so a lowercase token
// reaching this layer is a mismatch, not a near-miss.
const ConfirmationToken = "SHRED"

type ShredResult struct {
	Stage    ShredStage `json:"stage"`
	Progress int        `json:"progress"`
}

// Shredder is the secure-delete path: analysis row, stored blob, then
// document row, strictly in order. Unlike the plain document delete it
// removes the blob — when a stored path resolves at shred time.
type Shredder struct {
	docs     repository.DocumentRepository
	analyses repository.AnalysisRepository
	store    storage.Storage
	logger   *utils.Logger
}

func NewShredder(
	docs repository.DocumentRepository,
	analyses repository.AnalysisRepository,
	store storage.Storage,
	logger *utils.Logger,
) *Shredder {
	return &Shredder{
		docs:     docs,
		analyses: analyses,
		store:    store,
		logger:   logger,
	}
}

// Run executes one shred: confirm -> shredding -> complete. Any step
// failing aborts the rest, reports the error and lands back on confirm
// with progress reset to zero. There is no partial-completion recovery:
// a failure after the analysis delete leaves the document orphaned until
// the user shreds again.
func (s *Shredder) Run(ctx context.Context, userID, analysisID, documentID, confirmation string, progress ProgressFunc) (*ShredResult, error) {
	if progress == nil {
		progress = NopProgress
	}

	if confirmation != ConfirmationToken {
		return &ShredResult{Stage: StageConfirm, Progress: 0},
			utils.NewBadRequestError(`Type SHRED to confirm shredding`)
	}

	fail := func(err error) (*ShredResult, error) {
		s.logger.Error("shred failed", "error", err, "doc_id", documentID, "analysis_id", analysisID)
		return &ShredResult{Stage: StageConfirm, Progress: 0}, err
	}

	progress(20, "Removing analysis data...")
	if err := s.analyses.Delete(ctx, analysisID, userID); err != nil {
		return fail(utils.NewInternalError("Failed to delete analysis"))
	}

	progress(50, "Locating stored files...")
	doc, err := s.docs.GetByID(ctx, documentID, userID)
	if err != nil {
		return fail(utils.NewInternalError("Failed to locate document"))
	}

	progress(70, "Deleting from storage...")
	if doc != nil && doc.FilePath != "" {
		if err := s.store.Delete(ctx, doc.FilePath); err != nil {
			return fail(utils.NewInternalError("Failed to delete stored file"))
		}
	}
	// No resolvable path is not an error; both rows still go.

	progress(85, "Completing secure deletion...")
	if err := s.docs.Delete(ctx, documentID, userID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fail(utils.NewInternalError("Failed to delete document"))
	}

	progress(100, "Completing secure deletion...")

	s.logger.Info("document shredded", "doc_id", documentID, "analysis_id", analysisID)

	return &ShredResult{Stage: StageComplete, Progress: 100}, nil
}
