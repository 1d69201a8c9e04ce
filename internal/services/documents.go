package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bidsmith/tender-analyzer-api/internal/analyzer"
	"github.com/bidsmith/tender-analyzer-api/internal/extractor"
	"github.com/bidsmith/tender-analyzer-api/internal/kb"
	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/repository"
	"github.com/bidsmith/tender-analyzer-api/internal/storage"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

// DocumentService drives the document pipeline: storage write, record
// creation, text extraction and AI analysis, strictly in that order.
type DocumentService struct {
	docs     repository.DocumentRepository
	analyses repository.AnalysisRepository
	store    storage.Storage
	gateway  analyzer.Gateway
	kb       *kb.KnowledgeBase
	logger   *utils.Logger
	now      func() time.Time
}

func NewDocumentService(
	docs repository.DocumentRepository,
	analyses repository.AnalysisRepository,
	store storage.Storage,
	gateway analyzer.Gateway,
	knowledgeBase *kb.KnowledgeBase,
	logger *utils.Logger,
) *DocumentService {
	return &DocumentService{
		docs:     docs,
		analyses: analyses,
		store:    store,
		gateway:  gateway,
		kb:       knowledgeBase,
		logger:   logger,
		now:      time.Now,
	}
}

// isPDF is a client-side hint, not content sniffing: a mislabeled file
// with a .pdf suffix gets through and fails later at extraction.
func isPDF(fileName, mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(fileName), ".pdf")
}

// Upload runs the full pipeline. Any step failing aborts the rest and
// surfaces the first error; nothing is rolled back, so a failed run can
// leave a document row behind in `pending` or `error` — cleanup is the
// shredder's job, not this one's.
func (s *DocumentService) Upload(ctx context.Context, userID string, req *models.UploadRequest, progress ProgressFunc) (*models.UploadResponse, error) {
	if progress == nil {
		progress = NopProgress
	}

	if !isPDF(req.FileName, req.MimeType) {
		return nil, utils.NewBadRequestError("Please upload a PDF file")
	}

	progress(10, "Uploading...")

	// Collision avoidance is the millisecond timestamp alone; two
	// same-millisecond uploads of one file by one user collide. Known gap.
	filePath := fmt.Sprintf("%s/%d_%s", userID, s.now().UnixMilli(), req.FileName)
	progress(30, "Uploading...")

	if err := s.store.Upload(ctx, filePath, req.File, req.MimeType); err != nil {
		s.logger.Error("failed to store file", "error", err, "file_path", filePath)
		return nil, utils.NewInternalError("Failed to store document")
	}
	progress(50, "Uploading...")

	doc := &models.Document{
		ID:        utils.GenerateID(),
		UserID:    userID,
		FileName:  req.FileName,
		FilePath:  filePath,
		FileSize:  int64(len(req.File)),
		MimeType:  req.MimeType,
		Status:    models.StatusPending,
		CreatedAt: s.now(),
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		s.logger.Error("failed to save document", "error", err, "doc_id", doc.ID)
		return nil, utils.NewInternalError("Failed to save document metadata")
	}
	progress(70, "Extracting text...")

	extraction, err := s.Extract(ctx, userID, doc.ID)
	if err != nil {
		return nil, err
	}
	progress(90, "Analyzing with AI...")

	var analysis *models.Analysis
	if strings.TrimSpace(extraction.ExtractedText) != "" {
		analysis, err = s.Analyze(ctx, userID, doc.ID, extraction.ExtractedText)
		if err != nil {
			return nil, err
		}
	}
	progress(100, "Finalizing...")

	final, err := s.docs.GetByID(ctx, doc.ID, userID)
	if err != nil || final == nil {
		final = doc
	}

	s.logger.Info("document uploaded and analyzed",
		"doc_id", doc.ID,
		"file_name", doc.FileName,
		"text_length", extraction.TextLength)

	return &models.UploadResponse{
		Document: final,
		Analysis: analysis,
		Message:  "Document uploaded and analyzed successfully",
	}, nil
}

// Extract downloads the stored blob and pulls its text: the embedded
// text layer first, the AI gateway when the document has none. The
// document moves pending -> processing -> analyzed, or to error on any
// remote failure.
func (s *DocumentService) Extract(ctx context.Context, userID, documentID string) (*models.ExtractionResponse, error) {
	doc, err := s.docs.GetByID(ctx, documentID, userID)
	if err != nil {
		s.logger.Error("failed to load document", "error", err, "doc_id", documentID)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	data, err := s.store.Download(ctx, doc.FilePath)
	if err != nil {
		s.logger.Error("failed to download file", "error", err, "file_path", doc.FilePath)
		s.markError(ctx, documentID)
		return nil, utils.NewInternalError("Failed to download file")
	}

	if err := s.docs.UpdateStatus(ctx, documentID, models.StatusProcessing); err != nil {
		s.logger.Error("failed to update status", "error", err, "doc_id", documentID)
		return nil, utils.NewInternalError("Failed to update document status")
	}

	text, err := extractor.ExtractPDF(data)
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Info("no text layer, falling back to AI extraction",
			"doc_id", documentID, "local_error", err)
		text, err = s.gateway.ExtractText(ctx, data)
		if err != nil {
			s.markError(ctx, documentID)
			return nil, err
		}
	}

	if err := s.docs.SaveExtractedText(ctx, documentID, text, models.StatusAnalyzed); err != nil {
		s.logger.Error("failed to save extracted text", "error", err, "doc_id", documentID)
		return nil, utils.NewInternalError("Failed to save extracted text")
	}

	s.logger.Info("text extracted", "doc_id", documentID, "text_length", len(text))

	return &models.ExtractionResponse{
		ExtractedText: text,
		TextLength:    len(text),
	}, nil
}

// Analyze requests the structured assessment for a document's extracted
// text and persists it. An empty extractedText argument falls back to the
// text stored on the document.
func (s *DocumentService) Analyze(ctx context.Context, userID, documentID, extractedText string) (*models.Analysis, error) {
	doc, err := s.docs.GetByID(ctx, documentID, userID)
	if err != nil {
		s.logger.Error("failed to load document", "error", err, "doc_id", documentID)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	if extractedText == "" && doc.ExtractedText != nil {
		extractedText = *doc.ExtractedText
	}
	if strings.TrimSpace(extractedText) == "" {
		return nil, utils.NewBadRequestError("Document has no extracted text to analyze")
	}

	result, err := s.gateway.Analyze(ctx, extractedText, s.kb.Context())
	if err != nil {
		s.markError(ctx, documentID)
		return nil, err
	}

	if err := s.docs.UpdateStatus(ctx, documentID, models.StatusAnalyzed); err != nil {
		s.logger.Error("failed to update status", "error", err, "doc_id", documentID)
		return nil, utils.NewInternalError("Failed to update document status")
	}

	analysis := &models.Analysis{
		ID:              utils.GenerateID(),
		DocumentID:      documentID,
		UserID:          userID,
		Opportunities:   result.Opportunities,
		Risks:           result.Risks,
		Recommendations: result.Recommendations,
		CarbonImpact:    result.CarbonImpact,
		ComplianceScore: result.ComplianceScore,
		AISummary:       result.Summary,
		CreatedAt:       s.now(),
		FileName:        doc.FileName,
	}

	if err := s.analyses.Create(ctx, analysis); err != nil {
		s.logger.Error("failed to save analysis", "error", err, "doc_id", documentID)
		return nil, utils.NewInternalError("Failed to save analysis results")
	}

	s.logger.Info("analysis saved",
		"analysis_id", analysis.ID,
		"doc_id", documentID,
		"compliance_score", analysis.ComplianceScore)

	return analysis, nil
}

func (s *DocumentService) List(ctx context.Context, userID string) ([]models.Document, error) {
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err, "user_id", userID)
		return nil, utils.NewInternalError("Failed to load documents")
	}
	return docs, nil
}

func (s *DocumentService) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	doc, err := s.docs.GetByID(ctx, id, userID)
	if err != nil {
		s.logger.Error("failed to get document", "error", err, "doc_id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}
	return doc, nil
}

// Delete is the plain delete: the analyses cascade away with the row,
// but the stored blob stays behind. Only the shredder removes blobs.
func (s *DocumentService) Delete(ctx context.Context, userID, id string) error {
	err := s.docs.Delete(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.NewNotFoundError("Document not found")
	}
	if err != nil {
		s.logger.Error("failed to delete document", "error", err, "doc_id", id)
		return utils.NewInternalError("Failed to delete document")
	}
	return nil
}

func (s *DocumentService) markError(ctx context.Context, documentID string) {
	if err := s.docs.UpdateStatus(ctx, documentID, models.StatusError); err != nil {
		s.logger.Error("failed to mark document errored", "error", err, "doc_id", documentID)
	}
}
