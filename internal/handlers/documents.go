package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/bidsmith/tender-analyzer-api/internal/middleware"
	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/services"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

type DocumentHandler struct {
	service     *services.DocumentService
	shredder    *services.Shredder
	maxFileSize int64
	logger      *utils.Logger
}

func NewDocumentHandler(service *services.DocumentService, shredder *services.Shredder, maxFileSize int64, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:     service,
		shredder:    shredder,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	// Reject oversized requests before reading the body
	if r.ContentLength > h.maxFileSize {
		respondError(w, h.logger, utils.NewBadRequestError("File exceeds the upload size limit"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, h.logger, utils.NewBadRequestError("File exceeds the upload size limit"))
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		respondError(w, h.logger, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		respondError(w, h.logger, utils.NewBadRequestError("File exceeds the upload size limit"))
		return
	}
	if len(data) == 0 {
		respondError(w, h.logger, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	req := &models.UploadRequest{
		File:     data,
		FileName: header.Filename,
		MimeType: determineMimeType(header.Filename, header.Header.Get("Content-Type")),
	}

	resp, err := h.service.Upload(r.Context(), userID, req, h.logProgress("upload"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	docs, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, docs)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	doc, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, doc)
}

// Delete is the plain delete: rows cascade, the stored blob stays.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Document deleted"})
}

func (h *DocumentHandler) Extract(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	resp, err := h.service.Extract(r.Context(), userID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}

type analyzeRequest struct {
	ExtractedText string `json:"extractedText"`
}

func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req analyzeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, h.logger, utils.NewBadRequestError("Invalid request body"))
			return
		}
	}

	analysis, err := h.service.Analyze(r.Context(), userID, id, req.ExtractedText)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}

type shredRequest struct {
	AnalysisID   string `json:"analysis_id"`
	Confirmation string `json:"confirmation"`
}

func (h *DocumentHandler) Shred(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	documentID := mux.Vars(r)["id"]

	var req shredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid request body"))
		return
	}

	result, err := h.shredder.Run(r.Context(), userID, req.AnalysisID, documentID, req.Confirmation, h.logProgress("shred"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

func (h *DocumentHandler) logProgress(operation string) services.ProgressFunc {
	return func(percent int, stage string) {
		h.logger.Debug("progress", "operation", operation, "percent", percent, "stage", stage)
	}
}

// determineMimeType maps the filename extension first and falls back to
// the client-declared header. Neither is content sniffing.
func determineMimeType(filename, headerContentType string) string {
	if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		return "application/pdf"
	}
	return headerContentType
}
