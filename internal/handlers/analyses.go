package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bidsmith/tender-analyzer-api/internal/export"
	"github.com/bidsmith/tender-analyzer-api/internal/middleware"
	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/services"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

type AnalysisHandler struct {
	service *services.AnalysisService
	logger  *utils.Logger
}

func NewAnalysisHandler(service *services.AnalysisService, logger *utils.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	analyses, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, analyses)
}

func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	analysis, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, analysis)
}

func (h *AnalysisHandler) Sign(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req models.SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("Invalid request body"))
		return
	}

	analysis, err := h.service.Sign(r.Context(), userID, id, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, analysis)
}

// Export renders the analysis in the requested format. Defaults to the
// lossless JSON dump.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	id := mux.Vars(r)["id"]

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatJSON
	}

	analysis, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	content := export.Build(analysis, time.Now())

	data, contentType, err := content.Render(format)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export", "error", err, "format", format)
	}
}
