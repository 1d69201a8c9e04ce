package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bidsmith/tender-analyzer-api/internal/handlers"
	"github.com/bidsmith/tender-analyzer-api/internal/middleware"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

func New(docHandler *handlers.DocumentHandler, analysisHandler *handlers.AnalysisHandler, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Auth())

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Document endpoints
	api.HandleFunc("/documents/upload", docHandler.Upload).Methods(http.MethodPost)
	api.HandleFunc("/documents", docHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", docHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", docHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/documents/{id}/extract", docHandler.Extract).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}/analyze", docHandler.Analyze).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}/shred", docHandler.Shred).Methods(http.MethodPost)

	// Analysis endpoints
	api.HandleFunc("/analyses", analysisHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}", analysisHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}/sign", analysisHandler.Sign).Methods(http.MethodPost)
	api.HandleFunc("/analyses/{id}/export", analysisHandler.Export).Methods(http.MethodGet)

	return r
}
