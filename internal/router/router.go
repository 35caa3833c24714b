package router

import (
	"net/http"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/handlers"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/middleware"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/services"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"

	"github.com/gorilla/mux"
)

type Options struct {
	MaxFileSize int64
	CORSOrigins []string
}

func NewRouter(service services.AnalysisService, opts Options, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	h := handlers.NewAnalysisHandler(service, opts.MaxFileSize, logger)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Analysis endpoints; /export must be registered before /{id}
	api.HandleFunc("/analyses", h.CreateAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/analyses", h.ListAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/analyses/export", h.ExportAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}", h.GetAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}/report", h.DownloadReport).Methods(http.MethodGet)
	api.HandleFunc("/analyses/{id}/questions", h.AskAnalysis).Methods(http.MethodPost)

	// Question answering over caller-supplied text
	api.HandleFunc("/questions", h.Ask).Methods(http.MethodPost)

	// CORS wraps the router so preflight requests are answered before route matching.
	return middleware.CORS(opts.CORSOrigins)(r)
}
