package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/models"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/services"
	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
	"github.com/gorilla/mux"
)

const (
	DefaultMaxFileSize = 10 << 20 // 10MB

	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 64 << 10

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AnalysisHandler struct {
	service     services.AnalysisService
	logger      *utils.Logger
	maxFileSize int64
}

func NewAnalysisHandler(service services.AnalysisService, maxFileSize int64, logger *utils.Logger) *AnalysisHandler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &AnalysisHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	tooLarge := fmt.Sprintf("File size exceeds %s limit", humanSize(h.maxFileSize))

	// Check Content-Length header first to reject oversized requests early
	bodyLimit := h.maxFileSize + multipartOverhead
	if r.ContentLength > bodyLimit {
		h.respondError(w, utils.NewBadRequestError(tooLarge))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError(tooLarge))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, utils.WrapInternalError("Failed to read file", err))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError(tooLarge))
		return
	}

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType,
		"size", len(data))

	analysis, err := h.service.Analyze(r.Context(), &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	// Documents without text are answered but not stored.
	status := http.StatusCreated
	if analysis.ID == "" {
		status = http.StatusOK
	}
	h.respondJSON(w, status, analysis)
}

func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondError(w, utils.NewBadRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	analyses, err := h.service.ListAnalyses(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, analyses)
}

func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Analysis ID is required"))
		return
	}

	analysis, err := h.service.GetAnalysis(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, analysis)
}

func (h *AnalysisHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Analysis ID is required"))
		return
	}

	name, data, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondFile(w, name, "text/plain; charset=utf-8", data)
}

func (h *AnalysisHandler) ExportAnalyses(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportAnalyses(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondFile(w, "analyses.xlsx", xlsxContentType, data)
}

func (h *AnalysisHandler) AskAnalysis(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Analysis ID is required"))
		return
	}

	var req models.AskRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	answer, err := h.service.AskAnalysis(r.Context(), id, req.Question)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, models.AskResponse{Answer: answer})
}

func (h *AnalysisHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	answer, err := h.service.Ask(r.Context(), req.DocumentText, req.Question)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, models.AskResponse{Answer: answer})
}

// decodeJSON reads a JSON body no larger than the upload limit, since the
// ask endpoint carries a whole document's text.
func (h *AnalysisHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return utils.NewBadRequestError(fmt.Sprintf("Request body exceeds %s limit", humanSize(h.maxFileSize)))
		}
		return utils.NewBadRequestError("Invalid request body")
	}
	return nil
}

// determineContentType determines the content type from filename extension
// with fallback to the provided content type header
func determineContentType(filename, headerContentType string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	}
	return headerContentType
}

func humanSize(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}

func (h *AnalysisHandler) respondFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("Failed to write file response", "error", err, "filename", name)
	}
}

func (h *AnalysisHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *AnalysisHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	}

	h.logger.Error("Request error", "status", status, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
