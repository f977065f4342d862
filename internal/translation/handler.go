package translation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medilingo/internal/gateway"
	"medilingo/internal/http/middleware"
	"medilingo/pkg/logging"
)

// HistoryExporter renders history records as a PDF document.
type HistoryExporter interface {
	HistoryPDF(records []Record) ([]byte, error)
}

type Handler struct {
	svc      Service
	exporter HistoryExporter
	logger   *logging.Logger
}

func NewHandler(svc Service, exporter HistoryExporter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, exporter: exporter, logger: logger}
}

// log tags entries with the request ID assigned by RequestLogger.
func (h *Handler) log(r *http.Request) *logging.Logger {
	return h.logger.With("request_id", middleware.RequestIDFromContext(r.Context()))
}

type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
}

type TranslateResponse struct {
	DetectedLanguage string                `json:"detected_language"`
	TranslatedText   string                `json:"translated_text"`
	MedicalTerms     []gateway.MedicalTerm `json:"medicalTerms"`
	Success          bool                  `json:"success"`
}

func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "authorization required"})
		return
	}

	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	rec, err := h.svc.Translate(r.Context(), userID, req.Text, req.TargetLang)
	if err != nil {
		h.writeTranslateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TranslateResponse{
		DetectedLanguage: rec.DetectedLanguage,
		TranslatedText:   rec.TranslatedText,
		MedicalTerms:     rec.MedicalTerms,
		Success:          true,
	})
}

func (h *Handler) writeTranslateError(w http.ResponseWriter, r *http.Request, err error) {
	var f *gateway.Failure
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, ErrTranslationUnavailable) && gateway.IsTimeout(err):
		writeJSON(w, http.StatusGatewayTimeout, map[string]any{
			"message":     "Translation service timeout. Please try again.",
			"unavailable": true,
		})
	case errors.Is(err, ErrTranslationUnavailable) && errors.As(err, &f) && f.Reason == gateway.ReasonStatus:
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"message":        "Translation service error",
			"unavailable":    true,
			"upstreamStatus": f.StatusCode,
			"details":        f.Body,
		})
	case errors.Is(err, ErrTranslationUnavailable):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"message":     "Translation service unavailable",
			"unavailable": true,
		})
	default:
		h.log(r).Error("translation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error during translation"})
	}
}

func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"languages": gateway.TargetLanguages})
}

func (h *Handler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "authorization required"})
		return
	}

	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}
	rec.UserID = userID

	if err := h.svc.Save(r.Context(), &rec); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		h.log(r).Error("save history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error while saving translation"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Translation saved to history",
		"translation": rec,
	})
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "authorization required"})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.svc.List(r.Context(), userID, page, limit)
	if err != nil {
		h.log(r).Error("list history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error while fetching history"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "authorization required"})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Translation not found"})
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Translation not found"})
			return
		}
		h.log(r).Error("delete history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error while deleting translation"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Translation deleted successfully"})
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "authorization required"})
		return
	}

	n, err := h.svc.Clear(r.Context(), userID)
	if err != nil {
		h.log(r).Error("clear history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error while clearing history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "All translations deleted successfully",
		"deleted": n,
	})
}

func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "authorization required"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.svc.Recent(r.Context(), userID, limit)
	if err != nil {
		h.log(r).Error("export history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server error while exporting history"})
		return
	}

	pdf, err := h.exporter.HistoryPDF(records)
	if err != nil {
		h.log(r).Error("render history pdf failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to generate PDF"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="translation-history.pdf"`)
	w.Write(pdf)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RegisterPublicRoutes mounts routes that need no authentication.
func RegisterPublicRoutes(r chi.Router, h *Handler) {
	r.Get("/translate/languages", h.Languages)
}

// RegisterRoutes mounts routes that expect BearerAuth in front of them.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/translate", h.Translate)
	r.Post("/history", h.SaveHistory)
	r.Get("/history", h.ListHistory)
	r.Get("/history/export.pdf", h.ExportHistory)
	r.Delete("/history", h.ClearHistory)
	r.Delete("/history/{id}", h.DeleteHistory)
}
