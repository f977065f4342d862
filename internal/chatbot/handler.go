package chatbot

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"medilingo/internal/assistant"
	"medilingo/internal/gateway"
	"medilingo/pkg/logging"
)

// detectConfidence is reported for every detection; the detector is
// rule-based and has no score of its own.
const detectConfidence = 0.9

type Handler struct {
	svc    assistant.Service
	logger *logging.Logger
}

func NewHandler(svc assistant.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type RespondRequest struct {
	Message           string `json:"message"`
	PreferredLanguage string `json:"preferredLanguage"`
}

type RespondResponse struct {
	Success bool `json:"success"`
	assistant.ConversationResponse
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Message is required"})
		return
	}
	if req.PreferredLanguage == "" {
		req.PreferredLanguage = assistant.English.String()
	}

	// General turns skip the term lookup and carry null medicalTerms.
	resp := h.svc.ProcessUserInput(r.Context(), req.Message, req.PreferredLanguage)
	h.logger.Debug("chatbot turn", "condition", resp.Condition, "language", resp.Language)

	writeJSON(w, http.StatusOK, RespondResponse{Success: true, ConversationResponse: resp})
}

type DetectLanguageRequest struct {
	Text string `json:"text"`
}

type DetectLanguageResponse struct {
	Success          bool               `json:"success"`
	DetectedLanguage assistant.Language `json:"detectedLanguage"`
	Confidence       float64            `json:"confidence"`
}

func (h *Handler) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req DetectLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Text is required"})
		return
	}

	writeJSON(w, http.StatusOK, DetectLanguageResponse{
		Success:          true,
		DetectedLanguage: h.svc.DetectLanguage(req.Text),
		Confidence:       detectConfidence,
	})
}

type MedicalTermsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type MedicalTermsResponse struct {
	Success      bool                  `json:"success"`
	MedicalTerms []gateway.MedicalTerm `json:"medicalTerms"`
	Language     string                `json:"language"`
}

func (h *Handler) MedicalTerms(w http.ResponseWriter, r *http.Request) {
	var req MedicalTermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Text is required"})
		return
	}
	if req.Language == "" {
		req.Language = assistant.English.String()
	}

	lookup := h.svc.GetMedicalTermExplanation(r.Context(), req.Text, req.Language)
	terms := lookup.Terms
	if terms == nil {
		terms = []gateway.MedicalTerm{}
	}

	writeJSON(w, http.StatusOK, MedicalTermsResponse{
		Success:      true,
		MedicalTerms: terms,
		Language:     req.Language,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RegisterRoutes mounts the chatbot under /chatbot. Callers put BearerAuth
// in front of it.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chatbot", func(r chi.Router) {
		r.Post("/respond", h.Respond)
		r.Post("/detect-language", h.DetectLanguage)
		r.Post("/medical-terms", h.MedicalTerms)
	})
}
