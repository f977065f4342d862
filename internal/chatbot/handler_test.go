package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medilingo/internal/assistant"
	"medilingo/internal/gateway"
	"medilingo/pkg/logging"
)

type stubTerms struct {
	targets []string
}

func (s *stubTerms) FindMedicalTerms(ctx context.Context, text, target string) gateway.TermLookup {
	s.targets = append(s.targets, target)
	return gateway.TermLookup{Terms: gateway.LocalTerms(text), Source: gateway.SourceLocal}
}

func newRouter(t *testing.T, terms assistant.TermFinder) http.Handler {
	t.Helper()
	k, err := assistant.DefaultKnowledge()
	require.NoError(t, err)
	svc, err := assistant.NewService(k, terms, logging.Discard(), nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, NewHandler(svc, logging.Discard()))
	})
	return r
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRespond(t *testing.T) {
	terms := &stubTerms{}
	router := newRouter(t, terms)

	rec := post(t, router, "/api/chatbot/respond", RespondRequest{Message: "I have a fever", PreferredLanguage: "en"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "fever", body["condition"])
	assert.Equal(t, "en", body["language"])
	assert.Equal(t, "en", body["detectedLanguage"])
	assert.Equal(t, 0.9, body["confidence"])
	assert.Equal(t, true, body["hasFollowUp"])
	assert.Equal(t, false, body["isMedicineRecommendation"])
	assert.True(t, strings.HasPrefix(body["response"].(string), "For fever management:"))
	assert.Len(t, body["medicalTerms"], 1)
	assert.NotEmpty(t, body["timestamp"])
	assert.Equal(t, []string{"en"}, terms.targets)
}

func TestRespond_GeneralHasNullTerms(t *testing.T) {
	router := newRouter(t, &stubTerms{})

	rec := post(t, router, "/api/chatbot/respond", RespondRequest{Message: "hello there"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"medicalTerms":null`)
	assert.Contains(t, rec.Body.String(), `"condition":"general"`)
	assert.Contains(t, rec.Body.String(), `"confidence":0.7`)
}

func TestRespond_PreferredLanguage(t *testing.T) {
	router := newRouter(t, &stubTerms{})

	rec := post(t, router, "/api/chatbot/respond", RespondRequest{Message: "bonjour, j'ai de la fièvre", PreferredLanguage: "de"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RespondResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, assistant.French, resp.DetectedLanguage)
	assert.Equal(t, assistant.French, resp.Language)
}

func TestRespond_BlankMessage(t *testing.T) {
	router := newRouter(t, &stubTerms{})

	for _, msg := range []string{"", "   \n\t"} {
		rec := post(t, router, "/api/chatbot/respond", RespondRequest{Message: msg})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Message is required")
	}
}

func TestDetectLanguage(t *testing.T) {
	router := newRouter(t, &stubTerms{})

	rec := post(t, router, "/api/chatbot/detect-language", DetectLanguageRequest{Text: "मुझे सिरदर्द है"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectLanguageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, DetectLanguageResponse{Success: true, DetectedLanguage: assistant.Hindi, Confidence: 0.9}, resp)

	rec = post(t, router, "/api/chatbot/detect-language", DetectLanguageRequest{Text: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMedicalTerms(t *testing.T) {
	terms := &stubTerms{}
	router := newRouter(t, terms)

	rec := post(t, router, "/api/chatbot/medical-terms", MedicalTermsRequest{Text: "asthma and diabetes", Language: "TA"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MedicalTermsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "TA", resp.Language)
	require.Len(t, resp.MedicalTerms, 2)
	assert.Equal(t, "asthma", resp.MedicalTerms[0].OriginalTerm)
	assert.Equal(t, []string{"ta"}, terms.targets)
}

func TestMedicalTerms_DefaultsAndValidation(t *testing.T) {
	router := newRouter(t, &stubTerms{})

	rec := post(t, router, "/api/chatbot/medical-terms", MedicalTermsRequest{Text: "nothing relevant"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"medicalTerms":[]`)
	assert.Contains(t, rec.Body.String(), `"language":"en"`)

	rec = post(t, router, "/api/chatbot/medical-terms", MedicalTermsRequest{Text: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedBody(t *testing.T) {
	router := newRouter(t, &stubTerms{})
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/respond", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
