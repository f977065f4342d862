package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medilingo/internal/gateway"
	"medilingo/pkg/logging"
)

type fakeTerms struct {
	mu     sync.Mutex
	calls  []string
	result gateway.TermLookup
}

func (f *fakeTerms) FindMedicalTerms(ctx context.Context, text, target string) gateway.TermLookup {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, target+":"+text)
	return f.result
}

func newTestService(t *testing.T, terms TermFinder) *service {
	t.Helper()
	k, err := DefaultKnowledge()
	require.NoError(t, err)
	svc, err := NewService(k, terms, logging.Discard(), nil)
	require.NoError(t, err)
	s := svc.(*service)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestProcessUserInput_EnglishHeadache(t *testing.T) {
	terms := &fakeTerms{result: gateway.TermLookup{
		Terms:  []gateway.MedicalTerm{{OriginalTerm: "headache", OriginalDefinition: "Pain in the head"}},
		Source: gateway.SourceRemote,
	}}
	s := newTestService(t, terms)

	got := s.ProcessUserInput(context.Background(), "I have a headache", "en")

	assert.Equal(t, English, got.DetectedLanguage)
	assert.Equal(t, English, got.Language)
	assert.Equal(t, Headache, got.Condition)
	assert.Contains(t, got.Response, "hydrated")
	assert.Contains(t, got.Response, "⚠️")
	assert.Equal(t, 0.9, got.Confidence)
	assert.True(t, got.HasFollowUp)
	assert.False(t, got.IsMedicineRecommendation)
	require.Len(t, got.MedicalTerms, 1)
	assert.Equal(t, []string{"en:I have a headache"}, terms.calls)
}

func TestProcessUserInput_DetectedLanguageOverridesPreference(t *testing.T) {
	s := newTestService(t, &fakeTerms{})

	got := s.ProcessUserInput(context.Background(), "मुझे सिरदर्द है", "en")

	assert.Equal(t, Hindi, got.DetectedLanguage)
	assert.Equal(t, Hindi, got.Language)
	assert.Equal(t, Headache, got.Condition)
	assert.Contains(t, got.Response, "सिरदर्द के विभिन्न कारण")
}

func TestProcessUserInput_EnglishTextUsesPreferredLanguage(t *testing.T) {
	s := newTestService(t, &fakeTerms{})

	got := s.ProcessUserInput(context.Background(), "what is the weather like", "ta")

	assert.Equal(t, English, got.DetectedLanguage)
	assert.Equal(t, Tamil, got.Language)
	assert.Equal(t, General, got.Condition)
	assert.Contains(t, got.Response, "சுகாதாரம்")
}

func TestProcessUserInput_MedicineRequest(t *testing.T) {
	s := newTestService(t, &fakeTerms{})

	got := s.ProcessUserInput(context.Background(), "can you recommend medicine for my fever", "en")

	assert.Equal(t, Fever, got.Condition)
	assert.True(t, got.IsMedicineRecommendation)
	assert.Contains(t, got.Response, "For fever management")
	assert.Contains(t, got.Response, "Paracetamol")
	assert.Contains(t, got.Response, "Ibuprofen")
	assert.Contains(t, got.Response, "consulting a doctor is always the best")
}

func TestProcessUserInput_GeneralSkipsTermLookup(t *testing.T) {
	terms := &fakeTerms{}
	s := newTestService(t, terms)

	got := s.ProcessUserInput(context.Background(), "what is the weather like", "en")

	assert.Equal(t, General, got.Condition)
	assert.Equal(t, 0.7, got.Confidence)
	assert.Contains(t, got.Response, "I'm here to help with any topic!")
	assert.Nil(t, got.MedicalTerms)
	assert.Empty(t, terms.calls)
}

func TestProcessUserInput_TermServiceDownUsesLocalDictionary(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	client := gateway.NewClient(gateway.Config{
		TranslateURL: url,
		TermsURL:     url,
		TermsTimeout: time.Second,
	}, logging.Discard(), nil)
	s := newTestService(t, client)

	got := s.ProcessUserInput(context.Background(), "I have had a fever since Monday", "en")

	assert.Equal(t, Fever, got.Condition)
	require.NotNil(t, got.MedicalTerms)
	assert.Equal(t, "fever", got.MedicalTerms[0].OriginalTerm)
	assert.Equal(t, "Elevated body temperature often due to infection or illness", got.MedicalTerms[0].OriginalDefinition)
}

func TestProcessUserInput_EmptyLookupLeavesTermsNil(t *testing.T) {
	s := newTestService(t, &fakeTerms{result: gateway.TermLookup{Source: gateway.SourceLocal}})

	got := s.ProcessUserInput(context.Background(), "my stomach is upset", "en")

	assert.Equal(t, Stomach, got.Condition)
	assert.Nil(t, got.MedicalTerms)
}

func TestProcessUserInput_EmptyText(t *testing.T) {
	s := newTestService(t, nil)

	got := s.ProcessUserInput(context.Background(), "", "")
	assert.Equal(t, English, got.DetectedLanguage)
	assert.Equal(t, General, got.Condition)
	assert.NotEmpty(t, got.Response)
}

func TestProcessUserInput_Idempotent(t *testing.T) {
	s := newTestService(t, &fakeTerms{})

	inputs := []string{"I have a headache", "tengo fiebre", "எனக்கு இருமல்", "recommend a pill for pain"}
	for _, in := range inputs {
		a := s.ProcessUserInput(context.Background(), in, "en")
		b := s.ProcessUserInput(context.Background(), in, "en")
		assert.Equal(t, a.Condition, b.Condition, in)
		assert.Equal(t, a.DetectedLanguage, b.DetectedLanguage, in)
		assert.Equal(t, a.Response, b.Response, in)
	}
}

func TestProcessUserInput_ConcurrentTurns(t *testing.T) {
	s := newTestService(t, &fakeTerms{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := s.ProcessUserInput(context.Background(), "I have a cough and a cold", "en")
			assert.Equal(t, Cough, got.Condition)
		}()
	}
	wg.Wait()
}

func TestReload_SwapsTables(t *testing.T) {
	s := newTestService(t, &fakeTerms{})

	k, err := DefaultKnowledge()
	require.NoError(t, err)
	k.Templates[Headache][English] = "Drink water and rest."
	require.NoError(t, s.Reload(k))

	got := s.ProcessUserInput(context.Background(), "headache again", "en")
	assert.Contains(t, got.Response, "Drink water and rest.")

	bad, err := DefaultKnowledge()
	require.NoError(t, err)
	delete(bad.Templates[General], English)
	require.Error(t, s.Reload(bad))

	got = s.ProcessUserInput(context.Background(), "headache again", "en")
	assert.Contains(t, got.Response, "Drink water and rest.")
}

func TestGetMedicalTermExplanation(t *testing.T) {
	terms := &fakeTerms{result: gateway.TermLookup{Source: gateway.SourceRemote}}
	s := newTestService(t, terms)

	s.GetMedicalTermExplanation(context.Background(), "asthma", "")
	s.GetMedicalTermExplanation(context.Background(), "asthma", " FR ")
	assert.Equal(t, []string{"en:asthma", "fr:asthma"}, terms.calls)

	local := newTestService(t, nil)
	got := local.GetMedicalTermExplanation(context.Background(), "asthma and diabetes", "en")
	assert.Equal(t, gateway.SourceLocal, got.Source)
	assert.Len(t, got.Terms, 2)
}

func TestDetectLanguage(t *testing.T) {
	s := newTestService(t, nil)
	assert.Equal(t, Tamil, s.DetectLanguage("வணக்கம்"))
}
