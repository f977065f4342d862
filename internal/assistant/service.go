package assistant

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"medilingo/internal/gateway"
	"medilingo/internal/observability/metrics"
	"medilingo/pkg/logging"
)

var tracer = otel.Tracer("medilingo.internal.assistant")

const (
	matchedConfidence = 0.9
	generalConfidence = 0.7
)

// TermFinder looks up medical terms in free text. It must not fail; a
// degraded lookup returns fewer terms.
type TermFinder interface {
	FindMedicalTerms(ctx context.Context, text, target string) gateway.TermLookup
}

// ConversationResponse is the result of one chatbot turn.
type ConversationResponse struct {
	Response                 string                `json:"response"`
	Condition                Condition             `json:"condition"`
	Language                 Language              `json:"language"`
	DetectedLanguage         Language              `json:"detectedLanguage"`
	Confidence               float64               `json:"confidence"`
	MedicalTerms             []gateway.MedicalTerm `json:"medicalTerms"`
	HasFollowUp              bool                  `json:"hasFollowUp"`
	IsMedicineRecommendation bool                  `json:"isMedicineRecommendation"`
	Timestamp                time.Time             `json:"timestamp"`
}

type Service interface {
	ProcessUserInput(ctx context.Context, text, preferredLanguage string) ConversationResponse
	DetectLanguage(text string) Language
	GetMedicalTermExplanation(ctx context.Context, text, language string) gateway.TermLookup
	Reload(k *Knowledge) error
}

// engine bundles everything derived from one Knowledge value so a reload
// swaps all of it at once.
type engine struct {
	detector   *Detector
	classifier *Classifier
	responder  *Responder
	augmenter  *Augmenter
}

func newEngine(k *Knowledge) (*engine, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	detector, err := NewDetector(k)
	if err != nil {
		return nil, err
	}
	return &engine{
		detector:   detector,
		classifier: NewClassifier(k),
		responder:  NewResponder(k),
		augmenter:  NewAugmenter(k),
	}, nil
}

type service struct {
	engine  atomic.Pointer[engine]
	terms   TermFinder
	logger  *logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(k *Knowledge, terms TermFinder, logger *logging.Logger, m *metrics.Metrics) (Service, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &service{
		terms:   terms,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
	if err := s.Reload(k); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the tables used by subsequent turns. Turns already in
// flight keep the tables they started with.
func (s *service) Reload(k *Knowledge) error {
	e, err := newEngine(k)
	if err != nil {
		return err
	}
	s.engine.Store(e)
	return nil
}

func (s *service) DetectLanguage(text string) Language {
	return s.engine.Load().detector.Detect(text)
}

// ProcessUserInput runs detection, classification, templating and the
// medicine check locally, then enriches non-general turns with medical
// terms. The reply text never depends on the remote lookup.
func (s *service) ProcessUserInput(ctx context.Context, text, preferredLanguage string) ConversationResponse {
	ctx, span := tracer.Start(ctx, "assistant.process_user_input")
	defer span.End()

	e := s.engine.Load()

	detected := e.detector.Detect(text)
	lang := detected
	if detected == English {
		lang = ParseLanguage(preferredLanguage)
	}

	cond := e.classifier.Classify(text, lang)
	reply, hasFollowUp := e.responder.RespondWithFollowUp(cond, lang)
	reply, isMedicine := e.augmenter.MaybeAugment(text, cond, lang, reply)

	confidence := generalConfidence
	var terms []gateway.MedicalTerm
	if cond != General {
		confidence = matchedConfidence
		terms = s.lookupTerms(ctx, text, lang)
	}

	span.SetAttributes(
		attribute.String("medilingo.condition", string(cond)),
		attribute.String("medilingo.language", string(lang)),
		attribute.String("medilingo.detected_language", string(detected)),
	)
	s.metrics.ObserveTurn(string(cond), string(lang))
	s.logger.Debug("chatbot turn processed",
		"condition", cond,
		"language", lang,
		"detected_language", detected,
		"medicine", isMedicine,
		"terms", len(terms),
	)

	return ConversationResponse{
		Response:                 reply,
		Condition:                cond,
		Language:                 lang,
		DetectedLanguage:         detected,
		Confidence:               confidence,
		MedicalTerms:             terms,
		HasFollowUp:              hasFollowUp,
		IsMedicineRecommendation: isMedicine,
		Timestamp:                s.now(),
	}
}

func (s *service) lookupTerms(ctx context.Context, text string, lang Language) []gateway.MedicalTerm {
	if s.terms == nil {
		return nil
	}
	result := s.terms.FindMedicalTerms(ctx, text, string(lang))
	if len(result.Terms) == 0 {
		return nil
	}
	return result.Terms
}

// GetMedicalTermExplanation looks up terms in text with definitions
// preferably in language. An empty language means English.
func (s *service) GetMedicalTermExplanation(ctx context.Context, text, language string) gateway.TermLookup {
	target := strings.ToLower(strings.TrimSpace(language))
	if target == "" {
		target = string(English)
	}
	if s.terms == nil {
		return gateway.TermLookup{Terms: gateway.LocalTerms(text), Source: gateway.SourceLocal}
	}
	return s.terms.FindMedicalTerms(ctx, text, target)
}
