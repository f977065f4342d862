package translation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"medilingo/internal/gateway"
	"medilingo/pkg/logging"
)

// Gateway is the part of the external service gateway this package uses.
type Gateway interface {
	Translate(ctx context.Context, text, target string) (gateway.Translation, error)
	FindMedicalTerms(ctx context.Context, text, target string) gateway.TermLookup
}

type Service interface {
	Translate(ctx context.Context, userID uuid.UUID, text, targetLang string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	List(ctx context.Context, userID uuid.UUID, page, limit int) (*Page, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]Record, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo    Repository
	gateway Gateway
	logger  *logging.Logger
	now     func() time.Time
}

func NewService(repo Repository, gw Gateway, logger *logging.Logger) Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &service{
		repo:    repo,
		gateway: gw,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Translate translates text, annotates the result with medical terms and
// stores it in the user's history. Translator failures are returned
// wrapped in ErrTranslationUnavailable.
func (s *service) Translate(ctx context.Context, userID uuid.UUID, text, targetLang string) (*Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text to translate is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, fmt.Errorf("%w: text must be less than %d characters", ErrInvalidInput, MaxTextLength)
	}
	if !gateway.IsTargetLanguage(targetLang) {
		return nil, fmt.Errorf("%w: invalid target language %q", ErrInvalidInput, targetLang)
	}

	out, err := s.gateway.Translate(ctx, text, targetLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTranslationUnavailable, err)
	}

	lookup := s.gateway.FindMedicalTerms(ctx, out.TranslatedText, targetLang)
	if lookup.Source == gateway.SourceLocal && lookup.Err != nil {
		s.logger.Info("medical terms from local dictionary", "count", len(lookup.Terms), "user_id", userID)
	}
	terms := lookup.Terms
	if terms == nil {
		terms = []gateway.MedicalTerm{}
	}

	rec := &Record{
		ID:               uuid.New(),
		UserID:           userID,
		OriginalText:     text,
		DetectedLanguage: out.DetectedLanguage,
		TranslatedText:   out.TranslatedText,
		TargetLanguage:   targetLang,
		MedicalTerms:     terms,
		CreatedAt:        s.now(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Save(ctx context.Context, rec *Record) error {
	if strings.TrimSpace(rec.OriginalText) == "" || strings.TrimSpace(rec.TranslatedText) == "" {
		return fmt.Errorf("%w: original and translated text are required", ErrInvalidInput)
	}
	if rec.MedicalTerms == nil {
		rec.MedicalTerms = []gateway.MedicalTerm{}
	}
	rec.ID = uuid.New()
	rec.CreatedAt = s.now()
	return s.repo.Save(ctx, rec)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	// Keeps the offset from overflowing into a negative value.
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}

	records, err := s.repo.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Page{Translations: records, Pagination: newPagination(page, limit, total)}, nil
}

func (s *service) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]Record, error) {
	if limit < 1 || limit > maxPageSize {
		limit = maxPageSize
	}
	return s.repo.List(ctx, userID, limit, 0)
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.DeleteAll(ctx, userID)
}
