package translation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"medilingo/internal/gateway"
)

var (
	ErrNotFound = errors.New("translation not found")
	// ErrTranslationUnavailable wraps every failure of the external
	// translator. There is no local translator to degrade to.
	ErrTranslationUnavailable = errors.New("translation unavailable")
	ErrInvalidInput           = errors.New("invalid input")
)

const (
	MaxTextLength = 1000

	defaultPageSize = 10
	maxPageSize     = 100
)

// Record is one saved translation.
type Record struct {
	ID               uuid.UUID             `json:"id" db:"id"`
	UserID           uuid.UUID             `json:"userId" db:"user_id"`
	OriginalText     string                `json:"originalText" db:"original_text"`
	DetectedLanguage string                `json:"detectedLanguage" db:"detected_language"`
	TranslatedText   string                `json:"translatedText" db:"translated_text"`
	TargetLanguage   string                `json:"targetLanguage" db:"target_language"`
	MedicalTerms     []gateway.MedicalTerm `json:"medicalTerms" db:"medical_terms"`
	CreatedAt        time.Time             `json:"createdAt" db:"created_at"`
}

// Pagination describes one page of history, newest first.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type Page struct {
	Translations []Record   `json:"translations"`
	Pagination   Pagination `json:"pagination"`
}

func newPagination(page, limit, total int) Pagination {
	pages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalItems:  total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}
