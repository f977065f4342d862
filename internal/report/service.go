package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"medilingo/internal/translation"
	"medilingo/pkg/logging"
)

const (
	fontName   = "DejaVu"
	marginLeft = 40.0
	textWidth  = 515.0
	pageBottom = 790.0
)

var _ translation.HistoryExporter = (*Service)(nil)

// Service renders translation history into PDF documents.
type Service struct {
	fontPaths []string
	logger    *logging.Logger
	now       func() time.Time
}

// NewService takes candidate TTF paths; the first that loads is used. The
// font must cover Devanagari and Tamil glyphs for readable output.
func NewService(fontPaths []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{fontPaths: fontPaths, logger: logger, now: time.Now}
}

func (s *Service) HistoryPDF(records []translation.Record) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := s.loadFont(pdf); err != nil {
		return nil, err
	}

	w := &writer{pdf: pdf}
	w.line(18, "MediLingo translation history", 28)
	w.line(10, fmt.Sprintf("Generated: %s", s.now().Format("02 Jan 2006 15:04")), 22)

	if len(records) == 0 {
		w.line(11, "No translations saved yet.", 14)
	}
	for i, rec := range records {
		w.line(12, fmt.Sprintf("%d. %s  (%s → %s)", i+1, rec.CreatedAt.Format("02 Jan 2006 15:04"), rec.DetectedLanguage, rec.TargetLanguage), 16)
		w.wrapped(11, "Original: "+rec.OriginalText)
		w.wrapped(11, "Translated: "+rec.TranslatedText)
		for _, term := range rec.MedicalTerms {
			w.wrapped(9, termLine(term.OriginalTerm, term.TranslatedTerm, term.TranslatedDefinition))
		}
		w.br(10)
	}
	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	s.logger.Debug("history pdf rendered", "records", len(records), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont(fontName, path); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		return fmt.Errorf("failed to load font for PDF: no font paths configured")
	}
	return fmt.Errorf("failed to load font for PDF. Please ensure ttf-dejavu is installed. Last error: %w", lastErr)
}

func termLine(original, translated, definition string) string {
	parts := []string{"• " + original}
	if translated != "" && translated != original {
		parts = append(parts, "("+translated+")")
	}
	line := strings.Join(parts, " ")
	if definition != "" {
		line += ": " + definition
	}
	return line
}

// writer keeps the first error and adds pages when the cursor passes the
// bottom margin.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) setFont(size float64) {
	if w.err != nil {
		return
	}
	w.err = w.pdf.SetFont(fontName, "", size)
}

func (w *writer) line(size float64, text string, advance float64) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	w.ensureRoom(advance)
	w.pdf.SetX(marginLeft)
	w.err = w.pdf.Cell(nil, text)
	w.br(advance)
}

func (w *writer) wrapped(size float64, text string) {
	w.setFont(size)
	if w.err != nil {
		return
	}
	lines, err := w.pdf.SplitText(text, textWidth)
	if err != nil {
		lines = []string{text}
	}
	for _, l := range lines {
		w.line(size, l, size+3)
	}
}

func (w *writer) ensureRoom(advance float64) {
	if w.pdf.GetY()+advance > pageBottom {
		w.pdf.AddPage()
		w.pdf.SetY(40)
	}
}

func (w *writer) br(h float64) {
	w.pdf.Br(h)
}
