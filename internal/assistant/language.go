package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Language is one of the languages the assistant can detect and answer in.
type Language string

const (
	English Language = "en"
	Hindi   Language = "hi"
	Tamil   Language = "ta"
	French  Language = "fr"
	Spanish Language = "es"
	German  Language = "de"
)

// Languages lists the closed set of supported languages.
var Languages = []Language{English, Hindi, Tamil, French, Spanish, German}

func (l Language) Valid() bool {
	for _, s := range Languages {
		if s == l {
			return true
		}
	}
	return false
}

func (l Language) String() string { return string(l) }

// ParseLanguage maps a language code such as "hi", "HI" or "ta-IN" onto the
// supported set. Anything unrecognized becomes English.
func ParseLanguage(code string) Language {
	code = strings.TrimSpace(code)
	if code == "" {
		return English
	}
	tag, err := language.Parse(code)
	if err != nil {
		return English
	}
	base, _ := tag.Base()
	if l := Language(base.String()); l.Valid() {
		return l
	}
	return English
}

// Detector guesses the language of raw text. It is a heuristic: short or
// ambiguous romanized input can be misclassified, but the result is always
// deterministic and always one of Languages.
type Detector struct {
	keywords []keywordRule
	accents  []AccentRule
}

type keywordRule struct {
	lang Language
	re   *regexp.Regexp
}

// NewDetector compiles the keyword rules in k.
func NewDetector(k *Knowledge) (*Detector, error) {
	d := &Detector{accents: k.Detection.Accents}
	for _, lang := range k.Detection.Order {
		words := k.Detection.Keywords[lang]
		if len(words) == 0 {
			continue
		}
		quoted := make([]string, 0, len(words))
		for _, w := range words {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
		}
		re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compile %s keywords: %w", lang, err)
		}
		d.keywords = append(d.keywords, keywordRule{lang: lang, re: re})
	}
	return d, nil
}

// Detect checks, in order: Tamil script, Devanagari script, per-language
// keywords, accent characters. The default is English.
func (d *Detector) Detect(text string) Language {
	if text == "" {
		return English
	}

	devanagari := false
	for _, r := range text {
		if unicode.Is(unicode.Tamil, r) {
			return Tamil
		}
		if unicode.Is(unicode.Devanagari, r) {
			devanagari = true
		}
	}
	if devanagari {
		return Hindi
	}

	for _, rule := range d.keywords {
		if rule.re.MatchString(text) {
			return rule.lang
		}
	}

	lower := strings.ToLower(text)
	for _, a := range d.accents {
		if strings.ContainsAny(lower, a.Chars) {
			return a.Language
		}
	}
	return English
}
