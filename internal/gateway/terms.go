package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MedicalTerm is one detected term. The field set matches the
// translation-history tuple so lookups can be stored as-is.
type MedicalTerm struct {
	OriginalTerm         string `json:"originalTerm"`
	TranslatedTerm       string `json:"translatedTerm"`
	OriginalDefinition   string `json:"originalDefinition"`
	TranslatedDefinition string `json:"translatedDefinition"`
	NormalizedTerm       string `json:"normalizedTerm,omitempty"`
}

// Source says where a term lookup result came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// TermLookup is the outcome of FindMedicalTerms. Err holds the remote
// failure when Source is SourceLocal because of one.
type TermLookup struct {
	Terms  []MedicalTerm
	Source Source
	Err    error
}

type termsRequest struct {
	Sentence string `json:"sentence"`
}

type termsResponse struct {
	Matches *[]rawMatch `json:"matches"`
}

// rawMatch covers every field spelling the term service has been seen to
// use. normalize collapses it into termMatch.
type rawMatch struct {
	MedicalTerm        string `json:"medical_term"`
	Term               string `json:"term"`
	OriginalTerm       string `json:"originalTerm"`
	Description        string `json:"description"`
	Definition         string `json:"definition"`
	OriginalDefinition string `json:"originalDefinition"`
	Language           string `json:"language"`
	Lang               string `json:"lang"`
}

type termMatch struct {
	term       string
	definition string
	language   string
}

func (m rawMatch) normalize() termMatch {
	return termMatch{
		term:       firstNonEmpty(m.MedicalTerm, m.Term, m.OriginalTerm),
		definition: firstNonEmpty(m.Description, m.Definition, m.OriginalDefinition),
		language:   strings.ToLower(strings.TrimSpace(firstNonEmpty(m.Language, m.Lang))),
	}
}

// FindMedicalTerms looks up medical terms in text. target is the code of
// the language definitions should preferably be in. It never fails: when
// the remote service is unavailable the local dictionary is scanned
// instead.
func (c *Client) FindMedicalTerms(ctx context.Context, text, target string) TermLookup {
	cleaned := CleanText(text)
	if cleaned == "" {
		return TermLookup{Source: SourceLocal}
	}

	ctx, span := tracer.Start(ctx, "gateway.find_medical_terms", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("medilingo.target_lang", target))

	started := time.Now()
	matches, err := c.findTerms(ctx, cleaned)
	c.observe(serviceTerms, started, err)
	if err == nil {
		return TermLookup{Terms: groupMatches(matches, target), Source: SourceRemote}
	}

	f := classify(serviceTerms, err)
	span.RecordError(f)
	c.logger.Warn("medical terms call failed", "reason", f.Reason, "status", f.StatusCode, "error", f.Err)

	terms := LocalTerms(cleaned)
	c.metrics.ObserveFallback(serviceTerms)
	c.logger.Info("using local medical terms", "count", len(terms))
	return TermLookup{Terms: terms, Source: SourceLocal, Err: f}
}

func (c *Client) findTerms(ctx context.Context, sentence string) ([]termMatch, error) {
	body, err := json.Marshal(termsRequest{Sentence: sentence})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.termsURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ngrok-skip-browser-warning", "true")

	resp, err := c.terms.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &Failure{
			Service:    serviceTerms,
			Reason:     ReasonStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var result termsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if f := classify(serviceTerms, err); f.Reason == ReasonTimeout {
			return nil, f
		}
		return nil, &Failure{Service: serviceTerms, Reason: ReasonMalformed, Err: err}
	}
	if result.Matches == nil {
		return nil, &Failure{Service: serviceTerms, Reason: ReasonMalformed}
	}

	out := make([]termMatch, 0, len(*result.Matches))
	for _, raw := range *result.Matches {
		if m := raw.normalize(); m.term != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

// groupMatches keeps one entry per term, in first-seen order. For each term
// the definition comes from the match in the target language, else the
// English match, else the first match.
func groupMatches(matches []termMatch, target string) []MedicalTerm {
	want := termLanguageName(target)

	var order []string
	groups := make(map[string][]termMatch)
	for _, m := range matches {
		if _, ok := groups[m.term]; !ok {
			order = append(order, m.term)
		}
		groups[m.term] = append(groups[m.term], m)
	}

	terms := make([]MedicalTerm, 0, len(order))
	for _, term := range order {
		best := pickMatch(groups[term], want)
		terms = append(terms, MedicalTerm{
			OriginalTerm:         term,
			TranslatedTerm:       term,
			OriginalDefinition:   best.definition,
			TranslatedDefinition: best.definition,
			NormalizedTerm:       normalizeTerm(term),
		})
	}
	return terms
}

func pickMatch(group []termMatch, want string) termMatch {
	for _, m := range group {
		if m.language == want {
			return m
		}
	}
	for _, m := range group {
		if m.language == "english" {
			return m
		}
	}
	return group[0]
}

func normalizeTerm(term string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(term), ""))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
