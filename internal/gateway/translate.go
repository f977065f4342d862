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

// Translation is a successful translation result.
type Translation struct {
	DetectedLanguage string `json:"detected_language"`
	TranslatedText   string `json:"translated_text"`
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

// Translate sends text to the translation service. Every failure comes back
// as a *Failure; there is no local translator to fall back to.
func (c *Client) Translate(ctx context.Context, text, target string) (Translation, error) {
	ctx, span := tracer.Start(ctx, "gateway.translate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("medilingo.target_lang", target))

	started := time.Now()
	out, err := c.translate(ctx, text, target)
	c.observe(serviceTranslate, started, err)
	if err != nil {
		f := classify(serviceTranslate, err)
		span.RecordError(f)
		c.logger.Warn("translation call failed", "reason", f.Reason, "status", f.StatusCode, "error", f.Err)
		return Translation{}, f
	}
	return out, nil
}

func (c *Client) translate(ctx context.Context, text, target string) (Translation, error) {
	body, err := json.Marshal(translateRequest{Text: text, TargetLang: target})
	if err != nil {
		return Translation{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.translateURL, bytes.NewReader(body))
	if err != nil {
		return Translation{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ngrok-skip-browser-warning", "true")

	resp, err := c.translator.Do(req)
	if err != nil {
		return Translation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Translation{}, &Failure{
			Service:    serviceTranslate,
			Reason:     ReasonStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var result Translation
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if f := classify(serviceTranslate, err); f.Reason == ReasonTimeout {
			return Translation{}, f
		}
		return Translation{}, &Failure{Service: serviceTranslate, Reason: ReasonMalformed, Err: err}
	}
	if result.TranslatedText == "" {
		return Translation{}, &Failure{Service: serviceTranslate, Reason: ReasonMalformed}
	}
	return result, nil
}
