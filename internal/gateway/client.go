package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"medilingo/internal/observability/metrics"
	"medilingo/pkg/logging"
)

var tracer = otel.Tracer("medilingo.internal.gateway")

const (
	serviceTranslate = "translate"
	serviceTerms     = "terms"
)

// Reason classifies a failed external call.
type Reason string

const (
	ReasonTimeout   Reason = "timeout"
	ReasonStatus    Reason = "status"
	ReasonMalformed Reason = "malformed"
	ReasonTransport Reason = "transport"
)

// Failure is the error returned for any unsuccessful external call.
type Failure struct {
	Service    string
	Reason     Reason
	StatusCode int
	Body       string
	Err        error
}

func (f *Failure) Error() string {
	switch f.Reason {
	case ReasonStatus:
		return fmt.Sprintf("%s service returned status %d: %s", f.Service, f.StatusCode, f.Body)
	case ReasonTimeout:
		return fmt.Sprintf("%s service timed out", f.Service)
	default:
		if f.Err != nil {
			return fmt.Sprintf("%s service %s: %v", f.Service, f.Reason, f.Err)
		}
		return fmt.Sprintf("%s service %s", f.Service, f.Reason)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// IsTimeout reports whether err is a timed out external call.
func IsTimeout(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Reason == ReasonTimeout
}

// Config configures the two upstream endpoints.
type Config struct {
	TranslateURL     string
	TermsURL         string
	TranslateTimeout time.Duration
	TermsTimeout     time.Duration
}

// Client calls the external translation and term-lookup services.
// It is safe for concurrent use.
type Client struct {
	translateURL string
	termsURL     string
	translator   *http.Client
	terms        *http.Client
	logger       *logging.Logger
	metrics      *metrics.Metrics
}

func NewClient(cfg Config, logger *logging.Logger, m *metrics.Metrics) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TranslateTimeout <= 0 {
		cfg.TranslateTimeout = 10 * time.Second
	}
	if cfg.TermsTimeout <= 0 {
		cfg.TermsTimeout = 5 * time.Second
	}
	return &Client{
		translateURL: cfg.TranslateURL,
		termsURL:     cfg.TermsURL,
		translator:   &http.Client{Timeout: cfg.TranslateTimeout},
		terms:        &http.Client{Timeout: cfg.TermsTimeout},
		logger:       logger,
		metrics:      m,
	}
}

func classify(service string, err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Service: service, Reason: ReasonTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Failure{Service: service, Reason: ReasonTimeout, Err: err}
	}
	return &Failure{Service: service, Reason: ReasonTransport, Err: err}
}

func (c *Client) observe(service string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(classify(service, err).Reason)
	}
	c.metrics.ObserveGatewayCall(service, outcome, time.Since(started).Seconds())
}
