package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"medilingo/pkg/logging"
)

type Config struct {
	Enabled bool
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// Client delivers text messages to mobile numbers. When disabled it only
// logs what would have been sent.
type Client struct {
	enabled    bool
	apiURL     string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		enabled: cfg.Enabled,
		apiURL:  cfg.APIURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Enabled reports whether messages leave the process.
func (c *Client) Enabled() bool { return c.enabled }

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	APIKey  string `json:"apiKey"`
}

func (c *Client) Send(ctx context.Context, to, message string) error {
	if to == "" {
		return fmt.Errorf("sms: empty recipient")
	}
	if !c.enabled {
		c.logger.Info("sms simulated", "to", to, "message", message)
		return nil
	}

	body, err := json.Marshal(sendRequest{To: to, Message: message, APIKey: c.apiKey})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms api returned status: %s, body: %s", resp.Status, string(respBody))
	}
	return nil
}
