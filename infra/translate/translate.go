// Package translate implements the translation collaborator against a
// Translator-v3 style REST API.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/openrelief/missionmatch/core/logger"
)

// Config defines the translation service parameters.
type Config struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key"`
	Region   string `json:"region"`
	// DefaultLanguage is the language source messages are written in.
	DefaultLanguage string `json:"default_language"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	MaxRetries      int    `json:"max_retries"`
	BackoffMS       int    `json:"backoff_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Client calls the external translation API with bounded retries.
type Client struct {
	cfg     Config
	client  *http.Client
	backoff time.Duration
	log     logger.Logger
}

// NewClient creates a translation client. An empty endpoint or key leaves the
// client unconfigured: every lookup then takes the zero-cost path.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:     log,
	}
}

// IsConfigured reports whether translation calls can be made.
func (c *Client) IsConfigured() bool {
	return c.cfg.Endpoint != "" && c.cfg.APIKey != ""
}

// DefaultLanguage returns the language source messages are written in.
func (c *Client) DefaultLanguage() string { return c.cfg.DefaultLanguage }

type translateRequest struct {
	Text string `json:"Text"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// Translate returns text translated into the target language, retrying
// transient failures up to the configured bound.
func (c *Client) Translate(ctx context.Context, text, language string) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("translate: not configured")
	}
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
			c.log.Debugf("translate retry %d for language %s", attempt, language)
		}
		translated, err := c.call(ctx, text, language)
		if err == nil {
			return translated, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("translate to %s: %w", language, lastErr)
}

func (c *Client) call(ctx context.Context, text, language string) (string, error) {
	body, err := json.Marshal([]translateRequest{{Text: text}})
	if err != nil {
		return "", err
	}
	u := fmt.Sprintf("%s/translate?api-version=3.0&to=%s", c.cfg.Endpoint, url.QueryEscape(language))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)
	if c.cfg.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", c.cfg.Region)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation API status %d: %s", resp.StatusCode, payload)
	}

	var decoded []translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(decoded) == 0 || len(decoded[0].Translations) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	return decoded[0].Translations[0].Text, nil
}
