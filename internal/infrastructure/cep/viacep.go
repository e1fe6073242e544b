package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/ysmood/gson"
	"golang.org/x/time/rate"

	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/domain/entity"
)

const (
	DefaultBaseURL = "https://viacep.com.br/ws"

	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 64 << 10
)

var _ output.AddressLookupPort = (*Client)(nil)

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	// Region is stamped on every result. The workflow serves one operating
	// region, so the lookup's own state is ignored.
	Region string
}

// Client is the Address Enricher backed by ViaCEP. Every failure degrades to
// a nil result.
type Client struct {
	baseURL string
	region  string
	http    *http.Client
	limiter *rate.Limiter
	logger  output.LoggerPort
}

func NewClient(cfg Config, logger output.LoggerPort) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Region == "" {
		cfg.Region = "RR"
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		region:  cfg.Region,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger,
	}
}

func (c *Client) Lookup(ctx context.Context, postalCode string) *entity.AddressLookupResult {
	digits := Normalize(postalCode)
	if len(digits) != 8 {
		c.logger.Debug("Postal code rejected before lookup", "postal_code", postalCode)
		return nil
	}

	result, err := c.fetch(ctx, digits)
	if err != nil {
		c.logger.Warn("Postal code lookup failed", "postal_code", digits, "error", err)
		return nil
	}
	if result == nil {
		c.logger.Info("Postal code unknown", "postal_code", digits)
	}
	return result
}

func (c *Client) fetch(ctx context.Context, digits string) (*entity.AddressLookupResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("response is not json")
	}

	doc := gson.NewFrom(string(body))
	if flagged(doc) {
		return nil, nil
	}

	return &entity.AddressLookupResult{
		Street:       str(doc, "logradouro"),
		Neighborhood: str(doc, "bairro"),
		Region:       c.region,
	}, nil
}

// flagged reads the "erro" marker, which ViaCEP has sent both as a boolean
// and as the string "true".
func flagged(doc gson.JSON) bool {
	v, ok := doc.Gets("erro")
	if !ok {
		return false
	}
	switch e := v.Val().(type) {
	case bool:
		return e
	case string:
		return e == "true"
	}
	return false
}

func str(doc gson.JSON, key string) string {
	v, ok := doc.Gets(key)
	if !ok {
		return ""
	}
	s, _ := v.Val().(string)
	return s
}

// Normalize strips everything but digits.
func Normalize(postalCode string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, postalCode)
}
