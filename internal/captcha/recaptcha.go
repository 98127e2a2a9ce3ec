// Package captcha checks reCAPTCHA answers submitted with the donation form.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var ErrMissingResponse = errors.New("captcha response is missing")

type Recaptcha struct {
	secret    string
	verifyURL string
	client    *http.Client
}

type Option func(*Recaptcha)

func WithVerifyURL(u string) Option {
	return func(r *Recaptcha) {
		r.verifyURL = u
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *Recaptcha) {
		r.client = c
	}
}

func NewRecaptcha(secret string, opts ...Option) *Recaptcha {
	r := &Recaptcha{
		secret:    secret,
		verifyURL: DefaultVerifyURL,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify returns nil only when the answer was accepted. A rejected answer and
// a failed round trip are both errors.
func (r *Recaptcha) Verify(ctx context.Context, response, remoteIP string) error {
	if strings.TrimSpace(response) == "" {
		return ErrMissingResponse
	}

	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", response)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to verify captcha: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha verification returned status %d", resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode captcha response: %w", err)
	}

	if !out.Success {
		return fmt.Errorf("captcha rejected: %s", strings.Join(out.ErrorCodes, ","))
	}

	return nil
}

// Disabled accepts every answer. It stands in when no secret is configured.
type Disabled struct{}

func (Disabled) Verify(context.Context, string, string) error {
	return nil
}
