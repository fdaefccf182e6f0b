// Package alert pushes short reconciliation messages to the on-call phone.
// Delivery is fire-and-forget: a lost alert is logged locally and never
// retried, and alert failures are never surfaced to the operator.
package alert

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Notifier is the external push channel.
type Notifier interface {
	Notify(message string)
}

// Pushover sends messages through the Pushover REST endpoint.
type Pushover struct {
	endpoint string
	token    string
	user     string
	client   *http.Client
	logger   *slog.Logger
}

const defaultEndpoint = "https://api.pushover.net/1/messages.json"

func NewPushover(token, user string, logger *slog.Logger) *Pushover {
	return &Pushover{
		endpoint: defaultEndpoint,
		token:    token,
		user:     user,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}
}

// NewPushoverEndpoint is NewPushover against a non-default URL, for tests.
func NewPushoverEndpoint(endpoint, token, user string, logger *slog.Logger) *Pushover {
	p := NewPushover(token, user, logger)
	p.endpoint = endpoint
	return p
}

// Notify posts message. Failures are logged and swallowed.
func (p *Pushover) Notify(message string) {
	form := url.Values{
		"token":   {p.token},
		"user":    {p.user},
		"message": {message},
	}
	resp, err := p.client.Post(p.endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		p.logger.Error("alert delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		p.logger.Error("alert delivery rejected", "status", resp.StatusCode)
	}
}

// Discard is a Notifier that drops everything, for tools that run without
// alerting credentials.
type Discard struct{}

func (Discard) Notify(string) {}
