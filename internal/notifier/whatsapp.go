package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/httpclient"
)

// WhatsAppConfig holds settings for the WhatsApp gateway sender.
type WhatsAppConfig struct {
	// GatewayURL is the message endpoint of the WhatsApp provider.
	GatewayURL string

	// APIKey authenticates against the gateway.
	APIKey string
}

// WhatsAppSender delivers notifications through an HTTP WhatsApp gateway.
// Calls go through a circuit breaker so a provider outage cannot stall order
// processing.
type WhatsAppSender struct {
	cfg    WhatsAppConfig
	client *httpclient.CircuitBreakerClient
}

// NewWhatsAppSender creates a WhatsApp gateway sender.
func NewWhatsAppSender(cfg WhatsAppConfig, client *httpclient.CircuitBreakerClient) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:    cfg,
		client: client,
	}
}

// Name returns the sender name.
func (s *WhatsAppSender) Name() string { return "whatsapp" }

type whatsappPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
	APIKey  string `json:"api_key"`
}

// Send posts the notification to the gateway. The recipient is a phone number
// in national format.
func (s *WhatsAppSender) Send(ctx context.Context, n *Notification) error {
	payload := whatsappPayload{
		To:      n.Recipient,
		Message: n.Body,
		APIKey:  s.cfg.APIKey,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	resp, err := s.client.Post(ctx, s.cfg.GatewayURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp gateway: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return httpclient.ParseResponseError(resp, "whatsapp gateway")
	}

	_ = resp.Body.Close()
	return nil
}
