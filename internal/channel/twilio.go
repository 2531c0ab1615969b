package channel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"bot-pedidos/internal/metrics"
)

// TwilioConfig holds Twilio WhatsApp credentials.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TwilioSender delivers messages through the Twilio WhatsApp API. Twilio's
// Go SDK has no interactive message support, so buttons and lists are sent
// as numbered text.
type TwilioSender struct {
	client  *twilio.RestClient
	from    string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewTwilioSender builds a Twilio sender.
func NewTwilioSender(cfg TwilioConfig, m *metrics.Metrics, logger *slog.Logger) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("twilio account sid and auth token must be provided")
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("twilio from number must be provided")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	from := cfg.FromNumber
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	return &TwilioSender{
		client:  client,
		from:    from,
		metrics: m,
		logger:  logger.With("component", "channel", "provider", "twilio"),
	}, nil
}

func (s *TwilioSender) Name() string { return "twilio" }

// Send delivers a message, flattening interactive content to text.
func (s *TwilioSender) Send(ctx context.Context, to string, msg *Message) error {
	params := &twilioApi.CreateMessageParams{}
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(msg.RenderText())

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send message to %s: %w", to, err)
	}
	if s.metrics != nil {
		s.metrics.OutboundMessages.WithLabelValues(msg.Type).Inc()
	}
	return nil
}

// MarkRead is a no-op; Twilio handles read receipts itself.
func (s *TwilioSender) MarkRead(ctx context.Context, messageID string) error {
	return nil
}
