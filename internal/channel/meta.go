package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"bot-pedidos/internal/metrics"
)

// MetaConfig holds WhatsApp Cloud API credentials.
type MetaConfig struct {
	AccessToken string
	PhoneID     string
	BaseURL     string
	Timeout     time.Duration
}

// MetaSender delivers messages through the WhatsApp Cloud API.
type MetaSender struct {
	http    *http.Client
	baseURL string
	phoneID string
	token   string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewMetaSender builds a Cloud API sender.
func NewMetaSender(cfg MetaConfig, m *metrics.Metrics, logger *slog.Logger) *MetaSender {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v19.0"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &MetaSender{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		phoneID: cfg.PhoneID,
		token:   cfg.AccessToken,
		metrics: m,
		logger:  logger.With("component", "channel", "provider", "meta"),
	}
}

func (s *MetaSender) Name() string { return "meta" }

// Cloud API payload shapes, kept to the fields this bot uses.

type metaTextPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             metaText `json:"text"`
}

type metaText struct {
	Body string `json:"body"`
}

type metaInteractivePayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Interactive      metaInteractive `json:"interactive"`
}

type metaInteractive struct {
	Type   string      `json:"type"`
	Body   metaText    `json:"body"`
	Action *metaAction `json:"action,omitempty"`
}

type metaAction struct {
	Buttons  []metaButton  `json:"buttons,omitempty"`
	Button   string        `json:"button,omitempty"`
	Sections []metaSection `json:"sections,omitempty"`
}

type metaButton struct {
	Type  string        `json:"type"`
	Reply metaBtnDetail `json:"reply"`
}

type metaBtnDetail struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type metaSection struct {
	Title string        `json:"title,omitempty"`
	Rows  []metaListRow `json:"rows"`
}

type metaListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type metaReadPayload struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// Send delivers a message to the given phone number.
func (s *MetaSender) Send(ctx context.Context, to string, msg *Message) error {
	var payload any
	switch msg.Type {
	case TypeButtons:
		buttons := make([]metaButton, 0, len(msg.Buttons))
		for _, b := range msg.Buttons {
			buttons = append(buttons, metaButton{
				Type:  "reply",
				Reply: metaBtnDetail{ID: b.ID, Title: b.Title},
			})
		}
		payload = metaInteractivePayload{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "interactive",
			Interactive: metaInteractive{
				Type:   "button",
				Body:   metaText{Body: msg.Text},
				Action: &metaAction{Buttons: buttons},
			},
		}
	case TypeList:
		rows := make([]metaListRow, 0, len(msg.List.Rows))
		for _, r := range msg.List.Rows {
			rows = append(rows, metaListRow{ID: r.ID, Title: r.Title, Description: r.Description})
		}
		payload = metaInteractivePayload{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "interactive",
			Interactive: metaInteractive{
				Type: "list",
				Body: metaText{Body: msg.Text},
				Action: &metaAction{
					Button:   msg.List.Button,
					Sections: []metaSection{{Rows: rows}},
				},
			},
		}
	default:
		payload = metaTextPayload{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             metaText{Body: msg.Text},
		}
	}

	if err := s.post(ctx, payload); err != nil {
		return fmt.Errorf("send %s message: %w", msg.Type, err)
	}
	if s.metrics != nil {
		s.metrics.OutboundMessages.WithLabelValues(msg.Type).Inc()
	}
	return nil
}

// MarkRead flags an inbound message as read so the user sees blue ticks.
func (s *MetaSender) MarkRead(ctx context.Context, messageID string) error {
	return s.post(ctx, metaReadPayload{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	})
}

func (s *MetaSender) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("cloud api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cloud api status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
