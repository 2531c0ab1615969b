// Package webhook receives WhatsApp Cloud API callbacks: the GET
// subscription handshake and POST message notifications.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"bot-pedidos/internal/channel"
	"bot-pedidos/internal/metrics"
)

// Processor handles one normalized inbound message.
type Processor interface {
	ProcessMessage(ctx context.Context, in channel.Inbound)
}

// MetaHandler implements the Cloud API webhook endpoints.
type MetaHandler struct {
	verifyToken    string
	processor      Processor
	metrics        *metrics.Metrics
	logger         *slog.Logger
	processTimeout time.Duration
}

// NewMetaHandler wires the webhook to a message processor.
func NewMetaHandler(verifyToken string, processor Processor, m *metrics.Metrics, logger *slog.Logger) *MetaHandler {
	return &MetaHandler{
		verifyToken:    verifyToken,
		processor:      processor,
		metrics:        m,
		logger:         logger.With("component", "webhook"),
		processTimeout: 60 * time.Second,
	}
}

// Verify answers the subscription handshake with the hub challenge.
func (h *MetaHandler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	h.logger.Warn("webhook verification rejected", "mode", mode)
	http.Error(w, "forbidden", http.StatusForbidden)
}

// Cloud API notification shapes, trimmed to what the bot consumes.

type metaNotification struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []metaInboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type metaInboundMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		Type        string `json:"type"`
		ButtonReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

// Receive ingests message notifications. It always acknowledges with 200 so
// the platform does not retry endlessly; processing happens asynchronously.
func (h *MetaHandler) Receive(w http.ResponseWriter, r *http.Request) {
	defer ack(w)

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Error("read webhook body failed", "error", err)
		return
	}

	var notif metaNotification
	if err := json.Unmarshal(body, &notif); err != nil {
		h.logger.Warn("malformed webhook payload", "error", err)
		return
	}

	for _, entry := range notif.Entry {
		for _, change := range entry.Changes {
			profileName := ""
			if len(change.Value.Contacts) > 0 {
				profileName = change.Value.Contacts[0].Profile.Name
			}
			for _, msg := range change.Value.Messages {
				in, ok := normalizeInbound(msg, profileName)
				if !ok {
					h.logger.Debug("skipping unsupported message", "type", msg.Type, "id", msg.ID)
					continue
				}
				if h.metrics != nil {
					h.metrics.InboundMessages.WithLabelValues(in.Type).Inc()
				}
				go h.dispatch(in)
			}
		}
	}
}

func (h *MetaHandler) dispatch(in channel.Inbound) {
	ctx, cancel := context.WithTimeout(context.Background(), h.processTimeout)
	defer cancel()
	h.processor.ProcessMessage(ctx, in)
}

func normalizeInbound(msg metaInboundMessage, profileName string) (channel.Inbound, bool) {
	in := channel.Inbound{
		MessageID:   msg.ID,
		From:        msg.From,
		ProfileName: profileName,
	}

	switch msg.Type {
	case "text":
		in.Type = "text"
		in.Text = msg.Text.Body
	case "interactive":
		in.Type = "interactive"
		switch msg.Interactive.Type {
		case "button_reply":
			in.ReplyID = msg.Interactive.ButtonReply.ID
			in.Text = msg.Interactive.ButtonReply.Title
		case "list_reply":
			in.ReplyID = msg.Interactive.ListReply.ID
			in.Text = msg.Interactive.ListReply.Title
		default:
			return channel.Inbound{}, false
		}
	default:
		return channel.Inbound{}, false
	}

	if in.From == "" || (in.Text == "" && in.ReplyID == "") {
		return channel.Inbound{}, false
	}
	return in, true
}

func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
