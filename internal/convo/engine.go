// Package convo is the conversation engine: it takes one inbound message,
// runs commands, the order state machine and the answer pipeline, and
// produces at most one reply.
package convo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bot-pedidos/internal/business"
	"bot-pedidos/internal/channel"
	"bot-pedidos/internal/kb"
	"bot-pedidos/internal/llm"
	"bot-pedidos/internal/metrics"
	"bot-pedidos/internal/nlu"
	"bot-pedidos/internal/repo"
	"bot-pedidos/internal/session"
	"bot-pedidos/internal/util"
)

// Store is the persistence surface the engine needs.
type Store interface {
	UpsertUserByPhone(ctx context.Context, phone string) (*repo.User, bool, error)
	UpdateUserName(ctx context.Context, phone, name string) error
	ListProducts(ctx context.Context, category string, onlyAvailable bool) ([]repo.Product, error)
	InsertOrder(ctx context.Context, order repo.Order) (*repo.Order, error)
	LatestOrderByPhone(ctx context.Context, phone string) (*repo.Order, error)
	UpdateOrderStatus(ctx context.Context, ref, status string) (*repo.Order, error)
	InsertMessage(ctx context.Context, msg repo.MessageRecord) error
}

// SessionStore keeps conversation state and reply dedup markers.
type SessionStore interface {
	Get(ctx context.Context, phone string) (*session.Session, error)
	Put(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, phone string) error
	ReplySeen(ctx context.Context, msgID string) (string, bool, error)
	RememberReply(ctx context.Context, msgID, reply string) error
}

// Knowledge answers questions from the curated knowledge base.
type Knowledge interface {
	Search(query string, topK int) []kb.Match
	ContextForLLM(query string, maxEntries int) string
}

// Engine drives the conversation.
type Engine struct {
	store     Store
	sessions  SessionStore
	sender    channel.Sender
	knowledge Knowledge
	generator llm.Gateway
	profile   *business.Profile
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Dependencies wires the engine.
type Dependencies struct {
	Store     Store
	Sessions  SessionStore
	Sender    channel.Sender
	Knowledge Knowledge
	Generator llm.Gateway
	Profile   *business.Profile
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// NewEngine builds the conversation engine.
func NewEngine(deps Dependencies) *Engine {
	return &Engine{
		store:     deps.Store,
		sessions:  deps.Sessions,
		sender:    deps.Sender,
		knowledge: deps.Knowledge,
		generator: deps.Generator,
		profile:   deps.Profile,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With("component", "convo"),
		now:       time.Now,
	}
}

// Button IDs from the welcome menu map onto text commands.
var buttonCommands = map[string]string{
	"btn_menu":  "menu",
	"btn_order": "pedido",
	"btn_help":  "ayuda",
}

const genericErrorReply = "Lo siento, hubo un error procesando tu mensaje. Por favor intenta de nuevo."

// Turn is the outcome of handling one inbound message. Duplicate marks a
// provider redelivery answered from the idempotency marker: the reply is
// still sent, but nothing may be persisted for the turn.
type Turn struct {
	Reply     *channel.Message
	Duplicate bool

	userID string
}

// ProcessMessage runs the full pipeline for one inbound message and sends
// the reply. Errors are logged and answered with a generic apology; the
// webhook already acknowledged the provider.
func (e *Engine) ProcessMessage(ctx context.Context, in channel.Inbound) {
	turn, err := e.Handle(ctx, in)
	if err != nil {
		e.logger.Error("message handling failed", "from", in.From, "error", err)
		if e.metrics != nil {
			e.metrics.Errors.WithLabelValues("convo").Inc()
		}
		turn = &Turn{Reply: channel.Text(genericErrorReply)}
	}
	if turn == nil || turn.Reply == nil {
		return
	}

	if err := e.sender.MarkRead(ctx, in.MessageID); err != nil {
		e.logger.Debug("mark read failed", "error", err)
	}

	if err := e.sender.Send(ctx, in.From, turn.Reply); err != nil {
		e.logger.Error("send reply failed", "to", in.From, "error", err)
		if e.metrics != nil {
			e.metrics.Errors.WithLabelValues("channel").Inc()
		}
		return
	}

	// A redelivery already logged its outbound row the first time around.
	if turn.Duplicate || turn.userID == "" {
		return
	}
	e.logMessage(ctx, turn.userID, "outbound", turn.Reply.Type, turn.Reply.RenderText(), "")
}

// Handle computes the reply for one inbound message without sending it.
func (e *Engine) Handle(ctx context.Context, in channel.Inbound) (*Turn, error) {
	text := util.Sanitize(in.Text)
	if cmd, ok := buttonCommands[in.ReplyID]; ok {
		text = cmd
	}

	// Provider redeliveries answer with the original reply and cause no
	// side effects.
	if in.MessageID != "" {
		if cached, seen, err := e.sessions.ReplySeen(ctx, in.MessageID); err != nil {
			e.logger.Warn("dedup check failed", "error", err)
		} else if seen {
			if e.metrics != nil {
				e.metrics.DuplicateHits.Inc()
			}
			e.logger.Info("duplicate message", "id", in.MessageID)
			return &Turn{Reply: channel.Text(cached), Duplicate: true}, nil
		}
	}

	user, created, err := e.store.UpsertUserByPhone(ctx, in.From)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	e.logMessage(ctx, user.ID, "inbound", "text", text, in.MessageID)

	analysis := nlu.Process(text)
	if e.metrics != nil {
		e.metrics.IntentMatches.WithLabelValues(string(analysis.Intent)).Inc()
	}
	if analysis.Nickname != "" && user.Name == nil {
		if err := e.store.UpdateUserName(ctx, in.From, analysis.Nickname); err != nil {
			e.logger.Warn("store nickname failed", "error", err)
		}
	}

	sess, err := e.sessions.Get(ctx, in.From)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = session.New(in.From, e.now())
	}
	sess.LastMessageAt = e.now()

	reply, err := e.route(ctx, sess, text, analysis, created)
	if err != nil {
		return nil, err
	}

	if err := e.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if in.MessageID != "" && reply != nil {
		if err := e.sessions.RememberReply(ctx, in.MessageID, reply.RenderText()); err != nil {
			e.logger.Warn("remember reply failed", "error", err)
		}
	}
	return &Turn{Reply: reply, userID: user.ID}, nil
}

func (e *Engine) route(ctx context.Context, sess *session.Session, text string, analysis nlu.Result, newUser bool) (*channel.Message, error) {
	// First contact gets the welcome menu before anything else.
	if !sess.HasSeenWelcome {
		sess.HasSeenWelcome = true
		if sess.State == session.StateNew {
			sess.State = session.StateWelcomeShown
		}
		return e.welcomeMessage(), nil
	}

	// Explicit commands cut through every state.
	if handler, ok := e.commandHandler(util.Normalize(text)); ok {
		return handler(ctx, sess)
	}

	// Angry users leave the state machine until a human (or "menu") takes
	// over. Not during checkout: a typo there should not dump the cart.
	if analysis.Sentiment.NeedsHuman && !inOrderFlow(sess.State) {
		sess.State = session.StateSupportEscalated
		reply := nlu.EmpatheticPrefix(analysis.Sentiment) +
			"Un agente se pondrá en contacto contigo pronto. Escribe *menu* para volver al menú principal."
		return channel.Text(reply), nil
	}

	switch sess.State {
	case session.StateBuildingCart:
		return e.handleCartInput(ctx, sess, text)
	case session.StateAwaitingAddress:
		return e.handleAddressInput(ctx, sess, text)
	case session.StateAwaitingPayment:
		return e.handlePaymentSelection(ctx, sess, text)
	case session.StateConfirmingOrder:
		return e.handleOrderConfirmation(ctx, sess, text)
	case session.StateSupportEscalated:
		return channel.Text("Tu caso ya fue escalado a un agente. Te contactaremos pronto. Escribe *menu* para volver al menú principal."), nil
	default:
		return e.handleFreeText(ctx, sess, text, analysis)
	}
}

func inOrderFlow(state string) bool {
	switch state {
	case session.StateBuildingCart, session.StateAwaitingAddress,
		session.StateAwaitingPayment, session.StateConfirmingOrder:
		return true
	}
	return false
}

func (e *Engine) welcomeMessage() *channel.Message {
	if !e.profile.IsOpen(e.now()) {
		return channel.Text(formatClosed(e.profile.Name, e.profile.HoursMessage(), e.profile.ClosedMessage))
	}

	welcome := fmt.Sprintf("¡Hola! Bienvenido a *%s* 🏪\n\n¿Qué te gustaría hacer hoy?", e.profile.Name)
	return channel.WithButtons(welcome,
		channel.Button{ID: "btn_menu", Title: "🍔 Ver Menú"},
		channel.Button{ID: "btn_order", Title: "🛒 Hacer Pedido"},
		channel.Button{ID: "btn_help", Title: "ℹ️ Ayuda"},
	)
}

func (e *Engine) logMessage(ctx context.Context, userID, direction, msgType, content, externalID string) {
	rec := repo.MessageRecord{
		UserID:    userID,
		Direction: direction,
		Type:      msgType,
	}
	if content != "" {
		rec.Content = &content
	}
	if externalID != "" {
		rec.ExternalID = &externalID
	}
	if err := e.store.InsertMessage(ctx, rec); err != nil {
		e.logger.Warn("message log failed", "error", err)
	}
}

func generateOrderRef(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102150405"), suffix)
}
