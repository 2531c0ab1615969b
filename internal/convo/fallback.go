package convo

import (
	"context"
	"errors"
	"fmt"

	"bot-pedidos/internal/channel"
	"bot-pedidos/internal/llm"
	"bot-pedidos/internal/nlu"
	"bot-pedidos/internal/session"
)

const llmSystemPrompt = "Eres el asistente de WhatsApp de un negocio de comida. " +
	"Responde en español, breve y amable, usando solamente la información del contexto. " +
	"Si no sabes la respuesta, sugiere escribir *ayuda* para ver los comandos disponibles."

const unknownReply = "No estoy seguro de cómo ayudarte con eso. 🤔\n\n" +
	"Escribe *ayuda* para ver lo que puedo hacer, o *menu* para ver nuestros productos."

// handleFreeText answers messages outside the order flow: intent shortcuts
// first, then progressive answers, the knowledge base, and finally the LLM.
func (e *Engine) handleFreeText(ctx context.Context, sess *session.Session, text string, analysis nlu.Result) (*channel.Message, error) {
	prefix := nlu.EmpatheticPrefix(analysis.Sentiment)

	switch analysis.Intent {
	case nlu.IntentGreeting:
		return e.welcomeBack(sess), nil
	case nlu.IntentHours:
		return channel.Text(e.profile.HoursMessage()), nil
	case nlu.IntentPayment:
		return channel.Text(formatPaymentMethods(e.profile.PaymentMethods)), nil
	case nlu.IntentHelp, nlu.IntentSupport:
		return e.showHelp(ctx, sess)
	case nlu.IntentThanks:
		return channel.Text("¡De nada! 😊 Estamos para servirte."), nil
	case nlu.IntentFarewell:
		return channel.Text("¡Hasta pronto! 👋 Escríbenos cuando quieras ordenar."), nil
	case nlu.IntentComplaint:
		sess.State = session.StateSupportEscalated
		return channel.Text(prefix + "Un agente se pondrá en contacto contigo pronto. Escribe *menu* para volver al menú principal."), nil
	}

	if topic := detectTopic(text); topic != "" {
		count := sess.BumpTopic(topic)
		if reply := progressiveResponse(topic, count); reply != "" {
			return channel.Text(prefix + reply), nil
		}
	}

	if matches := e.knowledge.Search(text, 1); len(matches) > 0 {
		if e.metrics != nil {
			e.metrics.KBLookups.WithLabelValues("hit").Inc()
		}
		count := sess.BumpTopic(matches[0].Entry.ID)
		reply := matches[0].Entry.Content
		if count >= 3 {
			reply += "\n\nRecuerda que también puedes escribir *ayuda* para ver los comandos."
		}
		return channel.Text(prefix + reply), nil
	}
	if e.metrics != nil {
		e.metrics.KBLookups.WithLabelValues("miss").Inc()
	}

	answer, err := e.generator.Generate(ctx, llm.Request{
		System: llmSystemPrompt,
		Prompt: fmt.Sprintf("%s\n\nPregunta del cliente: %s", e.knowledge.ContextForLLM(text, 3), text),
	})
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			e.logger.Warn("llm generation failed", "error", err)
		}
		return channel.Text(prefix + unknownReply), nil
	}
	return channel.Text(prefix + answer), nil
}

func (e *Engine) welcomeBack(sess *session.Session) *channel.Message {
	if !e.profile.IsOpen(e.now()) {
		return channel.Text(formatClosed(e.profile.Name, e.profile.HoursMessage(), e.profile.ClosedMessage))
	}

	greeting := fmt.Sprintf("¡Hola de nuevo! 👋 Bienvenido a *%s*\n\n", e.profile.Name)
	greeting += "¿En qué puedo ayudarte hoy?\n\n"
	greeting += "Comandos disponibles:\n"
	greeting += "• *menu* - Ver nuestro menú\n"
	greeting += "• *pedido* - Hacer un pedido\n"
	greeting += "• *horario* - Ver horarios\n"
	greeting += "• *ayuda* - Más información"
	return channel.Text(greeting)
}

func formatPaymentMethods(methods []string) string {
	reply := "💳 *Métodos de pago disponibles:*\n\n"
	for _, m := range methods {
		reply += "• " + m + "\n"
	}
	return reply
}
