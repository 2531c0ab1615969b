package convo

import (
	"context"
	"errors"
	"fmt"

	"bot-pedidos/internal/channel"
	"bot-pedidos/internal/repo"
	"bot-pedidos/internal/session"
)

type commandHandler func(ctx context.Context, sess *session.Session) (*channel.Message, error)

// commandHandler resolves text commands. These work from any state, which
// is also how an escalated user returns to the bot.
func (e *Engine) commandHandler(normalized string) (commandHandler, bool) {
	switch normalized {
	case "menu":
		return e.showMenu, true
	case "pedido", "orden":
		return e.startOrder, true
	case "horario", "horarios":
		return e.showHours, true
	case "ayuda", "help":
		return e.showHelp, true
	case "cancelar":
		return e.cancelOrder, true
	case "estado":
		return e.checkOrderStatus, true
	default:
		return nil, false
	}
}

func (e *Engine) showMenu(ctx context.Context, sess *session.Session) (*channel.Message, error) {
	if !e.profile.IsOpen(e.now()) {
		return channel.Text("Lo siento, estamos cerrados en este momento. 😴\n\n" + e.profile.HoursMessage()), nil
	}

	products, err := e.store.ListProducts(ctx, "", false)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	sess.State = session.StateBrowsingMenu
	return channel.Text(formatMenu(products)), nil
}

func (e *Engine) startOrder(ctx context.Context, sess *session.Session) (*channel.Message, error) {
	if !e.profile.IsOpen(e.now()) {
		return channel.Text("Lo siento, estamos cerrados. No podemos tomar pedidos en este momento.\n\n" + e.profile.HoursMessage()), nil
	}

	sess.ClearOrderDraft()
	sess.State = session.StateBuildingCart

	reply := "🛒 *¡Perfecto! Vamos a hacer tu pedido*\n\n" +
		"Por favor, dime qué deseas ordenar.\n" +
		"Puedes escribir el nombre del producto, por ejemplo *2 tacos al pastor*.\n\n" +
		"Escribe *menu* si necesitas ver las opciones nuevamente.\n" +
		"Escribe *listo* cuando termines de agregar productos."
	return channel.Text(reply), nil
}

func (e *Engine) showHours(ctx context.Context, sess *session.Session) (*channel.Message, error) {
	return channel.Text(e.profile.HoursMessage()), nil
}

func (e *Engine) showHelp(ctx context.Context, sess *session.Session) (*channel.Message, error) {
	return channel.Text(formatHelp(e.profile.Name, e.profile.Phone, "")), nil
}

func (e *Engine) cancelOrder(ctx context.Context, sess *session.Session) (*channel.Message, error) {
	sess.ClearOrderDraft()
	sess.State = session.StateBrowsingMenu
	return channel.Text("❌ Pedido cancelado. Si deseas hacer uno nuevo, escribe *pedido*."), nil
}

func (e *Engine) checkOrderStatus(ctx context.Context, sess *session.Session) (*channel.Message, error) {
	order, err := e.store.LatestOrderByPhone(ctx, sess.Phone)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return channel.Text("No tienes pedidos activos en este momento."), nil
		}
		return nil, fmt.Errorf("latest order: %w", err)
	}
	return channel.Text(formatOrderStatus(order)), nil
}
