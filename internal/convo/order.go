package convo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bot-pedidos/internal/channel"
	"bot-pedidos/internal/nlu"
	"bot-pedidos/internal/repo"
	"bot-pedidos/internal/session"
	"bot-pedidos/internal/util"
)

func isDoneWord(normalized string) bool {
	switch normalized {
	case "listo", "terminar", "finalizar", "ya":
		return true
	}
	return false
}

func (e *Engine) handleCartInput(ctx context.Context, sess *session.Session, text string) (*channel.Message, error) {
	normalized := util.Normalize(text)

	if isDoneWord(normalized) {
		return e.proceedToAddress(sess)
	}

	quantity, query := parseItemRequest(text)
	products, err := e.store.ListProducts(ctx, "", true)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	matches := matchProducts(products, query, 1)
	if len(matches) == 0 {
		reply := "❌ No encontré ese producto en nuestro menú.\n\n" +
			"Por favor, intenta con otro nombre o escribe *menu* para ver las opciones."
		return channel.Text(reply), nil
	}

	item := matches[0]
	sess.AddToCart(session.CartItem{
		ProductID: item.ProductID,
		Name:      item.Name,
		Price:     item.Price,
		Quantity:  quantity,
	})

	reply := fmt.Sprintf("✅ *%s* agregado a tu pedido\n", item.Name)
	if quantity > 1 {
		reply = fmt.Sprintf("✅ %dx *%s* agregado a tu pedido\n", quantity, item.Name)
	}
	reply += fmt.Sprintf("Precio: %s\n\n", formatCurrency(item.Price*float64(quantity)))
	reply += fmt.Sprintf("Total actual: %s\n\n", formatCurrency(sess.CartSubtotal()))
	reply += "¿Deseas agregar algo más? O escribe *listo* para continuar."
	return channel.Text(reply), nil
}

func (e *Engine) proceedToAddress(sess *session.Session) (*channel.Message, error) {
	if len(sess.Cart) == 0 {
		return channel.Text("❌ Tu pedido está vacío. Por favor, agrega productos primero."), nil
	}

	sess.State = session.StateAwaitingAddress
	reply := "📍 *¡Perfecto! Ahora necesito tu dirección de entrega*\n\n" +
		"Por favor, envíame tu dirección completa incluyendo:\n" +
		"• Calle y número\n" +
		"• Referencias importantes\n" +
		"• Distrito/Zona"
	return channel.Text(reply), nil
}

func (e *Engine) handleAddressInput(ctx context.Context, sess *session.Session, text string) (*channel.Message, error) {
	address := nlu.ExtractAddress(text)
	if address == "" {
		return channel.Text("❌ Por favor, proporciona una dirección válida con calle, número y referencias."), nil
	}

	sess.DeliveryAddress = address
	sess.State = session.StateAwaitingPayment
	return channel.Text(formatPaymentPrompt(e.profile.PaymentMethods)), nil
}

func (e *Engine) handlePaymentSelection(ctx context.Context, sess *session.Session, text string) (*channel.Message, error) {
	methods := e.profile.PaymentMethods

	selection, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return channel.Text("❌ Por favor, responde con el número del método de pago."), nil
	}
	if selection < 1 || selection > len(methods) {
		return channel.Text("❌ Selección inválida. Por favor, elige un número válido."), nil
	}

	sess.PaymentMethod = methods[selection-1]
	sess.State = session.StateConfirmingOrder

	fee := e.profile.DeliveryFee("")
	confirmation := formatCartSummary(sess.Cart, sess.CartSubtotal(), fee) + "\n\n"
	confirmation += fmt.Sprintf("📍 *Dirección:* %s\n", sess.DeliveryAddress)
	confirmation += fmt.Sprintf("💳 *Pago:* %s\n\n", sess.PaymentMethod)
	confirmation += "⏱ *Tiempo estimado:* 30-45 minutos\n\n"
	confirmation += "¿Confirmas tu pedido?\nResponde *SI* para confirmar o *NO* para cancelar"
	return channel.Text(confirmation), nil
}

func (e *Engine) handleOrderConfirmation(ctx context.Context, sess *session.Session, text string) (*channel.Message, error) {
	switch util.Normalize(text) {
	case "si", "yes", "confirmar", "confirmo", "ok":
		return e.confirmOrder(ctx, sess)
	case "no", "cancelar", "cancel":
		return e.cancelOrder(ctx, sess)
	default:
		return channel.Text("Por favor, responde *SI* para confirmar o *NO* para cancelar."), nil
	}
}

func (e *Engine) confirmOrder(ctx context.Context, sess *session.Session) (*channel.Message, error) {
	user, _, err := e.store.UpsertUserByPhone(ctx, sess.Phone)
	if err != nil {
		return nil, fmt.Errorf("order user lookup: %w", err)
	}

	items := make([]repo.OrderItem, 0, len(sess.Cart))
	for _, c := range sess.Cart {
		items = append(items, repo.OrderItem{
			ProductID: c.ProductID,
			Name:      c.Name,
			Price:     c.Price,
			Quantity:  c.Quantity,
		})
	}

	subtotal := sess.CartSubtotal()
	fee := e.profile.DeliveryFee("")
	order := repo.Order{
		OrderRef:        generateOrderRef(e.now()),
		UserID:          user.ID,
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     fee,
		Total:           subtotal + fee,
		DeliveryAddress: sess.DeliveryAddress,
		PaymentMethod:   sess.PaymentMethod,
		Status:          repo.OrderStatusPending,
	}

	inserted, err := e.store.InsertOrder(ctx, order)
	if err != nil {
		// Keep the draft so the user can retry with another SI.
		e.logger.Error("order insert failed", "phone", sess.Phone, "error", err)
		if e.metrics != nil {
			e.metrics.Errors.WithLabelValues("orders").Inc()
		}
		return channel.Text("❌ Hubo un error confirmando tu pedido. Por favor, intenta de nuevo."), nil
	}

	if _, err := e.store.UpdateOrderStatus(ctx, inserted.OrderRef, repo.OrderStatusConfirmed); err != nil {
		e.logger.Error("order confirm failed", "ref", inserted.OrderRef, "error", err)
	}
	if e.metrics != nil {
		e.metrics.OrdersCreated.WithLabelValues(repo.OrderStatusConfirmed).Inc()
	}

	sess.LastOrderRef = inserted.OrderRef
	sess.ClearOrderDraft()
	sess.State = session.StateBrowsingMenu

	reply := "✅ *¡Pedido confirmado!*\n\n"
	reply += fmt.Sprintf("🔖 Número de orden: *%s*\n\n", inserted.OrderRef)
	reply += "Tu pedido está siendo preparado. 👨‍🍳\n"
	reply += "Te notificaremos cuando esté en camino. 🚚\n\n"
	reply += "¡Gracias por tu preferencia!"
	return channel.Text(reply), nil
}
