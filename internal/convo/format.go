package convo

import (
	"fmt"
	"strings"

	"bot-pedidos/internal/repo"
	"bot-pedidos/internal/session"
)

var orderStatusEmoji = map[string]string{
	repo.OrderStatusPending:    "⏳",
	repo.OrderStatusConfirmed:  "✅",
	repo.OrderStatusPreparing:  "👨‍🍳",
	repo.OrderStatusDelivering: "🚚",
	repo.OrderStatusDelivered:  "✅",
	repo.OrderStatusCancelled:  "❌",
}

var orderStatusSpanish = map[string]string{
	repo.OrderStatusPending:    "Pendiente",
	repo.OrderStatusConfirmed:  "Confirmado",
	repo.OrderStatusPreparing:  "En preparación",
	repo.OrderStatusDelivering: "En camino",
	repo.OrderStatusDelivered:  "Entregado",
	repo.OrderStatusCancelled:  "Cancelado",
}

func formatCartSummary(cart []session.CartItem, subtotal, deliveryFee float64) string {
	var b strings.Builder
	b.WriteString("🛒 *Resumen de tu pedido:*\n\n")
	for _, item := range cart {
		fmt.Fprintf(&b, "• %dx %s - %s\n", item.Quantity, item.Name, formatCurrency(item.Price*float64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\n💰 Subtotal: %s", formatCurrency(subtotal))
	fmt.Fprintf(&b, "\n🚚 Delivery: %s", formatCurrency(deliveryFee))
	fmt.Fprintf(&b, "\n*Total: %s*", formatCurrency(subtotal+deliveryFee))
	return b.String()
}

func formatOrderStatus(order *repo.Order) string {
	emoji, ok := orderStatusEmoji[order.Status]
	if !ok {
		emoji = "📦"
	}
	status, ok := orderStatusSpanish[order.Status]
	if !ok {
		status = order.Status
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *Estado de tu pedido*\n\n", emoji)
	fmt.Fprintf(&b, "🔖 Orden: *%s*\n", order.OrderRef)
	fmt.Fprintf(&b, "📊 Estado: *%s*\n", status)
	fmt.Fprintf(&b, "💰 Total: %s\n", formatCurrency(order.Total))
	fmt.Fprintf(&b, "📍 Dirección: %s\n", order.DeliveryAddress)
	return b.String()
}

func formatPaymentPrompt(methods []string) string {
	var b strings.Builder
	b.WriteString("✅ Dirección registrada\n\n")
	b.WriteString("💳 *Selecciona tu método de pago:*\n\n")
	for i, m := range methods {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m)
	}
	b.WriteString("\nResponde con el número de tu preferencia.")
	return b.String()
}

func formatHelp(businessName, phone, email string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ℹ️ *Ayuda - %s*\n\n", businessName)
	b.WriteString("*Comandos disponibles:*\n\n")
	b.WriteString("• *menu* - Ver nuestro menú completo\n")
	b.WriteString("• *pedido* - Iniciar un nuevo pedido\n")
	b.WriteString("• *horario* - Ver horarios de atención\n")
	b.WriteString("• *estado* - Consultar estado de tu pedido\n")
	b.WriteString("• *cancelar* - Cancelar pedido actual\n")
	b.WriteString("• *ayuda* - Mostrar esta ayuda\n")
	if phone != "" {
		fmt.Fprintf(&b, "\n📞 Contacto: %s", phone)
	}
	if email != "" {
		fmt.Fprintf(&b, "\n📧 Email: %s", email)
	}
	return b.String()
}

func formatClosed(businessName, hoursMessage, closedMessage string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola! Gracias por contactar a *%s* 🏪\n\n", businessName)
	b.WriteString(closedMessage)
	b.WriteString("\n\n")
	b.WriteString(hoursMessage)
	b.WriteString("\n¡Te esperamos pronto!")
	return b.String()
}
