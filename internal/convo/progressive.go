package convo

import (
	"strings"

	"bot-pedidos/internal/util"
)

// Progressive answers shrink as the same question repeats: a full
// explanation the first time, a short version the second, a bare pointer
// after that.
var progressiveResponses = map[string]map[int]string{
	"hacer_pedido": {
		1: "Para hacer tu pedido:\n1. Escribe *menu* para ver los productos\n2. Escribe *pedido* para empezar\n3. Dime qué productos quieres\n4. Escribe *listo* cuando termines\n\nDespués te pediré tu dirección y método de pago.",
		2: "Escribe *pedido*, dime los productos y luego *listo*.",
		3: "Escribe *pedido* para empezar.",
	},
	"estado_pedido": {
		1: "Para consultar tu pedido:\n1. Escribe *estado*\n2. Te mostraré el estado actual, el total y la dirección de entrega\n\nTe avisamos automáticamente cuando tu pedido salga en camino.",
		2: "Escribe *estado* para ver tu pedido más reciente.",
		3: "Escribe *estado*.",
	},
	"envio": {
		1: "Hacemos entregas a domicilio. El costo de envío se suma al total de tu pedido y el tiempo estimado es de 30-45 minutos. Al hacer tu pedido te pediré la dirección completa con calle, número y referencias.",
		2: "Enviamos a domicilio en 30-45 minutos. El costo se suma al total.",
		3: "Sí, hay envío a domicilio.",
	},
	"cambiar_pedido": {
		1: "Para cambiar tu pedido actual:\n1. Escribe *cancelar* para descartarlo\n2. Escribe *pedido* para empezar uno nuevo\n\nSi tu pedido ya fue confirmado, contáctanos directamente.",
		2: "Escribe *cancelar* y luego *pedido* para empezar de nuevo.",
		3: "Escribe *cancelar* y después *pedido*.",
	},
}

type topicRule struct {
	topic    string
	keywords []string
}

// Rules are checked in order and the first match wins, so the more specific
// topics sit above the broad ones ("cambiar mi pedido" must not fall into
// the order-status topic via its "mi pedido" keyword).
var topicRules = []topicRule{
	{"cambiar_pedido", []string{"cambiar mi pedido", "modificar pedido", "cambiar la orden", "me equivoque"}},
	{"hacer_pedido", []string{"como pido", "como ordeno", "como hago un pedido", "quiero ordenar", "como compro"}},
	{"estado_pedido", []string{"donde esta mi pedido", "mi pedido", "cuanto falta", "ya va a llegar", "estado de mi orden"}},
	{"envio", []string{"envio", "envios", "delivery", "a domicilio", "reparto", "entregan"}},
}

// detectTopic maps a message to a progressive topic, or empty.
func detectTopic(text string) string {
	folded := util.Normalize(text)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.topic
			}
		}
	}
	return ""
}

// progressiveResponse picks the answer level for the nth repetition.
func progressiveResponse(topic string, count int) string {
	levels, ok := progressiveResponses[topic]
	if !ok {
		return ""
	}
	level := count
	if level > 3 {
		level = 3
	}
	if level < 1 {
		level = 1
	}
	return levels[level]
}
