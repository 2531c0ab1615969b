package nlu

import (
	"regexp"

	"bot-pedidos/internal/util"
)

// Intent is the coarse category a message falls into. Classification only
// labels text; what to do with the label is the conversation engine's call.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentSupport     Intent = "support"
	IntentPlans       Intent = "plans"
	IntentBilling     Intent = "billing"
	IntentHours       Intent = "hours"
	IntentPayment     Intent = "payment"
	IntentHelp        Intent = "help"
	IntentThanks      Intent = "thanks"
	IntentFarewell    Intent = "farewell"
	IntentComplaint   Intent = "complaint"
	IntentAffirmative Intent = "affirmative"
	IntentNegative    Intent = "negative"
	IntentUnknown     Intent = "unknown"
)

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Rules are checked in order and the first match wins, so the more specific
// intents sit above the catch-all yes/no ones. Input is lowercased and
// accent-folded before matching, hence the unaccented patterns.
var intentRules = []intentRule{
	{IntentGreeting, compileAll(
		`\b(hola|buenos dias|buenas tardes|buenas noches|hey|hi|hello|saludos)\b`,
		`\b(que tal|como estas|como esta)\b`,
	)},
	{IntentSupport, compileAll(
		`\b(soporte|ayuda tecnica|problema tecnico|no funciona)\b`,
	)},
	{IntentPlans, compileAll(
		`\b(plan|planes|paquete|paquetes|promocion|promociones|combo|combos)\b`,
	)},
	{IntentBilling, compileAll(
		`\b(factura|recibo|cuenta|deuda|saldo|cobro)\b`,
	)},
	{IntentHours, compileAll(
		`\b(horario|horarios|abierto|cerrado|atienden|atencion)\b`,
		`\b(a que hora|hasta que hora)\b`,
	)},
	{IntentPayment, compileAll(
		`\b(pago|pagar|efectivo|tarjeta|transferencia)\b`,
		`\b(metodo.*pago|forma.*pago|como.*pagar)\b`,
	)},
	{IntentHelp, compileAll(
		`\b(ayuda|help|asistencia|informacion)\b`,
		`\b(como.*funciona|necesito.*ayuda)\b`,
	)},
	{IntentThanks, compileAll(
		`\b(gracias|thank|agradezco)\b`,
	)},
	{IntentFarewell, compileAll(
		`\b(adios|chao|hasta luego|nos vemos|bye)\b`,
	)},
	{IntentComplaint, compileAll(
		`\b(queja|reclamo|problema|malo|terrible|pesimo)\b`,
		`\b(no.*llego|nunca.*llego|demora)\b`,
	)},
	{IntentAffirmative, compileAll(
		`\b(si|yes|ok|okay|vale|dale|perfecto|claro|correcto|confirmar|confirmo|listo)\b`,
	)},
	{IntentNegative, compileAll(
		`\b(no|nop|nope|nunca|jamas|negativo|cancelar)\b`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Classify labels a message with the first matching intent, or unknown.
func Classify(text string) Intent {
	folded := util.Normalize(text)
	for _, rule := range intentRules {
		for _, re := range rule.patterns {
			if re.MatchString(folded) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}
