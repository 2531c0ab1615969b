package nlu

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"Hola, buenos días", IntentGreeting},
		{"¿Qué tal?", IntentGreeting},
		{"mi pedido no funciona", IntentSupport},
		{"¿tienen promociones?", IntentPlans},
		{"quiero ver mi factura", IntentBilling},
		{"¿a qué hora abren?", IntentHours},
		{"¿hasta qué hora atienden?", IntentHours},
		{"¿puedo pagar con tarjeta?", IntentPayment},
		{"necesito ayuda", IntentHelp},
		{"muchas gracias!", IntentThanks},
		{"adiós, hasta luego", IntentFarewell},
		{"tengo una queja, esto es terrible", IntentComplaint},
		{"sí, confirmo", IntentAffirmative},
		{"claro", IntentAffirmative},
		{"no, cancelar", IntentNegative},
		{"xyzzy", IntentUnknown},
		{"", IntentUnknown},
	}

	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestClassifyAccentInsensitive(t *testing.T) {
	if got := Classify("HOLA"); got != IntentGreeting {
		t.Errorf("uppercase greeting = %q", got)
	}
	if got := Classify("adios"); got != IntentFarewell {
		t.Errorf("unaccented farewell = %q", got)
	}
}

func TestExtractEntities(t *testing.T) {
	e := ExtractEntities("Llámame al +52 555 123 4567 o escribe a ana@example.com, son $45.50 por 3 tacos, ref TICKET-1234")

	if e.Phone == "" {
		t.Error("phone not extracted")
	}
	if e.Email != "ana@example.com" {
		t.Errorf("email = %q", e.Email)
	}
	if len(e.Amounts) == 0 {
		t.Error("amount not extracted")
	}
	if len(e.Numbers) == 0 {
		t.Error("numbers not extracted")
	}
	if e.TicketID == "" {
		t.Error("ticket id not extracted")
	}
}

func TestExtractEntitiesAddressHint(t *testing.T) {
	if e := ExtractEntities("vivo en Calle Morelos 42"); !e.HasAddress {
		t.Error("address hint missed")
	}
	if e := ExtractEntities("gracias"); e.HasAddress {
		t.Error("false address hint")
	}
}

func TestExtractAddress(t *testing.T) {
	if got := ExtractAddress("Avenida Reforma 123, depto 4"); got == "" {
		t.Error("keyword address rejected")
	}
	if got := ExtractAddress("Residencial Los Pinos manzana tres"); got == "" {
		t.Error("long text without keyword rejected")
	}
	if got := ExtractAddress("aquí"); got != "" {
		t.Errorf("short text accepted as address: %q", got)
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	neutral := AnalyzeSentiment("quiero dos tacos por favor")
	if neutral.IsNegative || neutral.IsFrustrated || neutral.NeedsHuman {
		t.Errorf("neutral message flagged: %+v", neutral)
	}

	frustrated := AnalyzeSentiment("esto es una estafa, quiero mi reclamo ya")
	if !frustrated.IsFrustrated {
		t.Error("frustration words not detected")
	}
	if !frustrated.NeedsHuman {
		t.Error("escalation not triggered")
	}

	shouting := AnalyzeSentiment("DONDE ESTA MI PEDIDO AYUDA")
	if !shouting.IsFrustrated {
		t.Error("shouting not detected")
	}
}

func TestEmpatheticPrefix(t *testing.T) {
	if got := EmpatheticPrefix(Sentiment{}); got != "" {
		t.Errorf("neutral prefix = %q", got)
	}
	if got := EmpatheticPrefix(Sentiment{IsNegative: true}); got == "" {
		t.Error("negative prefix empty")
	}
	if got := EmpatheticPrefix(Sentiment{IsFrustrated: true, NeedsHuman: true}); got == "" {
		t.Error("escalation prefix empty")
	}
}

func TestExtractNickname(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"hola soy Carlos", "Carlos"},
		{"me llamo María", "María"},
		{"mi nombre es pedro", "Pedro"},
		{"buenas, Juan", "Juan"},
		{"soy el cliente", ""},
		{"quiero tacos", ""},
	}
	for _, tc := range cases {
		if got := ExtractNickname(tc.text); got != tc.want {
			t.Errorf("ExtractNickname(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
