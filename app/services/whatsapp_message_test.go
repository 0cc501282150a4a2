package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	b := NewWhatsAppMessageBuilder("+1 (305) 555-0100")

	tests := []struct {
		name     string
		input    WhatsAppMessageInput
		contains []string
		absent   []string
	}{
		{
			name:     "general english",
			input:    WhatsAppMessageInput{Type: WhatsAppTypeGeneral, Locale: "en"},
			contains: []string{"private jet charter services"},
		},
		{
			name: "quote with return and services",
			input: WhatsAppMessageInput{
				Type: WhatsAppTypeQuote, Locale: "en",
				Origin: "Miami (OPF)", Destination: "Aspen & Vail", DepartureDate: "2026-12-20", ReturnDate: "2026-12-27",
				Passengers: 6, ServiceType: "heavy_jet", AdditionalServices: []string{"catering", "pet_travel", "catering"},
				Name: "Dana Reyes",
			},
			contains: []string{"Route: Miami (OPF) → Aspen & Vail", "Return: 2026-12-27", "Passengers: 6", "Additional services: Catering, Pet travel", "Name: Dana Reyes"},
		},
		{
			name: "quote without return omits the line",
			input: WhatsAppMessageInput{
				Type: WhatsAppTypeQuote, Locale: "en", Origin: "TEB", Destination: "LTN", DepartureDate: "2026-11-02", Passengers: 2, ServiceType: "midsize_jet",
			},
			absent: []string{"Return:", "Additional services", "{"},
		},
		{
			name: "quote spanish translates services",
			input: WhatsAppMessageInput{
				Type: WhatsAppTypeQuote, Locale: "es", Origin: "Madrid", Destination: "Ibiza", DepartureDate: "2026-07-01", Passengers: 4,
				ServiceType: "light_jet", AdditionalServices: []string{"ground_transport"},
			},
			contains: []string{"Ruta: Madrid → Ibiza", "Servicios adicionales: Transporte terrestre"},
		},
		{
			name:     "contact french",
			input:    WhatsAppMessageInput{Type: WhatsAppTypeContact, Locale: "fr", Name: "Jean", Subject: "Devis", Message: "Paris-Nice demain", Phone: "+33 6 12 34 56 78"},
			contains: []string{"Je m'appelle Jean", "Objet : Devis", "Paris-Nice demain", "Téléphone : +33 6 12 34 56 78"},
			absent:   []string{"E-mail"},
		},
		{
			name:     "unknown locale falls back to english",
			input:    WhatsAppMessageInput{Type: WhatsAppTypeContact, Locale: "de", Name: "Uwe", Subject: "Hallo", Message: "Frage", Email: "uwe@example.com"},
			contains: []string{"My name is Uwe", "Email: uwe@example.com"},
		},
		{
			name:     "placeholders in user input are not expanded",
			input:    WhatsAppMessageInput{Type: WhatsAppTypeContact, Locale: "en", Name: "{subject}", Subject: "S", Message: "M"},
			contains: []string{"My name is {subject}."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := b.BuildMessage(tt.input)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, msg, s)
			}
		})
	}
}

func TestBuildMessageRejectsUnknownType(t *testing.T) {
	_, err := NewWhatsAppMessageBuilder("15550100").BuildMessage(WhatsAppMessageInput{Type: "fax"})
	assert.Error(t, err)
}

func TestBuildURL(t *testing.T) {
	b := NewWhatsAppMessageBuilder("+1 (305) 555-0100")
	link := b.BuildURL("Route: Miami → Aspen & Vail")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/13055550100?text="))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "Aspen%20%26%20Vail")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Route: Miami → Aspen & Vail", parsed.Query().Get("text"))
}

func TestTranslateAdditionalService(t *testing.T) {
	assert.Equal(t, "Conciergerie", TranslateAdditionalService("fr", "concierge"))
	assert.Equal(t, "Wi-Fi", TranslateAdditionalService("xx", "wifi"))
	assert.Equal(t, "helicopter_transfer", TranslateAdditionalService("en", "helicopter_transfer"))
	assert.ElementsMatch(t, []string{"en", "es", "fr"}, SupportedWhatsAppLocales())
}
