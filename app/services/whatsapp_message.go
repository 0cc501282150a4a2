package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// WhatsApp link types
const (
	WhatsAppTypeGeneral = "general"
	WhatsAppTypeQuote   = "quote"
	WhatsAppTypeContact = "contact"
)

// WhatsAppMessageInput carries the fields substituted into a message template
type WhatsAppMessageInput struct {
	Type               string
	Locale             string
	Origin             string
	Destination        string
	DepartureDate      string
	ReturnDate         string
	Passengers         int
	ServiceType        string
	AdditionalServices []string
	Name               string
	Email              string
	Phone              string
	Subject            string
	Message            string
}

type whatsappTemplates struct {
	general    string
	quote      string
	returnLine string
	services   string
	contact    string
	emailLine  string
	phoneLine  string
}

var whatsappTemplatesByLocale = map[string]whatsappTemplates{
	"en": {
		general:    "Hello! I'm interested in your private jet charter services. Could you help me?",
		quote:      "Hello! I'd like a quote for a private jet charter.\nRoute: {origin} → {destination}\nDeparture: {departure}{return}\nPassengers: {passengers}\nService: {service}{services}\nName: {name}",
		returnLine: "\nReturn: {return_date}",
		services:   "\nAdditional services: {list}",
		contact:    "Hello! My name is {name}.\nSubject: {subject}\n{message}{email}{phone}",
		emailLine:  "\nEmail: {value}",
		phoneLine:  "\nPhone: {value}",
	},
	"es": {
		general:    "¡Hola! Estoy interesado en sus servicios de vuelos privados. ¿Podrían ayudarme?",
		quote:      "¡Hola! Me gustaría una cotización para un vuelo privado.\nRuta: {origin} → {destination}\nSalida: {departure}{return}\nPasajeros: {passengers}\nServicio: {service}{services}\nNombre: {name}",
		returnLine: "\nRegreso: {return_date}",
		services:   "\nServicios adicionales: {list}",
		contact:    "¡Hola! Mi nombre es {name}.\nAsunto: {subject}\n{message}{email}{phone}",
		emailLine:  "\nCorreo: {value}",
		phoneLine:  "\nTeléfono: {value}",
	},
	"fr": {
		general:    "Bonjour ! Je suis intéressé par vos services de jet privé. Pouvez-vous m'aider ?",
		quote:      "Bonjour ! Je souhaite un devis pour un vol en jet privé.\nTrajet : {origin} → {destination}\nDépart : {departure}{return}\nPassagers : {passengers}\nService : {service}{services}\nNom : {name}",
		returnLine: "\nRetour : {return_date}",
		services:   "\nServices supplémentaires : {list}",
		contact:    "Bonjour ! Je m'appelle {name}.\nObjet : {subject}\n{message}{email}{phone}",
		emailLine:  "\nE-mail : {value}",
		phoneLine:  "\nTéléphone : {value}",
	},
}

var additionalServiceNames = map[string]map[string]string{
	"en": {
		"catering":         "Catering",
		"ground_transport": "Ground transport",
		"pet_travel":       "Pet travel",
		"extra_luggage":    "Extra luggage",
		"wifi":             "Wi-Fi",
		"concierge":        "Concierge",
	},
	"es": {
		"catering":         "Catering",
		"ground_transport": "Transporte terrestre",
		"pet_travel":       "Viaje con mascotas",
		"extra_luggage":    "Equipaje adicional",
		"wifi":             "Wi-Fi",
		"concierge":        "Conserjería",
	},
	"fr": {
		"catering":         "Restauration",
		"ground_transport": "Transport terrestre",
		"pet_travel":       "Voyage avec animaux",
		"extra_luggage":    "Bagages supplémentaires",
		"wifi":             "Wi-Fi",
		"concierge":        "Conciergerie",
	},
}

// SupportedWhatsAppLocales lists the locales with message templates
func SupportedWhatsAppLocales() []string {
	return lo.Keys(whatsappTemplatesByLocale)
}

// ResolveWhatsAppLocale returns locale when it has templates and the default locale otherwise
func ResolveWhatsAppLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if _, ok := whatsappTemplatesByLocale[locale]; ok {
		return locale
	}
	return "en"
}

// TranslateAdditionalService returns the localized name for a service code. Unknown codes are returned as given.
func TranslateAdditionalService(locale, code string) string {
	if name, ok := additionalServiceNames[ResolveWhatsAppLocale(locale)][code]; ok {
		return name
	}
	return code
}

// WhatsAppMessageBuilder renders localized messages and wa.me links for one business number
type WhatsAppMessageBuilder struct {
	phone string
}

// NewWhatsAppMessageBuilder creates a builder for the given business phone number
func NewWhatsAppMessageBuilder(phoneNumber string) *WhatsAppMessageBuilder {
	return &WhatsAppMessageBuilder{phone: normalizePhone(phoneNumber)}
}

// BuildMessage renders the template for the input's type and locale
func (b *WhatsAppMessageBuilder) BuildMessage(in WhatsAppMessageInput) (string, error) {
	locale := ResolveWhatsAppLocale(in.Locale)
	tpl := whatsappTemplatesByLocale[locale]

	switch in.Type {
	case WhatsAppTypeGeneral:
		if strings.TrimSpace(in.Message) != "" {
			return tpl.general + "\n" + strings.TrimSpace(in.Message), nil
		}
		return tpl.general, nil

	case WhatsAppTypeQuote:
		returnPart := ""
		if in.ReturnDate != "" {
			returnPart = strings.NewReplacer("{return_date}", in.ReturnDate).Replace(tpl.returnLine)
		}
		servicesPart := ""
		if len(in.AdditionalServices) > 0 {
			names := lo.Map(lo.Uniq(in.AdditionalServices), func(code string, _ int) string {
				return TranslateAdditionalService(locale, code)
			})
			servicesPart = strings.NewReplacer("{list}", strings.Join(names, ", ")).Replace(tpl.services)
		}
		return strings.NewReplacer(
			"{origin}", in.Origin,
			"{destination}", in.Destination,
			"{departure}", in.DepartureDate,
			"{return}", returnPart,
			"{passengers}", strconv.Itoa(in.Passengers),
			"{service}", in.ServiceType,
			"{services}", servicesPart,
			"{name}", in.Name,
		).Replace(tpl.quote), nil

	case WhatsAppTypeContact:
		emailPart, phonePart := "", ""
		if in.Email != "" {
			emailPart = strings.NewReplacer("{value}", in.Email).Replace(tpl.emailLine)
		}
		if in.Phone != "" {
			phonePart = strings.NewReplacer("{value}", in.Phone).Replace(tpl.phoneLine)
		}
		return strings.NewReplacer(
			"{name}", in.Name,
			"{subject}", in.Subject,
			"{message}", in.Message,
			"{email}", emailPart,
			"{phone}", phonePart,
		).Replace(tpl.contact), nil
	}

	return "", fmt.Errorf("unsupported whatsapp link type: %q", in.Type)
}

// BuildURL returns the wa.me deep link carrying the URL-encoded message
func (b *WhatsAppMessageBuilder) BuildURL(message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", b.phone, encoded)
}

func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
