package businessflow

import (
	"fmt"
	"html"
	"strings"

	"github.com/amirphl/jetcharter/app/services"
	"github.com/amirphl/jetcharter/models"
)

var acknowledgementSubjects = map[string]map[string]string{
	EmailTemplateQuoteAcknowledgement: {
		"en": "We received your charter request",
		"es": "Hemos recibido su solicitud de vuelo privado",
		"fr": "Nous avons bien reçu votre demande de vol privé",
	},
	EmailTemplateContactAcknowledgement: {
		"en": "Thank you for contacting us",
		"es": "Gracias por contactarnos",
		"fr": "Merci de nous avoir contactés",
	},
}

var acknowledgementBodies = map[string]string{
	"en": "Hello %s,\n\nThank you for reaching out. A charter specialist will get back to you shortly.\n\nReference: %s",
	"es": "Hola %s,\n\nGracias por escribirnos. Un especialista en vuelos privados le responderá en breve.\n\nReferencia: %s",
	"fr": "Bonjour %s,\n\nMerci de nous avoir contactés. Un spécialiste de l'affrètement vous répondra rapidement.\n\nRéférence : %s",
}

func localized(m map[string]string, locale string) string {
	if v, ok := m[locale]; ok {
		return v
	}
	return m["en"]
}

func textToHTML(text string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>"
}

func quoteAcknowledgementEmail(q *models.QuoteRequest) services.EmailMessage {
	body := fmt.Sprintf(localized(acknowledgementBodies, q.Locale), q.FirstName, q.UUID.String())
	body += fmt.Sprintf("\n\n%s → %s, %s, %d pax", q.Origin, q.Destination, formatDate(q.DepartureDate), q.Passengers)
	return services.EmailMessage{
		To:      q.Email,
		Subject: localized(acknowledgementSubjects[EmailTemplateQuoteAcknowledgement], q.Locale),
		Text:    body,
		HTML:    textToHTML(body),
	}
}

func contactAcknowledgementEmail(c *models.ContactForm) services.EmailMessage {
	body := fmt.Sprintf(localized(acknowledgementBodies, c.Locale), c.Name, c.UUID.String())
	return services.EmailMessage{
		To:      c.Email,
		Subject: localized(acknowledgementSubjects[EmailTemplateContactAcknowledgement], c.Locale),
		Text:    body,
		HTML:    textToHTML(body),
	}
}

func operationsQuoteEmail(inbox string, q *models.QuoteRequest) services.EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "New quote request %s\n\n", q.UUID)
	fmt.Fprintf(&b, "Trip: %s %s → %s\n", q.TripType, q.Origin, q.Destination)
	fmt.Fprintf(&b, "Departure: %s\n", formatDate(q.DepartureDate))
	if q.ReturnDate != nil {
		fmt.Fprintf(&b, "Return: %s\n", formatDate(*q.ReturnDate))
	}
	fmt.Fprintf(&b, "Passengers: %d\nService: %s\n", q.Passengers, q.ServiceType)
	if len(q.AdditionalServices) > 0 {
		fmt.Fprintf(&b, "Additional services: %s\n", strings.Join(q.AdditionalServices, ", "))
	}
	fmt.Fprintf(&b, "Client: %s <%s>", q.FullName(), q.Email)
	if q.Phone != nil {
		fmt.Fprintf(&b, " %s", *q.Phone)
	}
	fmt.Fprintf(&b, "\nPrefers: %s, locale %s\n", q.ContactPreference, q.Locale)
	if q.Notes != nil {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", *q.Notes)
	}

	return services.EmailMessage{
		To:      inbox,
		Subject: fmt.Sprintf("[Quote] %s → %s for %s", q.Origin, q.Destination, q.FullName()),
		Text:    b.String(),
		HTML:    textToHTML(b.String()),
		ReplyTo: q.Email,
	}
}

func operationsContactEmail(inbox string, c *models.ContactForm) services.EmailMessage {
	text := fmt.Sprintf("New inquiry %s\n\nFrom: %s <%s>\nSubject: %s\nPrefers: %s, locale %s\n\n%s",
		c.UUID, c.Name, c.Email, c.Subject, c.ContactPreference, c.Locale, c.Message)
	return services.EmailMessage{
		To:      inbox,
		Subject: fmt.Sprintf("[Contact] %s", c.Subject),
		Text:    text,
		HTML:    textToHTML(text),
		ReplyTo: c.Email,
	}
}
