package models

import (
	"slices"
)

// EntityType identifies which lifecycle a status event belongs to
type EntityType string

const (
	EntityTypeQuote   EntityType = "quote"
	EntityTypeContact EntityType = "contact"
	EntityTypePayment EntityType = "payment"
)

// IsValid reports whether the entity type has a transition table
func (e EntityType) IsValid() bool {
	_, ok := transitionTables[e]
	return ok
}

// QuoteStatus represents the lifecycle of a charter quote request
type QuoteStatus string

const (
	QuoteStatusNewRequest           QuoteStatus = "new_request"
	QuoteStatusReviewing            QuoteStatus = "reviewing"
	QuoteStatusQuoteSent            QuoteStatus = "quote_sent"
	QuoteStatusAwaitingConfirmation QuoteStatus = "awaiting_confirmation"
	QuoteStatusConfirmed            QuoteStatus = "confirmed"
	QuoteStatusPaymentPending       QuoteStatus = "payment_pending"
	QuoteStatusPaid                 QuoteStatus = "paid"
	QuoteStatusCompleted            QuoteStatus = "completed"
	QuoteStatusCancelled            QuoteStatus = "cancelled"
)

// ContactStatus represents the lifecycle of a general inquiry
type ContactStatus string

const (
	ContactStatusPending   ContactStatus = "pending"
	ContactStatusResponded ContactStatus = "responded"
	ContactStatusClosed    ContactStatus = "closed"
	ContactStatusConverted ContactStatus = "converted"
)

// PaymentStatus represents the lifecycle of a payment against a quote
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProcessing        PaymentStatus = "processing"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// transitionTables maps entity type -> current status -> legal next statuses.
// A status with no entry (or an empty list) is terminal.
var transitionTables = map[EntityType]map[string][]string{
	EntityTypeQuote: {
		string(QuoteStatusNewRequest):           {string(QuoteStatusReviewing), string(QuoteStatusCancelled)},
		string(QuoteStatusReviewing):            {string(QuoteStatusQuoteSent), string(QuoteStatusCancelled)},
		string(QuoteStatusQuoteSent):            {string(QuoteStatusAwaitingConfirmation), string(QuoteStatusCancelled)},
		string(QuoteStatusAwaitingConfirmation): {string(QuoteStatusConfirmed), string(QuoteStatusCancelled)},
		string(QuoteStatusConfirmed):            {string(QuoteStatusPaymentPending), string(QuoteStatusCancelled)},
		string(QuoteStatusPaymentPending):       {string(QuoteStatusPaid), string(QuoteStatusCancelled)},
		string(QuoteStatusPaid):                 {string(QuoteStatusCompleted), string(QuoteStatusCancelled)},
	},
	EntityTypeContact: {
		string(ContactStatusPending):   {string(ContactStatusResponded), string(ContactStatusClosed), string(ContactStatusConverted)},
		string(ContactStatusResponded): {string(ContactStatusClosed), string(ContactStatusConverted)},
	},
	EntityTypePayment: {
		string(PaymentStatusPending):    {string(PaymentStatusProcessing), string(PaymentStatusCompleted), string(PaymentStatusFailed)},
		string(PaymentStatusProcessing): {string(PaymentStatusCompleted), string(PaymentStatusFailed)},
		string(PaymentStatusCompleted):  {string(PaymentStatusRefunded), string(PaymentStatusPartiallyRefunded), string(PaymentStatusFailed)},
	},
}

var initialStatuses = map[EntityType]string{
	EntityTypeQuote:   string(QuoteStatusNewRequest),
	EntityTypeContact: string(ContactStatusPending),
	EntityTypePayment: string(PaymentStatusPending),
}

// knownStatuses lists every status name per entity, terminal ones included
var knownStatuses = map[EntityType][]string{
	EntityTypeQuote: {
		string(QuoteStatusNewRequest), string(QuoteStatusReviewing), string(QuoteStatusQuoteSent),
		string(QuoteStatusAwaitingConfirmation), string(QuoteStatusConfirmed), string(QuoteStatusPaymentPending),
		string(QuoteStatusPaid), string(QuoteStatusCompleted), string(QuoteStatusCancelled),
	},
	EntityTypeContact: {
		string(ContactStatusPending), string(ContactStatusResponded), string(ContactStatusClosed), string(ContactStatusConverted),
	},
	EntityTypePayment: {
		string(PaymentStatusPending), string(PaymentStatusProcessing), string(PaymentStatusCompleted),
		string(PaymentStatusFailed), string(PaymentStatusRefunded), string(PaymentStatusPartiallyRefunded),
	},
}

// InitialStatus returns the status an entity has before any recorded transition
func InitialStatus(entityType EntityType) string {
	return initialStatuses[entityType]
}

// AllowedNextStatuses returns a copy of the legal next statuses for the given status
func AllowedNextStatuses(entityType EntityType, current string) []string {
	next := transitionTables[entityType][current]
	if len(next) == 0 {
		return []string{}
	}
	return slices.Clone(next)
}

// CanTransition reports whether current -> requested is a legal edge
func CanTransition(entityType EntityType, current, requested string) bool {
	return slices.Contains(transitionTables[entityType][current], requested)
}

// IsTerminalStatus reports whether the status has no outgoing edges
func IsTerminalStatus(entityType EntityType, status string) bool {
	return len(transitionTables[entityType][status]) == 0
}

// IsKnownStatus reports whether the status name exists for the entity type
func IsKnownStatus(entityType EntityType, status string) bool {
	return slices.Contains(knownStatuses[entityType], status)
}

// KnownStatuses returns a copy of the status names for the entity type
func KnownStatuses(entityType EntityType) []string {
	return slices.Clone(knownStatuses[entityType])
}
