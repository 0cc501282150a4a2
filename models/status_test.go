package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name       string
		entityType EntityType
		from       string
		to         string
		want       bool
	}{
		{"quote new to reviewing", EntityTypeQuote, "new_request", "reviewing", true},
		{"quote cannot skip reviewing", EntityTypeQuote, "new_request", "quote_sent", false},
		{"quote confirmed to payment pending", EntityTypeQuote, "confirmed", "payment_pending", true},
		{"quote paid to completed", EntityTypeQuote, "paid", "completed", true},
		{"quote cancel from any open state", EntityTypeQuote, "awaiting_confirmation", "cancelled", true},
		{"quote completed is terminal", EntityTypeQuote, "completed", "cancelled", false},
		{"quote cancelled is terminal", EntityTypeQuote, "cancelled", "reviewing", false},
		{"quote no self loop", EntityTypeQuote, "reviewing", "reviewing", false},
		{"contact pending to responded", EntityTypeContact, "pending", "responded", true},
		{"contact pending to converted", EntityTypeContact, "pending", "converted", true},
		{"contact responded back to pending", EntityTypeContact, "responded", "pending", false},
		{"contact closed is terminal", EntityTypeContact, "closed", "responded", false},
		{"payment pending to completed", EntityTypePayment, "pending", "completed", true},
		{"payment completed to refunded", EntityTypePayment, "completed", "refunded", true},
		{"payment refunded is terminal", EntityTypePayment, "refunded", "completed", false},
		{"unknown entity", EntityType("invoice"), "new_request", "reviewing", false},
		{"unknown status", EntityTypeQuote, "archived", "reviewing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.entityType, tt.from, tt.to))
		})
	}
}

func TestAllowedNextStatuses(t *testing.T) {
	t.Run("returns the table entry", func(t *testing.T) {
		assert.Equal(t, []string{"reviewing", "cancelled"}, AllowedNextStatuses(EntityTypeQuote, "new_request"))
		assert.Equal(t, []string{"closed", "converted"}, AllowedNextStatuses(EntityTypeContact, "responded"))
	})

	t.Run("terminal status yields empty, non-nil list", func(t *testing.T) {
		next := AllowedNextStatuses(EntityTypeQuote, "completed")
		assert.NotNil(t, next)
		assert.Empty(t, next)
	})

	t.Run("callers cannot mutate the table", func(t *testing.T) {
		next := AllowedNextStatuses(EntityTypeQuote, "new_request")
		next[0] = "paid"
		assert.False(t, CanTransition(EntityTypeQuote, "new_request", "paid"))
	})
}

func TestStatusHelpers(t *testing.T) {
	assert.Equal(t, "new_request", InitialStatus(EntityTypeQuote))
	assert.Equal(t, "pending", InitialStatus(EntityTypeContact))
	assert.Equal(t, "pending", InitialStatus(EntityTypePayment))

	assert.True(t, IsTerminalStatus(EntityTypeQuote, "cancelled"))
	assert.True(t, IsTerminalStatus(EntityTypePayment, "partially_refunded"))
	assert.False(t, IsTerminalStatus(EntityTypeContact, "pending"))

	assert.True(t, IsKnownStatus(EntityTypeQuote, "completed"))
	assert.False(t, IsKnownStatus(EntityTypeQuote, "responded"))

	assert.True(t, EntityTypePayment.IsValid())
	assert.False(t, EntityType("invoice").IsValid())
}

func TestEmailDeliveryAdvance(t *testing.T) {
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    EmailDeliveryStatus
		next    EmailDeliveryStatus
		applied bool
	}{
		{"sent to delivered", EmailDeliveryStatusSent, EmailDeliveryStatusDelivered, true},
		{"sent to bounced", EmailDeliveryStatusSent, EmailDeliveryStatusBounced, true},
		{"pending to failed", EmailDeliveryStatusPending, EmailDeliveryStatusFailed, true},
		{"delivered to complained", EmailDeliveryStatusDelivered, EmailDeliveryStatusComplained, true},
		{"delivered does not regress to sent", EmailDeliveryStatusDelivered, EmailDeliveryStatusSent, false},
		{"bounced is absorbing", EmailDeliveryStatusBounced, EmailDeliveryStatusDelivered, false},
		{"failed is absorbing", EmailDeliveryStatusFailed, EmailDeliveryStatusSent, false},
		{"complained is absorbing", EmailDeliveryStatusComplained, EmailDeliveryStatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &EmailDeliveryRecord{Status: tt.from}
			applied := record.Advance(tt.next, at)

			assert.Equal(t, tt.applied, applied)
			if tt.applied {
				assert.Equal(t, tt.next, record.Status)
				assert.Equal(t, at, record.UpdatedAt)
			} else {
				assert.Equal(t, tt.from, record.Status)
			}
		})
	}

	t.Run("sets the matching timestamp", func(t *testing.T) {
		record := &EmailDeliveryRecord{Status: EmailDeliveryStatusSent}
		assert.True(t, record.Advance(EmailDeliveryStatusBounced, at))
		assert.NotNil(t, record.BouncedAt)
		assert.Equal(t, at, *record.BouncedAt)
		assert.Nil(t, record.DeliveredAt)
		assert.True(t, record.IsTerminal())
	})
}

func TestPaymentRefundableAmount(t *testing.T) {
	p := &Payment{
		Amount:       decimal.RequireFromString("12500.00"),
		RefundAmount: decimal.RequireFromString("2500.50"),
	}
	assert.True(t, decimal.RequireFromString("9999.50").Equal(p.RefundableAmount()))
}
