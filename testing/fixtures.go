package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/amirphl/jetcharter/models"
	"github.com/amirphl/jetcharter/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestQuote creates a one-way quote departing next week in the given status
func (tf *TestFixtures) CreateTestQuote(status models.QuoteStatus) (*models.QuoteRequest, error) {
	suffix := fmt.Sprintf("%06d", rand.Intn(1000000))

	quote := &models.QuoteRequest{
		TripType:          models.TripTypeOneWay,
		Origin:            "Teterboro (TEB)",
		Destination:       "Palm Beach (PBI)",
		DepartureDate:     utils.UTCNow().Add(7 * 24 * time.Hour).Truncate(24 * time.Hour),
		Passengers:        4,
		ServiceType:       "light_jet",
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             fmt.Sprintf("jane.doe.%s@example.com", suffix),
		ContactPreference: "email",
		Locale:            "en",
		Status:            string(status),
		Currency:          "USD",
	}

	if err := tf.DB.DB.Create(quote).Error; err != nil {
		return nil, fmt.Errorf("failed to create test quote: %w", err)
	}
	return quote, nil
}

// CreateTestContact creates a pending contact inquiry
func (tf *TestFixtures) CreateTestContact() (*models.ContactForm, error) {
	suffix := fmt.Sprintf("%06d", rand.Intn(1000000))

	contact := &models.ContactForm{
		Name:              "John Smith",
		Email:             fmt.Sprintf("john.smith.%s@example.com", suffix),
		Subject:           "Empty leg availability",
		Message:           "Do you have empty legs from Nice next month?",
		ContactPreference: "email",
		Locale:            "en",
	}

	if err := tf.DB.DB.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contact: %w", err)
	}
	return contact, nil
}

// CreateTestPayment creates a payment for the quote in the given status
func (tf *TestFixtures) CreateTestPayment(quote *models.QuoteRequest, amount string, status models.PaymentStatus) (*models.Payment, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		QuoteRequestID: quote.ID,
		Amount:         value,
		Currency:       "USD",
		Method:         models.PaymentMethodWireTransfer,
		Status:         status,
	}

	if err := tf.DB.DB.Create(payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test payment: %w", err)
	}
	return payment, nil
}

// CreateTestStatusEvent appends a history event directly
func (tf *TestFixtures) CreateTestStatusEvent(entityType models.EntityType, entityID uuid.UUID, from, to string) (*models.StatusEvent, error) {
	event := &models.StatusEvent{
		EntityType: entityType,
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		ActorEmail: "ops@example.com",
	}

	if err := tf.DB.DB.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create test status event: %w", err)
	}
	return event, nil
}

// CreateTestDelivery creates a delivery record with a provider message id
func (tf *TestFixtures) CreateTestDelivery(providerMessageID string, status models.EmailDeliveryStatus) (*models.EmailDeliveryRecord, error) {
	record := &models.EmailDeliveryRecord{
		ProviderMessageID: utils.ToPtr(providerMessageID),
		Recipient:         "client@example.com",
		Subject:           "We received your charter request",
		Template:          "quote_acknowledgement",
		Status:            status,
	}
	if status == models.EmailDeliveryStatusSent {
		record.SentAt = utils.UTCNowPtr()
	}

	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test delivery: %w", err)
	}
	return record, nil
}

// CreateTestPageContent inserts content blocks for a page and locale
func (tf *TestFixtures) CreateTestPageContent(page, locale string, entries map[string]string) error {
	order := 0
	for key, value := range entries {
		row := &models.PageContent{
			Page:      page,
			Locale:    locale,
			Key:       key,
			Value:     value,
			SortOrder: order,
		}
		order++
		if err := tf.DB.DB.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create page content %s/%s/%s: %w", page, locale, key, err)
		}
	}
	return nil
}

// CreateTestFAQ inserts an active FAQ entry
func (tf *TestFixtures) CreateTestFAQ(locale, category, question, answer string, sortOrder int) (*models.FAQ, error) {
	faq := &models.FAQ{
		Locale:    locale,
		Category:  category,
		Question:  question,
		Answer:    answer,
		SortOrder: sortOrder,
	}

	if err := tf.DB.DB.Create(faq).Error; err != nil {
		return nil, fmt.Errorf("failed to create test faq: %w", err)
	}
	return faq, nil
}
