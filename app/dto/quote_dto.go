package dto

// CreateQuoteRequest is submitted by the public quote form
type CreateQuoteRequest struct {
	TripType           string   `json:"tripType" validate:"required,oneof=one_way round_trip multi_leg"`
	Origin             string   `json:"origin" validate:"required,max=255"`
	Destination        string   `json:"destination" validate:"required,max=255"`
	DepartureDate      string   `json:"departureDate" validate:"required,datetime=2006-01-02"`
	ReturnDate         *string  `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Passengers         int      `json:"passengers" validate:"required,min=1,max=100"`
	ServiceType        string   `json:"serviceType" validate:"required,max=50"`
	AircraftCategory   *string  `json:"aircraftCategory,omitempty" validate:"omitempty,max=50"`
	AdditionalServices []string `json:"additionalServices,omitempty" validate:"omitempty,max=10,dive,oneof=catering ground_transport pet_travel extra_luggage wifi concierge"`
	FirstName          string   `json:"firstName" validate:"required,max=100"`
	LastName           string   `json:"lastName" validate:"required,max=100"`
	Email              string   `json:"email" validate:"required,email,max=255"`
	Phone              *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	ContactPreference  string   `json:"contactPreference" validate:"omitempty,oneof=email phone whatsapp"`
	Locale             string   `json:"locale" validate:"omitempty,oneof=en es fr"`
	Notes              *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// QuoteDTO is the API view of a quote request
type QuoteDTO struct {
	ID                 string   `json:"id"`
	TripType           string   `json:"tripType"`
	Origin             string   `json:"origin"`
	Destination        string   `json:"destination"`
	DepartureDate      string   `json:"departureDate"`
	ReturnDate         *string  `json:"returnDate,omitempty"`
	Passengers         int      `json:"passengers"`
	ServiceType        string   `json:"serviceType"`
	AircraftCategory   *string  `json:"aircraftCategory,omitempty"`
	AdditionalServices []string `json:"additionalServices"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	Email              string   `json:"email"`
	Phone              *string  `json:"phone,omitempty"`
	ContactPreference  string   `json:"contactPreference"`
	Locale             string   `json:"locale"`
	Notes              *string  `json:"notes,omitempty"`
	Status             string   `json:"status"`
	EstimatedPrice     *string  `json:"estimatedPrice,omitempty"`
	Currency           string   `json:"currency"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// CreateQuoteResponse is returned after a quote is stored
type CreateQuoteResponse struct {
	Message string   `json:"message"`
	Quote   QuoteDTO `json:"quote"`
}

// QuoteStatusResponse is returned by PATCH /quotes/:id/status
type QuoteStatusResponse struct {
	Message             string           `json:"message"`
	Quote               QuoteDTO         `json:"quote"`
	History             []StatusEventDTO `json:"history"`
	AllowedNextStatuses []string         `json:"allowedNextStatuses"`
}

// QuoteDetailResponse is returned by GET /quotes/:id
type QuoteDetailResponse struct {
	Quote               QuoteDTO           `json:"quote"`
	History             []StatusEventDTO   `json:"history"`
	AllowedNextStatuses []string           `json:"allowedNextStatuses"`
	Payments            []PaymentDTO       `json:"payments"`
	Emails              []EmailDeliveryDTO `json:"emails"`
}

// ListQuotesRequest filters the admin quote listing
type ListQuotesRequest struct {
	Status   *string `query:"status" validate:"omitempty,max=40"`
	Email    *string `query:"email" validate:"omitempty,max=255"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ListQuotesResponse is a page of quotes
type ListQuotesResponse struct {
	Items      []QuoteDTO     `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
