package dto

// CreateContactRequest is submitted by the public contact form
type CreateContactRequest struct {
	Name              string  `json:"name" validate:"required,max=200"`
	Email             string  `json:"email" validate:"required,email,max=255"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Subject           string  `json:"subject" validate:"required,max=255"`
	Message           string  `json:"message" validate:"required,max=5000"`
	ContactPreference string  `json:"contactPreference" validate:"omitempty,oneof=email phone whatsapp"`
	Locale            string  `json:"locale" validate:"omitempty,oneof=en es fr"`
}

// ContactDTO is the API view of a contact inquiry
type ContactDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             *string `json:"phone,omitempty"`
	Subject           string  `json:"subject"`
	Message           string  `json:"message"`
	ContactPreference string  `json:"contactPreference"`
	Locale            string  `json:"locale"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// CreateContactResponse is returned after an inquiry is stored
type CreateContactResponse struct {
	Message string     `json:"message"`
	Contact ContactDTO `json:"contact"`
}

// ContactStatusResponse is returned by PATCH /contacts/:id/status
type ContactStatusResponse struct {
	Message             string           `json:"message"`
	Contact             ContactDTO       `json:"contact"`
	History             []StatusEventDTO `json:"history"`
	AllowedNextStatuses []string         `json:"allowedNextStatuses"`
}

// ListContactsRequest filters the admin contact listing
type ListContactsRequest struct {
	Status   *string `query:"status" validate:"omitempty,max=40"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ListContactsResponse is a page of contacts
type ListContactsResponse struct {
	Items      []ContactDTO   `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
