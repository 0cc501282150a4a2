package dto

// APIResponse represents the standard API response structure
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// AdminCredentials are carried in the body of every admin mutation. They are checked by the flow,
// so missing or malformed values surface as 401 rather than a validation error.
type AdminCredentials struct {
	AdminEmail string `json:"adminEmail" validate:"max=255"`
	AdminToken string `json:"adminToken" validate:"max=4096"`
}

// UpdateStatusRequest is the body of PATCH /quotes/:id/status and PATCH /contacts/:id/status
type UpdateStatusRequest struct {
	AdminCredentials
	Status    string  `json:"status" validate:"required,max=40"`
	AdminNote *string `json:"adminNote,omitempty" validate:"omitempty,max=2000"`

	// Populated from the route parameter
	EntityID string `json:"-"`
}

// StatusEventDTO is one entry of an entity's status history
type StatusEventDTO struct {
	ID         string  `json:"id"`
	EntityType string  `json:"entityType"`
	EntityID   string  `json:"entityId"`
	FromStatus string  `json:"fromStatus"`
	ToStatus   string  `json:"toStatus"`
	ActorEmail string  `json:"actorEmail"`
	Note       *string `json:"note,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// StatusHistoryResponse is returned by the history endpoints
type StatusHistoryResponse struct {
	EntityType          string           `json:"entityType"`
	EntityID            string           `json:"entityId"`
	CurrentStatus       string           `json:"currentStatus"`
	AllowedNextStatuses []string         `json:"allowedNextStatuses"`
	History             []StatusEventDTO `json:"history"`
}

// PaginationInfo describes a page of a listing
type PaginationInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}
