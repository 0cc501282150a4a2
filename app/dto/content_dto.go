package dto

// GetPageContentRequest is built from GET /content/:page/:locale
type GetPageContentRequest struct {
	Page   string  `validate:"required,max=100"`
	Locale string  `validate:"required,max=10"`
	Key    *string `validate:"omitempty,max=150"`
}

// ContentItem is one localized content entry
type ContentItem struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	SortOrder int    `json:"sortOrder"`
}

// PageContentResponse is the localized content of a page
type PageContentResponse struct {
	Page            string            `json:"page"`
	Locale          string            `json:"locale"`
	RequestedLocale string            `json:"requestedLocale"`
	FallbackUsed    bool              `json:"fallbackUsed"`
	Items           []ContentItem     `json:"items"`
	Content         map[string]string `json:"content"`
}

// GetFAQsRequest is built from GET /faqs/:locale and its query modifiers
type GetFAQsRequest struct {
	Locale   string  `validate:"required,max=10"`
	Category *string `validate:"omitempty,max=50"`
	Search   *string `validate:"omitempty,max=200"`
	Grouped  bool
	Stats    bool
	Limit    int `validate:"omitempty,min=1,max=200"`
}

// FAQItem is one localized question and answer
type FAQItem struct {
	ID        uint   `json:"id"`
	Category  string `json:"category"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SortOrder int    `json:"sortOrder"`
}

// FAQStats summarizes a FAQ result set
type FAQStats struct {
	Total      int            `json:"total"`
	Categories []string       `json:"categories"`
	ByCategory map[string]int `json:"byCategory"`
}

// FAQResponse is the localized FAQ list
type FAQResponse struct {
	Locale          string               `json:"locale"`
	RequestedLocale string               `json:"requestedLocale"`
	FallbackUsed    bool                 `json:"fallbackUsed"`
	FAQs            []FAQItem            `json:"faqs"`
	Groups          map[string][]FAQItem `json:"groups,omitempty"`
	Stats           *FAQStats            `json:"stats,omitempty"`
}
