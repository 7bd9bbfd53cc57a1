package models

import "time"

// Contact-inquiry workflow states and priorities.
const (
	InquiryStatusNew        = "new"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusResolved   = "resolved"

	InquiryPriorityLow    = "low"
	InquiryPriorityMedium = "medium"
	InquiryPriorityHigh   = "high"

	InquiryTypeGeneral = "general"
)

type ContactInquiry struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Message     string     `json:"message"`
	InquiryType string     `json:"inquiry_type"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
