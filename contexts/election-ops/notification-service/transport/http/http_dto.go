package httptransport

import "time"

type NotificationResponse struct {
	NotificationID string            `json:"notification_id"`
	Type           string            `json:"type"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Audience       string            `json:"audience"`
	Scope          string            `json:"scope"`
	ScopeState     string            `json:"scope_state,omitempty"`
	ScopeLGA       string            `json:"scope_lga,omitempty"`
	SessionID      string            `json:"session_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Read           bool              `json:"read"`
	CreatedAt      time.Time         `json:"created_at"`
}

type InboxResponse struct {
	Items []NotificationResponse `json:"items"`
}

type BulkReceiptResponse struct {
	Applied int `json:"applied"`
}
