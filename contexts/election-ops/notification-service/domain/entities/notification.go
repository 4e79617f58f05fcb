package entities

import (
	"strings"
	"time"

	"electra/contexts/election-ops/eligibility"
)

// Audience partitions notifications between voter-facing and admin-facing
// feeds.
type Audience string

const (
	AudienceUser  Audience = "user"
	AudienceAdmin Audience = "admin"
)

// Notification is an immutable record of something that happened. Once
// persisted it is never mutated or deleted; clearing is per-recipient state
// on the receipt, not on the event.
type Notification struct {
	NotificationID string
	Type           string
	Title          string
	Message        string
	Audience       Audience
	Scope          eligibility.Scope
	ScopeState     string
	ScopeLGA       string
	SessionID      string
	Metadata       map[string]string
	CreatedAt      time.Time
}

// ValidateBasics requires the minimum payload a dispatch accepts.
func (n Notification) ValidateBasics() bool {
	return strings.TrimSpace(n.Type) != "" && strings.TrimSpace(n.Title) != ""
}
