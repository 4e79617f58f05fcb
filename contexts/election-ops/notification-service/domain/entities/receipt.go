package entities

import "time"

// Receipt is per-user read/cleared state for one notification. Rows are
// created lazily on the first read or clear action; exactly one exists per
// (notification, user) pair. ClearedAt is terminal: once set, the
// notification never reappears for that user.
type Receipt struct {
	NotificationID string
	UserID         string
	ReadAt         *time.Time
	ClearedAt      *time.Time
}

func (r Receipt) Cleared() bool {
	return r.ClearedAt != nil
}

func (r Receipt) Read() bool {
	return r.ReadAt != nil
}
