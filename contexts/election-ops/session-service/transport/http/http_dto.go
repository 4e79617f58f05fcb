package httptransport

import "time"

type CreateSessionRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	MinAge           int       `json:"min_age"`
	Scope            string    `json:"scope"`
	ScopeState       string    `json:"scope_state,omitempty"`
	ScopeLGA         string    `json:"scope_lga,omitempty"`
	RequireWhitelist bool      `json:"require_whitelist"`
}

type SessionResponse struct {
	SessionID           string     `json:"session_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             time.Time  `json:"end_time"`
	MinAge              int        `json:"min_age"`
	Scope               string     `json:"scope"`
	ScopeState          string     `json:"scope_state,omitempty"`
	ScopeLGA            string     `json:"scope_lga,omitempty"`
	RequireWhitelist    bool       `json:"require_whitelist"`
	ForcedEnded         bool       `json:"forced_ended"`
	ResultsPublished    bool       `json:"results_published"`
	ScheduledNotifiedAt *time.Time `json:"scheduled_notified_at,omitempty"`
	StartedNotifiedAt   *time.Time `json:"started_notified_at,omitempty"`
	EndedNotifiedAt     *time.Time `json:"ended_notified_at,omitempty"`
	ResultsNotifiedAt   *time.Time `json:"results_notified_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
}
