package events

import "time"

const RequestLifecycleTopic = "leave.request.lifecycle.v1"

const (
	EventRequestSubmitted = "request_submitted"
	EventRequestDecided   = "request_decided"
	EventRequestCancelled = "request_cancelled"
)

// AdminContact is embedded in submitted events so the notifier can reach
// every admin of the team without a lookup of its own.
type AdminContact struct {
	UserID     string `json:"user_id"`
	ExternalID string `json:"external_id,omitempty"`
	Handle     string `json:"handle"`
}

type RequestSubmittedEvent struct {
	EventType     string         `json:"event_type"`
	RequestID     string         `json:"request_id"`
	Number        int64          `json:"number"`
	TeamID        string         `json:"team_id"`
	UserID        string         `json:"user_id"`
	UserHandle    string         `json:"user_handle"`
	LeaveTypeID   string         `json:"leave_type_id"`
	LeaveTypeName string         `json:"leave_type_name"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	TotalDays     int            `json:"total_days"`
	Comment       string         `json:"comment,omitempty"`
	Admins        []AdminContact `json:"admins"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

type RequestDecidedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id"`
	Number       int64     `json:"number"`
	TeamID       string    `json:"team_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	AdminID      string    `json:"admin_id"`
	AdminComment string    `json:"admin_comment"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type RequestCancelledEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	Number     int64     `json:"number"`
	TeamID     string    `json:"team_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
