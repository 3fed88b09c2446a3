package models

import "time"

// Service is one entry in the branch service catalog. Code is assigned
// sequentially at creation (sv01, sv02, ...) and never changes afterwards.
type Service struct {
	Code               string    `json:"code"`
	ExternalID         string    `json:"external_id"`
	DisplayName        string    `json:"display_name"`
	Priority           string    `json:"priority"`
	AvgHandlingMinutes float64   `json:"avg_handling_minutes"`
	CreatedAt          time.Time `json:"created_at"`
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Counter is a staffed service point. LastAssignedAt is the fairness marker
// bumped every time the counter receives a new ticket.
type Counter struct {
	CounterID         string     `json:"counter_id"`
	DisplayName       string     `json:"display_name"`
	SupportedServices []string   `json:"supported_services"`
	LastAssignedAt    *time.Time `json:"last_assigned_at,omitempty"`
}

// ButtonDevice is a physical call button at a counter. Online is the stored
// flag set by heartbeats; readers additionally recompute liveness from
// LastHeartbeatAt, so the two views can disagree.
type ButtonDevice struct {
	DeviceKey         string     `json:"device_key"`
	AssignedCounterID string     `json:"assigned_counter_id,omitempty"`
	Online            bool       `json:"online"`
	LastHeartbeatAt   *time.Time `json:"last_heartbeat_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DayWindow is one weekday entry of the bank schedule, Monday=0..Sunday=6.
type DayWindow struct {
	DayIndex  int    `json:"day_index"`
	DayName   string `json:"day_name"`
	Open      bool   `json:"open"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type BankSchedule struct {
	Days      []DayWindow `json:"days"`
	Timezone  string      `json:"timezone"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Ticket struct {
	TicketID   string    `json:"ticket_id"`
	CustomerID string    `json:"customer_id"`
	Date       string    `json:"date"`
	Services   []string  `json:"services"`
	CounterID  string    `json:"counter_id"`
	Token      string    `json:"token"`
	Channel    string    `json:"channel"`
	ETATime    string    `json:"eta_time"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	ChannelWeb  = "web"
	ChannelCall = "call"
)

// ArchivedTicket is the append-only record left behind when a ticket is
// dequeued or bulk-archived.
type ArchivedTicket struct {
	Ticket
	CompletedAt time.Time `json:"completed_at"`
}

type CallLog struct {
	CallID        string    `json:"call_id"`
	Date          string    `json:"date"`
	Phone         string    `json:"phone"`
	CustomerID    string    `json:"customer_id"`
	ServiceCode   string    `json:"service_code"`
	Token         string    `json:"token"`
	ScheduledTime string    `json:"scheduled_time"`
	CreatedAt     time.Time `json:"created_at"`
}

type StaffUser struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleAdmin   = "admin"
	RoleCounter = "counter"
)
