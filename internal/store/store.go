package store

import (
	"context"
	"time"

	"github.com/samanbandara/bank/internal/models"
)

// CatalogStore holds the service catalog.
type CatalogStore interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	CreateService(ctx context.Context, displayName, priority string, avgMinutes float64) (models.Service, error)
	UpdateService(ctx context.Context, code string, input UpdateServiceInput) (models.Service, error)
	DeleteService(ctx context.Context, code string) (models.Service, error)
}

type UpdateServiceInput struct {
	DisplayName *string
	Priority    *string
	AvgMinutes  *float64
}

// CounterStore holds the physical counters and their fairness markers.
type CounterStore interface {
	ListCounters(ctx context.Context) ([]models.Counter, error)
	GetCounter(ctx context.Context, counterID string) (models.Counter, error)
	CreateCounter(ctx context.Context, input CreateCounterInput) (models.Counter, error)
	UpdateCounterServices(ctx context.Context, counterID string, services []string) (models.Counter, error)
	DeleteCounter(ctx context.Context, counterID string) (models.Counter, error)
	// TouchLastAssigned bumps the fairness marker; callers treat failures as
	// non-fatal.
	TouchLastAssigned(ctx context.Context, counterID string, at time.Time) error
}

type CreateCounterInput struct {
	CounterID         string
	DisplayName       string
	SupportedServices []string
}

// TicketFilter drives the admin ticket listing.
type TicketFilter struct {
	Date      string
	CounterID string
	Query     string
	Sort      string
	Dir       string
	Page      int
	Limit     int
}

// TicketStore is the active-queue collection plus its archive.
type TicketStore interface {
	InsertTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (models.Ticket, error)
	// CountTicketsForDate backs token sequencing. It is a plain count query;
	// concurrent creation for the same date can observe the same count.
	CountTicketsForDate(ctx context.Context, date string) (int, error)
	CountByCounter(ctx context.Context, date string) (map[string]int, error)
	CountQueueDepth(ctx context.Context, counterID string) (int, error)
	ListTickets(ctx context.Context, filter TicketFilter) ([]models.Ticket, int, error)
	UpdateTicketCounter(ctx context.Context, ticketID, counterID string) (models.Ticket, error)
	// DequeueOldest archives and removes the oldest ticket for the counter
	// in one transaction and reports the new head, if any.
	DequeueOldest(ctx context.Context, counterID string, completedAt time.Time) (models.ArchivedTicket, *models.Ticket, error)
	ArchiveBefore(ctx context.Context, cutoff string, completedAt time.Time) (int, error)
	ListArchived(ctx context.Context, filter TicketFilter) ([]models.ArchivedTicket, int, error)
}

// DeviceStore tracks the physical call buttons.
type DeviceStore interface {
	UpsertHeartbeat(ctx context.Context, deviceKey string, at time.Time) (models.ButtonDevice, error)
	GetDevice(ctx context.Context, deviceKey string) (models.ButtonDevice, error)
	ListDevices(ctx context.Context, limit int) ([]models.ButtonDevice, error)
	UpdateDevice(ctx context.Context, deviceKey string, input UpdateDeviceInput) (models.ButtonDevice, error)
	// OnlineCounters reports which of the given counters have a button whose
	// stored online flag is set.
	OnlineCounters(ctx context.Context, counterIDs []string) (map[string]bool, error)
}

type UpdateDeviceInput struct {
	AssignedCounterID *string
	Online            *bool
}

// ScheduleStore holds the singleton weekly schedule at a fixed key.
type ScheduleStore interface {
	GetSchedule(ctx context.Context) (models.BankSchedule, bool, error)
	PutSchedule(ctx context.Context, schedule models.BankSchedule) (models.BankSchedule, error)
}

type CallStore interface {
	InsertCallLog(ctx context.Context, log models.CallLog) (models.CallLog, error)
	ListCallLogs(ctx context.Context, limit int) ([]models.CallLog, error)
}

// UserStore holds staff logins. Counter identities use the counter id as
// username with role "counter".
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (models.StaffUser, error)
	ListUsers(ctx context.Context) ([]models.StaffUser, error)
	CreateUser(ctx context.Context, username, role, passwordHash string) (models.StaffUser, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) (models.StaffUser, error)
	DeleteUserByRole(ctx context.Context, username, role string) error
}
