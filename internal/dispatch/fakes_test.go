package dispatch

import (
	"context"
	"time"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

type fakeTicketStore struct {
	insertFn     func(ctx context.Context, ticket models.Ticket) (models.Ticket, error)
	getFn        func(ctx context.Context, ticketID string) (models.Ticket, error)
	countDateFn  func(ctx context.Context, date string) (int, error)
	countByCtrFn func(ctx context.Context, date string) (map[string]int, error)
	depthFn      func(ctx context.Context, counterID string) (int, error)
	listFn       func(ctx context.Context, filter store.TicketFilter) ([]models.Ticket, int, error)
	updateCtrFn  func(ctx context.Context, ticketID, counterID string) (models.Ticket, error)
	dequeueFn    func(ctx context.Context, counterID string, completedAt time.Time) (models.ArchivedTicket, *models.Ticket, error)
	archiveFn    func(ctx context.Context, cutoff string, completedAt time.Time) (int, error)
	listArchFn   func(ctx context.Context, filter store.TicketFilter) ([]models.ArchivedTicket, int, error)
}

func (f fakeTicketStore) InsertTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	if f.insertFn == nil {
		return ticket, nil
	}
	return f.insertFn(ctx, ticket)
}

func (f fakeTicketStore) GetTicket(ctx context.Context, ticketID string) (models.Ticket, error) {
	if f.getFn == nil {
		return models.Ticket{}, store.ErrTicketNotFound
	}
	return f.getFn(ctx, ticketID)
}

func (f fakeTicketStore) CountTicketsForDate(ctx context.Context, date string) (int, error) {
	if f.countDateFn == nil {
		return 0, nil
	}
	return f.countDateFn(ctx, date)
}

func (f fakeTicketStore) CountByCounter(ctx context.Context, date string) (map[string]int, error) {
	if f.countByCtrFn == nil {
		return map[string]int{}, nil
	}
	return f.countByCtrFn(ctx, date)
}

func (f fakeTicketStore) CountQueueDepth(ctx context.Context, counterID string) (int, error) {
	if f.depthFn == nil {
		return 0, nil
	}
	return f.depthFn(ctx, counterID)
}

func (f fakeTicketStore) ListTickets(ctx context.Context, filter store.TicketFilter) ([]models.Ticket, int, error) {
	if f.listFn == nil {
		return nil, 0, nil
	}
	return f.listFn(ctx, filter)
}

func (f fakeTicketStore) UpdateTicketCounter(ctx context.Context, ticketID, counterID string) (models.Ticket, error) {
	if f.updateCtrFn == nil {
		return models.Ticket{}, store.ErrTicketNotFound
	}
	return f.updateCtrFn(ctx, ticketID, counterID)
}

func (f fakeTicketStore) DequeueOldest(ctx context.Context, counterID string, completedAt time.Time) (models.ArchivedTicket, *models.Ticket, error) {
	if f.dequeueFn == nil {
		return models.ArchivedTicket{}, nil, store.ErrQueueEmpty
	}
	return f.dequeueFn(ctx, counterID, completedAt)
}

func (f fakeTicketStore) ArchiveBefore(ctx context.Context, cutoff string, completedAt time.Time) (int, error) {
	if f.archiveFn == nil {
		return 0, nil
	}
	return f.archiveFn(ctx, cutoff, completedAt)
}

func (f fakeTicketStore) ListArchived(ctx context.Context, filter store.TicketFilter) ([]models.ArchivedTicket, int, error) {
	if f.listArchFn == nil {
		return nil, 0, nil
	}
	return f.listArchFn(ctx, filter)
}

type fakeCounterStore struct {
	listFn   func(ctx context.Context) ([]models.Counter, error)
	getFn    func(ctx context.Context, counterID string) (models.Counter, error)
	touchFn  func(ctx context.Context, counterID string, at time.Time) error
	createFn func(ctx context.Context, input store.CreateCounterInput) (models.Counter, error)
}

func (f fakeCounterStore) ListCounters(ctx context.Context) ([]models.Counter, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f fakeCounterStore) GetCounter(ctx context.Context, counterID string) (models.Counter, error) {
	if f.getFn == nil {
		return models.Counter{}, store.ErrCounterNotFound
	}
	return f.getFn(ctx, counterID)
}

func (f fakeCounterStore) CreateCounter(ctx context.Context, input store.CreateCounterInput) (models.Counter, error) {
	if f.createFn == nil {
		return models.Counter{}, nil
	}
	return f.createFn(ctx, input)
}

func (f fakeCounterStore) UpdateCounterServices(ctx context.Context, counterID string, services []string) (models.Counter, error) {
	return models.Counter{}, store.ErrCounterNotFound
}

func (f fakeCounterStore) DeleteCounter(ctx context.Context, counterID string) (models.Counter, error) {
	return models.Counter{}, store.ErrCounterNotFound
}

func (f fakeCounterStore) TouchLastAssigned(ctx context.Context, counterID string, at time.Time) error {
	if f.touchFn == nil {
		return nil
	}
	return f.touchFn(ctx, counterID, at)
}

type fakeDeviceStore struct {
	getFn    func(ctx context.Context, deviceKey string) (models.ButtonDevice, error)
	onlineFn func(ctx context.Context, counterIDs []string) (map[string]bool, error)
}

func (f fakeDeviceStore) UpsertHeartbeat(ctx context.Context, deviceKey string, at time.Time) (models.ButtonDevice, error) {
	return models.ButtonDevice{DeviceKey: deviceKey}, nil
}

func (f fakeDeviceStore) GetDevice(ctx context.Context, deviceKey string) (models.ButtonDevice, error) {
	if f.getFn == nil {
		return models.ButtonDevice{}, store.ErrDeviceNotFound
	}
	return f.getFn(ctx, deviceKey)
}

func (f fakeDeviceStore) ListDevices(ctx context.Context, limit int) ([]models.ButtonDevice, error) {
	return nil, nil
}

func (f fakeDeviceStore) UpdateDevice(ctx context.Context, deviceKey string, input store.UpdateDeviceInput) (models.ButtonDevice, error) {
	return models.ButtonDevice{}, store.ErrDeviceNotFound
}

func (f fakeDeviceStore) OnlineCounters(ctx context.Context, counterIDs []string) (map[string]bool, error) {
	if f.onlineFn == nil {
		return map[string]bool{}, nil
	}
	return f.onlineFn(ctx, counterIDs)
}

type fakeCatalogStore struct {
	listFn func(ctx context.Context) ([]models.Service, error)
}

func (f fakeCatalogStore) ListServices(ctx context.Context) ([]models.Service, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f fakeCatalogStore) CreateService(ctx context.Context, displayName, priority string, avgMinutes float64) (models.Service, error) {
	return models.Service{}, nil
}

func (f fakeCatalogStore) UpdateService(ctx context.Context, code string, input store.UpdateServiceInput) (models.Service, error) {
	return models.Service{}, store.ErrServiceNotFound
}

func (f fakeCatalogStore) DeleteService(ctx context.Context, code string) (models.Service, error) {
	return models.Service{}, store.ErrServiceNotFound
}

type fakeCallStore struct {
	insertFn func(ctx context.Context, log models.CallLog) (models.CallLog, error)
}

func (f fakeCallStore) InsertCallLog(ctx context.Context, log models.CallLog) (models.CallLog, error) {
	if f.insertFn == nil {
		return log, nil
	}
	return f.insertFn(ctx, log)
}

func (f fakeCallStore) ListCallLogs(ctx context.Context, limit int) ([]models.CallLog, error) {
	return nil, nil
}

type fakeScheduleStore struct {
	schedule models.BankSchedule
	found    bool
	err      error
}

func (f fakeScheduleStore) GetSchedule(ctx context.Context) (models.BankSchedule, bool, error) {
	return f.schedule, f.found, f.err
}

func (f fakeScheduleStore) PutSchedule(ctx context.Context, s models.BankSchedule) (models.BankSchedule, error) {
	return s, nil
}
