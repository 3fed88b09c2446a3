package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/samanbandara/bank/internal/dispatch"
	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/schedule"
	"github.com/samanbandara/bank/internal/store"
)

// fakeStore implements every store interface with overridable func fields,
// defaulting to empty results and not-found sentinels.
type fakeStore struct {
	listServicesFn  func(ctx context.Context) ([]models.Service, error)
	createServiceFn func(ctx context.Context, displayName, priority string, avgMinutes float64) (models.Service, error)
	updateServiceFn func(ctx context.Context, code string, input store.UpdateServiceInput) (models.Service, error)
	deleteServiceFn func(ctx context.Context, code string) (models.Service, error)

	listCountersFn   func(ctx context.Context) ([]models.Counter, error)
	getCounterFn     func(ctx context.Context, counterID string) (models.Counter, error)
	createCounterFn  func(ctx context.Context, input store.CreateCounterInput) (models.Counter, error)
	updateCounterFn  func(ctx context.Context, counterID string, services []string) (models.Counter, error)
	deleteCounterFn  func(ctx context.Context, counterID string) (models.Counter, error)
	touchAssignedFn  func(ctx context.Context, counterID string, at time.Time) error

	insertTicketFn  func(ctx context.Context, ticket models.Ticket) (models.Ticket, error)
	getTicketFn     func(ctx context.Context, ticketID string) (models.Ticket, error)
	countDateFn     func(ctx context.Context, date string) (int, error)
	countByCtrFn    func(ctx context.Context, date string) (map[string]int, error)
	depthFn         func(ctx context.Context, counterID string) (int, error)
	listTicketsFn   func(ctx context.Context, filter store.TicketFilter) ([]models.Ticket, int, error)
	updateTicketFn  func(ctx context.Context, ticketID, counterID string) (models.Ticket, error)
	dequeueFn       func(ctx context.Context, counterID string, completedAt time.Time) (models.ArchivedTicket, *models.Ticket, error)
	archiveBeforeFn func(ctx context.Context, cutoff string, completedAt time.Time) (int, error)
	listArchivedFn  func(ctx context.Context, filter store.TicketFilter) ([]models.ArchivedTicket, int, error)

	upsertHeartbeatFn func(ctx context.Context, deviceKey string, at time.Time) (models.ButtonDevice, error)
	getDeviceFn       func(ctx context.Context, deviceKey string) (models.ButtonDevice, error)
	listDevicesFn     func(ctx context.Context, limit int) ([]models.ButtonDevice, error)
	updateDeviceFn    func(ctx context.Context, deviceKey string, input store.UpdateDeviceInput) (models.ButtonDevice, error)
	onlineCountersFn  func(ctx context.Context, counterIDs []string) (map[string]bool, error)

	getScheduleFn func(ctx context.Context) (models.BankSchedule, bool, error)
	putScheduleFn func(ctx context.Context, schedule models.BankSchedule) (models.BankSchedule, error)

	insertCallFn func(ctx context.Context, log models.CallLog) (models.CallLog, error)
	listCallsFn  func(ctx context.Context, limit int) ([]models.CallLog, error)

	getUserFn        func(ctx context.Context, username string) (models.StaffUser, error)
	listUsersFn      func(ctx context.Context) ([]models.StaffUser, error)
	createUserFn     func(ctx context.Context, username, role, passwordHash string) (models.StaffUser, error)
	updatePasswordFn func(ctx context.Context, userID, passwordHash string) (models.StaffUser, error)
	deleteUserFn     func(ctx context.Context, username, role string) error
}

func (f *fakeStore) ListServices(ctx context.Context) ([]models.Service, error) {
	if f.listServicesFn == nil {
		return nil, nil
	}
	return f.listServicesFn(ctx)
}

func (f *fakeStore) CreateService(ctx context.Context, displayName, priority string, avgMinutes float64) (models.Service, error) {
	if f.createServiceFn == nil {
		return models.Service{Code: "sv01", DisplayName: displayName, Priority: priority, AvgHandlingMinutes: avgMinutes}, nil
	}
	return f.createServiceFn(ctx, displayName, priority, avgMinutes)
}

func (f *fakeStore) UpdateService(ctx context.Context, code string, input store.UpdateServiceInput) (models.Service, error) {
	if f.updateServiceFn == nil {
		return models.Service{}, store.ErrServiceNotFound
	}
	return f.updateServiceFn(ctx, code, input)
}

func (f *fakeStore) DeleteService(ctx context.Context, code string) (models.Service, error) {
	if f.deleteServiceFn == nil {
		return models.Service{}, store.ErrServiceNotFound
	}
	return f.deleteServiceFn(ctx, code)
}

func (f *fakeStore) ListCounters(ctx context.Context) ([]models.Counter, error) {
	if f.listCountersFn == nil {
		return nil, nil
	}
	return f.listCountersFn(ctx)
}

func (f *fakeStore) GetCounter(ctx context.Context, counterID string) (models.Counter, error) {
	if f.getCounterFn == nil {
		return models.Counter{}, store.ErrCounterNotFound
	}
	return f.getCounterFn(ctx, counterID)
}

func (f *fakeStore) CreateCounter(ctx context.Context, input store.CreateCounterInput) (models.Counter, error) {
	if f.createCounterFn == nil {
		id := input.CounterID
		if id == "" {
			id = "counter1"
		}
		return models.Counter{CounterID: id, DisplayName: input.DisplayName, SupportedServices: input.SupportedServices}, nil
	}
	return f.createCounterFn(ctx, input)
}

func (f *fakeStore) UpdateCounterServices(ctx context.Context, counterID string, services []string) (models.Counter, error) {
	if f.updateCounterFn == nil {
		return models.Counter{}, store.ErrCounterNotFound
	}
	return f.updateCounterFn(ctx, counterID, services)
}

func (f *fakeStore) DeleteCounter(ctx context.Context, counterID string) (models.Counter, error) {
	if f.deleteCounterFn == nil {
		return models.Counter{}, store.ErrCounterNotFound
	}
	return f.deleteCounterFn(ctx, counterID)
}

func (f *fakeStore) TouchLastAssigned(ctx context.Context, counterID string, at time.Time) error {
	if f.touchAssignedFn == nil {
		return nil
	}
	return f.touchAssignedFn(ctx, counterID, at)
}

func (f *fakeStore) InsertTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	if f.insertTicketFn == nil {
		return ticket, nil
	}
	return f.insertTicketFn(ctx, ticket)
}

func (f *fakeStore) GetTicket(ctx context.Context, ticketID string) (models.Ticket, error) {
	if f.getTicketFn == nil {
		return models.Ticket{}, store.ErrTicketNotFound
	}
	return f.getTicketFn(ctx, ticketID)
}

func (f *fakeStore) CountTicketsForDate(ctx context.Context, date string) (int, error) {
	if f.countDateFn == nil {
		return 0, nil
	}
	return f.countDateFn(ctx, date)
}

func (f *fakeStore) CountByCounter(ctx context.Context, date string) (map[string]int, error) {
	if f.countByCtrFn == nil {
		return map[string]int{}, nil
	}
	return f.countByCtrFn(ctx, date)
}

func (f *fakeStore) CountQueueDepth(ctx context.Context, counterID string) (int, error) {
	if f.depthFn == nil {
		return 0, nil
	}
	return f.depthFn(ctx, counterID)
}

func (f *fakeStore) ListTickets(ctx context.Context, filter store.TicketFilter) ([]models.Ticket, int, error) {
	if f.listTicketsFn == nil {
		return nil, 0, nil
	}
	return f.listTicketsFn(ctx, filter)
}

func (f *fakeStore) UpdateTicketCounter(ctx context.Context, ticketID, counterID string) (models.Ticket, error) {
	if f.updateTicketFn == nil {
		return models.Ticket{}, store.ErrTicketNotFound
	}
	return f.updateTicketFn(ctx, ticketID, counterID)
}

func (f *fakeStore) DequeueOldest(ctx context.Context, counterID string, completedAt time.Time) (models.ArchivedTicket, *models.Ticket, error) {
	if f.dequeueFn == nil {
		return models.ArchivedTicket{}, nil, store.ErrQueueEmpty
	}
	return f.dequeueFn(ctx, counterID, completedAt)
}

func (f *fakeStore) ArchiveBefore(ctx context.Context, cutoff string, completedAt time.Time) (int, error) {
	if f.archiveBeforeFn == nil {
		return 0, nil
	}
	return f.archiveBeforeFn(ctx, cutoff, completedAt)
}

func (f *fakeStore) ListArchived(ctx context.Context, filter store.TicketFilter) ([]models.ArchivedTicket, int, error) {
	if f.listArchivedFn == nil {
		return nil, 0, nil
	}
	return f.listArchivedFn(ctx, filter)
}

func (f *fakeStore) UpsertHeartbeat(ctx context.Context, deviceKey string, at time.Time) (models.ButtonDevice, error) {
	if f.upsertHeartbeatFn == nil {
		hb := at
		return models.ButtonDevice{DeviceKey: deviceKey, Online: true, LastHeartbeatAt: &hb, UpdatedAt: at}, nil
	}
	return f.upsertHeartbeatFn(ctx, deviceKey, at)
}

func (f *fakeStore) GetDevice(ctx context.Context, deviceKey string) (models.ButtonDevice, error) {
	if f.getDeviceFn == nil {
		return models.ButtonDevice{}, store.ErrDeviceNotFound
	}
	return f.getDeviceFn(ctx, deviceKey)
}

func (f *fakeStore) ListDevices(ctx context.Context, limit int) ([]models.ButtonDevice, error) {
	if f.listDevicesFn == nil {
		return nil, nil
	}
	return f.listDevicesFn(ctx, limit)
}

func (f *fakeStore) UpdateDevice(ctx context.Context, deviceKey string, input store.UpdateDeviceInput) (models.ButtonDevice, error) {
	if f.updateDeviceFn == nil {
		return models.ButtonDevice{}, store.ErrDeviceNotFound
	}
	return f.updateDeviceFn(ctx, deviceKey, input)
}

func (f *fakeStore) OnlineCounters(ctx context.Context, counterIDs []string) (map[string]bool, error) {
	if f.onlineCountersFn == nil {
		return map[string]bool{}, nil
	}
	return f.onlineCountersFn(ctx, counterIDs)
}

func (f *fakeStore) GetSchedule(ctx context.Context) (models.BankSchedule, bool, error) {
	if f.getScheduleFn == nil {
		return models.BankSchedule{}, false, nil
	}
	return f.getScheduleFn(ctx)
}

func (f *fakeStore) PutSchedule(ctx context.Context, schedule models.BankSchedule) (models.BankSchedule, error) {
	if f.putScheduleFn == nil {
		return schedule, nil
	}
	return f.putScheduleFn(ctx, schedule)
}

func (f *fakeStore) InsertCallLog(ctx context.Context, log models.CallLog) (models.CallLog, error) {
	if f.insertCallFn == nil {
		return log, nil
	}
	return f.insertCallFn(ctx, log)
}

func (f *fakeStore) ListCallLogs(ctx context.Context, limit int) ([]models.CallLog, error) {
	if f.listCallsFn == nil {
		return nil, nil
	}
	return f.listCallsFn(ctx, limit)
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (models.StaffUser, error) {
	if f.getUserFn == nil {
		return models.StaffUser{}, store.ErrUserNotFound
	}
	return f.getUserFn(ctx, username)
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]models.StaffUser, error) {
	if f.listUsersFn == nil {
		return nil, nil
	}
	return f.listUsersFn(ctx)
}

func (f *fakeStore) CreateUser(ctx context.Context, username, role, passwordHash string) (models.StaffUser, error) {
	if f.createUserFn == nil {
		return models.StaffUser{UserID: "u-1", Username: username, Role: role, PasswordHash: passwordHash}, nil
	}
	return f.createUserFn(ctx, username, role, passwordHash)
}

func (f *fakeStore) UpdatePassword(ctx context.Context, userID, passwordHash string) (models.StaffUser, error) {
	if f.updatePasswordFn == nil {
		return models.StaffUser{}, store.ErrUserNotFound
	}
	return f.updatePasswordFn(ctx, userID, passwordHash)
}

func (f *fakeStore) DeleteUserByRole(ctx context.Context, username, role string) error {
	if f.deleteUserFn == nil {
		return nil
	}
	return f.deleteUserFn(ctx, username, role)
}

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

func newTestHandler(fs *fakeStore) *Handler {
	resolver := schedule.NewResolver(fs, zerolog.Nop())
	dispatcher := dispatch.New(fs, fs, fs, fs, fs, resolver, zerolog.Nop(), dispatch.Options{
		Now: func() time.Time { return testNow },
	})
	return New(dispatcher, fs, fs, fs, fs, fs, fs, fs, zerolog.Nop(), Options{
		Now: func() time.Time { return testNow },
	})
}

func doRequest(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return payload
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	payload := decodeBody(t, rec)
	errObj, ok := payload["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("no error object in %s", rec.Body.String())
	}
	message, _ := errObj["message"].(string)
	return message
}
