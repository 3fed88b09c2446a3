package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

const deviceColumns = "device_key, assigned_counter_id, online, last_heartbeat_at, updated_at"

// UpsertHeartbeat registers the device on first contact and refreshes its
// liveness on every subsequent one. The counter assignment survives
// heartbeats untouched.
func (s *Store) UpsertHeartbeat(ctx context.Context, deviceKey string, at time.Time) (models.ButtonDevice, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO button_devices (device_key, online, last_heartbeat_at, updated_at)
		VALUES ($1, TRUE, $2, $2)
		ON CONFLICT (device_key)
		DO UPDATE SET online = TRUE, last_heartbeat_at = $2, updated_at = $2
		RETURNING `+deviceColumns+`
	`, deviceKey, at)
	return scanDevice(row)
}

func (s *Store) GetDevice(ctx context.Context, deviceKey string) (models.ButtonDevice, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+deviceColumns+`
		FROM button_devices
		WHERE device_key = $1
	`, deviceKey)
	device, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ButtonDevice{}, store.ErrDeviceNotFound
		}
		return models.ButtonDevice{}, err
	}
	return device, nil
}

func (s *Store) ListDevices(ctx context.Context, limit int) ([]models.ButtonDevice, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+deviceColumns+`
		FROM button_devices
		ORDER BY device_key ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []models.ButtonDevice
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *Store) UpdateDevice(ctx context.Context, deviceKey string, input store.UpdateDeviceInput) (models.ButtonDevice, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE button_devices
		SET assigned_counter_id = COALESCE($2, assigned_counter_id),
			online = COALESCE($3, online),
			updated_at = now()
		WHERE device_key = $1
		RETURNING `+deviceColumns+`
	`, deviceKey, input.AssignedCounterID, input.Online)
	device, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ButtonDevice{}, store.ErrDeviceNotFound
		}
		return models.ButtonDevice{}, err
	}
	return device, nil
}

func (s *Store) OnlineCounters(ctx context.Context, counterIDs []string) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT assigned_counter_id
		FROM button_devices
		WHERE online = TRUE AND assigned_counter_id = ANY($1)
	`, counterIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	online := make(map[string]bool)
	for rows.Next() {
		var counterID string
		if err := rows.Scan(&counterID); err != nil {
			return nil, err
		}
		online[counterID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return online, nil
}

func scanDevice(row rowScanner) (models.ButtonDevice, error) {
	var device models.ButtonDevice
	var counterIDNull sql.NullString
	var heartbeatNull sql.NullTime
	if err := row.Scan(&device.DeviceKey, &counterIDNull, &device.Online, &heartbeatNull, &device.UpdatedAt); err != nil {
		return models.ButtonDevice{}, err
	}
	if counterIDNull.Valid {
		device.AssignedCounterID = counterIDNull.String
	}
	device.LastHeartbeatAt = nullTimePtr(heartbeatNull)
	return device, nil
}
