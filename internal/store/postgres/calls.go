package postgres

import (
	"context"

	"github.com/samanbandara/bank/internal/models"
)

func (s *Store) InsertCallLog(ctx context.Context, log models.CallLog) (models.CallLog, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO call_logs (call_id, date, phone, customer_id, service_code, token, scheduled_time, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING call_id, date, phone, customer_id, service_code, token, scheduled_time, created_at
	`, log.CallID, log.Date, log.Phone, log.CustomerID, log.ServiceCode, log.Token, log.ScheduledTime, log.CreatedAt)
	var saved models.CallLog
	if err := row.Scan(&saved.CallID, &saved.Date, &saved.Phone, &saved.CustomerID, &saved.ServiceCode, &saved.Token, &saved.ScheduledTime, &saved.CreatedAt); err != nil {
		return models.CallLog{}, err
	}
	return saved, nil
}

func (s *Store) ListCallLogs(ctx context.Context, limit int) ([]models.CallLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT call_id, date, phone, customer_id, service_code, token, scheduled_time, created_at
		FROM call_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.CallLog
	for rows.Next() {
		var log models.CallLog
		if err := rows.Scan(&log.CallID, &log.Date, &log.Phone, &log.CustomerID, &log.ServiceCode, &log.Token, &log.ScheduledTime, &log.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
