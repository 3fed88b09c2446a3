package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samanbandara/bank/internal/models"
)

// The weekly schedule is a singleton row at a fixed key.
const scheduleKey = 1

func (s *Store) GetSchedule(ctx context.Context) (models.BankSchedule, bool, error) {
	var schedule models.BankSchedule
	var daysJSON []byte
	row := s.pool.QueryRow(ctx, `
		SELECT days, timezone, updated_at
		FROM bank_schedule
		WHERE schedule_id = $1
	`, scheduleKey)
	if err := row.Scan(&daysJSON, &schedule.Timezone, &schedule.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BankSchedule{}, false, nil
		}
		return models.BankSchedule{}, false, err
	}
	if err := json.Unmarshal(daysJSON, &schedule.Days); err != nil {
		return models.BankSchedule{}, false, err
	}
	return schedule, true, nil
}

func (s *Store) PutSchedule(ctx context.Context, schedule models.BankSchedule) (models.BankSchedule, error) {
	daysJSON, err := json.Marshal(schedule.Days)
	if err != nil {
		return models.BankSchedule{}, err
	}
	schedule.UpdatedAt = time.Now().UTC()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO bank_schedule (schedule_id, days, timezone, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (schedule_id)
		DO UPDATE SET days = $2, timezone = $3, updated_at = $4
	`, scheduleKey, daysJSON, schedule.Timezone, schedule.UpdatedAt)
	if err != nil {
		return models.BankSchedule{}, err
	}
	return schedule, nil
}
