package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

const counterColumns = "counter_id, display_name, supported_services, last_assigned_at"

func (s *Store) ListCounters(ctx context.Context) ([]models.Counter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+counterColumns+`
		FROM counters
		ORDER BY counter_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counters []models.Counter
	for rows.Next() {
		counter, err := scanCounter(rows)
		if err != nil {
			return nil, err
		}
		counters = append(counters, counter)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counters, nil
}

func (s *Store) GetCounter(ctx context.Context, counterID string) (models.Counter, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+counterColumns+`
		FROM counters
		WHERE counter_id = $1
	`, counterID)
	counter, err := scanCounter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Counter{}, store.ErrCounterNotFound
		}
		return models.Counter{}, err
	}
	return counter, nil
}

func (s *Store) CreateCounter(ctx context.Context, input store.CreateCounterInput) (models.Counter, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Counter{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	counterID := input.CounterID
	if counterID == "" {
		var count int
		if err = tx.QueryRow(ctx, `SELECT COUNT(1) FROM counters`).Scan(&count); err != nil {
			return models.Counter{}, err
		}
		counterID = fmt.Sprintf("counter%d", count+1)
	}

	services := input.SupportedServices
	if services == nil {
		services = []string{}
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO counters (counter_id, display_name, supported_services)
		VALUES ($1,$2,$3)
		ON CONFLICT (counter_id) DO NOTHING
		RETURNING `+counterColumns+`
	`, counterID, input.DisplayName, services)
	counter, err := scanCounter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrCounterExists
		}
		return models.Counter{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Counter{}, err
	}
	return counter, nil
}

func (s *Store) UpdateCounterServices(ctx context.Context, counterID string, services []string) (models.Counter, error) {
	if services == nil {
		services = []string{}
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE counters
		SET supported_services = $2
		WHERE counter_id = $1
		RETURNING `+counterColumns+`
	`, counterID, services)
	counter, err := scanCounter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Counter{}, store.ErrCounterNotFound
		}
		return models.Counter{}, err
	}
	return counter, nil
}

func (s *Store) DeleteCounter(ctx context.Context, counterID string) (models.Counter, error) {
	row := s.pool.QueryRow(ctx, `
		DELETE FROM counters
		WHERE counter_id = $1
		RETURNING `+counterColumns+`
	`, counterID)
	counter, err := scanCounter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Counter{}, store.ErrCounterNotFound
		}
		return models.Counter{}, err
	}
	return counter, nil
}

func (s *Store) TouchLastAssigned(ctx context.Context, counterID string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE counters
		SET last_assigned_at = $2
		WHERE counter_id = $1
	`, counterID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrCounterNotFound
	}
	return nil
}

func scanCounter(row rowScanner) (models.Counter, error) {
	var counter models.Counter
	var lastAssignedNull sql.NullTime
	if err := row.Scan(&counter.CounterID, &counter.DisplayName, &counter.SupportedServices, &lastAssignedNull); err != nil {
		return models.Counter{}, err
	}
	counter.LastAssignedAt = nullTimePtr(lastAssignedNull)
	return counter, nil
}
