package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

const serviceColumns = "code, service_uid, display_name, priority, avg_handling_minutes, created_at"

func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var svc models.Service
		if err := rows.Scan(&svc.Code, &svc.ExternalID, &svc.DisplayName, &svc.Priority, &svc.AvgHandlingMinutes, &svc.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

// CreateService assigns the next sequential sv code from the current row
// count. Codes are never reused after deletion, so a delete can leave a gap
// that makes the next insert collide; the primary key rejects it.
func (s *Store) CreateService(ctx context.Context, displayName, priority string, avgMinutes float64) (models.Service, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Service{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var count int
	if err = tx.QueryRow(ctx, `SELECT COUNT(1) FROM services`).Scan(&count); err != nil {
		return models.Service{}, err
	}
	code := fmt.Sprintf("sv%02d", count+1)

	var svc models.Service
	row := tx.QueryRow(ctx, `
		INSERT INTO services (code, service_uid, display_name, priority, avg_handling_minutes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+serviceColumns+`
	`, code, uuid.NewString(), displayName, priority, avgMinutes, time.Now().UTC())
	if err = row.Scan(&svc.Code, &svc.ExternalID, &svc.DisplayName, &svc.Priority, &svc.AvgHandlingMinutes, &svc.CreatedAt); err != nil {
		return models.Service{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}

func (s *Store) UpdateService(ctx context.Context, code string, input store.UpdateServiceInput) (models.Service, error) {
	var svc models.Service
	row := s.pool.QueryRow(ctx, `
		UPDATE services
		SET display_name = COALESCE($2, display_name),
			priority = COALESCE($3, priority),
			avg_handling_minutes = COALESCE($4, avg_handling_minutes)
		WHERE code = $1
		RETURNING `+serviceColumns+`
	`, code, input.DisplayName, input.Priority, input.AvgMinutes)
	if err := row.Scan(&svc.Code, &svc.ExternalID, &svc.DisplayName, &svc.Priority, &svc.AvgHandlingMinutes, &svc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Service{}, store.ErrServiceNotFound
		}
		return models.Service{}, err
	}
	return svc, nil
}

func (s *Store) DeleteService(ctx context.Context, code string) (models.Service, error) {
	var svc models.Service
	row := s.pool.QueryRow(ctx, `
		DELETE FROM services
		WHERE code = $1
		RETURNING `+serviceColumns+`
	`, code)
	if err := row.Scan(&svc.Code, &svc.ExternalID, &svc.DisplayName, &svc.Priority, &svc.AvgHandlingMinutes, &svc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Service{}, store.ErrServiceNotFound
		}
		return models.Service{}, err
	}
	return svc, nil
}
