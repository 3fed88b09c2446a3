package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

const userColumns = "user_id, username, role, password_hash, created_at"

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.StaffUser, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM staff_users
		WHERE username = $1
	`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.StaffUser{}, store.ErrUserNotFound
		}
		return models.StaffUser{}, err
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.StaffUser, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM staff_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.StaffUser
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, username, role, passwordHash string) (models.StaffUser, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO staff_users (user_id, username, role, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+userColumns+`
	`, uuid.NewString(), username, role, passwordHash, time.Now().UTC())
	return scanUser(row)
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) (models.StaffUser, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE staff_users
		SET password_hash = $2
		WHERE user_id = $1
		RETURNING `+userColumns+`
	`, userID, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.StaffUser{}, store.ErrUserNotFound
		}
		return models.StaffUser{}, err
	}
	return user, nil
}

// DeleteUserByRole removes the login identity for a username only when it
// carries the expected role, so deleting a counter can never take out an
// admin account with the same name.
func (s *Store) DeleteUserByRole(ctx context.Context, username, role string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM staff_users
		WHERE username = $1 AND role = $2
	`, username, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner) (models.StaffUser, error) {
	var user models.StaffUser
	if err := row.Scan(&user.UserID, &user.Username, &user.Role, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.StaffUser{}, err
	}
	return user, nil
}
