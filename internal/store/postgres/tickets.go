package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

const ticketColumns = "ticket_id, customer_id, date, services, counter_id, token, channel, eta_time, created_at"

func (s *Store) InsertTicket(ctx context.Context, ticket models.Ticket) (models.Ticket, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tickets (ticket_id, customer_id, date, services, counter_id, token, channel, eta_time, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+ticketColumns+`
	`, ticket.TicketID, ticket.CustomerID, ticket.Date, ticket.Services, ticket.CounterID, ticket.Token, ticket.Channel, ticket.ETATime, ticket.CreatedAt)
	return scanTicket(row)
}

func (s *Store) GetTicket(ctx context.Context, ticketID string) (models.Ticket, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE ticket_id = $1
	`, ticketID)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, store.ErrTicketNotFound
		}
		return models.Ticket{}, err
	}
	return ticket, nil
}

func (s *Store) CountTicketsForDate(ctx context.Context, date string) (int, error) {
	var count int
	row := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM tickets WHERE date = $1`, date)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CountByCounter(ctx context.Context, date string) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT counter_id, COUNT(1)
		FROM tickets
		WHERE date = $1
		GROUP BY counter_id
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	load := make(map[string]int)
	for rows.Next() {
		var counterID string
		var count int
		if err := rows.Scan(&counterID, &count); err != nil {
			return nil, err
		}
		load[counterID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return load, nil
}

func (s *Store) CountQueueDepth(ctx context.Context, counterID string) (int, error) {
	var count int
	row := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM tickets WHERE counter_id = $1`, counterID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var ticketSortColumns = map[string]string{
	"created_at": "created_at",
	"token":      "token",
	"eta_time":   "eta_time",
	"date":       "date",
}

func (s *Store) ListTickets(ctx context.Context, filter store.TicketFilter) ([]models.Ticket, int, error) {
	where, args := ticketFilterClause(filter)

	var total int
	row := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM tickets`+where, args...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets` + where + orderClause(filter) + pageClause(filter, &args)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (s *Store) UpdateTicketCounter(ctx context.Context, ticketID, counterID string) (models.Ticket, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE tickets
		SET counter_id = $2
		WHERE ticket_id = $1
		RETURNING `+ticketColumns+`
	`, ticketID, counterID)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ticket{}, store.ErrTicketNotFound
		}
		return models.Ticket{}, err
	}
	return ticket, nil
}

// DequeueOldest pops the head of the counter's queue: the oldest active
// ticket is copied to the archive and deleted in one transaction, so a crash
// can never lose or double-serve a customer. The row lock serializes
// concurrent button presses on the same counter.
func (s *Store) DequeueOldest(ctx context.Context, counterID string, completedAt time.Time) (models.ArchivedTicket, *models.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.ArchivedTicket{}, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE counter_id = $1
		ORDER BY created_at ASC
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`, counterID)
	oldest, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrQueueEmpty
		}
		return models.ArchivedTicket{}, nil, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO archived_tickets (ticket_id, customer_id, date, services, counter_id, token, channel, eta_time, created_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, oldest.TicketID, oldest.CustomerID, oldest.Date, oldest.Services, oldest.CounterID, oldest.Token, oldest.Channel, oldest.ETATime, oldest.CreatedAt, completedAt); err != nil {
		return models.ArchivedTicket{}, nil, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM tickets WHERE ticket_id = $1`, oldest.TicketID); err != nil {
		return models.ArchivedTicket{}, nil, err
	}

	var next *models.Ticket
	row = tx.QueryRow(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE counter_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, counterID)
	head, err := scanTicket(row)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.ArchivedTicket{}, nil, err
		}
		err = nil
	} else {
		next = &head
	}

	if err = tx.Commit(ctx); err != nil {
		return models.ArchivedTicket{}, nil, err
	}
	return models.ArchivedTicket{Ticket: oldest, CompletedAt: completedAt}, next, nil
}

// ArchiveBefore bulk-moves every ticket dated strictly before cutoff into
// the archive. Dates are ISO strings, so lexical comparison is correct.
func (s *Store) ArchiveBefore(ctx context.Context, cutoff string, completedAt time.Time) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		INSERT INTO archived_tickets (ticket_id, customer_id, date, services, counter_id, token, channel, eta_time, created_at, completed_at)
		SELECT ticket_id, customer_id, date, services, counter_id, token, channel, eta_time, created_at, $2
		FROM tickets
		WHERE date < $1
	`, cutoff, completedAt)
	if err != nil {
		return 0, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM tickets WHERE date < $1`, cutoff); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) ListArchived(ctx context.Context, filter store.TicketFilter) ([]models.ArchivedTicket, int, error) {
	where, args := ticketFilterClause(filter)

	var total int
	row := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM archived_tickets`+where, args...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + ticketColumns + `, completed_at FROM archived_tickets` + where + orderClause(filter) + pageClause(filter, &args)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tickets []models.ArchivedTicket
	for rows.Next() {
		var ticket models.ArchivedTicket
		if err := rows.Scan(&ticket.TicketID, &ticket.CustomerID, &ticket.Date, &ticket.Services, &ticket.CounterID, &ticket.Token, &ticket.Channel, &ticket.ETATime, &ticket.CreatedAt, &ticket.CompletedAt); err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func ticketFilterClause(filter store.TicketFilter) (string, []interface{}) {
	where := ""
	var args []interface{}
	add := func(clause string, value interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.Date != "" {
		add("date = $%d", filter.Date)
	}
	if filter.CounterID != "" {
		add("counter_id = $%d", filter.CounterID)
	}
	if filter.Query != "" {
		add("(token ILIKE $%d OR customer_id ILIKE $%[1]d)", "%"+filter.Query+"%")
	}
	return where, args
}

func orderClause(filter store.TicketFilter) string {
	column, ok := ticketSortColumns[filter.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.Dir == "desc" {
		direction = "DESC"
	}
	return " ORDER BY " + column + " " + direction
}

func pageClause(filter store.TicketFilter, args *[]interface{}) string {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	*args = append(*args, limit)
	clause := fmt.Sprintf(" LIMIT $%d", len(*args))
	*args = append(*args, (page-1)*limit)
	clause += fmt.Sprintf(" OFFSET $%d", len(*args))
	return clause
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner) (models.Ticket, error) {
	var ticket models.Ticket
	if err := row.Scan(&ticket.TicketID, &ticket.CustomerID, &ticket.Date, &ticket.Services, &ticket.CounterID, &ticket.Token, &ticket.Channel, &ticket.ETATime, &ticket.CreatedAt); err != nil {
		return models.Ticket{}, err
	}
	return ticket, nil
}
