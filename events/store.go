// The event store. Services depend on this interface so tests can swap in an
// in-memory double; the pgx implementation below is the production one.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/townhall-go/apperror"
)

// Store abstracts persistence of Event records. Id uniqueness under
// concurrent Create calls is delegated to the storage layer; concurrent
// SetPublished calls on the same id resolve last-write-wins.
type Store interface {
	// ListVisible returns events satisfying the derived-visibility
	// predicate at the given instant, ascending by start time. The caller
	// supplies `now` so the predicate is re-evaluated on every read.
	ListVisible(ctx context.Context, now time.Time) ([]Event, error)
	// Create inserts a new event and returns it with its assigned id.
	Create(ctx context.Context, e *Event) (*Event, error)
	// SetPublished updates the publish flag and returns the updated event.
	// Setting the current value again is a no-op, not an error. A missing
	// id surfaces as NotFound.
	SetPublished(ctx context.Context, id int, published bool) (*Event, error)
	// GetByID looks an event up by id.
	GetByID(ctx context.Context, id int) (*Event, error)
}

// PostgresStore is the pgx-backed Store.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore on the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const eventColumns = `id, title, description, location, starts_at, published, COALESCE(created_by, 0), created_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.Published, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) ListVisible(ctx context.Context, now time.Time) ([]Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events
              WHERE published AND starts_at >= $1
              ORDER BY starts_at ASC`, eventColumns)
	rows, err := s.db.Query(ctx, query, now)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list events", err)
	}
	defer rows.Close()

	var result []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan event", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list events", err)
	}
	return result, nil
}

func (s *PostgresStore) Create(ctx context.Context, e *Event) (*Event, error) {
	query := `INSERT INTO events (title, description, location, starts_at, published, created_by)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query,
		e.Title, e.Description, e.Location, e.StartsAt, e.Published, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create event", err)
	}
	return e, nil
}

func (s *PostgresStore) SetPublished(ctx context.Context, id int, published bool) (*Event, error) {
	query := fmt.Sprintf(`UPDATE events SET published = $2 WHERE id = $1 RETURNING %s`, eventColumns)
	e, err := scanEvent(s.db.QueryRow(ctx, query, id, published))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("event with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to update event", err)
	}
	return e, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int) (*Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("event with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get event", err)
	}
	return e, nil
}
