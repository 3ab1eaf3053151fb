// The user store. Per the dependency-injection design, services depend on
// this interface rather than reaching a shared client, so tests can
// substitute a deterministic double.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/townhall-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

// UserStore abstracts persistence of User records.
type UserStore interface {
	// Create inserts a new user and returns it with its assigned id.
	// A duplicate email surfaces as a Conflict error; uniqueness is
	// ultimately enforced by the storage layer's constraint.
	Create(ctx context.Context, user *User) (*User, error)
	// GetByEmail looks a user up by email (matched case-insensitively).
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID looks a user up by id.
	GetByID(ctx context.Context, id int) (*User, error)
	// EmailExists reports whether an account already uses the email,
	// regardless of casing.
	EmailExists(ctx context.Context, email string) (bool, error)
}

// PostgresUserStore is the pgx-backed UserStore.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore on the given pool.
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (first_name, last_name, email, hashed_password, role)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query,
		user.FirstName, user.LastName, strings.ToLower(user.Email), user.HashedPassword, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "email") {
			return nil, apperror.NewConflictError("email already registered", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, first_name, last_name, email, hashed_password, role, created_at
              FROM users WHERE email = $1`
	var user User
	err := s.db.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.HashedPassword, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by email", err)
	}
	return &user, nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT id, first_name, last_name, email, hashed_password, role, created_at
              FROM users WHERE id = $1`
	var user User
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.HashedPassword, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by id", err)
	}
	return &user, nil
}

func (s *PostgresUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(email),
	).Scan(&exists)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check email existence", err)
	}
	return exists, nil
}
