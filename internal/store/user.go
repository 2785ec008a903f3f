package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pdihub/pdihub/internal/models"
)

// userColumns lists the columns selected for user queries.
const userColumns = "id, name, email, phone, role, is_active, created_at, updated_at"

// UserStore handles user CRUD and session-token identity resolution.
type UserStore struct {
	Base
}

// NewUserStore creates a new UserStore.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

// CreateUser inserts a new active user.
func (s *UserStore) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO users (name, email, phone, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	row := s.Pool.QueryRow(ctx, query,
		strings.TrimSpace(req.Name),
		models.NormalizeEmail(req.Email),
		strings.TrimSpace(req.Phone),
		req.Role,
	)

	u, err := scanUser(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created user: %w", err)
	}

	return u, nil
}

// GetUser fetches a single user by ID.
func (s *UserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)

	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		return nil, fmt.Errorf("scanning user: %w", err)
	}

	return u, nil
}

// GetUserByEmail fetches a single user by normalized email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", models.NormalizeEmail(email))

	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		return nil, fmt.Errorf("scanning user: %w", err)
	}

	return u, nil
}

// ListUsers returns users ordered by creation time. Deactivated users are
// included only when includeInactive is set.
func (s *UserStore) ListUsers(ctx context.Context, includeInactive bool) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := "SELECT " + userColumns + " FROM users"
	if !includeInactive {
		query += " WHERE is_active"
	}

	query += " ORDER BY created_at"

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User

	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}

		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

// UpdateUser updates the provided fields on a user and returns the result.
// Email is immutable: it is the ownership key for inspections.
func (s *UserStore) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	setClauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	argIdx := 1

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, strings.TrimSpace(*req.Name))
		argIdx++
	}

	if req.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, strings.TrimSpace(*req.Phone))
		argIdx++
	}

	if req.Role != nil {
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, *req.Role)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetUser(ctx, id)
	}

	query := fmt.Sprintf(
		"UPDATE users SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argIdx, userColumns,
	)
	args = append(args, id)

	row := s.Pool.QueryRow(ctx, query, args...)

	u, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning updated user: %w", err)
	}

	return u, nil
}

// DeactivateUser soft-deletes a user: the row is kept, sessions are revoked,
// and authentication stops resolving. Idempotent for already-inactive users.
func (s *UserStore) DeactivateUser(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx, "UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("executing user deactivate: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sessions WHERE user_id = $1", id); err != nil {
		return fmt.Errorf("revoking user sessions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing user deactivate: %w", err)
	}

	return nil
}

// CreateSession stores a session for the given user. Only the SHA-256 hash of
// the token is persisted.
func (s *UserStore) CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		"INSERT INTO sessions (token_hash, user_id, expires_at) VALUES ($1, $2, $3)",
		hashToken(token), userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return nil
}

// DeleteSession revokes a single session token.
func (s *UserStore) DeleteSession(ctx context.Context, token string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, "DELETE FROM sessions WHERE token_hash = $1", hashToken(token)); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}

// GetActorBySessionToken resolves a session token to the acting identity.
// Expired sessions and deactivated users do not resolve.
func (s *UserStore) GetActorBySessionToken(ctx context.Context, token string) (*models.Actor, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var actor models.Actor

	err := s.Pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > NOW() AND u.is_active`,
		hashToken(token),
	).Scan(&actor.ID, &actor.Email, &actor.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotAuthenticated
		}

		return nil, fmt.Errorf("looking up session: %w", err)
	}

	return &actor, nil
}

// hashToken returns the hex-encoded SHA-256 hash of a session token so raw
// tokens are never stored.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))

	return hex.EncodeToString(h[:])
}

// scanUser scans a single row into a models.User.
func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var u models.User

	err := scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}
