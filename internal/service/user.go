package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/domain"
	"github.com/pdihub/pdihub/internal/models"
)

// UserStore is the data-access interface UserService depends on.
type UserStore interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error)
	DeactivateUser(ctx context.Context, id string) error
	CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, token string) error
}

// Compile-time check: *UserService must satisfy domain.UserService.
var _ domain.UserService = (*UserService)(nil)

// UserService wraps UserStore with role enforcement and audit logging.
// Every management operation requires the admin role.
type UserService struct {
	store       UserStore
	auditWorker AuditEnqueuer
	log         *logrus.Logger
}

// NewUserService creates a UserService.
func NewUserService(store UserStore, auditWorker AuditEnqueuer, log *logrus.Logger) *UserService {
	return &UserService{store: store, auditWorker: auditWorker, log: log}
}

// ListUsers returns all users. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor *models.Actor, includeInactive bool) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.store.ListUsers(ctx, includeInactive)
}

// GetUser returns a single user by ID. Admin only.
func (s *UserService) GetUser(ctx context.Context, actor *models.Actor, id string) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	return s.store.GetUser(ctx, id)
}

// CreateUser creates a new active user. Admin only.
func (s *UserService) CreateUser(ctx context.Context, actor *models.Actor, req models.CreateUserRequest) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	s.auditAsync(ctx, actor, models.ActionUserCreated, u.ID, map[string]any{
		"email": u.Email,
		"role":  u.Role,
	})

	return u, nil
}

// UpdateUser updates the provided fields on a user. Admin only.
func (s *UserService) UpdateUser(ctx context.Context, actor *models.Actor, id string, req models.UpdateUserRequest) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.auditAsync(ctx, actor, models.ActionUserUpdated, u.ID, map[string]any{
		"email": u.Email,
		"role":  u.Role,
	})

	return u, nil
}

// DeactivateUser soft-deletes a user and revokes their sessions. Admin only.
// An admin cannot deactivate their own account.
func (s *UserService) DeactivateUser(ctx context.Context, actor *models.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if actor.ID == id {
		return fmt.Errorf("%w: cannot deactivate own account", models.ErrForbidden)
	}

	if err := s.store.DeactivateUser(ctx, id); err != nil {
		return err
	}

	s.auditAsync(ctx, actor, models.ActionUserDeactivated, id, nil)

	return nil
}

// sessionTokenBytes is the entropy of an issued session token (hex-encoded).
const sessionTokenBytes = 32

// IssueSession creates a session for the user with the given email and
// returns the raw token. Used by the CLI token command; there is no password
// flow, tokens are provisioned out of band.
func (s *UserService) IssueSession(ctx context.Context, email string, ttl time.Duration) (string, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !u.IsActive {
		return "", fmt.Errorf("%w: user is deactivated", models.ErrForbidden)
	}

	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	token := hex.EncodeToString(buf)

	if err := s.store.CreateSession(ctx, token, u.ID, time.Now().Add(ttl)); err != nil {
		return "", err
	}

	return token, nil
}

// RevokeSession invalidates the presented session token (logout).
func (s *UserService) RevokeSession(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// requireAdmin maps a missing actor to an authentication error and a
// non-admin actor to a forbidden error.
func requireAdmin(actor *models.Actor) error {
	if actor == nil {
		return models.ErrNotAuthenticated
	}

	if !actor.IsAdmin() {
		return models.ErrForbidden
	}

	return nil
}

// auditAsync enqueues an audit entry via the AuditWorker (best-effort, non-blocking).
func (s *UserService) auditAsync(ctx context.Context, actor *models.Actor, action, entityID string, detail map[string]any) {
	if s.auditWorker == nil {
		return
	}

	meta := MetaFromContext(ctx)
	s.auditWorker.Enqueue(&AuditJob{
		Action:     action,
		EntityType: "user",
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})
}
