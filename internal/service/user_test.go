package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pdihub/pdihub/internal/models"
)

func TestUserServiceRequiresAdmin(t *testing.T) {
	store := &mockUserStore{}
	svc := NewUserService(store, &captureEnqueuer{}, testLogger())
	ctx := context.Background()

	ops := map[string]func(actor *models.Actor) error{
		"ListUsers": func(a *models.Actor) error {
			_, err := svc.ListUsers(ctx, a, false)
			return err
		},
		"GetUser": func(a *models.Actor) error {
			_, err := svc.GetUser(ctx, a, "u1")
			return err
		},
		"CreateUser": func(a *models.Actor) error {
			_, err := svc.CreateUser(ctx, a, models.CreateUserRequest{})
			return err
		},
		"UpdateUser": func(a *models.Actor) error {
			_, err := svc.UpdateUser(ctx, a, "u1", models.UpdateUserRequest{})
			return err
		},
		"DeactivateUser": func(a *models.Actor) error {
			return svc.DeactivateUser(ctx, a, "u1")
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(nil); !errors.Is(err, models.ErrNotAuthenticated) {
				t.Errorf("nil actor: got %v, want not authenticated", err)
			}
			if err := op(techActor); !errors.Is(err, models.ErrForbidden) {
				t.Errorf("technician: got %v, want forbidden", err)
			}
			if err := op(&models.Actor{ID: "m1", Email: "m@example.com", Role: models.RoleManager}); !errors.Is(err, models.ErrForbidden) {
				t.Errorf("manager: got %v, want forbidden", err)
			}
			if len(store.calls) != 0 {
				t.Errorf("store touched on rejected call: %v", store.calls)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	store := &mockUserStore{
		createUser: func(_ context.Context, req models.CreateUserRequest) (*models.User, error) {
			return &models.User{ID: "u2", Name: req.Name, Email: req.Email, Role: req.Role, IsActive: true}, nil
		},
	}
	audits := &captureEnqueuer{}
	svc := NewUserService(store, audits, testLogger())

	u, err := svc.CreateUser(context.Background(), adminActor, models.CreateUserRequest{
		Name: "Sam", Email: "sam@example.com", Phone: "555-0101", Role: models.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !u.IsActive {
		t.Error("new user must be active")
	}

	jobs := audits.captured()
	if len(jobs) != 1 || jobs[0].Action != models.ActionUserCreated {
		t.Errorf("expected one user.created audit job, got %+v", jobs)
	}

	// Invalid role never reaches the store.
	_, err = svc.CreateUser(context.Background(), adminActor, models.CreateUserRequest{
		Name: "Sam", Email: "sam@example.com", Phone: "555-0101", Role: "superuser",
	})
	if !errors.Is(err, models.ErrInvalidRole) {
		t.Fatalf("got %v, want invalid role", err)
	}
}

func TestDeactivateUser(t *testing.T) {
	t.Run("admin deactivates another user", func(t *testing.T) {
		store := &mockUserStore{
			deactivateUser: func(_ context.Context, _ string) error { return nil },
		}
		audits := &captureEnqueuer{}
		svc := NewUserService(store, audits, testLogger())

		if err := svc.DeactivateUser(context.Background(), adminActor, "u1"); err != nil {
			t.Fatalf("DeactivateUser: %v", err)
		}
		jobs := audits.captured()
		if len(jobs) != 1 || jobs[0].Action != models.ActionUserDeactivated {
			t.Errorf("expected one user.deactivated audit job, got %+v", jobs)
		}
	})

	t.Run("self-deactivation blocked", func(t *testing.T) {
		store := &mockUserStore{}
		svc := NewUserService(store, &captureEnqueuer{}, testLogger())

		err := svc.DeactivateUser(context.Background(), adminActor, adminActor.ID)
		if !errors.Is(err, models.ErrForbidden) {
			t.Fatalf("got %v, want forbidden", err)
		}
		if len(store.calls) != 0 {
			t.Errorf("store touched: %v", store.calls)
		}
	})
}

func TestIssueSession(t *testing.T) {
	t.Run("active user gets a token", func(t *testing.T) {
		var storedToken string
		store := &mockUserStore{
			getUserByEmail: func(_ context.Context, email string) (*models.User, error) {
				return &models.User{ID: "u1", Email: email, IsActive: true}, nil
			},
			createSession: func(_ context.Context, token, userID string, expiresAt time.Time) error {
				storedToken = token
				if userID != "u1" {
					t.Errorf("got user %q, want u1", userID)
				}
				if until := time.Until(expiresAt); until < 23*time.Hour || until > 25*time.Hour {
					t.Errorf("unexpected expiry %v", expiresAt)
				}
				return nil
			},
		}
		svc := NewUserService(store, &captureEnqueuer{}, testLogger())

		token, err := svc.IssueSession(context.Background(), "dana@example.com", 24*time.Hour)
		if err != nil {
			t.Fatalf("IssueSession: %v", err)
		}
		if len(token) != 64 {
			t.Errorf("got token length %d, want 64 hex chars", len(token))
		}
		if token != storedToken {
			t.Error("returned token differs from the stored one")
		}
	})

	t.Run("deactivated user refused", func(t *testing.T) {
		store := &mockUserStore{
			getUserByEmail: func(_ context.Context, email string) (*models.User, error) {
				return &models.User{ID: "u1", Email: email, IsActive: false}, nil
			},
		}
		svc := NewUserService(store, &captureEnqueuer{}, testLogger())

		_, err := svc.IssueSession(context.Background(), "gone@example.com", time.Hour)
		if !errors.Is(err, models.ErrForbidden) {
			t.Fatalf("got %v, want forbidden", err)
		}
	})
}

func TestAuditServiceQuery(t *testing.T) {
	store := &mockAuditQueryStore{
		queryAudit: func(_ context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
			if opts.Action != "inspection.deleted" {
				t.Errorf("got action filter %q", opts.Action)
			}
			return []models.AuditEntry{{ID: 1, Action: "inspection.deleted"}}, false, nil
		},
	}
	svc := NewAuditService(store, testLogger())

	if _, _, err := svc.QueryAudit(context.Background(), techActor, models.AuditQueryOpts{}); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("technician query: got %v, want forbidden", err)
	}

	entries, hasMore, err := svc.QueryAudit(context.Background(), adminActor, models.AuditQueryOpts{Action: "inspection.deleted"})
	if err != nil {
		t.Fatalf("QueryAudit: %v", err)
	}
	if len(entries) != 1 || hasMore {
		t.Errorf("got %d entries (has_more=%v)", len(entries), hasMore)
	}
}
