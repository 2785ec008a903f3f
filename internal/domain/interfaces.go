// Package domain defines the canonical service interfaces shared across the
// API layer and the Go client. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"
	"encoding/json"

	"github.com/pdihub/pdihub/internal/models"
)

// InspectionService defines all inspection operations. Every mutating
// operation takes the acting identity so ownership can be enforced.
type InspectionService interface {
	ListInspections(ctx context.Context, actor *models.Actor, opts models.ListInspectionOpts) ([]models.Inspection, bool, error)
	GetInspection(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error)
	CreateInspection(ctx context.Context, actor *models.Actor, req models.CreateInspectionRequest) (*models.Inspection, error)
	SaveSection(ctx context.Context, actor *models.Actor, id, section string, patch json.RawMessage) (*models.Inspection, error)
	Submit(ctx context.Context, actor *models.Actor, payload *models.Inspection) (*models.Inspection, error)
	CompleteInspection(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error)
	DeleteInspection(ctx context.Context, actor *models.Actor, id string) error
}

// UserService defines user management operations. All of them are admin-only;
// the role check lives in the service so every surface enforces it.
type UserService interface {
	ListUsers(ctx context.Context, actor *models.Actor, includeInactive bool) ([]models.User, error)
	GetUser(ctx context.Context, actor *models.Actor, id string) (*models.User, error)
	CreateUser(ctx context.Context, actor *models.Actor, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, actor *models.Actor, id string, req models.UpdateUserRequest) (*models.User, error)
	DeactivateUser(ctx context.Context, actor *models.Actor, id string) error
}

// AuditService defines audit log query and maintenance operations.
type AuditService interface {
	QueryAudit(ctx context.Context, actor *models.Actor, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

// Auditor is the minimal interface for recording audit entries.
// Used by the audit worker for fire-and-forget audit logging.
type Auditor interface {
	RecordAudit(ctx context.Context, entry models.AuditEntry) error
}

// ComplianceService defines the retention sweep.
type ComplianceService interface {
	Sweep(ctx context.Context, actor *models.Actor) (*models.SweepResult, error)
}
