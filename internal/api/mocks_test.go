package api_test

import (
	"context"
	"encoding/json"

	"github.com/pdihub/pdihub/internal/models"
)

// mockInspectionRepo implements api.InspectionRepository for testing.
type mockInspectionRepo struct {
	listFn        func(ctx context.Context, actor *models.Actor, opts models.ListInspectionOpts) ([]models.Inspection, bool, error)
	getFn         func(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error)
	createFn      func(ctx context.Context, actor *models.Actor, req models.CreateInspectionRequest) (*models.Inspection, error)
	saveSectionFn func(ctx context.Context, actor *models.Actor, id, section string, patch json.RawMessage) (*models.Inspection, error)
	submitFn      func(ctx context.Context, actor *models.Actor, payload *models.Inspection) (*models.Inspection, error)
	completeFn    func(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error)
	deleteFn      func(ctx context.Context, actor *models.Actor, id string) error
}

func (m *mockInspectionRepo) ListInspections(ctx context.Context, actor *models.Actor, opts models.ListInspectionOpts) ([]models.Inspection, bool, error) {
	return m.listFn(ctx, actor, opts)
}

func (m *mockInspectionRepo) GetInspection(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error) {
	return m.getFn(ctx, actor, id)
}

func (m *mockInspectionRepo) CreateInspection(ctx context.Context, actor *models.Actor, req models.CreateInspectionRequest) (*models.Inspection, error) {
	return m.createFn(ctx, actor, req)
}

func (m *mockInspectionRepo) SaveSection(ctx context.Context, actor *models.Actor, id, section string, patch json.RawMessage) (*models.Inspection, error) {
	return m.saveSectionFn(ctx, actor, id, section, patch)
}

func (m *mockInspectionRepo) Submit(ctx context.Context, actor *models.Actor, payload *models.Inspection) (*models.Inspection, error) {
	return m.submitFn(ctx, actor, payload)
}

func (m *mockInspectionRepo) CompleteInspection(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error) {
	return m.completeFn(ctx, actor, id)
}

func (m *mockInspectionRepo) DeleteInspection(ctx context.Context, actor *models.Actor, id string) error {
	return m.deleteFn(ctx, actor, id)
}

// mockUserRepo implements api.UserRepository for testing.
type mockUserRepo struct {
	listFn       func(ctx context.Context, actor *models.Actor, includeInactive bool) ([]models.User, error)
	getFn        func(ctx context.Context, actor *models.Actor, id string) (*models.User, error)
	createFn     func(ctx context.Context, actor *models.Actor, req models.CreateUserRequest) (*models.User, error)
	updateFn     func(ctx context.Context, actor *models.Actor, id string, req models.UpdateUserRequest) (*models.User, error)
	deactivateFn func(ctx context.Context, actor *models.Actor, id string) error
}

func (m *mockUserRepo) ListUsers(ctx context.Context, actor *models.Actor, includeInactive bool) ([]models.User, error) {
	return m.listFn(ctx, actor, includeInactive)
}

func (m *mockUserRepo) GetUser(ctx context.Context, actor *models.Actor, id string) (*models.User, error) {
	return m.getFn(ctx, actor, id)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, actor *models.Actor, req models.CreateUserRequest) (*models.User, error) {
	return m.createFn(ctx, actor, req)
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, actor *models.Actor, id string, req models.UpdateUserRequest) (*models.User, error) {
	return m.updateFn(ctx, actor, id, req)
}

func (m *mockUserRepo) DeactivateUser(ctx context.Context, actor *models.Actor, id string) error {
	return m.deactivateFn(ctx, actor, id)
}

// mockSessionRevoker implements api.SessionRevoker for testing.
type mockSessionRevoker struct {
	revokeFn func(ctx context.Context, token string) error
}

func (m *mockSessionRevoker) RevokeSession(ctx context.Context, token string) error {
	if m.revokeFn == nil {
		return nil
	}
	return m.revokeFn(ctx, token)
}

// mockAuditRepo implements api.AuditRepository for testing.
type mockAuditRepo struct {
	queryFn func(ctx context.Context, actor *models.Actor, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	purgeFn func(ctx context.Context, retentionDays int) (int, error)
}

func (m *mockAuditRepo) QueryAudit(ctx context.Context, actor *models.Actor, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	return m.queryFn(ctx, actor, opts)
}

func (m *mockAuditRepo) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	return m.purgeFn(ctx, retentionDays)
}

// mockComplianceRepo implements api.ComplianceRepository for testing.
type mockComplianceRepo struct {
	sweepFn func(ctx context.Context, actor *models.Actor) (*models.SweepResult, error)
}

func (m *mockComplianceRepo) Sweep(ctx context.Context, actor *models.Actor) (*models.SweepResult, error) {
	return m.sweepFn(ctx, actor)
}
