package service

import (
	"context"
	"sync"
	"time"

	"github.com/pdihub/pdihub/internal/models"
	"github.com/pdihub/pdihub/internal/ws"
)

// mockInspectionStore records calls and returns configured responses.
type mockInspectionStore struct {
	mu    sync.Mutex
	calls []string

	createInspection  func(ctx context.Context, insp *models.Inspection) (*models.Inspection, error)
	getInspection     func(ctx context.Context, id string) (*models.Inspection, error)
	replaceInspection func(ctx context.Context, insp *models.Inspection) (*models.Inspection, error)
	listInspections   func(ctx context.Context, opts models.ListInspectionOpts) ([]models.Inspection, bool, error)
	deleteInspection  func(ctx context.Context, id string) error
}

func (m *mockInspectionStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockInspectionStore) called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (m *mockInspectionStore) CreateInspection(ctx context.Context, insp *models.Inspection) (*models.Inspection, error) {
	m.record("CreateInspection")
	return m.createInspection(ctx, insp)
}

func (m *mockInspectionStore) GetInspection(ctx context.Context, id string) (*models.Inspection, error) {
	m.record("GetInspection")
	return m.getInspection(ctx, id)
}

func (m *mockInspectionStore) ReplaceInspection(ctx context.Context, insp *models.Inspection) (*models.Inspection, error) {
	m.record("ReplaceInspection")
	return m.replaceInspection(ctx, insp)
}

func (m *mockInspectionStore) ListInspections(ctx context.Context, opts models.ListInspectionOpts) ([]models.Inspection, bool, error) {
	m.record("ListInspections")
	return m.listInspections(ctx, opts)
}

func (m *mockInspectionStore) DeleteInspection(ctx context.Context, id string) error {
	m.record("DeleteInspection")
	return m.deleteInspection(ctx, id)
}

// mockRetentionStore records calls and returns configured responses.
type mockRetentionStore struct {
	mu    sync.Mutex
	calls []string

	listCompleted          func(ctx context.Context) ([]models.Inspection, error)
	deleteInspectionsByIDs func(ctx context.Context, ids []string) (int, error)
}

func (m *mockRetentionStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockRetentionStore) called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (m *mockRetentionStore) ListCompleted(ctx context.Context) ([]models.Inspection, error) {
	m.record("ListCompleted")
	return m.listCompleted(ctx)
}

func (m *mockRetentionStore) DeleteInspectionsByIDs(ctx context.Context, ids []string) (int, error) {
	m.record("DeleteInspectionsByIDs")
	return m.deleteInspectionsByIDs(ctx, ids)
}

// mockUserStore records calls and returns configured responses.
type mockUserStore struct {
	mu    sync.Mutex
	calls []string

	createUser     func(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	getUser        func(ctx context.Context, id string) (*models.User, error)
	getUserByEmail func(ctx context.Context, email string) (*models.User, error)
	listUsers      func(ctx context.Context, includeInactive bool) ([]models.User, error)
	updateUser     func(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error)
	deactivateUser func(ctx context.Context, id string) error
	createSession  func(ctx context.Context, token, userID string, expiresAt time.Time) error
	deleteSession  func(ctx context.Context, token string) error
}

func (m *mockUserStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockUserStore) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	m.record("CreateUser")
	return m.createUser(ctx, req)
}

func (m *mockUserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.record("GetUser")
	return m.getUser(ctx, id)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.record("GetUserByEmail")
	return m.getUserByEmail(ctx, email)
}

func (m *mockUserStore) ListUsers(ctx context.Context, includeInactive bool) ([]models.User, error) {
	m.record("ListUsers")
	return m.listUsers(ctx, includeInactive)
}

func (m *mockUserStore) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	m.record("UpdateUser")
	return m.updateUser(ctx, id, req)
}

func (m *mockUserStore) DeactivateUser(ctx context.Context, id string) error {
	m.record("DeactivateUser")
	return m.deactivateUser(ctx, id)
}

func (m *mockUserStore) CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	m.record("CreateSession")
	if m.createSession == nil {
		return nil
	}
	return m.createSession(ctx, token, userID, expiresAt)
}

func (m *mockUserStore) DeleteSession(ctx context.Context, token string) error {
	m.record("DeleteSession")
	if m.deleteSession == nil {
		return nil
	}
	return m.deleteSession(ctx, token)
}

// mockAuditQueryStore returns configured audit query responses.
type mockAuditQueryStore struct {
	queryAudit      func(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	purgeOldEntries func(ctx context.Context, retentionDays int) (int, error)
}

func (m *mockAuditQueryStore) QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	return m.queryAudit(ctx, opts)
}

func (m *mockAuditQueryStore) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	return m.purgeOldEntries(ctx, retentionDays)
}

// mockAuditor captures recorded audit entries; err, when set, is returned on
// every call.
type mockAuditor struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	err     error
}

func (m *mockAuditor) RecordAudit(_ context.Context, entry models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockAuditor) recorded() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// captureEnqueuer collects audit jobs synchronously so tests can assert on
// them without a worker goroutine.
type captureEnqueuer struct {
	mu   sync.Mutex
	jobs []*AuditJob
}

func (c *captureEnqueuer) Enqueue(job *AuditJob) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = append(c.jobs, job)
}

func (c *captureEnqueuer) captured() []*AuditJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*AuditJob, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// capturePublisher collects published WebSocket events.
type capturePublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (c *capturePublisher) PublishEvent(evt ws.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *capturePublisher) published() []ws.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ws.Event, len(c.events))
	copy(out, c.events)
	return out
}
