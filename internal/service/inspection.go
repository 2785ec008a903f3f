// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/domain"
	"github.com/pdihub/pdihub/internal/form"
	"github.com/pdihub/pdihub/internal/geo"
	"github.com/pdihub/pdihub/internal/metrics"
	"github.com/pdihub/pdihub/internal/models"
	"github.com/pdihub/pdihub/internal/ws"
)

// InspectionStore is the data-access interface InspectionService depends on.
type InspectionStore interface {
	CreateInspection(ctx context.Context, insp *models.Inspection) (*models.Inspection, error)
	GetInspection(ctx context.Context, id string) (*models.Inspection, error)
	ReplaceInspection(ctx context.Context, insp *models.Inspection) (*models.Inspection, error)
	ListInspections(ctx context.Context, opts models.ListInspectionOpts) ([]models.Inspection, bool, error)
	DeleteInspection(ctx context.Context, id string) error
}

// EventPublisher pushes change events to connected dashboards.
type EventPublisher interface {
	PublishEvent(evt ws.Event)
}

// Compile-time check: *InspectionService must satisfy domain.InspectionService.
var _ domain.InspectionService = (*InspectionService)(nil)

// InspectionService wraps InspectionStore with ownership enforcement,
// section merge semantics and the submission state machine.
type InspectionService struct {
	store       InspectionStore
	auditWorker AuditEnqueuer
	events      EventPublisher
	log         *logrus.Logger
}

// NewInspectionService creates an InspectionService. events may be nil.
func NewInspectionService(store InspectionStore, auditWorker AuditEnqueuer, events EventPublisher, log *logrus.Logger) *InspectionService {
	return &InspectionService{store: store, auditWorker: auditWorker, events: events, log: log}
}

// ListInspections returns a paginated list. Non-admin actors only see their
// own inspections.
func (s *InspectionService) ListInspections(
	ctx context.Context, actor *models.Actor, opts models.ListInspectionOpts,
) ([]models.Inspection, bool, error) {
	if actor == nil {
		return nil, false, models.ErrNotAuthenticated
	}

	if !actor.IsAdmin() {
		opts.InspectorEmail = actor.Email
	}

	return s.store.ListInspections(ctx, opts)
}

// GetInspection returns a single inspection. Reads are open to any
// authenticated actor; only edits are ownership-restricted.
func (s *InspectionService) GetInspection(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error) {
	if actor == nil {
		return nil, models.ErrNotAuthenticated
	}

	return s.store.GetInspection(ctx, id)
}

// CreateInspection creates a new draft with only the header fields set.
// Non-admin actors can only create inspections under their own email.
func (s *InspectionService) CreateInspection(
	ctx context.Context, actor *models.Actor, req models.CreateInspectionRequest,
) (*models.Inspection, error) {
	if actor == nil {
		return nil, models.ErrNotAuthenticated
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !actor.Owns(req.InspectorEmail) {
		return nil, models.ErrForbidden
	}

	insp := &models.Inspection{
		Number:         newInspectionNumber(),
		InspectorName:  strings.TrimSpace(req.InspectorName),
		InspectorEmail: models.NormalizeEmail(req.InspectorEmail),
		InspectionDate: req.InspectionDate,
		Status:         models.StatusDraft,
		RetentionDays:  req.RetentionDays,
	}

	created, err := s.store.CreateInspection(ctx, insp)
	if err != nil {
		return nil, err
	}

	s.auditAsync(ctx, actor, models.ActionInspectionCreated, created.ID, map[string]any{
		"number": created.Number,
		"status": created.Status,
	})

	return created, nil
}

// SaveSection applies a single-section patch to a draft. The patch replaces
// the section's top-level keys wholesale (shallow merge); all other sections
// are carried over from the persisted record. Concurrent saves of the same
// section are last-writer-wins.
func (s *InspectionService) SaveSection(
	ctx context.Context, actor *models.Actor, id, section string, patch json.RawMessage,
) (*models.Inspection, error) {
	if actor == nil {
		return nil, models.ErrNotAuthenticated
	}

	if id == "" {
		return nil, models.ErrMissingInspectionID
	}

	if !models.KnownSection(section) {
		metrics.SectionSaves.WithLabelValues("unknown", "rejected").Inc()

		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSection, section)
	}

	current, err := s.store.GetInspection(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.editable(actor, current); err != nil {
		metrics.SectionSaves.WithLabelValues(section, "rejected").Inc()

		return nil, err
	}

	if err := current.ApplySectionPatch(section, patch); err != nil {
		metrics.SectionSaves.WithLabelValues(section, "invalid").Inc()

		return nil, err
	}

	if section == models.SectionLocation {
		deriveRoadTest(current.Location)
	}

	updated, err := s.store.ReplaceInspection(ctx, current)
	if err != nil {
		metrics.SectionSaves.WithLabelValues(section, "error").Inc()

		return nil, err
	}

	metrics.SectionSaves.WithLabelValues(section, "ok").Inc()

	s.auditAsync(ctx, actor, models.ActionInspectionUpdated, updated.ID, map[string]any{
		"number":   updated.Number,
		"section":  section,
		"revision": updated.Revision,
	})
	s.publish(ws.Event{Type: ws.EventSectionSaved, InspectionID: updated.ID, Number: updated.Number, Section: section})

	return updated, nil
}

// Submit runs the final submission. The full aggregate is validated across
// all steps; a failure reports the failing step and persists nothing.
//
// A payload without a storage ID is persisted as a new completed inspection.
// A payload carrying an existing ID performs a draft-preserving save of all
// sections instead; completing an existing draft is the separate explicit
// CompleteInspection action.
func (s *InspectionService) Submit(
	ctx context.Context, actor *models.Actor, payload *models.Inspection,
) (*models.Inspection, error) {
	if actor == nil {
		return nil, models.ErrNotAuthenticated
	}

	if stepErr := form.ValidateAll(payload); stepErr != nil {
		metrics.SubmissionsTotal.WithLabelValues("validation_failed").Inc()

		return nil, stepErr
	}

	if payload.ID == "" {
		return s.submitNew(ctx, actor, payload)
	}

	return s.saveAllDraft(ctx, actor, payload)
}

// submitNew persists a validated aggregate as a new completed inspection.
func (s *InspectionService) submitNew(
	ctx context.Context, actor *models.Actor, payload *models.Inspection,
) (*models.Inspection, error) {
	if !actor.IsAdmin() && !actor.Owns(payload.InspectorEmail) {
		return nil, models.ErrForbidden
	}

	payload.Number = newInspectionNumber()
	payload.Status = models.StatusCompleted
	payload.InspectorEmail = models.NormalizeEmail(payload.InspectorEmail)
	deriveRoadTest(payload.Location)

	created, err := s.store.CreateInspection(ctx, payload)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()

		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("completed").Inc()

	s.auditAsync(ctx, actor, models.ActionInspectionCreated, created.ID, map[string]any{
		"number": created.Number,
		"status": created.Status,
	})
	s.publish(ws.Event{Type: ws.EventInspectionSubmitted, InspectionID: created.ID, Number: created.Number})

	return created, nil
}

// saveAllDraft overwrites every section of an existing draft from the
// submitted aggregate while keeping it a draft.
func (s *InspectionService) saveAllDraft(
	ctx context.Context, actor *models.Actor, payload *models.Inspection,
) (*models.Inspection, error) {
	current, err := s.store.GetInspection(ctx, payload.ID)
	if err != nil {
		return nil, err
	}

	if err := s.editable(actor, current); err != nil {
		return nil, err
	}

	current.InspectorName = payload.InspectorName
	current.InspectorEmail = models.NormalizeEmail(payload.InspectorEmail)
	current.InspectionDate = payload.InspectionDate
	current.VehicleInfo = payload.VehicleInfo
	current.Location = payload.Location
	deriveRoadTest(current.Location)
	current.Barcode = payload.Barcode
	current.Photos = payload.Photos
	current.Checklist = payload.Checklist
	current.Signatures = payload.Signatures
	current.PrivacyConsent = payload.PrivacyConsent

	if payload.RetentionDays > 0 {
		current.RetentionDays = payload.RetentionDays
	}

	updated, err := s.store.ReplaceInspection(ctx, current)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()

		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("draft_saved").Inc()

	s.auditAsync(ctx, actor, models.ActionInspectionUpdated, updated.ID, map[string]any{
		"number":   updated.Number,
		"section":  "all",
		"revision": updated.Revision,
	})
	s.publish(ws.Event{Type: ws.EventSectionSaved, InspectionID: updated.ID, Number: updated.Number, Section: "all"})

	return updated, nil
}

// CompleteInspection marks an existing draft completed after a full
// validation pass. Admin only. Completing an already-completed inspection is
// a no-op.
func (s *InspectionService) CompleteInspection(ctx context.Context, actor *models.Actor, id string) (*models.Inspection, error) {
	if actor == nil {
		return nil, models.ErrNotAuthenticated
	}

	if !actor.IsAdmin() {
		return nil, models.ErrForbidden
	}

	current, err := s.store.GetInspection(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status == models.StatusCompleted {
		return current, nil
	}

	if stepErr := form.ValidateAll(current); stepErr != nil {
		metrics.SubmissionsTotal.WithLabelValues("validation_failed").Inc()

		return nil, stepErr
	}

	current.Status = models.StatusCompleted

	updated, err := s.store.ReplaceInspection(ctx, current)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()

		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("completed").Inc()

	s.auditAsync(ctx, actor, models.ActionInspectionUpdated, updated.ID, map[string]any{
		"number": updated.Number,
		"status": updated.Status,
	})
	s.publish(ws.Event{Type: ws.EventInspectionSubmitted, InspectionID: updated.ID, Number: updated.Number})

	return updated, nil
}

// DeleteInspection removes an inspection. Admin only.
func (s *InspectionService) DeleteInspection(ctx context.Context, actor *models.Actor, id string) error {
	if actor == nil {
		return models.ErrNotAuthenticated
	}

	if !actor.IsAdmin() {
		return models.ErrForbidden
	}

	current, err := s.store.GetInspection(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteInspection(ctx, id); err != nil {
		return err
	}

	s.auditAsync(ctx, actor, models.ActionInspectionDeleted, id, map[string]any{"number": current.Number})
	s.publish(ws.Event{Type: ws.EventInspectionDeleted, InspectionID: id, Number: current.Number})

	return nil
}

// editable enforces the draft-edit invariants: only drafts can be edited, and
// non-admin actors can only edit inspections they own.
func (s *InspectionService) editable(actor *models.Actor, insp *models.Inspection) error {
	if !actor.IsAdmin() && !actor.Owns(insp.InspectorEmail) {
		return models.ErrForbidden
	}

	if insp.Status != models.StatusDraft {
		return fmt.Errorf("%w: inspection %s is %s", models.ErrForbidden, insp.Number, insp.Status)
	}

	return nil
}

// auditAsync enqueues an audit entry via the AuditWorker (best-effort, non-blocking).
func (s *InspectionService) auditAsync(ctx context.Context, actor *models.Actor, action, entityID string, detail map[string]any) {
	if s.auditWorker == nil {
		return
	}

	meta := MetaFromContext(ctx)
	s.auditWorker.Enqueue(&AuditJob{
		Action:     action,
		EntityType: "inspection",
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})
}

// publish pushes a change event if a publisher is wired.
func (s *InspectionService) publish(evt ws.Event) {
	if s.events != nil {
		s.events.PublishEvent(evt)
	}
}

// deriveRoadTest folds distance and duration into a captured road-test track.
// Clients send raw samples; the derived figures are computed server-side so
// they always agree with the stored track.
func deriveRoadTest(loc *models.Location) {
	if loc == nil || loc.RoadTest == nil || len(loc.RoadTest.Points) == 0 {
		return
	}

	geo.FinishRoadTest(loc.RoadTest)
}

// newInspectionNumber builds a business number like PDI-20260901-1A2B3C4D.
func newInspectionNumber() string {
	id := uuid.New().String()

	return fmt.Sprintf("PDI-%s-%s", time.Now().UTC().Format("20060102"), strings.ToUpper(id[:8]))
}
