package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/domain"
	"github.com/pdihub/pdihub/internal/metrics"
	"github.com/pdihub/pdihub/internal/models"
)

// RetentionStore is the data-access interface ComplianceService depends on.
type RetentionStore interface {
	ListCompleted(ctx context.Context) ([]models.Inspection, error)
	DeleteInspectionsByIDs(ctx context.Context, ids []string) (int, error)
}

// Compile-time check: *ComplianceService must satisfy domain.ComplianceService.
var _ domain.ComplianceService = (*ComplianceService)(nil)

// ComplianceService runs the retention sweep over completed inspections.
// Drafts are never touched regardless of age; each record's own retention
// window decides eligibility, falling back to the configured default.
type ComplianceService struct {
	store       RetentionStore
	auditWorker AuditEnqueuer
	log         *logrus.Logger
	defaultDays int

	// now is swappable for tests.
	now func() time.Time
}

// NewComplianceService creates a ComplianceService. defaultDays <= 0 falls
// back to models.DefaultRetentionDays.
func NewComplianceService(store RetentionStore, auditWorker AuditEnqueuer, log *logrus.Logger, defaultDays int) *ComplianceService {
	if defaultDays <= 0 {
		defaultDays = models.DefaultRetentionDays
	}

	return &ComplianceService{
		store:       store,
		auditWorker: auditWorker,
		log:         log,
		defaultDays: defaultDays,
		now:         time.Now,
	}
}

// Sweep deletes every completed inspection whose retention window has
// elapsed. The sweep is idempotent: a second run over unchanged data deletes
// nothing. actor may be nil when triggered by the scheduler or CLI.
func (s *ComplianceService) Sweep(ctx context.Context, actor *models.Actor) (*models.SweepResult, error) {
	completed, err := s.store.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &models.SweepResult{Scanned: len(completed), SweptAt: now}

	var expiredIDs []string

	for i := range completed {
		insp := &completed[i]

		if s.expired(insp, now) {
			expiredIDs = append(expiredIDs, insp.ID)
			result.DeletedNumbers = append(result.DeletedNumbers, insp.Number)
		}
	}

	if len(expiredIDs) == 0 {
		s.log.WithField("scanned", result.Scanned).Info("retention.sweep: nothing to delete")

		return result, nil
	}

	deleted, err := s.store.DeleteInspectionsByIDs(ctx, expiredIDs)
	if err != nil {
		return nil, err
	}

	result.Deleted = deleted
	metrics.RetentionDeleted.Add(float64(deleted))

	s.log.WithFields(logrus.Fields{
		"scanned": result.Scanned,
		"deleted": deleted,
	}).Info("retention.sweep")

	if s.auditWorker != nil {
		meta := MetaFromContext(ctx)
		s.auditWorker.Enqueue(&AuditJob{
			Action:     models.ActionRetentionSweep,
			EntityType: "inspection",
			EntityID:   "batch",
			Actor:      actor,
			Detail: map[string]any{
				"scanned": result.Scanned,
				"deleted": deleted,
				"numbers": result.DeletedNumbers,
			},
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
		})
	}

	return result, nil
}

// expired reports whether a completed inspection's retention window has
// elapsed. Expiration is strict: a record whose window ends exactly now is
// kept until the next sweep. Records without an inspection date are kept,
// there is nothing to measure the window from.
func (s *ComplianceService) expired(insp *models.Inspection, now time.Time) bool {
	if insp.InspectionDate == nil {
		return false
	}

	days := insp.RetentionDays
	if days <= 0 {
		days = s.defaultDays
	}

	return now.After(insp.InspectionDate.AddDate(0, 0, days))
}
