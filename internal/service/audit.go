package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/domain"
	"github.com/pdihub/pdihub/internal/models"
)

// AuditQueryStore is the data-access interface AuditService depends on.
type AuditQueryStore interface {
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService exposes audit log queries and maintenance. Queries are
// admin only.
type AuditService struct {
	store AuditQueryStore
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditQueryStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

// QueryAudit returns audit entries matching the given filters. Admin only.
func (s *AuditService) QueryAudit(
	ctx context.Context, actor *models.Actor, opts models.AuditQueryOpts,
) ([]models.AuditEntry, bool, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, false, err
	}

	return s.store.QueryAudit(ctx, opts)
}

// PurgeOldEntries deletes audit entries older than retentionDays and logs the result.
func (s *AuditService) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	deleted, err := s.store.PurgeOldEntries(ctx, retentionDays)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"retention_days": retentionDays,
		"deleted":        deleted,
	}).Info("audit.purge")

	return deleted, nil
}
