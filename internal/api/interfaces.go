package api

import (
	"context"

	"github.com/pdihub/pdihub/internal/domain"
)

// Handler dependencies are aliases of the canonical domain interfaces so the
// HTTP layer and the Go client agree on one contract.
type (
	InspectionRepository = domain.InspectionService
	UserRepository       = domain.UserService
	AuditRepository      = domain.AuditService
	ComplianceRepository = domain.ComplianceService
)

// SessionRevoker invalidates the presented session token (logout).
type SessionRevoker interface {
	RevokeSession(ctx context.Context, token string) error
}
