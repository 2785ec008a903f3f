package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/middleware"
)

// ComplianceHandler serves the on-demand retention sweep. Admin only.
type ComplianceHandler struct {
	repo ComplianceRepository
	log  *logrus.Logger
}

// NewComplianceHandler creates a ComplianceHandler.
func NewComplianceHandler(repo ComplianceRepository, log *logrus.Logger) *ComplianceHandler {
	return &ComplianceHandler{repo: repo, log: log}
}

// Sweep handles POST /api/v1/compliance/sweep — deletes every completed
// inspection whose retention window has elapsed. Idempotent.
func (h *ComplianceHandler) Sweep(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if !actor.IsAdmin() {
		respondError(c, http.StatusForbidden, ErrCodeForbidden, "admin role required")

		return
	}

	result, err := h.repo.Sweep(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, h.log, err, "running retention sweep")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "compliance.sweep", "scanned": result.Scanned, "deleted": result.Deleted,
	}).Info("audit")

	c.JSON(http.StatusOK, result)
}
