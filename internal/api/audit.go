package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/middleware"
	"github.com/pdihub/pdihub/internal/models"
)

// AuditHandler serves audit log endpoints. Admin only.
type AuditHandler struct {
	repo AuditRepository
	log  *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(repo AuditRepository, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, log: log}
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	opts := models.AuditQueryOpts{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Action:     c.Query("action"),
		ActorEmail: c.Query("actor_email"),
		Limit:      parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:     parseOffset(c.DefaultQuery("offset", "0")),
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "since must be RFC 3339")

			return
		}

		opts.Since = &t
	}

	entries, hasMore, err := h.repo.QueryAudit(c.Request.Context(), middleware.ActorFromContext(c), opts)
	if err != nil {
		respondServiceError(c, h.log, err, "querying audit log")

		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "has_more": hasMore})
}

// Purge handles DELETE /api/v1/audit — removes audit entries older than the
// given retention window. Admin only.
func (h *AuditHandler) Purge(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if !actor.IsAdmin() {
		respondError(c, http.StatusForbidden, ErrCodeForbidden, "admin role required")

		return
	}

	days := parseInt(c.DefaultQuery("retention_days", "365"), 365)

	deleted, err := h.repo.PurgeOldEntries(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, h.log, err, "purging audit log")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "audit.purge", "retention_days": days, "deleted": deleted}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
