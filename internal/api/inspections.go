package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/middleware"
	"github.com/pdihub/pdihub/internal/models"
)

// InspectionHandler serves inspection endpoints.
type InspectionHandler struct {
	repo InspectionRepository
	log  *logrus.Logger
}

// NewInspectionHandler creates an InspectionHandler with the given service and logger.
func NewInspectionHandler(repo InspectionRepository, log *logrus.Logger) *InspectionHandler {
	return &InspectionHandler{repo: repo, log: log}
}

// List handles GET /api/v1/inspections.
func (h *InspectionHandler) List(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	opts := models.ListInspectionOpts{
		Status:         models.InspectionStatus(c.Query("status")),
		InspectorEmail: c.Query("inspector_email"),
		Limit:          parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:         parseOffset(c.DefaultQuery("offset", "0")),
	}

	if opts.Status != "" && !opts.Status.Valid() {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "status must be draft or completed")

		return
	}

	inspections, hasMore, err := h.repo.ListInspections(c.Request.Context(), actor, opts)
	if err != nil {
		respondServiceError(c, h.log, err, "listing inspections")

		return
	}

	c.JSON(http.StatusOK, gin.H{"inspections": inspections, "has_more": hasMore})
}

// Get handles GET /api/v1/inspections/:id.
func (h *InspectionHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	insp, err := h.repo.GetInspection(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respondServiceError(c, h.log, err, "getting inspection")

		return
	}

	c.JSON(http.StatusOK, insp)
}

// Create handles POST /api/v1/inspections — starts a new draft.
func (h *InspectionHandler) Create(c *gin.Context) {
	var req models.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	insp, err := h.repo.CreateInspection(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating inspection")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "inspection.create", "inspection_id": insp.ID, "number": insp.Number}).Info("audit")

	c.JSON(http.StatusCreated, insp)
}

// SaveSection handles PATCH /api/v1/inspections/:id/sections/:name — saves one
// section of a draft, leaving every other section untouched.
func (h *InspectionHandler) SaveSection(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	section := c.Param("name")

	var patch json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	insp, err := h.repo.SaveSection(c.Request.Context(), middleware.ActorFromContext(c), id, section, patch)
	if err != nil {
		respondServiceError(c, h.log, err, "saving inspection section")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "inspection.save_section", "inspection_id": id,
		"section": section, "revision": insp.Revision,
	}).Info("audit")

	c.JSON(http.StatusOK, insp)
}

// Submit handles POST /api/v1/inspections/submit — the final submission of a
// full aggregate. Validation covers every step; a failure names the step to
// return the user to.
func (h *InspectionHandler) Submit(c *gin.Context) {
	var payload models.Inspection
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	insp, err := h.repo.Submit(c.Request.Context(), middleware.ActorFromContext(c), &payload)
	if err != nil {
		respondServiceError(c, h.log, err, "submitting inspection")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action": "inspection.submit", "inspection_id": insp.ID,
		"number": insp.Number, "status": insp.Status,
	}).Info("audit")

	status := http.StatusOK
	if insp.Status == models.StatusCompleted {
		status = http.StatusCreated
	}

	c.JSON(status, insp)
}

// Complete handles POST /api/v1/inspections/:id/complete — admin-only
// transition of an existing draft to completed.
func (h *InspectionHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	insp, err := h.repo.CompleteInspection(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respondServiceError(c, h.log, err, "completing inspection")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "inspection.complete", "inspection_id": id, "number": insp.Number}).Info("audit")

	c.JSON(http.StatusOK, insp)
}

// Delete handles DELETE /api/v1/inspections/:id. Admin only.
func (h *InspectionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.DeleteInspection(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respondServiceError(c, h.log, err, "deleting inspection")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "inspection.delete", "inspection_id": id}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
