package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/middleware"
	"github.com/pdihub/pdihub/internal/models"
)

// UserHandler serves user management endpoints. Role enforcement lives in the
// service layer.
type UserHandler struct {
	repo     UserRepository
	sessions SessionRevoker
	log      *logrus.Logger
}

// NewUserHandler creates a UserHandler with the given service and logger.
func NewUserHandler(repo UserRepository, sessions SessionRevoker, log *logrus.Logger) *UserHandler {
	return &UserHandler{repo: repo, sessions: sessions, log: log}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	users, err := h.repo.ListUsers(c.Request.Context(), middleware.ActorFromContext(c), includeInactive)
	if err != nil {
		respondServiceError(c, h.log, err, "listing users")

		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	u, err := h.repo.GetUser(c.Request.Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		respondServiceError(c, h.log, err, "getting user")

		return
	}

	c.JSON(http.StatusOK, u)
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	u, err := h.repo.CreateUser(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		respondServiceError(c, h.log, err, "creating user")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "user.create", "user_id": u.ID, "role": u.Role}).Info("audit")

	c.JSON(http.StatusCreated, u)
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	u, err := h.repo.UpdateUser(c.Request.Context(), middleware.ActorFromContext(c), id, req)
	if err != nil {
		respondServiceError(c, h.log, err, "updating user")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "user.update", "user_id": u.ID}).Info("audit")

	c.JSON(http.StatusOK, u)
}

// Deactivate handles DELETE /api/v1/users/:id — a soft delete that keeps the
// row and revokes all sessions.
func (h *UserHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.DeactivateUser(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		respondServiceError(c, h.log, err, "deactivating user")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "user.deactivate", "user_id": id}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"deactivated": true})
}

// Logout handles POST /api/v1/auth/logout — revokes the presented session token.
func (h *UserHandler) Logout(c *gin.Context) {
	token := middleware.ExtractBearerToken(c)
	if token == "" {
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid authorization header")

		return
	}

	if err := h.sessions.RevokeSession(c.Request.Context(), token); err != nil {
		respondServiceError(c, h.log, err, "revoking session")

		return
	}

	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}
