package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/services"
)

// UserHandler handles admin user-management requests
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// SetRoleRequest represents the role change payload
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,user_role"`
}

// SetActiveRequest represents the activation change payload
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// List handles listing all users
// @Summary     List users
// @Description List all users with pagination (admin only)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated users"
// @Failure     403 {object} map[string]interface{} "Forbidden"
// @Router      /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	users, err := h.userService.ListUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// SetRole handles changing a user's role
// @Summary     Set user role
// @Description Change a user's role (admin only, cannot demote yourself)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Param       request body SetRoleRequest true "New role"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     400 {object} map[string]interface{} "Invalid role or self-demotion"
// @Router      /admin/users/{id}/role [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidRole, err.Error()))
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		respondWithError(c, apperrors.ErrInvalidRole)
		return
	}

	user, err := h.userService.SetUserRole(actor, userID, role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// SetActive handles activating or deactivating a user
// @Summary     Set user active state
// @Description Activate or deactivate a user account (admin only, cannot deactivate yourself)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "User ID"
// @Param       request body SetActiveRequest true "Active state"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     400 {object} map[string]interface{} "Self-deactivation"
// @Router      /admin/users/{id}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.SetUserActive(actor, userID, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
