package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/valeri-app/valeri/internal/services"
	"github.com/valeri-app/valeri/internal/utils"
)

type AdminHandler struct {
	svc services.AdminService
}

func NewAdminHandler(svc services.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type DeleteUserRequest struct {
	UserID string `json:"userId"`
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.DeleteUser", "User ID required", err))
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), actorID, req.UserID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) ListAudit(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	entries, err := h.svc.ListAudit(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
