package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeri-app/valeri/internal/services"
	"github.com/valeri-app/valeri/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type UpdateFullNameRequest struct {
	FullName string `json:"fullname" binding:"required"`
}

func (h *ProfileHandler) UpdateFullName(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateFullNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.UpdateFullName", "invalid request body", err))
		return
	}

	if err := h.svc.UpdateFullName(c.Request.Context(), userID, req.FullName); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type UpdateProfileRequest struct {
	FullName  string `json:"fullname"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD, empty clears
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	if err := h.svc.UpdateProfile(c.Request.Context(), userID, req.FullName, req.BirthDate); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
