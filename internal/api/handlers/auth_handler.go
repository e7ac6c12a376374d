package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/valeri-app/valeri/internal/authx"
	"github.com/valeri-app/valeri/internal/services"
	"github.com/valeri-app/valeri/internal/utils"
)

type AuthHandler struct {
	auth      authx.Provider
	bootstrap services.BootstrapService
	profiles  services.ProfileService
	log       *logrus.Logger
}

func NewAuthHandler(auth authx.Provider, bootstrap services.BootstrapService, profiles services.ProfileService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, bootstrap: bootstrap, profiles: profiles, log: log}
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	FullName     string `json:"fullName"`
	CaptchaToken string `json:"captchaToken"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Register", "invalid request body", err))
		return
	}

	var metadata map[string]any
	if req.FullName != "" {
		metadata = map[string]any{"full_name": req.FullName}
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.CaptchaToken, metadata)
	if err != nil {
		writeError(c, err)
		return
	}

	profile, err := h.bootstrap.EnsureProfile(c.Request.Context(), user)
	if err != nil {
		// the identity exists; the profile will be bootstrapped on first sign-in
		h.log.WithError(err).WithField("user_id", user.ID).
			Warn("profile bootstrap after sign-up failed")
	}
	if profile != nil && req.FullName != "" && profile.FullName == nil {
		if err := h.profiles.UpdateFullName(c.Request.Context(), user.ID, req.FullName); err != nil {
			h.log.WithError(err).WithField("user_id", user.ID).
				Warn("full name write after sign-up failed")
		} else {
			profile.FullName = &req.FullName
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}

type LoginRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	CaptchaToken string `json:"captchaToken"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", "invalid request body", err))
		return
	}

	sess, err := h.auth.SignInWithPassword(c.Request.Context(), req.Email, req.Password, req.CaptchaToken)
	if err != nil {
		writeError(c, err)
		return
	}

	// session established: ensure the profile exists before the client asks
	profile, err := h.bootstrap.EnsureProfile(c.Request.Context(), sess.User)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sess, "profile": profile})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	if err := h.auth.SignOut(c.Request.Context(), accessToken(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type ResetPasswordRequest struct {
	Email        string `json:"email" binding:"required"`
	RedirectTo   string `json:"redirectTo"`
	CaptchaToken string `json:"captchaToken"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.ResetPassword", "invalid request body", err))
		return
	}

	if err := h.auth.ResetPasswordForEmail(c.Request.Context(), req.Email, req.RedirectTo, req.CaptchaToken); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.UpdatePassword", "invalid request body", err))
		return
	}

	if err := h.auth.UpdatePassword(c.Request.Context(), accessToken(c), req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
