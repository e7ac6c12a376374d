package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/valeri-app/valeri/internal/cache"
	"github.com/valeri-app/valeri/internal/models"
	pgrepo "github.com/valeri-app/valeri/internal/repositories/postgres"
	"github.com/valeri-app/valeri/internal/services"
	"github.com/valeri-app/valeri/internal/utils"
)

const roleCacheTTL = 30 * time.Second

// RequireAdmin resolves the caller's role from the profile store in the
// privileged context and rejects non-admins. The role value carried by the
// client (token claims, request body) is never trusted for this decision.
func RequireAdmin(profiles pgrepo.ProfileRepository, roles cache.Cache, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("user_id")
		userID, _ := v.(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Error: "Unauthorized",
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		role, err := resolveRole(c, profiles, roles, userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("role resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Error: "Internal Server Error",
				Code:  utils.CodeInternal,
			})
			return
		}

		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Error: "Admins only",
				Code:  utils.CodeForbidden,
			})
			return
		}

		c.Set("role", string(role))
		c.Next()
	}
}

func resolveRole(c *gin.Context, profiles pgrepo.ProfileRepository, roles cache.Cache, userID string) (models.UserRole, error) {
	ctx := c.Request.Context()
	key := services.RoleCacheKey(userID)

	if roles != nil {
		var cached string
		if hit, err := roles.GetJSON(ctx, key, &cached); err == nil && hit {
			return models.UserRole(cached), nil
		}
	}

	p, err := profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			// identity without a profile has no role yet
			return models.RoleUser, nil
		}
		return "", err
	}

	role := p.Role
	if role == "" {
		role = models.RoleUser
	}
	if roles != nil {
		_ = roles.SetJSON(ctx, key, string(role), roleCacheTTL)
	}
	return role, nil
}
