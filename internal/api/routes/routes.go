package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/valeri-app/valeri/internal/api/handlers"
	"github.com/valeri-app/valeri/internal/api/middleware"
	"github.com/valeri-app/valeri/internal/cache"
	pgrepo "github.com/valeri-app/valeri/internal/repositories/postgres"
)

type Deps struct {
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Admin   *handlers.AdminHandler
	Post    *handlers.PostHandler

	Profiles pgrepo.ProfileRepository
	Roles    cache.Cache
	Log      *logrus.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public auth surface
	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)
	r.POST("/auth/reset-password", d.Auth.ResetPassword)

	// Public reads
	r.GET("/api/posts", d.Post.List)

	// Authenticated routes (bearer access token)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/auth/signout", d.Auth.SignOut)
	auth.POST("/auth/update-password", d.Auth.UpdatePassword)

	auth.GET("/api/profile", d.Profile.Me)
	auth.POST("/api/update-fullname", d.Profile.UpdateFullName)
	auth.POST("/api/update-profile", d.Profile.Update)

	auth.POST("/api/posts", d.Post.Create)

	// Admin routes: role re-verified against the profile store
	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin(d.Profiles, d.Roles, d.Log))

	admin.GET("/api/users", d.Admin.ListUsers)
	admin.POST("/api/delete-user", d.Admin.DeleteUser)
	admin.GET("/api/audit", d.Admin.ListAudit)
}
