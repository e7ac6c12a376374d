package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/valeri-app/valeri/config"
	"github.com/valeri-app/valeri/internal/api/handlers"
	"github.com/valeri-app/valeri/internal/api/middleware"
	"github.com/valeri-app/valeri/internal/api/routes"
	"github.com/valeri-app/valeri/internal/authx"
	"github.com/valeri-app/valeri/internal/cache"
	"github.com/valeri-app/valeri/internal/logger"
	mongorepo "github.com/valeri-app/valeri/internal/repositories/mongo"
	pgrepo "github.com/valeri-app/valeri/internal/repositories/postgres"
	"github.com/valeri-app/valeri/internal/services"
	"github.com/valeri-app/valeri/internal/storage"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	appCfg, err := config.LoadApp()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	var uploader storage.Uploader
	if appCfg.PostsBucket != "" {
		gcsUploader, err := storage.NewGCSUploader(context.Background(), appCfg.PostsBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer gcsUploader.Close()
		uploader = gcsUploader
	}

	// repositories
	profiles := pgrepo.NewProfileRepo(config.PostgresDB)
	posts := pgrepo.NewPostRepo(config.PostgresDB)
	audit := mongorepo.NewAuditRepo(config.MongoDatabase())
	roles := cache.NewRedisCache(config.RedisClient)

	// collaborators
	authClient := authx.NewClient(appCfg.AuthURL, appCfg.AuthAnonKey, appCfg.AuthServiceKey)

	// services
	bootstrapSvc := services.NewBootstrapService(profiles, appCfg, l)
	profileSvc := services.NewProfileService(profiles)
	adminSvc := services.NewAdminService(profiles, authClient, audit, roles, l)
	postSvc := services.NewPostService(posts, uploader)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:     handlers.NewAuthHandler(authClient, bootstrapSvc, profileSvc, l),
		Profile:  handlers.NewProfileHandler(profileSvc),
		Admin:    handlers.NewAdminHandler(adminSvc),
		Post:     handlers.NewPostHandler(postSvc),
		Profiles: profiles,
		Roles:    roles,
		Log:      l,
	})

	if err := r.Run(":" + appCfg.Port); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}
