package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/middleware"
	"taskboard/internal/modules/auth"
	"taskboard/internal/modules/chat"
	"taskboard/internal/modules/notification"
	"taskboard/internal/modules/profile"
	"taskboard/internal/modules/task"
	"taskboard/internal/modules/workspace"
	"taskboard/internal/pkg/cloudinary"
	jwtsvc "taskboard/internal/pkg/jwt"
	"taskboard/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	resolver := notification.NewResolver(workspaceRepo, threadRepo)
	notificationService := notification.NewService(notificationRepo, resolver, hub)
	notifier := notification.NewNotifier(resolver, notificationService)
	notificationHandler := notification.NewHandler(notificationService, hub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	workspaceService := workspace.NewService(workspaceRepo, projectRepo, userRepo, notifier)
	workspaceHandler := workspace.NewHandler(workspaceService)

	taskService := task.NewService(taskRepo, projectRepo, workspaceRepo, notifier)
	taskHandler := task.NewHandler(taskService)

	chatService := chat.NewService(threadRepo, workspaceRepo, notifier)
	chatHandler := chat.NewHandler(chatService)

	var storage cloudinary.Client
	if cfg.CloudinaryURL != "" {
		storage, err = cloudinary.NewFromURL(cfg.CloudinaryURL, "avatars")
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("CLOUDINARY_URL is empty, avatar uploads disabled")
	}
	profileService := profile.NewService(userRepo, storage)
	profileHandler := profile.NewHandler(profileService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			profileHandler.RegisterRoutes(protected)
			workspaceHandler.RegisterRoutes(protected)
			taskHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}

		// internal service-to-service endpoints
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(cfg.InternalToken))
		{
			notificationHandler.RegisterInternalRoutes(internal)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
