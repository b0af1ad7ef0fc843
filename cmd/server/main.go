package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nkchq/projectboard/internal/config"
	"github.com/nkchq/projectboard/internal/database"
	"github.com/nkchq/projectboard/internal/handlers"
	"github.com/nkchq/projectboard/internal/logger"
	"github.com/nkchq/projectboard/internal/middleware"
	"github.com/nkchq/projectboard/internal/repository"
	"github.com/nkchq/projectboard/internal/services"
	"github.com/nkchq/projectboard/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		zl.Fatalw("failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatalw("failed to run migrations", "error", err)
	}
	if cfg.SeedOnStart {
		if err := database.Seed(db); err != nil {
			zl.Fatalw("failed to seed database", "error", err)
		}
		zl.Infow("seed data loaded")
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	secure := cfg.IsProduction()

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, zl)
	userService := services.NewUserService(userRepo, zl)
	projectService := services.NewProjectService(projectRepo, userRepo, taskRepo, zl)
	taskService := services.NewTaskService(taskRepo, projectRepo, zl)

	authHandler := handlers.NewAuthHandler(authService, sessions, secure)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(sessions, secure), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(sessions, secure), middleware.RequireSuperAdmin())
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(sessions, secure))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/tasks", taskHandler.ListProjectTasks)
			projects.GET("/:id/members", projectHandler.ListMembers)

			projects.POST("", middleware.RequireSuperAdmin(), projectHandler.CreateProject)
			projects.PATCH("/:id", middleware.RequireSuperAdmin(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireSuperAdmin(), projectHandler.DeleteProject)
			projects.POST("/:id/members", middleware.RequireSuperAdmin(), projectHandler.AssignMember)
			projects.DELETE("/:id/members/:user_id", middleware.RequireSuperAdmin(), projectHandler.UnassignMember)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(sessions, secure))
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	zl.Infow("server starting", "addr", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		zl.Fatalw("server exited", "error", err)
	}
}
