// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-task-tracker/backend/internal/config"
	"go-task-tracker/backend/internal/handlers"
	"go-task-tracker/backend/internal/oauth"
	"go-task-tracker/backend/internal/repositories"
	"go-task-tracker/backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// リポジトリ
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	memoRepo := repositories.NewMemoRepository(db)

	// サービス
	jwtService := services.NewJWTService(cfg.JWTSecret)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	memoService := services.NewMemoService(memoRepo, taskRepo, userRepo)
	authService := services.NewAuthService(oauth.NewGitHubProvider(cfg.GitHub), userService, jwtService)

	// ハンドラー
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	memoHandler := handlers.NewMemoHandler(memoService)

	// ルーティング
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := r.Group("/api")
	api.Use(NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow).Middleware())

	api.GET("/dbcheck", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	api.POST("/auth/github", authHandler.GitHubAuthHandler)

	authorized := api.Group("")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/auth/me", authHandler.MeHandler)

		authorized.GET("/users", userHandler.GetUsersHandler)
		authorized.POST("/users", userHandler.CreateUserHandler)
		authorized.PUT("/users/:id", userHandler.UpdateUserHandler)
		authorized.DELETE("/users/:id", userHandler.DeleteUserHandler)

		authorized.GET("/tasks", taskHandler.GetActiveTasksHandler)
		authorized.GET("/tasks/completed", taskHandler.GetCompletedTasksHandler)
		authorized.POST("/tasks", taskHandler.CreateTaskHandler)
		authorized.GET("/tasks/:id", taskHandler.GetTaskByIDHandler)
		authorized.PUT("/tasks/:id", taskHandler.UpdateTaskHandler)
		authorized.DELETE("/tasks/:id", taskHandler.DeleteTaskHandler)
		authorized.GET("/tasks/:id/calculated-progress", taskHandler.CalculatedProgressHandler)
		authorized.GET("/tasks/:id/progress", taskHandler.CalculatedProgressHandler)

		authorized.GET("/tasks/:id/memos", memoHandler.GetMemosHandler)
		authorized.POST("/tasks/:id/memos", memoHandler.CreateMemoHandler)
	}

	return r
}
