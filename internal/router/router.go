package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizportal/quizportal-backend/internal/config"
	"github.com/quizportal/quizportal-backend/internal/handler"
	"github.com/quizportal/quizportal-backend/internal/middleware"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/response"
	"github.com/quizportal/quizportal-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Quiz       *handler.QuizHandler
	Question   *handler.QuestionHandler
	Submission *handler.SubmissionHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	// Credentials stay on either way since the session rides a cookie.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/verify", middleware.RequireAuth(authService), handlers.Auth.Verify)
	}

	// ─── 2. Quiz Group ─────────────────────────────────────────────────
	quizzes := router.Group("/api/v1/quizzes")
	quizzes.Use(middleware.RequireAuth(authService))
	{
		// Shared: listing is role-filtered inside the handler.
		quizzes.GET("", handlers.Quiz.List)

		// Faculty-owner routes.
		faculty := quizzes.Group("")
		faculty.Use(middleware.RequireRole(model.RoleFaculty))
		{
			faculty.POST("/create", handlers.Quiz.Create)
			faculty.PUT("/:quiz_id", handlers.Quiz.Update)
			faculty.PATCH("/:quiz_id", handlers.Quiz.Update)
			faculty.DELETE("/:quiz_id", handlers.Quiz.Delete)
			faculty.POST("/:quiz_id/publish", handlers.Quiz.TogglePublish)
			faculty.POST("/:quiz_id/questions", handlers.Question.Add)
			faculty.PUT("/:quiz_id/questions", handlers.Question.Update)
			faculty.DELETE("/:quiz_id/questions", handlers.Question.Delete)
			faculty.GET("/:quiz_id/submissions", handlers.Quiz.Submissions)
			faculty.GET("/:quiz_id/analytics", handlers.Quiz.Analytics)
		}

		// Student routes.
		student := quizzes.Group("")
		student.Use(middleware.RequireRole(model.RoleStudent))
		{
			student.GET("/:quiz_id/take", handlers.Submission.Take)
			student.POST("/:quiz_id/submit", handlers.Submission.Submit)
			student.GET("/:quiz_id/my-result", handlers.Submission.MyResult)
		}
	}

	return router
}
