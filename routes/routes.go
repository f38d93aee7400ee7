package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quiz_portal/backend"
	"quiz_portal/config"
	"quiz_portal/exam"
	"quiz_portal/handlers"
	"quiz_portal/middleware"
	"quiz_portal/models"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Config   *config.Config
	Backend  *backend.Client
	Exams    *exam.Service
	Sessions *middleware.SessionManager
	// Audit is nil when the audit log is disabled.
	Audit  handlers.Pinger
	Logger *zap.Logger
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, d Deps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Backend, d.Sessions, d.Logger)
	staffHandler := handlers.NewStaffHandler(d.Backend, d.Sessions, d.Config.Staff.CourseOutcomes, d.Logger)
	studentHandler := handlers.NewStudentHandler(d.Backend, d.Sessions, d.Logger)
	examHandler := handlers.NewExamHandler(d.Backend, d.Exams, d.Sessions, d.Logger)
	healthHandler := handlers.NewHealthHandler(d.Backend, d.Audit)

	// Public routes
	r.GET("/", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.GET("/logout", authHandler.Logout)
	r.POST("/logout", authHandler.Logout)
	r.GET("/health", healthHandler.HealthCheck)

	// Staff routes
	staff := r.Group("/staff")
	staff.Use(d.Sessions.RequireRole(models.RoleStaff))
	{
		staff.GET("", staffHandler.Dashboard)
		staff.POST("/quiz/upload", staffHandler.UploadQuiz)
		staff.GET("/quiz/:id/view", staffHandler.ViewQuiz)
	}

	// Student routes
	student := r.Group("/student")
	student.Use(d.Sessions.RequireRole(models.RoleStudent))
	{
		student.GET("", studentHandler.Dashboard)
		student.GET("/quiz/:id/take", examHandler.Take)
		student.GET("/exam/:attempt", examHandler.Page)
	}

	// Exam window API
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = d.Config.CORS.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
	}

	api := r.Group("/api/exam/:attempt")
	api.Use(cors.New(corsConfig), d.Sessions.RequireRoleAPI(models.RoleStudent))
	{
		api.GET("", examHandler.State)
		api.POST("/start", examHandler.Start)
		api.POST("/answer", examHandler.Answer)
		api.POST("/nav", examHandler.Navigate)
		api.POST("/submit", examHandler.Submit)
		api.POST("/signal", examHandler.Signal)
	}
}
