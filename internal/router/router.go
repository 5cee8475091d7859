package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stemsi/unirecords-backend/internal/handler"
	"github.com/stemsi/unirecords-backend/internal/middleware"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/response"
	"github.com/stemsi/unirecords-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Student      *handler.StudentHandler
	Course       *handler.CourseHandler
	Enrollment   *handler.EnrollmentHandler
	Exam         *handler.ExamHandler
	Schedule     *handler.ScheduleHandler
	Dashboard    *handler.DashboardHandler
	Notification *handler.NotificationHandler
	User         *handler.UserHandler
	System       *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	loginLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request logger can read it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.System.Health)

	requireAuth := middleware.RequireAuth(authService)
	checkSession := middleware.CheckSession(authService, log)

	// ─── 1. Auth Group (Login Rate Limited) ────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", requireAuth, checkSession, handlers.Auth.Logout)
		auth.GET("/me", requireAuth, checkSession, handlers.Auth.Me)
	}

	// ─── 2. API Group (JWT + Session + Role) ───────────────────────────
	api := router.Group("/api/v1")
	api.Use(requireAuth, checkSession, middleware.NoStore())

	staff := middleware.RequireStaff()
	self := middleware.RequireSelfOrStaff("id")
	{
		// Dashboard (all roles, students see their own GPA)
		api.GET("/dashboard", handlers.Dashboard.GetDashboardData)

		// Students
		api.GET("/students", staff, handlers.Student.ListStudents)
		api.POST("/students", staff, handlers.Student.CreateStudent)
		api.GET("/students/:id", self, handlers.Student.GetStudent)
		api.PUT("/students/:id", staff, handlers.Student.UpdateStudent)
		api.DELETE("/students/:id", staff, handlers.Student.DeleteStudent)
		api.GET("/students/:id/gpa", self, handlers.Student.GetGPA)
		api.GET("/students/:id/transcript", self, handlers.Student.DownloadTranscript)

		// Courses
		api.GET("/courses", handlers.Course.ListCourses)
		api.GET("/courses/:id", handlers.Course.GetCourse)
		api.POST("/courses", staff, handlers.Course.CreateCourse)
		api.PUT("/courses/:id", staff, handlers.Course.UpdateCourse)
		api.DELETE("/courses/:id", staff, handlers.Course.DeleteCourse)

		// Enrollments and grades (list and export are scoped for students)
		api.GET("/enrollments", handlers.Enrollment.ListEnrollments)
		api.GET("/enrollments/export", handlers.Enrollment.ExportGrades)
		api.POST("/enrollments", staff, handlers.Enrollment.AssignEnrollment)
		api.POST("/enrollments/import", staff, handlers.Enrollment.ImportGrades)
		api.PUT("/enrollments/:id/score", staff, handlers.Enrollment.UpdateScore)
		api.DELETE("/enrollments/:id", staff, handlers.Enrollment.DeleteEnrollment)

		// Exam schedules
		api.GET("/exams", handlers.Exam.ListExams)
		api.POST("/exams", staff, handlers.Exam.CreateExam)
		api.PUT("/exams/:id", staff, handlers.Exam.UpdateExam)
		api.DELETE("/exams/:id", staff, handlers.Exam.DeleteExam)

		// Timetable
		api.GET("/schedules", handlers.Schedule.ListSchedules)
		api.POST("/schedules", staff, handlers.Schedule.CreateSchedule)
		api.PUT("/schedules/:id", staff, handlers.Schedule.UpdateSchedule)
		api.DELETE("/schedules/:id", staff, handlers.Schedule.DeleteSchedule)

		// Email
		api.POST("/notifications/send", staff, handlers.Notification.SendMail)

		// Accounts
		users := api.Group("/users", middleware.RequireRole(model.RoleAdmin))
		{
			users.GET("", handlers.User.ListUsers)
			users.POST("", handlers.User.CreateUser)
			users.DELETE("/:id", handlers.User.DeleteUser)
		}

		api.GET("/system/status", middleware.RequireRole(model.RoleAdmin), handlers.System.Status)
	}

	return router
}
