package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studyloop/studyloop-backend/internal/config"
	"github.com/studyloop/studyloop-backend/internal/handler"
	"github.com/studyloop/studyloop-backend/internal/middleware"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/response"
	"github.com/studyloop/studyloop-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	LearnerPortal *handler.LearnerPortalHandler
	LearnerMgmt   *handler.LearnerManagementHandler
	Course        *handler.CourseHandler
	Exam          *handler.ExamHandler
	Question      *handler.QuestionHandler
	Document      *handler.DocumentHandler
	AdminUser     *handler.AdminUserHandler
	AdminRole     *handler.AdminRoleHandler
	WS            *handler.WSHandler
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
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded documents statically with aggressive caching (1 year);
	// files are content-addressed by UUID so they never change in place.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/learner/login", handlers.Auth.LearnerLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Learner Group (JWT + Single Device) ────────────────────────
	learnerAPI := router.Group("/api/v1/learner")
	learnerAPI.Use(
		middleware.RequireLearnerJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		learnerAPI.GET("/me", handlers.Auth.LearnerMe)
		learnerAPI.POST("/logout", handlers.Auth.LearnerLogout)

		// Catalog
		learnerAPI.GET("/courses", handlers.LearnerPortal.ListCourses)
		learnerAPI.GET("/courses/:course_id", handlers.LearnerPortal.GetCourse)
		learnerAPI.GET("/courses/:course_id/chapters", handlers.LearnerPortal.ListChapters)
		learnerAPI.GET("/courses/:course_id/exams", handlers.LearnerPortal.ListExams)
		learnerAPI.GET("/chapters/:chapter_id/lessons", handlers.LearnerPortal.ListLessons)
		learnerAPI.GET("/documents", handlers.Document.List)

		// Exam sessions
		learnerAPI.POST("/exams/:exam_id/attempts", handlers.LearnerPortal.StartAttempt)
		learnerAPI.GET("/attempts/:attempt_id/questions", handlers.LearnerPortal.AttemptQuestions)
		learnerAPI.GET("/attempts/:attempt_id/state", handlers.LearnerPortal.AttemptState)
		learnerAPI.POST("/attempts/:attempt_id/submit", handlers.LearnerPortal.SubmitAttempt)
		learnerAPI.GET("/results", handlers.LearnerPortal.Results)
	}

	// ─── 3. WebSocket Group (Learner WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireLearnerWSAuth(authService))
	{
		ws.GET("/learner/attempts/:attempt_id/stream", handlers.WS.AttemptStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/me", handlers.Auth.AdminMe)

		// Courses, chapters, lessons
		adminAPI.GET("/courses",
			middleware.RequirePermission(string(model.PermissionCoursesRead)),
			handlers.Course.ListCourses,
		)
		adminAPI.GET("/courses/:course_id",
			middleware.RequirePermission(string(model.PermissionCoursesRead)),
			handlers.Course.GetCourse,
		)
		adminAPI.POST("/courses",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.CreateCourse,
		)
		adminAPI.PUT("/courses/:course_id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.UpdateCourse,
		)
		adminAPI.DELETE("/courses/:course_id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.DeleteCourse,
		)
		adminAPI.POST("/courses/:course_id/chapters",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.CreateChapter,
		)
		adminAPI.PUT("/chapters/:chapter_id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.UpdateChapter,
		)
		adminAPI.DELETE("/chapters/:chapter_id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.DeleteChapter,
		)
		adminAPI.GET("/chapters/:chapter_id/lessons",
			middleware.RequirePermission(string(model.PermissionCoursesRead)),
			handlers.Course.ListLessons,
		)
		adminAPI.POST("/chapters/:chapter_id/lessons",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.CreateLesson,
		)
		adminAPI.PUT("/lessons/:lesson_id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.UpdateLesson,
		)
		adminAPI.DELETE("/lessons/:lesson_id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.DeleteLesson,
		)

		// Question pools
		adminAPI.GET("/chapters/:chapter_id/questions",
			middleware.RequirePermission(string(model.PermissionCoursesRead)),
			handlers.Question.ListByChapter,
		)
		adminAPI.POST("/chapters/:chapter_id/questions",
			middleware.RequirePermission(string(model.PermissionQuestionsWrite)),
			handlers.Question.AddQuestion,
		)
		adminAPI.PUT("/questions/:question_id",
			middleware.RequirePermission(string(model.PermissionQuestionsWrite)),
			handlers.Question.UpdateQuestion,
		)
		adminAPI.DELETE("/questions/:question_id",
			middleware.RequirePermission(string(model.PermissionQuestionsWrite)),
			handlers.Question.DeleteQuestion,
		)

		// Exams
		adminAPI.GET("/courses/:course_id/exams",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.Exam.ListByCourse,
		)
		adminAPI.GET("/exams/:exam_id",
			middleware.RequirePermission(string(model.PermissionExamsRead)),
			handlers.Exam.GetExam,
		)
		adminAPI.POST("/exams",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Exam.CreateExam,
		)
		adminAPI.PUT("/exams/:exam_id",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Exam.UpdateExam,
		)
		adminAPI.DELETE("/exams/:exam_id",
			middleware.RequirePermission(string(model.PermissionExamsWrite)),
			handlers.Exam.DeleteExam,
		)

		// Documents
		adminAPI.GET("/documents",
			middleware.RequirePermission(string(model.PermissionDocumentsRead)),
			handlers.Document.List,
		)
		adminAPI.POST("/documents",
			middleware.RequirePermission(string(model.PermissionDocumentsWrite)),
			handlers.Document.Upload,
		)
		adminAPI.DELETE("/documents/:document_id",
			middleware.RequirePermission(string(model.PermissionDocumentsWrite)),
			handlers.Document.Delete,
		)

		// Learner management
		adminAPI.GET("/learners",
			middleware.RequirePermission(string(model.PermissionLearnersRead)),
			handlers.LearnerMgmt.List,
		)
		adminAPI.GET("/learners/:learner_id",
			middleware.RequirePermission(string(model.PermissionLearnersRead)),
			handlers.LearnerMgmt.Get,
		)
		adminAPI.POST("/learners",
			middleware.RequirePermission(string(model.PermissionLearnersWrite)),
			handlers.LearnerMgmt.Create,
		)
		adminAPI.PUT("/learners/:learner_id",
			middleware.RequirePermission(string(model.PermissionLearnersWrite)),
			handlers.LearnerMgmt.Update,
		)
		adminAPI.DELETE("/learners/:learner_id",
			middleware.RequirePermission(string(model.PermissionLearnersWrite)),
			handlers.LearnerMgmt.Delete,
		)
		adminAPI.POST("/learners/:learner_id/reset-session",
			middleware.RequirePermission(string(model.PermissionLearnersResetSession)),
			handlers.LearnerMgmt.ResetSession,
		)

		// Admin user management
		adminAPI.GET("/admins",
			middleware.RequirePermission(string(model.PermissionAdminsRead)),
			handlers.AdminUser.List,
		)
		adminAPI.GET("/admins/:admin_id",
			middleware.RequirePermission(string(model.PermissionAdminsRead)),
			handlers.AdminUser.Get,
		)
		adminAPI.POST("/admins",
			middleware.RequirePermission(string(model.PermissionAdminsWrite)),
			handlers.AdminUser.Create,
		)
		adminAPI.PUT("/admins/:admin_id",
			middleware.RequirePermission(string(model.PermissionAdminsWrite)),
			handlers.AdminUser.Update,
		)
		adminAPI.DELETE("/admins/:admin_id",
			middleware.RequirePermission(string(model.PermissionAdminsWrite)),
			handlers.AdminUser.Delete,
		)

		// Roles and permissions
		adminAPI.GET("/roles",
			middleware.RequirePermission(string(model.PermissionRolesRead)),
			handlers.AdminRole.List,
		)
		adminAPI.GET("/roles/:role_id",
			middleware.RequirePermission(string(model.PermissionRolesRead)),
			handlers.AdminRole.Get,
		)
		adminAPI.GET("/permissions",
			middleware.RequirePermission(string(model.PermissionRolesRead)),
			handlers.AdminRole.ListPermissions,
		)
		adminAPI.POST("/roles",
			middleware.RequirePermission(string(model.PermissionRolesWrite)),
			handlers.AdminRole.Create,
		)
		adminAPI.PUT("/roles/:role_id",
			middleware.RequirePermission(string(model.PermissionRolesWrite)),
			handlers.AdminRole.Update,
		)
		adminAPI.DELETE("/roles/:role_id",
			middleware.RequirePermission(string(model.PermissionRolesWrite)),
			handlers.AdminRole.Delete,
		)
	}

	return router
}
