package routes

import (
	"database/sql"

	"lms_backend/handlers"
	"lms_backend/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, db *sql.DB, jwtSecret []byte) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, jwtSecret)
	healthHandler := handlers.NewHealthHandler(db)
	roleHandler := handlers.NewRoleHandler(db)
	courseHandler := handlers.NewCourseHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	exerciseHandler := handlers.NewExerciseHandler(db)
	quizHandler := handlers.NewQuizHandler(db)
	enrollmentHandler := handlers.NewEnrollmentHandler(db)
	productHandler := handlers.NewProductHandler(db)
	wikiHandler := handlers.NewWikiHandler(db)

	// Public routes
	r.GET("/health", healthHandler.HealthCheck)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(db, jwtSecret))
	{
		// Role routes
		protected.GET("/roles", roleHandler.GetRoles)
		protected.POST("/roles/assign", roleHandler.AssignRole)

		// Course routes
		protected.POST("/courses", courseHandler.CreateCourse)
		protected.GET("/courses", courseHandler.GetCourses)

		// Category (chapter) routes
		protected.POST("/categories", categoryHandler.CreateCategory)
		protected.GET("/categories", categoryHandler.GetCategories)

		// Exercise routes
		protected.POST("/exercises", exerciseHandler.CreateExercise)
		protected.GET("/exercises", exerciseHandler.GetExercises)
		protected.POST("/exercises/:id/submit", exerciseHandler.SubmitExercise)
		protected.GET("/submissions", exerciseHandler.GetMySubmissions)

		// Quiz routes
		protected.POST("/quizzes/generate", quizHandler.GenerateQuiz)
		protected.POST("/quizzes/attempts/:id/submit", quizHandler.SubmitAttempt)
		protected.GET("/quizzes/attempts", quizHandler.GetMyAttempts)
		protected.POST("/quizzes/questions", quizHandler.CreateQuestion)
		protected.GET("/quizzes/questions", quizHandler.GetQuestions)

		// Enrollment & accounting routes
		protected.POST("/enrollments", enrollmentHandler.CreateEnrollment)
		protected.GET("/enrollments", enrollmentHandler.GetMyEnrollments)
		protected.GET("/balance", enrollmentHandler.GetBalance)
		protected.GET("/transactions", enrollmentHandler.GetTransactions)

		// Product routes
		protected.POST("/products", productHandler.CreateProduct)
		protected.GET("/products", productHandler.GetProducts)

		// Wiki routes
		protected.POST("/wiki", wikiHandler.CreateArticle)
		protected.GET("/wiki", wikiHandler.GetArticles)
		protected.GET("/wiki/:id", wikiHandler.GetArticleByID)
		protected.PUT("/wiki/:id", wikiHandler.UpdateArticle)

		// Logout route
		protected.POST("/logout", authHandler.Logout)

		// User info route
		protected.GET("/userinfo", authHandler.GetUserInfo)
	}
}
