package api

import (
	"clinigoal/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP endpoints. staticUploadsDir, when non-empty,
// serves uploaded files straight off the local disk; otherwise /uploads
// redirects to presigned storage URLs.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	resetService service.PasswordResetService,
	courseService service.CourseService,
	mediaService service.MediaService,
	quizService service.QuizService,
	paymentService service.PaymentService,
	progressService service.ProgressService,
	reviewService service.ReviewService,
	staticUploadsDir string,
) {
	authHandler := NewAuthHandler(authService, resetService)
	courseHandler := NewCourseHandler(courseService)
	mediaHandler := NewMediaHandler(mediaService)
	quizHandler := NewQuizHandler(quizService)
	paymentHandler := NewPaymentHandler(paymentService)
	progressHandler := NewProgressHandler(progressService)
	reviewHandler := NewReviewHandler(reviewService)

	authMiddleware := AuthMiddleware(jwtSecret)
	adminOnly := AdminMiddleware()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if staticUploadsDir != "" {
		router.Static("/uploads", staticUploadsDir)
	} else {
		router.GET("/uploads/*key", mediaHandler.Download)
	}

	api := router.Group("/api")
	{
		// --- Public auth and password reset ---
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
		// Older frontends use the /user prefix.
		userAuth := api.Group("/user")
		{
			userAuth.POST("/register", authHandler.Register)
			userAuth.POST("/login", authHandler.Login)
		}

		forgot := api.Group("/forgot-password")
		{
			forgot.POST("/send-otp", authHandler.SendUserOTP)
			forgot.POST("/verify-otp", authHandler.VerifyUserOTP)
			forgot.POST("/reset", authHandler.ResetUserPassword)
		}

		adminAuth := api.Group("/admin")
		{
			adminAuth.POST("/login", authHandler.AdminLogin)
			adminAuth.POST("/forgot-password/send-otp", authHandler.SendAdminOTP)
			adminAuth.POST("/forgot-password/verify-otp", authHandler.VerifyAdminOTP)
			adminAuth.POST("/forgot-password/reset", authHandler.ResetAdminPassword)
		}

		// --- Public catalog reads ---
		api.GET("/courses", courseHandler.List)
		api.GET("/courses/:id", courseHandler.GetByID)
		api.GET("/reviews", reviewHandler.List)
		api.GET("/reviews/course/:courseId", reviewHandler.ListByCourse)

		// --- Authenticated content reads ---
		content := api.Group("")
		content.Use(authMiddleware)
		{
			content.GET("/videos", mediaHandler.ListVideos)
			content.GET("/videos/:id", mediaHandler.GetVideo)
			content.GET("/videos/course/:courseId", mediaHandler.ListVideosByCourse)
			content.GET("/notes", mediaHandler.ListNotes)
			content.GET("/notes/:id", mediaHandler.GetNote)
			content.GET("/notes/course/:courseId", mediaHandler.ListNotesByCourse)
			content.GET("/quizzes", quizHandler.List)
			content.GET("/quizzes/:id", quizHandler.GetByID)
			content.GET("/quizzes/course/:courseId", quizHandler.ListByCourse)

			content.POST("/reviews", reviewHandler.Create)

			// Payments (learner side)
			content.POST("/payments/create-order", paymentHandler.CreateOrder)
			content.POST("/payments", paymentHandler.Record)

			// Progress (payment gate enforced inside the service)
			content.GET("/progress", progressHandler.Get)
			content.POST("/progress/video", progressHandler.MarkVideoWatched)
			content.POST("/progress/notes", progressHandler.MarkNotesViewed)
			content.POST("/progress/assignment", progressHandler.MarkAssignmentSubmitted)
			content.POST("/progress/quiz", progressHandler.SubmitQuiz)
			content.POST("/progress/certificate", progressHandler.GenerateCertificate)

			// Alias kept for frontends that post scores directly.
			content.POST("/quiz-submissions", progressHandler.SubmitQuiz)
		}

		// --- Admin-only management ---
		admin := api.Group("")
		admin.Use(authMiddleware, adminOnly)
		{
			admin.POST("/courses", courseHandler.Create)
			admin.PUT("/courses/:id", courseHandler.Update)
			admin.DELETE("/courses/:id", courseHandler.Delete)

			admin.POST("/videos", mediaHandler.UploadVideo)
			admin.PUT("/videos/:id", mediaHandler.UpdateVideo)
			admin.DELETE("/videos/:id", mediaHandler.DeleteVideo)

			admin.POST("/notes", mediaHandler.UploadNote)
			admin.PUT("/notes/:id", mediaHandler.UpdateNote)
			admin.DELETE("/notes/:id", mediaHandler.DeleteNote)

			admin.POST("/quizzes", quizHandler.Create)
			admin.PUT("/quizzes/:id", quizHandler.Update)
			admin.DELETE("/quizzes/:id", quizHandler.Delete)

			admin.GET("/payments/all", paymentHandler.ListAll)
			admin.GET("/payments/pending", paymentHandler.ListPending)
			admin.POST("/payments/:id/approve", paymentHandler.Approve)
			admin.POST("/payments/:id/reject", paymentHandler.Reject)

			admin.GET("/quiz-submissions", progressHandler.ListSubmissions)

			admin.POST("/reviews/:id/reply", reviewHandler.Reply)
			admin.DELETE("/reviews/:id", reviewHandler.Delete)
		}
	}
}
