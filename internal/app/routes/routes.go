package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nacosng/feeclearance/internal/app/controllers"
	"github.com/nacosng/feeclearance/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	feeController *controllers.FeeController,
	paymentController *controllers.PaymentController,
	studentController *controllers.StudentController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// --- Public routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/verify-email", authController.VerifyEmail)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
		auth.POST("/logout", authController.Logout)
	}

	// Paystack calls this directly; the HMAC signature is the authentication.
	api.POST("/webhooks/paystack", paymentController.Webhook)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.RequireSession())
	{
		authenticated.GET("/auth/me", authController.Me)
	}

	// --- Student routes ---
	student := authenticated.Group("")
	student.Use(authMiddleware.RequireStudent())
	{
		student.GET("/fees", feeController.ListForStudent)

		payments := student.Group("/payments")
		{
			payments.POST("/initialize", paymentController.Initialize)
			payments.GET("/verify", paymentController.Verify)
		}

		me := student.Group("/student")
		{
			me.GET("/dashboard", studentController.Dashboard)
			me.GET("/payments", studentController.Payments)
			me.GET("/clearance", studentController.Clearance)
			me.GET("/profile", studentController.Profile)
			me.PUT("/profile", studentController.UpdateProfile)
			me.GET("/notifications", studentController.Notifications)
			me.POST("/notifications/:id/read", studentController.MarkNotificationRead)
			me.POST("/notifications/read-all", studentController.MarkAllNotificationsRead)
		}
	}

	// --- Admin routes ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.GET("/dashboard", adminController.Dashboard)
		admin.GET("/reports", adminController.Reports)
		admin.GET("/students", adminController.Students)
		admin.GET("/payments", adminController.Payments)
		admin.GET("/payments/export", adminController.ExportPayments)
		admin.GET("/settings", adminController.Settings)
		admin.PUT("/settings", adminController.UpdateSettings)

		fees := admin.Group("/fees")
		{
			fees.GET("", feeController.ListForAdmin)
			fees.POST("", feeController.Create)
			fees.PUT("/:id", feeController.Update)
			fees.DELETE("/:id", feeController.Delete)
		}
	}
}
