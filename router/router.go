package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/khalildhmine/neatify-server/controllers"
	"github.com/khalildhmine/neatify-server/middlewares"
	"github.com/khalildhmine/neatify-server/models"
	"github.com/khalildhmine/neatify-server/utils"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	// Uploaded category icons are served statically.
	r.Static("/uploads", utils.UploadDir())

	userCtrl := controllers.NewUserController(db)
	cleanerCtrl := controllers.NewCleanerController(db)
	adminCtrl := controllers.NewAdminController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	serviceCtrl := controllers.NewServiceController(db)
	bookingCtrl := controllers.NewBookingController(db)
	paymentCtrl := controllers.NewPaymentController(db)
	messageCtrl := controllers.NewMessageController(db)
	reviewCtrl := controllers.NewReviewController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
		public.POST("/cleaner/register", cleanerCtrl.Register)
		public.POST("/cleaner/login", cleanerCtrl.Login)
		public.POST("/admin/login", adminCtrl.Login)
		public.POST("/forgot-pass", userCtrl.ForgotPassword)
		public.POST("/reset-pass", userCtrl.ResetPassword)
	}
	r.POST("/refresh", userCtrl.Refresh)

	// Catalog browsing needs no login.
	r.GET("/category", categoryCtrl.GetAllCategories)
	r.GET("/services/get", serviceCtrl.GetAllServices)
	r.GET("/services/:service_id", serviceCtrl.GetServiceByID)
	r.GET("/services/:service_id/reviews", reviewCtrl.GetServiceReviews)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)
		auth.PUT("/profile", userCtrl.UpdateProfile)

		// Bookings (user side).
		user := auth.Group("/api")
		user.Use(middlewares.RequireRole(models.RoleUser))
		{
			user.POST("/bookings", bookingCtrl.CreateBooking)
			user.GET("/bookings", bookingCtrl.GetUserBookings)
			user.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateStatusByUser)
			user.POST("/reviews", reviewCtrl.CreateReview)
		}
		auth.GET("/api/bookings/:booking_id", bookingCtrl.GetBookingByID)

		// Bookings (cleaner side).
		cleaner := auth.Group("/cleaner")
		cleaner.Use(middlewares.RequireRole(models.RoleCleaner))
		{
			cleaner.GET("/bookings", bookingCtrl.GetCleanerBookings)
			cleaner.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateStatusByCleaner)
		}

		// Messaging, both roles.
		auth.POST("/api/messages", messageCtrl.SendMessage)
		auth.GET("/api/messages", messageCtrl.GetConversations)
		auth.GET("/api/messages/:conversation_id/messages", messageCtrl.GetMessages)

		// Payments.
		payment := auth.Group("/payment")
		payment.Use(middlewares.PaymentRateLimiter())
		{
			payment.POST("/initiate", paymentCtrl.InitiatePayment)
			payment.POST("/verify", paymentCtrl.VerifyPayment)
		}

		// Admin panel.
		admin := auth.Group("/admin")
		admin.Use(middlewares.RequireRole(models.RoleAdmin))
		{
			admin.GET("/getAllUsers", adminCtrl.GetAllUsers)
			admin.GET("/getAllCleaners", adminCtrl.GetAllCleaners)
			admin.DELETE("/cleaners/:cleaner_id", adminCtrl.DeleteCleaner)
			admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
			admin.DELETE("/category/:cat_id", categoryCtrl.DeleteCategory)
		}
	}

	// Catalog management keeps the unprefixed paths the admin panel calls.
	r.POST("/category",
		middlewares.AuthMiddleware(),
		middlewares.RequireRole(models.RoleAdmin),
		categoryCtrl.CreateCategory)
	r.POST("/services/create",
		middlewares.AuthMiddleware(),
		middlewares.RequireRole(models.RoleAdmin),
		serviceCtrl.CreateService)

	// WebSocket events for dashboards and apps.
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.EventsHandler)
	}

	return r
}
