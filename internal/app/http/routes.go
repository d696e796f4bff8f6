package routes

import (
	"time"

	adminapi "memorial-app/internal/api/admin"
	authapi "memorial-app/internal/api/auth"
	"memorial-app/internal/api/billing"
	memorialapi "memorial-app/internal/api/memorials"
	"memorial-app/internal/api/obituary"
	publicapi "memorial-app/internal/api/public"
	stripewebhooks "memorial-app/internal/api/stripewebhook"
	"memorial-app/internal/api/users"
	"memorial-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Webhook body must stay byte-exact for signature verification, so
	// it is registered outside the sanitized groups.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Public memorial pages. Viewer identity is optional: it only
	// matters for private and password-protected pages.
	guestbookLimiter := middleware.NewMemoryLimiter(5, time.Minute)
	pages := r.Group("/m")
	pages.Use(middleware.SanitizeInputMiddleware(), middleware.OptionalAuthMiddleware())
	pages.GET("/:slug", publicapi.GetPublicMemorial)
	pages.POST("/:slug/guestbook", middleware.RateLimit(guestbookLimiter, time.Minute), publicapi.SignGuestbook)
	pages.POST("/:slug/prayer-list", publicapi.JoinPrayerList)
	pages.DELETE("/:slug/prayer-list", publicapi.LeavePrayerList)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)
	auth.GET("/payments", billing.GetPaymentHistory)

	auth.GET("/memorials", memorialapi.ListMemorials)
	auth.POST("/memorials", memorialapi.CreateMemorial)
	auth.GET("/memorials/check-url", memorialapi.CheckURLAvailability)
	auth.GET("/memorials/:id", memorialapi.GetMemorial)
	auth.PUT("/memorials/:id", memorialapi.UpdateMemorial)
	auth.DELETE("/memorials/:id", memorialapi.DeleteMemorial)

	auth.POST("/memorials/:id/contributors", memorialapi.AddContributor)
	auth.DELETE("/memorials/:id/contributors/:userID", memorialapi.RemoveContributor)

	auth.POST("/memorials/:id/photos", memorialapi.AddPhoto)
	auth.DELETE("/memorials/:id/photos/:photoID", memorialapi.DeletePhoto)

	auth.POST("/memorials/:id/checkout", billing.CreateCheckoutSession)
	auth.POST("/memorials/:id/verify-payment", billing.VerifyPayment)

	obituaryLimiter := middleware.NewMemoryLimiter(10, time.Hour)
	auth.POST("/obituary/generate", middleware.RateLimit(obituaryLimiter, time.Hour), obituary.GenerateObituary)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/payments", adminapi.ListAllPayments)
	admin.GET("/stats", adminapi.GetAdminStats)
}
