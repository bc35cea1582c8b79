package router

import (
	"net/http"
	"time"

	"cupomzone/config"
	"cupomzone/controllers"
	"cupomzone/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Initialize amarra rotas e middlewares.
// Três camadas: público, autenticado (sessão obrigatória) e admin (Adminizer).
func Initialize(r *gin.Engine, cfg config.Configuration) {
	controllers.SetConfigurations(cfg)

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.Metrics())
	r.Use(controllers.SessionLoader())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Stripe chama direto, sem sessão
	api.POST("/webhooks/stripe", Logger(), controllers.StripeWebhook)

	// Público (sem auth; sessão, quando presente, libera código premium)
	api.POST("/register", Logger(), controllers.Register)
	api.POST("/login", Logger(), controllers.Login)
	api.POST("/logout", Logger(), controllers.Logout)
	api.GET("/coupons", Logger(), controllers.GetCoupons)
	api.GET("/coupons/:id", Logger(), controllers.GetCouponByID)
	api.GET("/subscriptions", Logger(), controllers.GetSubscriptions)
	api.POST("/feedback", Logger(), middleware.RateLimit("feedback", 5, 5*time.Minute), controllers.CreateFeedback)

	// Autenticado (sessão obrigatória)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	auth.GET("/me", Logger(), controllers.Me)
	auth.PUT("/user", Logger(), controllers.UpdateUser)
	auth.DELETE("/user", Logger(), controllers.DeleteUser)
	auth.POST("/avatar", Logger(), controllers.UploadAvatar)

	auth.GET("/favorites", Logger(), controllers.GetFavorites)
	auth.POST("/favorites", Logger(), controllers.AddFavorite)
	auth.DELETE("/favorites/:id", Logger(), controllers.RemoveFavorite)

	auth.POST("/subscriptions/create", Logger(), controllers.CreateSubscription)
	auth.POST("/subscriptions/change-plan", Logger(), controllers.ChangePlan)
	auth.POST("/subscriptions/cancel", Logger(), controllers.CancelSubscription)
	auth.POST("/checkout/payment-intent", Logger(), controllers.CreatePaymentIntent)

	auth.GET("/chat/conversations", Logger(), controllers.GetConversations)
	auth.GET("/chat/:id/messages", Logger(), controllers.GetMessages)
	auth.POST("/chat/:id/messages", Logger(), controllers.SendMessage)

	// Admin
	admin := auth.Group("")
	admin.Use(Adminizer())

	admin.GET("/feedback", Logger(), controllers.GetFeedbacks)
	admin.PATCH("/feedback/:id", Logger(), controllers.UpdateFeedbackStatus)
	admin.DELETE("/feedback/:id", Logger(), controllers.DeleteFeedback)
	admin.POST("/chat/conversations", Logger(), controllers.CreateConversation)

	admin.GET("/admin/stats", Logger(), controllers.GetAdminStats)
	admin.GET("/admin/users", Logger(), controllers.GetAdminUsers)
	admin.PUT("/admin/users/:id", Logger(), controllers.UpdateAdminUser)
	admin.DELETE("/admin/users/:id", Logger(), controllers.DeleteAdminUser)
	admin.GET("/admin/coupons", Logger(), controllers.GetAdminCoupons)
	admin.POST("/admin/coupons", Logger(), controllers.CreateCoupon)
	admin.PUT("/admin/coupons/:id", Logger(), controllers.UpdateCoupon)
	admin.DELETE("/admin/coupons/:id", Logger(), controllers.DeleteCoupon)
	admin.GET("/admin/subscriptions", Logger(), controllers.GetAdminSubscriptions)
}
