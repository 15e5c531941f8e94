package routes

import (
	"vertigo-backend/config"
	"vertigo-backend/controllers"
	"vertigo-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const cronSecretHeader = "X-Cron-Secret"

type Controllers struct {
	Auth      *controllers.AuthController
	Orders    *controllers.OrderController
	Invoices  *controllers.InvoiceController
	Recurring *controllers.RecurringController
	Referrals *controllers.ReferralController
}

func SetupRouter(cfg config.Config, log *zap.Logger, ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.GET("/me", utils.AuthMiddleware(cfg.JWTSecret), ctrl.Auth.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/workflow/statuses", ctrl.Orders.ListStatuses)

		orders := api.Group("/orders")
		{
			orders.GET("/:id/workflow", ctrl.Orders.GetWorkflow)
			orders.GET("/:id/history", ctrl.Orders.GetHistory)
			orders.PATCH("/:id/status", ctrl.Orders.UpdateStatus)
			orders.GET("/:id/invoices", ctrl.Invoices.ListForOrder)
			orders.POST("/:id/invoices", ctrl.Invoices.CreateFromOrder)
		}

		referrals := api.Group("/referrals")
		{
			referrals.POST("", ctrl.Referrals.CreateInvitation)
			referrals.POST("/validate", ctrl.Referrals.Validate)
			referrals.POST("/redeem", ctrl.Referrals.Redeem)
		}

		api.POST("/customers/:id/referral-code", ctrl.Referrals.PersonalCode)
		api.GET("/customers/:id/referrals", ctrl.Referrals.ListForReferrer)
		api.GET("/recurring-invoices/:id/invoices", ctrl.Recurring.ListInvoices)
	}

	internal := r.Group("/internal")
	internal.Use(utils.SharedSecretMiddleware(cronSecretHeader, cfg.CronSecret))
	{
		internal.POST("/recurring-invoices/process", ctrl.Recurring.Process)
	}

	return r
}
