package routes

import (
	"github.com/bookbite/bookbite/controllers"
	"github.com/bookbite/bookbite/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes auth, wallet and manager payout routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/register", controllers.RegisterUser)
	router.POST("/login", controllers.LoginUser)

	// Wallet routes (any authenticated actor)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/wallet", controllers.GetWallet)
		protected.POST("/wallet/topup/initiate", controllers.InitiateWalletTopup)
		protected.POST("/wallet/topup/verify", controllers.VerifyWalletTopup)
		protected.POST("/wallet/pay", controllers.PayWithWallet)
	}

	// Manager routes
	manager := router.Group("/manager")
	manager.Use(middleware.AuthMiddleware(), middleware.ManagerMiddleware())
	{
		manager.POST("/wallet/payout", controllers.RequestPayout)
	}
}
