package routes

import (
	"github.com/bookbite/bookbite/controllers"
	"github.com/bookbite/bookbite/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes the payout review and audit routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/payouts", controllers.ListPayouts)
		admin.PUT("/payouts/:id", controllers.ResolvePayout)
		admin.GET("/payouts/export/excel", controllers.DownloadPayoutReportExcel)
		admin.GET("/payouts/export/pdf", controllers.DownloadPayoutReportPDF)
		admin.GET("/wallets/:id/reconcile", controllers.ReconcileWallet)
	}
}
