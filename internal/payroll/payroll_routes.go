package payroll

import (
	"payclaim/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.GET("/:period/preview", middleware.RoleMiddleware(middleware.RoleEmployee), handler.Preview)

		approver := payroll.Group("")
		approver.Use(middleware.RoleMiddleware(middleware.RoleApprover))
		{
			approver.GET("/:period/summary", handler.GetSummary)
			approver.GET("/:period/export", handler.ExportCSV)
		}
	}
}
