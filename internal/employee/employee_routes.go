package employee

import (
	"payclaim/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Roster management is approver-only: the reference system's back office is
// where employees get added with their number, name and credential.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.RoleMiddleware(middleware.RoleApprover))
	{
		employees.GET("", handler.GetAll)
		employees.GET("/options", handler.GetOptions)
		employees.GET("/:id", handler.GetByID)
		employees.POST("", handler.Create)
		employees.PUT("/:id", handler.Update)
		employees.DELETE("/:id", handler.Delete)
	}
}
