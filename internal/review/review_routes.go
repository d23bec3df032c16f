package review

import (
	"payclaim/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(middleware.RoleApprover))
	{
		reviews.GET("/:period", handler.ListSubmitted)
		reviews.GET("/:period/employees/:employeeNumber", handler.Open)
		reviews.PATCH("/:period/employees/:employeeNumber", handler.Update)
	}
}
