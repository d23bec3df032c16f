package auth

import (
	"payclaim/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		// Login endpoints are the brute-force surface, so they get a
		// tighter per-IP budget than the rest of the API.
		login := auth.Group("")
		login.Use(middleware.RateLimitByIP(1, 5))
		{
			login.POST("/employee/login", handler.LoginEmployee)
			login.POST("/approver/login", handler.LoginApprover)
		}

		auth.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
