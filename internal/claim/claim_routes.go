package claim

import (
	"payclaim/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	claims := r.Group("/claims")
	claims.Use(middleware.AuthMiddleware())

	// One shared limiter so an actor cannot spread transitions across routes.
	transitionLimit := middleware.RateLimitByActor(1, 5)
	{
		own := claims.Group("")
		own.Use(middleware.RoleMiddleware(middleware.RoleEmployee))
		{
			own.GET("/:period", handler.Get)
			own.PUT("/:period", handler.SaveDraft)
			own.POST("/:period/submit", transitionLimit, middleware.Idempotency(rdb), handler.Submit)
			own.POST("/:period/revoke", transitionLimit, handler.Revoke)
		}

		approver := claims.Group("")
		approver.Use(middleware.RoleMiddleware(middleware.RoleApprover))
		{
			approver.POST("/:period/employees/:employeeNumber/confirm", transitionLimit, middleware.Idempotency(rdb), handler.Confirm)
		}
	}
}
