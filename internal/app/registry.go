package app

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"payclaim/internal/auth"
	"payclaim/internal/claim"
	"payclaim/internal/config"
	"payclaim/internal/employee"
	"payclaim/internal/messaging/kafka"
	"payclaim/internal/middleware"
	"payclaim/internal/payroll"
	"payclaim/internal/review"
	"payclaim/internal/shared/counter"
	"payclaim/internal/store"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(cors.Default())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(20, 40))

	// --- Repositories ---
	kvStore := store.NewRetryingStore(store.NewSQLStore(db))
	claimRepo := claim.NewRepository(kvStore)
	reviewRepo := review.NewRepository(kvStore)
	employeeRepo := employee.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	claimService := claim.NewServiceWithOutbox(db, claimRepo, employeeRepo, outboxRepo)
	reviewService := review.NewService(db, reviewRepo, claimRepo, cfg.Rates)
	payrollService := payroll.NewService(claimRepo, reviewRepo, cfg.Rates, rdb)
	authService := auth.NewService(employeeRepo, cfg)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	employeeHandler := employee.NewHandler(employeeService)
	claimHandler := claim.NewHandlerWithRedis(claimService, rdb)
	reviewHandler := review.NewHandler(reviewService)
	payrollHandler := payroll.NewHandler(payrollService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		employee.RegisterRoutes(api, employeeHandler)
		claim.RegisterRoutes(api, claimHandler, rdb)
		review.RegisterRoutes(api, reviewHandler)
		payroll.RegisterRoutes(api, payrollHandler)
	}

	return nil
}
