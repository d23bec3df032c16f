package claim

import (
	"encoding/json"
	"net/http"
	"time"

	"payclaim/internal/shared/apperror"
	"payclaim/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("claim.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("claim.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

// The idempotency middleware acquires the lock and records the cache key;
// storing the outcome and releasing the lock is the handler's side of the
// contract. Only successful transitions are cached for replay.

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		h.rdb.Del(c.Request.Context(), lockKey)
	}
}

func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp ClaimResponse) {
	if h.rdb == nil {
		return
	}
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		h.rdb.Set(c.Request.Context(), cacheKey, payload, 24*time.Hour)
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("claim request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Employee routes operate on the caller's own claim: the employee number
// comes from the token, never from the URL.

func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.LoadOrCreate(c.Request.Context(), c.GetString("employee_number"), c.Param("period"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SaveDraft(c *gin.Context) {
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http save draft validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SaveDraft(c.Request.Context(), c.GetString("employee_number"), c.Param("period"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	resp, err := h.service.Submit(c.Request.Context(), c.GetString("employee_number"), c.Param("period"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Revoke(c *gin.Context) {
	resp, err := h.service.Revoke(c.Request.Context(), c.GetString("employee_number"), c.Param("period"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Confirm is approver-only and therefore addresses the claim explicitly.
func (h *Handler) Confirm(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	resp, err := h.service.Confirm(c.Request.Context(), c.Param("employeeNumber"), c.Param("period"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}
