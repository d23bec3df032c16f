package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func actorLimitedRouter(r rate.Limit, b int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/claims/:period/submit", func(c *gin.Context) {
		c.Set("actor_id", c.GetHeader("X-Actor"))
		c.Next()
	}, RateLimitByActor(r, b), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func postAs(router *gin.Engine, actor string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/claims/2025-07/submit", nil)
	if actor != "" {
		req.Header.Set("X-Actor", actor)
	}
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitByActor_LimitsPerActor(t *testing.T) {
	router := actorLimitedRouter(1, 2)

	assert.Equal(t, http.StatusOK, postAs(router, "actor-1"))
	assert.Equal(t, http.StatusOK, postAs(router, "actor-1"))
	assert.Equal(t, http.StatusTooManyRequests, postAs(router, "actor-1"))

	// Another actor has its own bucket.
	assert.Equal(t, http.StatusOK, postAs(router, "actor-2"))
}

func TestRateLimitByActor_PassesThroughUnauthenticated(t *testing.T) {
	router := actorLimitedRouter(1, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, postAs(router, ""))
	}
}
