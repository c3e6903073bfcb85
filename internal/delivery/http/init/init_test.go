package http_init

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingController struct{}

func (pingController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})
}

func TestControllerPoolMountsUnderPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen bool
	pool := NewControllerPool(func(ctx *gin.Context) {
		seen = true
		ctx.Next()
	})
	pool.Add(pingController{})
	pool.Register()

	w := httptest.NewRecorder()
	pool.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.True(t, seen)

	w = httptest.NewRecorder()
	pool.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
