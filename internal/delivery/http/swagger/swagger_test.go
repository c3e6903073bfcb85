package http_swagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type SwaggerControllerUnitSuite struct {
	suite.Suite
}

func (s *SwaggerControllerUnitSuite) TestUI(t provider.T) {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	New().RegisterRoutes(e.Group("/api"))

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/swagger/index.html", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")
}

func TestSwaggerControllerUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(SwaggerControllerUnitSuite))
}
