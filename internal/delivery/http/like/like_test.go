package http_like

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	likes_mocks "github.com/humanbelnik/moviemingle/internal/delivery/http/like/mocks/likes"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	resolver_mocks "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth/mocks/resolver"
	"github.com/humanbelnik/moviemingle/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type LikeControllerUnitSuite struct {
	suite.Suite
}

func setup(t provider.T, user *model.User) (*gin.Engine, *likes_mocks.Likes) {
	gin.SetMode(gin.TestMode)
	likes := likes_mocks.NewLikes(t)
	resolver := resolver_mocks.NewSessionResolver(t)
	resolver.On("CurrentUser", mock.Anything, "tok").Return(user, nil).Once()

	e := gin.New()
	New(likes, http_auth_middleware.New(resolver)).RegisterRoutes(e.Group("/api"))
	return e, likes
}

func get(e *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/likes", nil)
	req.Header.Set(http_common.SessionHeader, "tok")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func (s *LikeControllerUnitSuite) TestList(t provider.T) {
	t.Parallel()

	user := &model.User{ID: uuid.New()}

	t.Run("Should list likes of the signed in user", func(t provider.T) {
		e, likes := setup(t, user)
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		likes.On("List", mock.Anything, user.ID).Return([]model.LikeRecord{
			{UserID: user.ID, ProviderID: 603, Title: "The Matrix", CreatedAt: at},
		}, nil).Once()

		w := get(e)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"likes":[{"tmdb_id":603,"movie_title":"The Matrix","created_at":"2024-05-01T12:00:00Z"}]}`, w.Body.String())
	})

	t.Run("Should return empty list", func(t provider.T) {
		e, likes := setup(t, user)
		likes.On("List", mock.Anything, user.ID).Return([]model.LikeRecord{}, nil).Once()

		w := get(e)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"likes":[]}`, w.Body.String())
	})

	t.Run("Should fail on store error", func(t provider.T) {
		e, likes := setup(t, user)
		likes.On("List", mock.Anything, user.ID).Return(nil, errors.New("db down")).Once()

		w := get(e)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestLikeControllerUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(LikeControllerUnitSuite))
}
