package http_deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	resolver_mocks "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth/mocks/resolver"
	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_deck "github.com/humanbelnik/moviemingle/internal/usecase/deck"
	catalog_mocks "github.com/humanbelnik/moviemingle/internal/usecase/deck/mocks/catalog"
	identity_mocks "github.com/humanbelnik/moviemingle/internal/usecase/deck/mocks/identity"
	likes_mocks "github.com/humanbelnik/moviemingle/internal/usecase/deck/mocks/likes"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const token = "tok"

var noGenre *model.GenreID

type DeckControllerUnitSuite struct {
	suite.Suite
}

type resources struct {
	engine   *gin.Engine
	registry *usecase_deck.Registry
	catalog  *catalog_mocks.Catalog
	likes    *likes_mocks.LikesStore
	identity *identity_mocks.Identity
	user     *model.User
}

func initResources(t provider.T) *resources {
	gin.SetMode(gin.TestMode)
	r := &resources{
		catalog:  catalog_mocks.NewCatalog(t),
		likes:    likes_mocks.NewLikesStore(t),
		identity: identity_mocks.NewIdentity(t),
		user:     &model.User{ID: uuid.New(), Email: "viewer@example.com", Confirmed: true},
		engine:   gin.New(),
	}
	r.registry = usecase_deck.NewRegistry(r.catalog, r.likes, r.identity)

	resolver := resolver_mocks.NewSessionResolver(t)
	resolver.On("CurrentUser", mock.Anything, token).Return(r.user, nil).Maybe()

	New(r.registry, http_auth_middleware.New(resolver)).RegisterRoutes(r.engine.Group("/api"))
	return r
}

func movies(from, n int64) []model.Movie {
	ms := make([]model.Movie, 0, n)
	for i := range n {
		id := from + i
		ms = append(ms, model.Movie{
			ID:         model.MovieIDFromProvider(id),
			Title:      fmt.Sprintf("Movie %d", id),
			Genre:      model.PlaceholderGenre,
			ImageURL:   "https://image.tmdb.org/t/p/w500/x.jpg",
			ProviderID: id,
		})
	}
	return ms
}

func (r *resources) expectOpen(first model.Page, liked model.LikedSet) {
	r.identity.On("CurrentUser", mock.Anything, token).Return(r.user, nil).Once()
	r.catalog.On("FetchPage", mock.Anything, 1, noGenre).Return(first, nil).Once()
	r.likes.On("ListLikedMovieIDs", mock.Anything, r.user.ID).Return(liked, nil).Once()
}

func (r *resources) do(method, target, body string) (int, http_common.SnapshotDTO, string) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(http_common.SessionHeader, token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, req)

	var snap http_common.SnapshotDTO
	_ = json.Unmarshal(w.Body.Bytes(), &snap)
	return w.Code, snap, w.Body.String()
}

func (s *DeckControllerUnitSuite) TestOpen(t provider.T) {
	t.Parallel()

	t.Run("Should open deck with matches from first page", func(t provider.T) {
		r := initResources(t)
		r.expectOpen(model.Page{Movies: movies(1, 3), TotalPages: 2, CurrentPage: 1}, model.LikedSet{2: {}})

		code, snap, _ := r.do(http.MethodPost, "/api/deck", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, usecase_deck.PhaseSwiping, snap.Phase)
		assert.Equal(t, "tmdb_1", snap.Current.ID)
		if assert.Len(t, snap.Matches, 1) {
			assert.Equal(t, int64(2), snap.Matches[0].TMDBID)
		}
	})

	t.Run("Should report empty catalog", func(t provider.T) {
		r := initResources(t)
		r.expectOpen(model.Page{TotalPages: 1, CurrentPage: 1}, nil)

		code, snap, _ := r.do(http.MethodPost, "/api/deck", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, usecase_deck.PhaseEmpty, snap.Phase)
		assert.Nil(t, snap.Current)
	})

	t.Run("Should answer 401 when identity has no user", func(t provider.T) {
		r := initResources(t)
		r.identity.On("CurrentUser", mock.Anything, token).Return(nil, nil).Once()

		code, _, _ := r.do(http.MethodPost, "/api/deck", "")

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Zero(t, r.registry.Len())
	})

	t.Run("Should answer 500 when first page fails", func(t provider.T) {
		r := initResources(t)
		r.identity.On("CurrentUser", mock.Anything, token).Return(r.user, nil).Once()
		r.catalog.On("FetchPage", mock.Anything, 1, noGenre).Return(model.Page{}, errors.New("boom")).Once()

		code, _, body := r.do(http.MethodPost, "/api/deck", "")

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.JSONEq(t, `{"error":"Failed to load movies"}`, body)
	})
}

func (s *DeckControllerUnitSuite) TestSwipes(t provider.T) {
	t.Parallel()

	t.Run("Should answer 404 without a deck", func(t provider.T) {
		r := initResources(t)

		for _, target := range []string{"/api/deck/like", "/api/deck/pass", "/api/deck/restart"} {
			code, _, _ := r.do(http.MethodPost, target, "")
			assert.Equal(t, http.StatusNotFound, code, target)
		}
		code, _, _ := r.do(http.MethodGet, "/api/deck", "")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Should like pass and review", func(t provider.T) {
		r := initResources(t)
		r.expectOpen(model.Page{Movies: movies(1, 2), TotalPages: 1, CurrentPage: 1}, nil)
		r.likes.On("RecordLike", mock.Anything, r.user.ID, int64(1), "Movie 1").Return(nil).Once()

		r.do(http.MethodPost, "/api/deck", "")

		code, snap, _ := r.do(http.MethodPost, "/api/deck/like", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, 1, snap.Cursor)

		code, snap, _ = r.do(http.MethodPost, "/api/deck/pass", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, usecase_deck.PhaseReviewing, snap.Phase)

		d, _ := r.registry.Get(token)
		d.Wait()

		code, _, body := r.do(http.MethodGet, "/api/deck/matches", "")
		assert.Equal(t, http.StatusOK, code)
		var matches MatchesResponseDTO
		assert.NoError(t, json.Unmarshal([]byte(body), &matches))
		assert.Len(t, matches.Matches, 1)

		code, snap, _ = r.do(http.MethodPost, "/api/deck/restart", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, usecase_deck.PhaseSwiping, snap.Phase)
		assert.Equal(t, 0, snap.Cursor)
	})

	t.Run("Should answer 409 on restart while swiping", func(t provider.T) {
		r := initResources(t)
		r.expectOpen(model.Page{Movies: movies(1, 2), TotalPages: 1, CurrentPage: 1}, nil)
		r.do(http.MethodPost, "/api/deck", "")

		code, _, _ := r.do(http.MethodPost, "/api/deck/restart", "")

		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("Should answer 502 when next page fails", func(t provider.T) {
		r := initResources(t)
		r.expectOpen(model.Page{Movies: movies(1, 1), TotalPages: 2, CurrentPage: 1}, nil)
		r.catalog.On("FetchPage", mock.Anything, 2, noGenre).Return(model.Page{}, errors.New("timeout")).Once()
		r.do(http.MethodPost, "/api/deck", "")

		code, _, _ := r.do(http.MethodPost, "/api/deck/pass", "")
		assert.Equal(t, http.StatusBadGateway, code)

		code, snap, _ := r.do(http.MethodGet, "/api/deck", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "tmdb_1", snap.Current.ID)
	})
}

func (s *DeckControllerUnitSuite) TestChangeGenre(t provider.T) {
	t.Parallel()

	t.Run("Should refetch with the genre", func(t provider.T) {
		r := initResources(t)
		r.expectOpen(model.Page{Movies: movies(1, 2), TotalPages: 1, CurrentPage: 1}, nil)
		genre := 28
		r.catalog.On("FetchPage", mock.Anything, 1, &genre).
			Return(model.Page{Movies: movies(50, 1), TotalPages: 3, CurrentPage: 1}, nil).Once()
		r.do(http.MethodPost, "/api/deck", "")

		code, snap, _ := r.do(http.MethodPut, "/api/deck/genre", `{"genre_id":28}`)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, 28, *snap.Genre)
		assert.Equal(t, "tmdb_50", snap.Current.ID)
	})

	t.Run("Should clear the genre with null", func(t provider.T) {
		r := initResources(t)
		r.expectOpen(model.Page{Movies: movies(1, 2), TotalPages: 1, CurrentPage: 1}, nil)
		r.catalog.On("FetchPage", mock.Anything, 1, noGenre).
			Return(model.Page{Movies: movies(1, 2), TotalPages: 1, CurrentPage: 1}, nil).Once()
		r.do(http.MethodPost, "/api/deck", "")

		code, snap, _ := r.do(http.MethodPut, "/api/deck/genre", `{"genre_id":null}`)

		assert.Equal(t, http.StatusOK, code)
		assert.Nil(t, snap.Genre)
	})

	t.Run("Should reject invalid genre", func(t provider.T) {
		r := initResources(t)

		code, _, _ := r.do(http.MethodPut, "/api/deck/genre", `{"genre_id":0}`)

		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestDeckControllerUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(DeckControllerUnitSuite))
}
