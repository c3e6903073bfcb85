package infra_tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_catalog "github.com/humanbelnik/moviemingle/internal/usecase/catalog"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

const apiKey = "test-key"

type InfraTMDBUnitSuite struct {
	suite.Suite
}

func serve(t provider.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(apiKey, srv.URL+"/", time.Second)
}

func (s *InfraTMDBUnitSuite) TestPopular(t provider.T) {
	t.Parallel()

	t.Run("Should request popular listing and decode page", func(t provider.T) {
		c := serve(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movie/popular", r.URL.Path)
			assert.Equal(t, apiKey, r.URL.Query().Get("api_key"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "en-US", r.URL.Query().Get("language"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"page": 2,
				"total_pages": 500,
				"results": [
					{"id": 949, "title": "Heat", "release_date": "1995-12-15", "vote_average": 7.94,
					 "overview": "Robbers", "poster_path": "/heat.jpg", "genre_ids": [28, 80]},
					{"id": 1, "title": "No Poster", "release_date": "2001-01-01", "poster_path": null}
				]
			}`))
		})

		page, err := c.Popular(context.Background(), 2)

		assert.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 500, page.TotalPages)
		assert.Equal(t, []model.ProviderMovie{
			{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.94,
				Overview: "Robbers", PosterPath: "/heat.jpg", GenreIDs: []int{28, 80}},
			{ID: 1, Title: "No Poster", ReleaseDate: "2001-01-01"},
		}, page.Results)
	})

	t.Run("Should map non 2xx to upstream unavailable", func(t provider.T) {
		c := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
		})

		_, err := c.Popular(context.Background(), 1)

		assert.ErrorIs(t, err, usecase_catalog.ErrUpstreamUnavailable)
	})

	t.Run("Should map transport errors to upstream unavailable", func(t provider.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := New(apiKey, srv.URL, time.Second)

		_, err := c.Popular(context.Background(), 1)

		assert.ErrorIs(t, err, usecase_catalog.ErrUpstreamUnavailable)
	})

	t.Run("Should fail without api key and skip the network", func(t provider.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		t.Cleanup(srv.Close)
		c := New("", srv.URL, time.Second)

		_, err := c.Popular(context.Background(), 1)

		assert.ErrorIs(t, err, usecase_catalog.ErrMisconfigured)
		assert.False(t, called)
	})
}

func (s *InfraTMDBUnitSuite) TestDiscover(t provider.T) {
	t.Parallel()

	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "28", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"page": 3, "total_pages": 4, "results": []}`))
	})

	page, err := c.Discover(context.Background(), 3, 28)

	assert.NoError(t, err)
	assert.Equal(t, 4, page.TotalPages)
	assert.Empty(t, page.Results)
}

func (s *InfraTMDBUnitSuite) TestGenres(t provider.T) {
	t.Parallel()

	t.Run("Should decode genre list", func(t provider.T) {
		c := serve(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/genre/movie/list", r.URL.Path)
			_, _ = w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 35, "name": "Comedy"}]}`))
		})

		genres, err := c.Genres(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []model.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, genres)
	})

	t.Run("Should treat malformed body as upstream failure", func(t provider.T) {
		c := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		})

		_, err := c.Genres(context.Background())

		assert.ErrorIs(t, err, usecase_catalog.ErrUpstreamUnavailable)
	})
}

func TestTMDBUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(InfraTMDBUnitSuite))
}
