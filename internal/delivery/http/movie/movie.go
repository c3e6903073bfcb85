package http_movie

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_catalog "github.com/humanbelnik/moviemingle/internal/usecase/catalog"
)

//go:generate mockery --name=Catalog --output=./mocks/catalog --filename=catalog.go
type Catalog interface {
	FetchPage(ctx context.Context, page int, genre *model.GenreID) (model.Page, error)
	FetchGenres(ctx context.Context) ([]model.Genre, error)
}

// MoviesPageResponseDTO is one normalized catalog page
type MoviesPageResponseDTO struct {
	Movies      []http_common.MovieDTO `json:"movies"`
	TotalPages  int                    `json:"total_pages" example:"500"`
	CurrentPage int                    `json:"current_page" example:"1"`
}

type GenresResponseDTO struct {
	Genres []model.Genre `json:"genres"`
}

type Controller struct {
	catalog Catalog

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(catalog Catalog,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		catalog: catalog,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/movies", c.getMovies)
	router.GET("/genres", c.getGenres)
}

// @Summary Movies page
// @Description Popular movies, or movies of one genre by popularity, with posters only
// @Tags Catalog
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Param genre query int false "Genre id"
// @Success 200 {object} MoviesPageResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /movies [get]
func (c *Controller) getMovies(ctx *gin.Context) {
	page, err := positiveQuery(ctx, "page", 1)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: "invalid page"})
		return
	}

	var genre *model.GenreID
	if ctx.Query("genre") != "" {
		g, err := positiveQuery(ctx, "genre", 0)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: "invalid genre"})
			return
		}
		genre = &g
	}

	p, err := c.catalog.FetchPage(ctx.Request.Context(), page, genre)
	if err != nil {
		c.logger.Error("failed to fetch movies", slog.Int("page", page), slog.String("error", err.Error()))
		ctx.JSON(c.failure(err, "Failed to fetch movies from TMDB"))
		return
	}

	ctx.JSON(http.StatusOK, MoviesPageResponseDTO{
		Movies:      http_common.ToMovieDTOs(p.Movies),
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
	})
}

// @Summary Genres
// @Tags Catalog
// @Produce json
// @Success 200 {object} GenresResponseDTO
// @Failure 500 {object} http_common.ErrorResponse
// @Router /genres [get]
func (c *Controller) getGenres(ctx *gin.Context) {
	genres, err := c.catalog.FetchGenres(ctx.Request.Context())
	if err != nil {
		c.logger.Error("failed to fetch genres", slog.String("error", err.Error()))
		ctx.JSON(c.failure(err, "Failed to fetch genres"))
		return
	}

	ctx.JSON(http.StatusOK, GenresResponseDTO{Genres: genres})
}

func (c *Controller) failure(err error, fallback string) (int, http_common.ErrorResponse) {
	switch {
	case errors.Is(err, usecase_catalog.ErrInvalidInput):
		return http.StatusBadRequest, http_common.ErrorResponse{Error: err.Error()}
	case errors.Is(err, usecase_catalog.ErrMisconfigured):
		return http.StatusInternalServerError, http_common.ErrorResponse{Error: "TMDB API key not configured"}
	default:
		return http.StatusInternalServerError, http_common.ErrorResponse{Error: fallback}
	}
}

func positiveQuery(ctx *gin.Context, key string, def int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, usecase_catalog.ErrInvalidInput
	}
	return v, nil
}
