package http_deck

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_deck "github.com/humanbelnik/moviemingle/internal/usecase/deck"
)

type Registry interface {
	Open(ctx context.Context, token model.SessionToken) (*usecase_deck.Deck, error)
	Get(token model.SessionToken) (*usecase_deck.Deck, bool)
}

type ChangeGenreRequestDTO struct {
	GenreID *model.GenreID `json:"genre_id" example:"28"`
}

type MatchesResponseDTO struct {
	Matches []http_common.MovieDTO `json:"matches"`
}

type Controller struct {
	registry Registry
	auth     *http_auth_middleware.Middleware

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(registry Registry,
	auth *http_auth_middleware.Middleware,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		registry: registry,
		auth:     auth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	deck := router.Group("/deck", c.auth.AuthRequired())
	deck.POST("", c.open)
	deck.GET("", c.state)
	deck.POST("/like", c.like)
	deck.POST("/pass", c.pass)
	deck.POST("/restart", c.restart)
	deck.PUT("/genre", c.changeGenre)
	deck.GET("/matches", c.matches)
}

// @Summary Start swiping
// @Description Opens a fresh deck for the session: first popular page plus already liked movies of it as matches
// @Tags Deck
// @Produce json
// @Success 200 {object} http_common.SnapshotDTO
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /deck [post]
func (c *Controller) open(ctx *gin.Context) {
	d, err := c.registry.Open(ctx.Request.Context(), http_common.Token(ctx))
	if err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, http_common.ToSnapshotDTO(d.State()))
}

// @Summary Deck state
// @Tags Deck
// @Produce json
// @Success 200 {object} http_common.SnapshotDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Router /deck [get]
func (c *Controller) state(ctx *gin.Context) {
	d, ok := c.deck(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, http_common.ToSnapshotDTO(d.State()))
}

// @Summary Like current card
// @Tags Deck
// @Produce json
// @Success 200 {object} http_common.SnapshotDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse
// @Router /deck/like [post]
func (c *Controller) like(ctx *gin.Context) {
	c.apply(ctx, func(d *usecase_deck.Deck) error {
		return d.Like(ctx.Request.Context())
	})
}

// @Summary Pass current card
// @Tags Deck
// @Produce json
// @Success 200 {object} http_common.SnapshotDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse
// @Router /deck/pass [post]
func (c *Controller) pass(ctx *gin.Context) {
	c.apply(ctx, func(d *usecase_deck.Deck) error {
		return d.Pass(ctx.Request.Context())
	})
}

// @Summary Swipe the deck again
// @Tags Deck
// @Produce json
// @Success 200 {object} http_common.SnapshotDTO
// @Failure 409 {object} http_common.ErrorResponse
// @Router /deck/restart [post]
func (c *Controller) restart(ctx *gin.Context) {
	c.apply(ctx, func(d *usecase_deck.Deck) error {
		return d.Restart()
	})
}

// @Summary Change genre filter
// @Description null genre_id removes the filter
// @Tags Deck
// @Accept json
// @Produce json
// @Param request body ChangeGenreRequestDTO true "Genre"
// @Success 200 {object} http_common.SnapshotDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse
// @Router /deck/genre [put]
func (c *Controller) changeGenre(ctx *gin.Context) {
	var req ChangeGenreRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: "Invalid request format"})
		return
	}
	if req.GenreID != nil && *req.GenreID < 1 {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: "invalid genre"})
		return
	}

	c.apply(ctx, func(d *usecase_deck.Deck) error {
		return d.ChangeGenre(ctx.Request.Context(), req.GenreID)
	})
}

// @Summary Matches
// @Tags Deck
// @Produce json
// @Success 200 {object} MatchesResponseDTO
// @Failure 404 {object} http_common.ErrorResponse
// @Router /deck/matches [get]
func (c *Controller) matches(ctx *gin.Context) {
	d, ok := c.deck(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, MatchesResponseDTO{
		Matches: http_common.ToMovieDTOs(d.State().Matches),
	})
}

func (c *Controller) apply(ctx *gin.Context, op func(d *usecase_deck.Deck) error) {
	d, ok := c.deck(ctx)
	if !ok {
		return
	}

	if err := op(d); err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, http_common.ToSnapshotDTO(d.State()))
}

func (c *Controller) deck(ctx *gin.Context) (*usecase_deck.Deck, bool) {
	d, ok := c.registry.Get(http_common.Token(ctx))
	if !ok {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Error: "no deck for this session"})
		return nil, false
	}
	return d, true
}

func (c *Controller) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase_deck.ErrUnauthenticated):
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Error: "not signed in"})
	case errors.Is(err, usecase_deck.ErrBusy),
		errors.Is(err, usecase_deck.ErrInvalidTransition),
		errors.Is(err, usecase_deck.ErrClosed):
		ctx.JSON(http.StatusConflict, http_common.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase_deck.ErrNextPage),
		errors.Is(err, usecase_deck.ErrGenrePage):
		c.logger.Warn("deck page fetch failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{Error: "Failed to fetch movies from TMDB"})
	default:
		c.logger.Error("deck operation failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Error: "Failed to load movies"})
	}
}
