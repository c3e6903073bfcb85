package http_like

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/moviemingle/internal/model"
)

//go:generate mockery --name=Likes --output=./mocks/likes --filename=likes.go
type Likes interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.LikeRecord, error)
}

type LikeDTO struct {
	TMDBID     int64     `json:"tmdb_id" example:"603"`
	MovieTitle string    `json:"movie_title" example:"The Matrix"`
	CreatedAt  time.Time `json:"created_at"`
}

type LikesResponseDTO struct {
	Likes []LikeDTO `json:"likes"`
}

type Controller struct {
	likes Likes
	auth  *http_auth_middleware.Middleware

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(likes Likes,
	auth *http_auth_middleware.Middleware,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		likes:  likes,
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/likes", c.auth.AuthRequired(), c.list)
}

// @Summary Liked movies
// @Description Every like of the signed-in user, newest first
// @Tags Likes
// @Produce json
// @Success 200 {object} LikesResponseDTO
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /likes [get]
func (c *Controller) list(ctx *gin.Context) {
	user := http_common.User(ctx)

	records, err := c.likes.List(ctx.Request.Context(), user.ID)
	if err != nil {
		c.logger.Error("failed to list likes",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()),
		)
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Error: "internal error"})
		return
	}

	resp := LikesResponseDTO{Likes: make([]LikeDTO, 0, len(records))}
	for _, r := range records {
		resp.Likes = append(resp.Likes, LikeDTO{
			TMDBID:     r.ProviderID,
			MovieTitle: r.Title,
			CreatedAt:  r.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, resp)
}
