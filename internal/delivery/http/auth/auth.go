package http_auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/moviemingle/internal/model"
	service_identity "github.com/humanbelnik/moviemingle/internal/service/identity"
)

//go:generate mockery --name=Identity --output=./mocks/identity --filename=identity.go
type Identity interface {
	SignUp(ctx context.Context, email, password string) (model.PendingConfirmation, error)
	Confirm(ctx context.Context, token string) error
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	RedirectURL() string
}

// Sessions ends a signed-in session together with whatever is attached to it.
//
//go:generate mockery --name=Sessions --output=./mocks/sessions --filename=sessions.go
type Sessions interface {
	Logout(ctx context.Context, token model.SessionToken) error
}

// Disconnector drops live push connections of a session.
type Disconnector interface {
	Disconnect(token model.SessionToken)
}

type Controller struct {
	identity     Identity
	sessions     Sessions
	disconnector Disconnector
	auth         *http_auth_middleware.Middleware
	sessionTTL   time.Duration

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithDisconnector(d Disconnector) ControllerOption {
	return func(c *Controller) {
		c.disconnector = d
	}
}

func New(
	identity Identity,
	sessions Sessions,
	auth *http_auth_middleware.Middleware,
	sessionTTL time.Duration,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		identity:   identity,
		sessions:   sessions,
		auth:       auth,
		sessionTTL: sessionTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/sign-up", c.signUp)
	auth.GET("/confirm", c.confirm)
	auth.POST("/sign-in", c.signIn)
	auth.POST("/sign-out", c.auth.AuthRequired(), c.signOut)
	auth.GET("/me", c.auth.AuthRequired(), c.me)
}

type SignUpRequestDTO struct {
	Email          string `json:"email" binding:"required" example:"viewer@example.com"`
	Password       string `json:"password" binding:"required" example:"secret123"`
	RepeatPassword string `json:"repeat_password" binding:"required" example:"secret123"`
}

type SignUpResponseDTO struct {
	Email       string `json:"email"`
	RedirectURL string `json:"redirect_url"`
}

type SignInRequestDTO struct {
	Email    string `json:"email" binding:"required" example:"viewer@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type SignInResponseDTO struct {
	Token string              `json:"token"`
	User  http_common.UserDTO `json:"user"`
}

// @Summary Sign up
// @Description Creates an account and sends a confirmation link
// @Tags Auth operations
// @Accept json
// @Produce json
// @Param request body SignUpRequestDTO true "Credentials"
// @Success 201 {object} SignUpResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /auth/sign-up [post]
func (c *Controller) signUp(ctx *gin.Context) {
	var req SignUpRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn("invalid request format", "error", err)
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: "Invalid request format"})
		return
	}

	if req.Password != req.RepeatPassword {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: service_identity.MsgPasswordsMismatch})
		return
	}

	pending, err := c.identity.SignUp(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, SignUpResponseDTO{
		Email:       pending.Email,
		RedirectURL: pending.RedirectURL,
	})
}

// @Summary Confirm email
// @Tags Auth operations
// @Param token query string true "Confirmation token"
// @Success 302
// @Failure 400 {object} http_common.ErrorResponse
// @Router /auth/confirm [get]
func (c *Controller) confirm(ctx *gin.Context) {
	if err := c.identity.Confirm(ctx.Request.Context(), ctx.Query("token")); err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.Redirect(http.StatusFound, c.identity.RedirectURL())
}

// @Summary Sign in
// @Description Returns a session token in the body, the X-Session-Token header and the session cookie
// @Tags Auth operations
// @Accept json
// @Produce json
// @Param request body SignInRequestDTO true "Credentials"
// @Success 200 {object} SignInResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /auth/sign-in [post]
func (c *Controller) signIn(ctx *gin.Context) {
	var req SignInRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn("invalid request format", "error", err)
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: "Invalid request format"})
		return
	}

	session, err := c.identity.SignIn(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.fail(ctx, err)
		return
	}

	ctx.Header(http_common.SessionHeader, session.Token)
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(http_common.SessionCookie, session.Token, int(c.sessionTTL.Seconds()), "/", "", false, true)

	ctx.JSON(http.StatusOK, SignInResponseDTO{
		Token: session.Token,
		User:  http_common.ToUserDTO(session.User),
	})
}

// @Summary Sign out
// @Description Ends the session and discards its swipe deck
// @Tags Auth operations
// @Success 204
// @Failure 500 {object} http_common.ErrorResponse
// @Router /auth/sign-out [post]
func (c *Controller) signOut(ctx *gin.Context) {
	token := http_common.Token(ctx)

	if err := c.sessions.Logout(ctx.Request.Context(), token); err != nil {
		c.logger.Error("sign out failed", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Error: "internal error"})
		return
	}
	if c.disconnector != nil {
		c.disconnector.Disconnect(token)
	}

	ctx.SetCookie(http_common.SessionCookie, "", -1, "/", "", false, true)
	ctx.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags Auth operations
// @Produce json
// @Success 200 {object} http_common.UserDTO
// @Failure 401 {object} http_common.ErrorResponse
// @Router /auth/me [get]
func (c *Controller) me(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, http_common.ToUserDTO(*http_common.User(ctx)))
}

func (c *Controller) fail(ctx *gin.Context, err error) {
	var authErr *service_identity.AuthError
	if errors.As(err, &authErr) {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Error: authErr.Message})
		return
	}

	c.logger.Error("internal auth error", slog.String("error", err.Error()))
	ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Error: "internal error"})
}
