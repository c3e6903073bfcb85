package http_auth_middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	"github.com/humanbelnik/moviemingle/internal/model"
)

//go:generate mockery --name=SessionResolver --output=./mocks/resolver --filename=resolver.go
type SessionResolver interface {
	CurrentUser(ctx context.Context, token model.SessionToken) (*model.User, error)
}

type Middleware struct {
	resolver SessionResolver
	logger   *slog.Logger
}

func New(
	resolver SessionResolver,
) *Middleware {
	return &Middleware{
		resolver: resolver,
		logger:   slog.Default(),
	}
}

// AuthRequired resolves the session token from the X-Session-Token header or
// the session cookie and puts the user into the request context.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := TokenFromRequest(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Error: "not signed in",
			})
			return
		}

		user, err := m.resolver.CurrentUser(ctx.Request.Context(), token)
		if err != nil {
			m.logger.Error("failed to resolve session", slog.String("error", err.Error()))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Error: "internal error",
			})
			return
		}
		if user == nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Error: "session expired",
			})
			return
		}

		http_common.SetSession(ctx, token, user)
		ctx.Next()
	}
}

func TokenFromRequest(ctx *gin.Context) model.SessionToken {
	if t := strings.TrimSpace(ctx.GetHeader(http_common.SessionHeader)); t != "" {
		return t
	}
	if c, err := ctx.Cookie(http_common.SessionCookie); err == nil {
		return c
	}
	return ""
}
