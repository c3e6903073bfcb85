package http_common

import (
	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/moviemingle/internal/model"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	SessionHeader = "X-Session-Token"
	SessionCookie = "session"

	userKey  = "user"
	tokenKey = "session_token"
)

func SetSession(ctx *gin.Context, token model.SessionToken, user *model.User) {
	ctx.Set(tokenKey, token)
	ctx.Set(userKey, user)
}

// User returns the user put into the context by the auth middleware.
func User(ctx *gin.Context) *model.User {
	v, ok := ctx.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

func Token(ctx *gin.Context) model.SessionToken {
	return ctx.GetString(tokenKey)
}
