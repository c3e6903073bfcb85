package ws_deck

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_deck "github.com/humanbelnik/moviemingle/internal/usecase/deck"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Decks interface {
	Get(token model.SessionToken) (*usecase_deck.Deck, bool)
}

type Controller struct {
	hub   *Hub
	decks Decks
	auth  *http_auth_middleware.Middleware

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(hub *Hub,
	decks Decks,
	auth *http_auth_middleware.Middleware,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		hub:    hub,
		decks:  decks,
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/deck/ws", c.auth.AuthRequired(), c.deckWS)
}

// @Summary Deck updates
// @Description Websocket streaming a deck_state message after every deck change of the session
// @Tags Deck
// @Success 101
// @Failure 401 {object} http_common.ErrorResponse
// @Router /deck/ws [get]
func (c *Controller) deckWS(ctx *gin.Context) {
	token := http_common.Token(ctx)

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := NewClient(conn, token)
	c.hub.RegisterClient(client)

	if d, ok := c.decks.Get(token); ok {
		c.hub.DeckChanged(token, d.State())
	}

	go c.hub.StartClientReading(client)
	go c.hub.StartClientWriting(client)
}
