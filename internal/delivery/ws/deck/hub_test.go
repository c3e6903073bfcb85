package ws_deck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	http_auth_middleware "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth"
	resolver_mocks "github.com/humanbelnik/moviemingle/internal/delivery/http/middleware/auth/mocks/resolver"
	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_deck "github.com/humanbelnik/moviemingle/internal/usecase/deck"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type DeckHubUnitSuite struct {
	suite.Suite
}

type stubDecks map[model.SessionToken]*usecase_deck.Deck

func (s stubDecks) Get(token model.SessionToken) (*usecase_deck.Deck, bool) {
	d, ok := s[token]
	return d, ok
}

func decode(t provider.T, data []byte) Message {
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func (s *DeckHubUnitSuite) TestHub(t provider.T) {
	t.Parallel()

	snapshot := usecase_deck.Snapshot{
		Phase:    usecase_deck.PhaseSwiping,
		Current:  &model.Movie{ID: "tmdb_603", Title: "The Matrix", ProviderID: 603},
		DeckSize: 20,
		Page:     1,
	}

	t.Run("Should deliver state to every client of the session only", func(t provider.T) {
		h := New(nil)
		a := NewClient(nil, "tok")
		b := NewClient(nil, "tok")
		other := NewClient(nil, "other")
		h.RegisterClient(a)
		h.RegisterClient(b)
		h.RegisterClient(other)

		h.DeckChanged("tok", snapshot)

		for _, c := range []*Client{a, b} {
			msg := decode(t, <-c.Send)
			assert.Equal(t, DeckState, msg.Type)
			assert.Equal(t, usecase_deck.PhaseSwiping, msg.State.Phase)
			if assert.NotNil(t, msg.State.Current) {
				assert.Equal(t, int64(603), msg.State.Current.TMDBID)
			}
		}
		assert.Len(t, other.Send, 0)
	})

	t.Run("Should not send a snapshot older than the last one sent", func(t provider.T) {
		h := New(nil)
		c := NewClient(nil, "tok")
		h.RegisterClient(c)

		newer := usecase_deck.Snapshot{Phase: usecase_deck.PhaseSwiping, Cursor: 2, Version: 8}
		older := usecase_deck.Snapshot{Phase: usecase_deck.PhaseSwiping, Cursor: 1, Version: 7}
		h.DeckChanged("tok", newer)
		h.DeckChanged("tok", older)
		h.DeckChanged("tok", newer)

		assert.Len(t, c.Send, 1)
		msg := decode(t, <-c.Send)
		assert.Equal(t, 2, msg.State.Cursor)
		assert.Equal(t, uint64(8), msg.State.Version)

		late := NewClient(nil, "tok")
		h.RegisterClient(late)
		h.DeckChanged("tok", older)

		assert.Len(t, c.Send, 0)
		assert.Len(t, late.Send, 1)
	})

	t.Run("Should close channels once on disconnect", func(t provider.T) {
		h := New(nil)
		c := NewClient(nil, "tok")
		h.RegisterClient(c)

		h.Disconnect("tok")
		h.RemoveClient(c)
		h.Disconnect("tok")

		_, open := <-c.Send
		assert.False(t, open)
		assert.Equal(t, 0, h.ClientsCount("tok"))
	})

	t.Run("Should drop clients that do not keep up", func(t provider.T) {
		h := New(nil)
		c := NewClient(nil, "tok")
		h.RegisterClient(c)

		for i := 0; i < sendBuffer+1; i++ {
			h.DeckChanged("tok", snapshot)
		}

		assert.Equal(t, 0, h.ClientsCount("tok"))
		received := 0
		for range c.Send {
			received++
		}
		assert.Equal(t, sendBuffer, received)
	})

	t.Run("Should ignore sessions without clients", func(t provider.T) {
		h := New(nil)

		assert.NotPanics(t, func() {
			h.DeckChanged("nobody", snapshot)
			h.Disconnect("nobody")
		})
	})
}

func (s *DeckHubUnitSuite) TestController(t provider.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)

	serve := func(t provider.T, decks Decks) (*Hub, *httptest.Server) {
		resolver := resolver_mocks.NewSessionResolver(t)
		resolver.On("CurrentUser", mock.Anything, "tok").Return(&model.User{ID: uuid.New()}, nil).Maybe()
		resolver.On("CurrentUser", mock.Anything, "stale").Return(nil, nil).Maybe()

		hub := New(nil)
		e := gin.New()
		NewController(hub, decks, http_auth_middleware.New(resolver)).RegisterRoutes(e.Group("/api"))

		srv := httptest.NewServer(e)
		t.Cleanup(srv.Close)
		return hub, srv
	}

	dial := func(srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/deck/ws"
		header := http.Header{}
		header.Set(http_common.SessionHeader, token)
		return websocket.DefaultDialer.Dial(url, header)
	}

	t.Run("Should send current state on connect and stream changes", func(t provider.T) {
		hub, srv := serve(t, stubDecks{"tok": usecase_deck.New("tok", nil, nil, nil)})

		conn, _, err := dial(srv, "tok")
		require.NoError(t, err)
		defer conn.Close()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, usecase_deck.PhaseInitializing, decode(t, data).State.Phase)

		hub.DeckChanged("tok", usecase_deck.Snapshot{Phase: usecase_deck.PhaseReviewing})

		_, data, err = conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, usecase_deck.PhaseReviewing, decode(t, data).State.Phase)
	})

	t.Run("Should close socket on disconnect", func(t provider.T) {
		hub, srv := serve(t, stubDecks{})

		conn, _, err := dial(srv, "tok")
		require.NoError(t, err)
		defer conn.Close()

		assert.Eventually(t, func() bool { return hub.ClientsCount("tok") == 1 }, time.Second, 10*time.Millisecond)
		hub.Disconnect("tok")

		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _, err = conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
	})

	t.Run("Should reject unknown session", func(t provider.T) {
		_, srv := serve(t, stubDecks{})

		_, resp, err := dial(srv, "stale")

		assert.ErrorIs(t, err, websocket.ErrBadHandshake)
		if assert.NotNil(t, resp) {
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		}
	})
}

func TestDeckHubUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(DeckHubUnitSuite))
}
