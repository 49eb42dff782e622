// internal/httpserver/ws.go
//
// Realtime channel: GET /game/ws?mode=random|daily
//
// Client → server messages: {"type": "new" | "guess" | "state" | "record" | "stats" | "ping", "word": "..."}
// Server → client messages: {"type": "state" | "guess" | "stats" | "event" | "pong" | "error", "data": ...}
//
// Each connection is bound to the player's session for one mode. Controller
// events ("event" messages) are pushed to every connection on that session,
// so a second tab sees the first tab's guesses.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-engine/internal/game"
	"github.com/robalobadob/wordle-engine/internal/store"
)

const (
	wsWriteWait   = 5 * time.Second
	wsMessageWait = 10 * time.Second
)

// wsMessage is the envelope for both directions.
type wsMessage struct {
	Type string `json:"type"`
	Word string `json:"word,omitempty"`
	Data any    `json:"data,omitempty"`
}

// wsClient serializes writes to one connection.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) send(msg wsMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(msg)
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// non-browser clients send no Origin
			return origin == "" || s.origin == "" || origin == s.origin || origin == "http://"+r.Host
		},
	}
}

// handleWS upgrades the connection and serves messages until it closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	player := playerFrom(r.Context())
	sess, err := s.session(r.Context(), player, r.URL.Query().Get("mode"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeError(w, err)
		return
	}

	// Upgrade writes its own 101 response; carry over the session cookie
	// withPlayer may have minted.
	var header http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header = http.Header{"Set-Cookie": cookies}
	}
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, header)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	c := &wsClient{conn: conn}

	sess.Lock()
	unsubscribe := sess.Ctrl.Subscribe(func(e game.Event) {
		if err := c.send(wsMessage{Type: "event", Data: e}); err != nil {
			log.Debug().Err(err).Str("player", player).Msg("websocket push")
		}
	})
	initial := wsMessage{Type: "state", Data: stateOf(sess)}
	sess.Unlock()

	defer func() {
		sess.Lock()
		unsubscribe()
		sess.Unlock()
		_ = conn.Close()
	}()

	if err := c.send(initial); err != nil {
		return
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("player", player).Msg("websocket read")
			}
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), wsMessageWait)
		reply := s.dispatch(ctx, sess, msg)
		cancel()
		if err := c.send(reply); err != nil {
			return
		}
	}
}

// dispatch runs one client message against the session and builds the reply.
func (s *Server) dispatch(ctx context.Context, sess *store.Session, msg wsMessage) wsMessage {
	s.acquire(sess)
	defer sess.Unlock()

	switch msg.Type {
	case "new":
		if err := s.startRound(ctx, sess); err != nil {
			return wsError(err)
		}
		return wsMessage{Type: "state", Data: stateOf(sess)}
	case "guess":
		marks, err := sess.Ctrl.SubmitGuess(ctx, msg.Word)
		if err != nil {
			return wsError(err)
		}
		return wsMessage{Type: "guess", Data: guessOf(sess, marks)}
	case "state":
		return wsMessage{Type: "state", Data: stateOf(sess)}
	case "record":
		if err := sess.Ctrl.RecordAndReset(ctx); err != nil {
			return wsError(err)
		}
		fallthrough
	case "stats":
		sum, err := sess.Ctrl.StatsSummary(ctx)
		if err != nil {
			return wsError(err)
		}
		return wsMessage{Type: "stats", Data: sum}
	case "ping":
		return wsMessage{Type: "pong", Data: time.Now()}
	}
	return wsMessage{Type: "error", Data: "unknown_type"}
}

func wsError(err error) wsMessage {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Warn().Err(err).Str("code", code).Msg("websocket request failed")
	}
	return wsMessage{Type: "error", Data: code}
}
