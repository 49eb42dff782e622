// internal/httpserver/server.go
//
// HTTP presentation layer for the game engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/rules", "/debug/words".
//   - Game endpoints (player session required, created on first visit):
//     POST /game/new, POST /game/guess, GET /game/state, POST /game/record,
//     GET /stats, GET /game/ws.
//   - Daily Challenge leaderboard: GET /daily/leaderboard.
//
// Every game endpoint takes a mode ("random" or "daily"); each player has one
// controller per mode. Controllers are not safe for concurrent use, so every
// call goes through the session lock.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-engine/assets"
	"github.com/robalobadob/wordle-engine/internal/daily"
	"github.com/robalobadob/wordle-engine/internal/game"
	"github.com/robalobadob/wordle-engine/internal/store"
	"github.com/robalobadob/wordle-engine/internal/words"
)

// Game modes.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

var (
	errUnknownMode   = errors.New("unknown mode")
	errAlreadyPlayed = errors.New("daily already played")
)

// Options wires the server's collaborators.
type Options struct {
	Sessions store.Store
	// Records backs per-player stats and the daily leaderboard; nil keeps
	// records in each controller's memory.
	Records *store.Records
	// Sources maps each mode to its word source.
	Sources map[string]game.WordSource
	// Scorer defaults to game.Evaluate.
	Scorer game.Scorer
	// Secret is the HMAC key for session tokens.
	Secret       string
	SessionTTL   time.Duration
	ClientOrigin string
	// Secure marks cookies Secure and SameSite=None.
	Secure bool
	// WordStats reports list sizes for /debug/words; optional.
	WordStats func() (answers, allowed int)
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Server bundles router, session store and record log.
type Server struct {
	r        *chi.Mux
	sessions store.Store
	records  *store.Records
	sources  map[string]game.WordSource
	scorer   game.Scorer
	secret   []byte
	ttl      time.Duration
	secure   bool
	origin   string
	stats    func() (int, int)
	now      func() time.Time
	today    func() string
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		sessions: opts.Sessions,
		records:  opts.Records,
		sources:  opts.Sources,
		scorer:   opts.Scorer,
		secret:   []byte(opts.Secret),
		ttl:      opts.SessionTTL,
		secure:   opts.Secure,
		origin:   opts.ClientOrigin,
		stats:    opts.WordStats,
		now:      opts.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.today = func() string { return daily.DateKey(s.now()) }
	if s.sessions == nil {
		s.sessions = store.NewMemoryStore()
	}
	if s.scorer == nil {
		s.scorer = game.Evaluate
	}
	if s.ttl <= 0 {
		s.ttl = 180 * 24 * time.Hour
	}
	if d, ok := s.sources[ModeDaily].(interface{ Date() string }); ok && opts.Clock == nil {
		s.today = d.Date
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// websocket connections outlive the handler timeout
	s.r.With(s.withPlayer).Get("/game/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"wordle-engine","endpoints":["/health","/rules","POST /game/new","POST /game/guess","GET /game/state","POST /game/record","GET /stats","GET /game/ws","GET /daily/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/rules", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"rules": assets.Rules()})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			a, g := 0, 0
			if s.stats != nil {
				a, g = s.stats()
			}
			_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g})
		})

		// --- game ---
		r.Group(func(r chi.Router) {
			r.Use(s.withPlayer)
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/guess", s.handleGuess)
			r.Get("/game/state", s.handleState)
			r.Post("/game/record", s.handleRecord)
			r.Get("/stats", s.handleStats)
		})

		s.mountDaily(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		})
	})

	return s
}

// Handler exposes the router (used by the serve command and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.origin != "" {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", s.origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ sessions -----------------------------------

// session returns the player's session for mode, creating its controller on
// first use.
func (s *Server) session(ctx context.Context, playerID, mode string) (*store.Session, error) {
	if mode == "" {
		mode = ModeRandom
	}
	src, ok := s.sources[mode]
	if !ok {
		return nil, errUnknownMode
	}
	return s.sessions.GetOrCreate(ctx, store.Key(playerID, mode), func() *store.Session {
		opts := []game.Option{
			game.WithScorer(s.scorer),
			game.WithLogger(log.With().Str("player", playerID).Str("mode", mode).Logger()),
			game.WithClock(s.now),
		}
		if s.records != nil {
			opts = append(opts, game.WithRecorder(s.records.For(playerID, mode)))
		}
		return &store.Session{
			PlayerID: playerID,
			Mode:     mode,
			Ctrl:     game.NewController(src, opts...),
			LastSeen: s.now(),
		}
	})
}

// acquire locks sess for a controller call and marks it active. Callers
// unlock.
func (s *Server) acquire(sess *store.Session) {
	sess.Lock()
	sess.LastSeen = s.now()
}

// startRound starts a round in sess. Daily sessions resume today's
// unfinished round and refuse a second game on the same date. Callers hold
// sess.
func (s *Server) startRound(ctx context.Context, sess *store.Session) error {
	if sess.Mode == ModeDaily {
		switch st := sess.Ctrl.CurrentRoundStatus(); {
		case st == game.InProgress:
			if v, _ := sess.Ctrl.Round(); daily.DateKey(v.StartedAt) == s.today() {
				return nil
			}
			// yesterday's word: StartRound abandons it
		case st.Terminal():
			if err := sess.Ctrl.RecordAndReset(ctx); err != nil {
				return err
			}
		}
		if s.records != nil {
			played, err := s.records.PlayedOn(ctx, sess.PlayerID, ModeDaily, s.today())
			if err != nil {
				return err
			}
			if played {
				return errAlreadyPlayed
			}
		}
	}
	return sess.Ctrl.StartRound(ctx)
}

// ------------------------------ payloads -----------------------------------

// modeReq is the body of POST /game/new and POST /game/record.
type modeReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}

// stateRes describes the session's current round and key.
type stateRes struct {
	Mode  string          `json:"mode"`
	State game.Status     `json:"state"`
	Round *game.RoundView `json:"round,omitempty"`
	Keys  game.KeyState   `json:"keys"`
}

func stateOf(sess *store.Session) stateRes {
	res := stateRes{Mode: sess.Mode, State: sess.Ctrl.CurrentRoundStatus(), Keys: sess.Ctrl.KeyState()}
	if v, ok := sess.Ctrl.Round(); ok {
		res.Round = &v
	}
	return res
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	Mode  string `json:"mode"`
	Guess string `json:"guess"`
}
type guessRes struct {
	Marks   game.GuessResult `json:"marks"`
	State   game.Status      `json:"state"`
	Attempt int              `json:"attempt"`
	Keys    game.KeyState    `json:"keys"`
	Answer  string           `json:"answer,omitempty"`  // revealed once the round is over
	Message string           `json:"message,omitempty"` // game-over text
}

func guessOf(sess *store.Session, marks game.GuessResult) guessRes {
	res := guessRes{Marks: marks, State: sess.Ctrl.CurrentRoundStatus(), Keys: sess.Ctrl.KeyState()}
	if v, ok := sess.Ctrl.Round(); ok {
		res.Attempt = v.Attempt
		res.Answer = v.Target
		switch v.Status {
		case game.Won:
			res.Message = "You won in " + game.GuessesLabel(v.Attempt) + "!"
		case game.Lost:
			res.Message = "You lost! Try again."
		}
	}
	return res
}

// ------------------------------ handlers -----------------------------------

// handleNewGame starts a round in the requested mode.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req modeReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	sess, err := s.session(r.Context(), playerFrom(r.Context()), req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	s.acquire(sess)
	defer sess.Unlock()

	if err := s.startRound(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(stateOf(sess))
}

// handleGuess scores a guess against the session's round.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.session(r.Context(), playerFrom(r.Context()), req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	s.acquire(sess)
	defer sess.Unlock()

	marks, err := sess.Ctrl.SubmitGuess(r.Context(), req.Guess)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(guessOf(sess, marks))
}

// handleState reports the current round and key.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), playerFrom(r.Context()), r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.acquire(sess)
	defer sess.Unlock()
	_ = json.NewEncoder(w).Encode(stateOf(sess))
}

// handleRecord commits a finished round and returns the updated stats.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req modeReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	sess, err := s.session(r.Context(), playerFrom(r.Context()), req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	s.acquire(sess)
	defer sess.Unlock()

	if err := sess.Ctrl.RecordAndReset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	sum, err := sess.Ctrl.StatsSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}

// handleStats returns the player's statistics for a mode.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), playerFrom(r.Context()), r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, err)
		return
	}
	s.acquire(sess)
	defer sess.Unlock()

	sum, err := sess.Ctrl.StatsSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}

// ------------------------------- errors ------------------------------------

// classify maps an engine error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrLengthMismatch):
		return http.StatusBadRequest, "length_mismatch"
	case errors.Is(err, game.ErrInvalidWord):
		return http.StatusUnprocessableEntity, "not_a_word"
	case errors.Is(err, game.ErrRoundAlreadyOver):
		return http.StatusConflict, "round_over"
	case errors.Is(err, game.ErrRoundInProgress):
		return http.StatusConflict, "round_in_progress"
	case errors.Is(err, game.ErrNoRound):
		return http.StatusNotFound, "no_round"
	case errors.Is(err, errAlreadyPlayed):
		return http.StatusConflict, "already_played"
	case errors.Is(err, errUnknownMode):
		return http.StatusBadRequest, "unknown_mode"
	case errors.Is(err, words.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, "source_unavailable"
	case errors.Is(err, words.ErrEmptyWordSet):
		return http.StatusServiceUnavailable, "no_words"
	}
	return http.StatusInternalServerError, "internal"
}

// writeError writes err as a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Warn().Err(err).Str("code", code).Msg("request failed")
	}
	http.Error(w, `{"error":"`+code+`"}`, status)
}
