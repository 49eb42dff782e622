// internal/httpserver/routes_daily.go
//
// Daily Challenge read-side routes. Play itself goes through the /game
// endpoints with mode "daily"; one finished game per player per date.
//   - GET /daily        → today's date key
//   - GET /daily/leaderboard?date=YYYY-MM-DD → top 20 solved games

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle-engine/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"date": s.today()})
		})
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []store.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.today()
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	res := lbRes{Date: date, Top: []store.LBRow{}}
	if s.records != nil {
		rows, err := s.records.Leaderboard(r.Context(), ModeDaily, date, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		res.Top = rows
	}
	_ = json.NewEncoder(w).Encode(res)
}
