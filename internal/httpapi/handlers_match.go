package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/match"
	mrepo "github.com/rmachado/sportsbook-backend/internal/match/repo"
)

const oddsCacheTTL = 30 * time.Second

func (s *Server) listWithFilter(w http.ResponseWriter, r *http.Request, f mrepo.Filter) {
	page, pageSize, err := pagination(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	out, err := s.matches.List(r.Context(), f, page, pageSize)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if out == nil {
		out = []match.Match{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	f := mrepo.Filter{
		Status: r.URL.Query().Get("status"),
		Sport:  r.URL.Query().Get("sport"),
	}
	if f.Status != "" && !match.ValidStatus(f.Status) {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "unknown match status"))
		return
	}
	s.listWithFilter(w, r, f)
}

func (s *Server) listLiveMatches(w http.ResponseWriter, r *http.Request) {
	s.listWithFilter(w, r, mrepo.Filter{Status: match.StatusLive})
}

func (s *Server) listTodayMatches(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC()
	s.listWithFilter(w, r, mrepo.Filter{Day: &today})
}

func (s *Server) listUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	s.listWithFilter(w, r, mrepo.Filter{UpcomingAfter: &now})
}

func (s *Server) listMatchesBySport(w http.ResponseWriter, r *http.Request) {
	s.listWithFilter(w, r, mrepo.Filter{Sport: chi.URLParam(r, "category")})
}

func matchID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errs.New(errs.InvalidArgument, "malformed match id")
	}
	return id, nil
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	m, err := s.matches.Get(r.Context(), id)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// getMatchOdds devolve as odds correntes, preferencialmente do cache
func (s *Server) getMatchOdds(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}

	if s.odds != nil {
		var cached map[string]float64
		if ok, _ := s.odds.GetOdds(r.Context(), id, &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	m, err := s.matches.Get(r.Context(), id)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}

	if s.odds != nil {
		_ = s.odds.SetOdds(r.Context(), id, m.Odds, oddsCacheTTL) // salva no cache por 30s
	}
	writeJSON(w, http.StatusOK, m.Odds)
}

type matchRequest struct {
	HomeTeam  string             `json:"homeTeam"`
	AwayTeam  string             `json:"awayTeam"`
	Sport     string             `json:"sport"`
	League    string             `json:"league"`
	Status    *string            `json:"status,omitempty"`
	StartTime time.Time          `json:"startTime"`
	Odds      map[string]float64 `json:"odds"`
	Score     *string            `json:"score,omitempty"`
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "bad json"))
		return
	}
	if req.HomeTeam == "" || req.AwayTeam == "" || req.Sport == "" || req.StartTime.IsZero() {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "homeTeam, awayTeam, sport and startTime required"))
		return
	}

	m := &match.Match{
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		Sport:     req.Sport,
		League:    req.League,
		StartTime: req.StartTime,
		Odds:      req.Odds,
		Score:     req.Score,
	}
	if req.Status != nil {
		if !match.ValidStatus(*req.Status) {
			writeErr(w, s.log, errs.New(errs.InvalidArgument, "unknown match status"))
			return
		}
		m.Status = *req.Status
	}
	if m.Odds == nil {
		m.Odds = map[string]float64{}
	}

	id, err := s.matches.Create(r.Context(), m)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}

	var req struct {
		HomeTeam  *string            `json:"homeTeam"`
		AwayTeam  *string            `json:"awayTeam"`
		Sport     *string            `json:"sport"`
		League    *string            `json:"league"`
		Status    *string            `json:"status"`
		StartTime *time.Time         `json:"startTime"`
		Odds      map[string]float64 `json:"odds"`
		Score     *string            `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "bad json"))
		return
	}

	upd := match.Update{
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		Sport:     req.Sport,
		League:    req.League,
		Status:    req.Status,
		StartTime: req.StartTime,
		Odds:      req.Odds,
		Score:     req.Score,
	}
	if err := s.matches.Update(r.Context(), id, upd); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "match updated"})
}

func (s *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.matches.Delete(r.Context(), id); err != nil {
		writeErr(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
