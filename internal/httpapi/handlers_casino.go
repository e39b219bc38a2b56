package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/sportsbook-backend/internal/casino"
	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

func gameID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errs.New(errs.InvalidArgument, "malformed game id")
	}
	return id, nil
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pagination(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	out, err := s.games.List(r.Context(), page, pageSize)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if out == nil {
		out = []casino.Game{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	g, err := s.games.Get(r.Context(), id)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func decodeGame(r *http.Request) (*casino.Game, error) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errs.New(errs.InvalidArgument, "bad json")
	}
	if req.Name == "" || req.Category == "" {
		return nil, errs.New(errs.InvalidArgument, "name and category required")
	}
	if req.MinStakeCents <= 0 || req.MaxStakeCents < req.MinStakeCents {
		return nil, errs.New(errs.InvalidArgument, "invalid stake limits")
	}
	return &casino.Game{
		Name:          req.Name,
		Category:      req.Category,
		MinStakeCents: req.MinStakeCents,
		MaxStakeCents: req.MaxStakeCents,
		Enabled:       req.Enabled,
	}, nil
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	g, err := decodeGame(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	id, err := s.games.Create(r.Context(), g)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) updateGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	g, err := decodeGame(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	g.ID = id
	if err := s.games.Update(r.Context(), g); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "game updated"})
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if err := s.games.Delete(r.Context(), id); err != nil {
		writeErr(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
