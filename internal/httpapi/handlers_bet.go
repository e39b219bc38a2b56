package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rmachado/sportsbook-backend/internal/bet"
	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "bad json"))
		return
	}
	if req.MatchID == "" || req.Market == "" || req.StakeCents <= 0 {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "matchId, market and positive stake_cents required"))
		return
	}

	receipt, err := s.bets.Place(r.Context(), userID(r), bet.PlaceParams{
		MatchID:    req.MatchID,
		Market:     req.Market,
		Odds:       req.Odds,
		StakeCents: req.StakeCents,
	})
	if err != nil {
		writeErr(w, s.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, PlaceBetResponse{
		BetID:           receipt.BetID,
		Status:          receipt.Status,
		Odds:            receipt.Odds,
		NewBalanceCents: receipt.NewBalanceCents,
	})
}

func (s *Server) betStatus(w http.ResponseWriter, r *http.Request) {
	b, err := s.bets.Status(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// betHistory lista as apostas do usuário autenticado, mais recentes primeiro
func (s *Server) betHistory(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pagination(r)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}

	out, err := s.bets.History(r.Context(), userID(r), page, pageSize)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	if out == nil {
		out = []bet.Bet{}
	}
	writeJSON(w, http.StatusOK, out)
}
