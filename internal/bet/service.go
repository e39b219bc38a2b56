package bet

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/match"
	"github.com/rmachado/sportsbook-backend/pkg/contracts/events"
)

// MatchStore é a visão de leitura de partidas que o serviço precisa
type MatchStore interface {
	Get(ctx context.Context, id string) (*match.Match, error)
}

// Ledger executa a transação atômica de débito + insert e as leituras do ledger
type Ledger interface {
	Place(ctx context.Context, b *Bet) (betID string, newBalanceCents int64, err error)
	Get(ctx context.Context, betID string) (*Bet, error)
	History(ctx context.Context, userID string, page, pageSize int) ([]Bet, error)
}

// PlaceParams é o pedido de aposta já autenticado.
// Odds é a cotação que o cliente viu; zero pula a checagem de divergência.
type PlaceParams struct {
	MatchID    string
	Market     string
	Odds       float64
	StakeCents int64
}

// Service orquestra o fluxo de aceitação de apostas
type Service struct {
	log     *zap.Logger
	matches MatchStore
	ledger  Ledger
	publ    interface {
		PublishBetPlaced(context.Context, events.BetPlaced) error
	}

	OnPlaced   func()             // métricas (counter++)
	OnRejected func(reason string) // métricas por motivo
}

func NewService(log *zap.Logger, matches MatchStore, ledger Ledger, publ interface {
	PublishBetPlaced(context.Context, events.BetPlaced) error
}) *Service {
	return &Service{log: log, matches: matches, ledger: ledger, publ: publ}
}

func (s *Service) rejected(err error) error {
	if s.OnRejected != nil {
		s.OnRejected(errs.KindOf(err).String())
	}
	return err
}

// Place valida as precondições e efetiva a aposta.
// Precondições, na ordem: ids bem formados; partida existe e está live;
// usuário existe com saldo suficiente; stake positivo. As duas últimas são
// checadas dentro da transação do ledger, contra a linha travada do usuário.
func (s *Service) Place(ctx context.Context, userID string, pp PlaceParams) (*Receipt, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, s.rejected(errs.New(errs.InvalidArgument, "malformed user id"))
	}
	if _, err := uuid.Parse(pp.MatchID); err != nil {
		return nil, s.rejected(errs.New(errs.InvalidArgument, "malformed match id"))
	}

	m, err := s.matches.Get(ctx, pp.MatchID)
	if err != nil {
		return nil, s.rejected(err)
	}
	if m.Status != match.StatusLive {
		return nil, s.rejected(errs.New(errs.InvalidState, "match is not open for betting"))
	}

	odds, ok := m.Odds[pp.Market]
	if !ok {
		return nil, s.rejected(errs.New(errs.InvalidArgument, "unknown market for this match"))
	}
	// Cliente apostou numa cotação que já mudou: conflito, não aceita em silêncio
	if pp.Odds != 0 && pp.Odds != odds {
		return nil, s.rejected(errs.New(errs.Conflict, "odds changed since request"))
	}

	b := &Bet{
		UserID:            userID,
		MatchID:           pp.MatchID,
		Market:            pp.Market,
		StakeCents:        pp.StakeCents,
		Odds:              odds,
		PotentialWinCents: int64(math.Round(float64(pp.StakeCents) * odds)),
		Status:            StatusPending,
	}

	betID, newBalance, err := s.ledger.Place(ctx, b)
	if err != nil {
		return nil, s.rejected(err)
	}

	if s.OnPlaced != nil {
		s.OnPlaced()
	}
	s.log.Info("bet placed",
		zap.String("betId", betID),
		zap.String("userId", userID),
		zap.String("matchId", pp.MatchID),
		zap.Int64("stakeCents", pp.StakeCents),
		zap.Float64("odds", odds),
	)

	// Evento best-effort pós-commit; falha de publicação nunca desfaz a aposta
	if s.publ != nil {
		if err := s.publ.PublishBetPlaced(ctx, events.BetPlaced{
			BetID:             betID,
			UserID:            userID,
			MatchID:           pp.MatchID,
			Market:            pp.Market,
			StakeCents:        pp.StakeCents,
			Odds:              odds,
			PotentialWinCents: b.PotentialWinCents,
			TsUnixMs:          time.Now().UnixMilli(),
		}); err != nil {
			s.log.Warn("publish bet_placed failed", zap.String("betId", betID), zap.Error(err))
		}
	}

	return &Receipt{
		BetID:           betID,
		Status:          StatusPending,
		Odds:            odds,
		NewBalanceCents: newBalance,
	}, nil
}

// Status devolve o estado atual de uma aposta do próprio usuário
func (s *Service) Status(ctx context.Context, userID, betID string) (*Bet, error) {
	if _, err := uuid.Parse(betID); err != nil {
		return nil, errs.New(errs.InvalidArgument, "malformed bet id")
	}
	b, err := s.ledger.Get(ctx, betID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, errs.New(errs.NotFound, "bet not found")
	}
	return b, nil
}

// History lista as apostas do usuário, mais recentes primeiro
func (s *Service) History(ctx context.Context, userID string, page, pageSize int) ([]Bet, error) {
	return s.ledger.History(ctx, userID, page, pageSize)
}
