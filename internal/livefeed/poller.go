package livefeed

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/match"
	"github.com/rmachado/sportsbook-backend/pkg/contracts/events"
)

// LiveLister é a consulta de partidas ao vivo usada pelo poller
type LiveLister interface {
	LiveSnapshots(ctx context.Context) ([]match.Match, error)
}

// Broadcaster publica um payload num canal de pub/sub
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Poller lê as partidas ao vivo num intervalo fixo e publica um snapshot
// por partida no canal de broadcast. Erros de uma rodada não interrompem as
// próximas.
type Poller struct {
	Log         *zap.Logger
	Matches     LiveLister
	Broadcaster Broadcaster
	Channel     string
	Interval    time.Duration

	OnPublish func()       // métricas (counter++)
	OnError   func(string) // métricas por fase
}

// Run executa o loop de publicação até o contexto ser cancelado
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Log.Info("live feed poller stopped")
			return
		case <-ticker.C:
			p.publishOnce(ctx)
		}
	}
}

func (p *Poller) publishOnce(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	live, err := p.Matches.LiveSnapshots(cctx)
	if err != nil {
		p.Log.Warn("live snapshots failed", zap.Error(err))
		if p.OnError != nil {
			p.OnError("query")
		}
		return
	}

	for _, m := range live {
		upd := events.MatchUpdate{
			MatchID:   m.ID,
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			Status:    m.Status,
			Odds:      m.Odds,
			UpdatedAt: m.UpdatedAt,
		}
		if m.Score != nil {
			upd.Score = *m.Score
		}

		msg := struct {
			MatchID string      `json:"matchId"`
			Payload interface{} `json:"payload"`
		}{MatchID: m.ID, Payload: upd}

		b, _ := json.Marshal(msg)
		if err := p.Broadcaster.Publish(cctx, p.Channel, b); err != nil {
			p.Log.Warn("broadcast publish failed", zap.String("matchId", m.ID), zap.Error(err))
			if p.OnError != nil {
				p.OnError("publish")
			}
			continue
		}
		if p.OnPublish != nil {
			p.OnPublish()
		}
	}
}
