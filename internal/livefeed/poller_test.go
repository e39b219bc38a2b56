package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/match"
	"github.com/rmachado/sportsbook-backend/pkg/contracts/events"
)

type fakeLister struct {
	live []match.Match
	err  error
}

func (f *fakeLister) LiveSnapshots(ctx context.Context) ([]match.Match, error) {
	return f.live, f.err
}

type captureBroadcaster struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (c *captureBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func TestPublishOncePerLiveMatch(t *testing.T) {
	score := "2-1"
	lister := &fakeLister{live: []match.Match{
		{ID: "m1", HomeTeam: "Flamengo", AwayTeam: "Palmeiras", Status: match.StatusLive,
			Score: &score, Odds: map[string]float64{"home": 1.8}},
		{ID: "m2", HomeTeam: "Santos", AwayTeam: "Grêmio", Status: match.StatusLive},
	}}
	bc := &captureBroadcaster{}

	published := 0
	p := &Poller{
		Log:         zap.NewNop(),
		Matches:     lister,
		Broadcaster: bc,
		Channel:     "live_matches_broadcast",
		Interval:    time.Second,
		OnPublish:   func() { published++ },
	}
	p.publishOnce(context.Background())

	require.Equal(t, 2, published)
	require.Len(t, bc.payloads, 2)

	var msg struct {
		MatchID string             `json:"matchId"`
		Payload events.MatchUpdate `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(bc.payloads[0], &msg))
	require.Equal(t, "m1", msg.MatchID)
	require.Equal(t, "2-1", msg.Payload.Score)
	require.Equal(t, 1.8, msg.Payload.Odds["home"])
}

func TestQueryErrorSkipsRound(t *testing.T) {
	lister := &fakeLister{err: errors.New("pg down")}
	bc := &captureBroadcaster{}

	var stages []string
	p := &Poller{
		Log:         zap.NewNop(),
		Matches:     lister,
		Broadcaster: bc,
		Channel:     "c",
		Interval:    time.Second,
		OnError:     func(stage string) { stages = append(stages, stage) },
	}
	p.publishOnce(context.Background())

	require.Empty(t, bc.payloads)
	require.Equal(t, []string{"query"}, stages)
}

func TestPublishErrorDoesNotStopOthers(t *testing.T) {
	lister := &fakeLister{live: []match.Match{{ID: "m1"}, {ID: "m2"}}}
	bc := &captureBroadcaster{err: errors.New("redis down")}

	var stages []string
	p := &Poller{
		Log:         zap.NewNop(),
		Matches:     lister,
		Broadcaster: bc,
		Channel:     "c",
		Interval:    time.Second,
		OnError:     func(stage string) { stages = append(stages, stage) },
	}
	p.publishOnce(context.Background())

	require.Equal(t, []string{"publish", "publish"}, stages)
}

func TestRedisBroadcasterDelivers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, "live_matches_broadcast")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	bc := NewRedisBroadcaster(rdb)
	require.NoError(t, bc.Publish(ctx, "live_matches_broadcast", []byte(`{"matchId":"m1"}`)))

	select {
	case msg := <-sub.Channel():
		require.JSONEq(t, `{"matchId":"m1"}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
	}
}
