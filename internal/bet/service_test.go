package bet

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/match"
	"github.com/rmachado/sportsbook-backend/pkg/contracts/events"
)

type fakeMatchStore struct {
	matches map[string]*match.Match
}

func (f *fakeMatchStore) Get(ctx context.Context, id string) (*match.Match, error) {
	if m, ok := f.matches[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, errs.New(errs.NotFound, "match not found")
}

// fakeLedger reproduz a semântica da transação do Postgres: saldo travado,
// débito e insert atômicos sob o mesmo mutex.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	bets     map[string]*Bet
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]int64), bets: make(map[string]*Bet)}
}

func (f *fakeLedger) Place(ctx context.Context, b *Bet) (string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	balance, ok := f.balances[b.UserID]
	if !ok {
		return "", 0, errs.New(errs.NotFound, "user not found")
	}
	if balance < b.StakeCents {
		return "", 0, errs.New(errs.InsufficientFunds, "insufficient balance")
	}
	if b.StakeCents <= 0 {
		return "", 0, errs.New(errs.InvalidArgument, "stake must be positive")
	}

	id := uuid.NewString()
	newBalance := balance - b.StakeCents
	f.balances[b.UserID] = newBalance

	stored := *b
	stored.ID = id
	f.bets[id] = &stored
	return id, newBalance, nil
}

func (f *fakeLedger) Get(ctx context.Context, betID string) (*Bet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bets[betID]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, errs.New(errs.NotFound, "bet not found")
}

func (f *fakeLedger) History(ctx context.Context, userID string, page, pageSize int) ([]Bet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Bet
	for _, b := range f.bets {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.BetPlaced
	fail   bool
}

func (f *fakePublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, e)
	return nil
}

func fixture(t *testing.T) (svc *Service, userID, matchID string, ledger *fakeLedger, publ *fakePublisher) {
	t.Helper()
	userID = uuid.NewString()
	matchID = uuid.NewString()

	matches := &fakeMatchStore{matches: map[string]*match.Match{
		matchID: {
			ID:       matchID,
			HomeTeam: "Flamengo",
			AwayTeam: "Palmeiras",
			Status:   match.StatusLive,
			Odds:     map[string]float64{"home": 2.5, "draw": 3.1, "away": 2.8},
		},
	}}
	ledger = newFakeLedger()
	ledger.balances[userID] = 10000
	publ = &fakePublisher{}

	svc = NewService(zap.NewNop(), matches, ledger, publ)
	return svc, userID, matchID, ledger, publ
}

func TestPlaceDebitsBalanceAndRecordsBet(t *testing.T) {
	svc, userID, matchID, ledger, publ := fixture(t)

	rec, err := svc.Place(context.Background(), userID, PlaceParams{
		MatchID:    matchID,
		Market:     "home",
		StakeCents: 4000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(6000), rec.NewBalanceCents)
	require.Equal(t, StatusPending, rec.Status)
	require.Equal(t, 2.5, rec.Odds)

	b, err := svc.Status(context.Background(), userID, rec.BetID)
	require.NoError(t, err)
	require.Equal(t, int64(4000), b.StakeCents)
	require.Equal(t, int64(10000), b.PotentialWinCents) // 4000 * 2.5
	require.Equal(t, int64(6000), ledger.balances[userID])

	require.Len(t, publ.events, 1)
	require.Equal(t, rec.BetID, publ.events[0].BetID)
	require.Equal(t, int64(10000), publ.events[0].PotentialWinCents)
}

func TestPlacePreconditions(t *testing.T) {
	svc, userID, matchID, _, _ := fixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		userID string
		pp     PlaceParams
		kind   errs.Kind
	}{
		{"malformed user id", "abc", PlaceParams{MatchID: matchID, Market: "home", StakeCents: 100}, errs.InvalidArgument},
		{"malformed match id", userID, PlaceParams{MatchID: "abc", Market: "home", StakeCents: 100}, errs.InvalidArgument},
		{"match not found", userID, PlaceParams{MatchID: uuid.NewString(), Market: "home", StakeCents: 100}, errs.NotFound},
		{"unknown market", userID, PlaceParams{MatchID: matchID, Market: "corner_count", StakeCents: 100}, errs.InvalidArgument},
		{"unknown user", uuid.NewString(), PlaceParams{MatchID: matchID, Market: "home", StakeCents: 100}, errs.NotFound},
		{"insufficient balance", userID, PlaceParams{MatchID: matchID, Market: "home", StakeCents: 10001}, errs.InsufficientFunds},
		{"odds changed", userID, PlaceParams{MatchID: matchID, Market: "home", Odds: 2.4, StakeCents: 100}, errs.Conflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Place(ctx, tc.userID, tc.pp)
			require.True(t, errs.Is(err, tc.kind), "got %v", err)
		})
	}
}

func TestPlaceOnClosedMatch(t *testing.T) {
	svc, userID, matchID, _, _ := fixture(t)
	ms := svc.matches.(*fakeMatchStore)

	for _, status := range []string{match.StatusScheduled, match.StatusClosed} {
		ms.matches[matchID].Status = status
		_, err := svc.Place(context.Background(), userID, PlaceParams{
			MatchID: matchID, Market: "home", StakeCents: 100,
		})
		require.True(t, errs.Is(err, errs.InvalidState), "status %s", status)
	}
}

func TestPlaceZeroStakeAfterBalanceCheck(t *testing.T) {
	// stake não-positivo é rejeitado mesmo com saldo de sobra
	svc, userID, matchID, _, _ := fixture(t)

	for _, stake := range []int64{0, -100} {
		_, err := svc.Place(context.Background(), userID, PlaceParams{
			MatchID: matchID, Market: "home", StakeCents: stake,
		})
		require.True(t, errs.Is(err, errs.InvalidArgument), "stake %d", stake)
	}
}

func TestConcurrentPlacesNeverOverdraw(t *testing.T) {
	// saldo 10000, 10 apostas de 6000 concorrentes: exatamente uma passa
	svc, userID, matchID, ledger, _ := fixture(t)

	const n = 10
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Place(context.Background(), userID, PlaceParams{
				MatchID: matchID, Market: "home", StakeCents: 6000,
			})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range results {
		if err == nil {
			accepted++
		} else {
			require.True(t, errs.Is(err, errs.InsufficientFunds))
		}
	}
	require.Equal(t, 1, accepted)
	require.Equal(t, int64(4000), ledger.balances[userID])
}

func TestPublishFailureDoesNotUndoBet(t *testing.T) {
	svc, userID, matchID, ledger, publ := fixture(t)
	publ.fail = true

	rec, err := svc.Place(context.Background(), userID, PlaceParams{
		MatchID: matchID, Market: "away", StakeCents: 1000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(9000), rec.NewBalanceCents)
	require.Equal(t, int64(9000), ledger.balances[userID])
}

func TestMetricCallbacks(t *testing.T) {
	svc, userID, matchID, _, _ := fixture(t)

	placed := 0
	reasons := map[string]int{}
	svc.OnPlaced = func() { placed++ }
	svc.OnRejected = func(reason string) { reasons[reason]++ }

	_, err := svc.Place(context.Background(), userID, PlaceParams{
		MatchID: matchID, Market: "home", StakeCents: 1000,
	})
	require.NoError(t, err)

	_, err = svc.Place(context.Background(), userID, PlaceParams{
		MatchID: matchID, Market: "home", StakeCents: 999999,
	})
	require.Error(t, err)

	require.Equal(t, 1, placed)
	require.Equal(t, 1, reasons["insufficient_funds"])
}

func TestStatusHidesOtherUsersBets(t *testing.T) {
	svc, userID, matchID, _, _ := fixture(t)

	rec, err := svc.Place(context.Background(), userID, PlaceParams{
		MatchID: matchID, Market: "home", StakeCents: 1000,
	})
	require.NoError(t, err)

	_, err = svc.Status(context.Background(), uuid.NewString(), rec.BetID)
	require.True(t, errs.Is(err, errs.NotFound))

	_, err = svc.Status(context.Background(), userID, "not-a-uuid")
	require.True(t, errs.Is(err, errs.InvalidArgument))
}
