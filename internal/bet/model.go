package bet

import "time"

// Status de uma aposta. A transição pending -> won/lost é feita por um
// processo de settlement externo; este serviço só cria apostas pending.
const (
	StatusPending = "pending"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// Bet é o registro imutável do ledger de apostas.
// Odds são congeladas no momento da aceitação.
type Bet struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	MatchID           string    `json:"matchId"`
	Market            string    `json:"market"`
	StakeCents        int64     `json:"stakeCents"`
	Odds              float64   `json:"odds"`
	PotentialWinCents int64     `json:"potentialWinCents"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Receipt é devolvido ao apostador após a aceitação
type Receipt struct {
	BetID           string
	Status          string
	Odds            float64
	NewBalanceCents int64
}
