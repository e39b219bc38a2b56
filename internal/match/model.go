package match

import "time"

// Status de uma partida. Apostas só são aceitas em StatusLive.
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusClosed    = "closed"
)

// Match é o modelo persistido no Postgres.
// Odds mapeia nome do mercado para a cotação oferecida no momento.
type Match struct {
	ID        string             `json:"id"`
	HomeTeam  string             `json:"homeTeam"`
	AwayTeam  string             `json:"awayTeam"`
	Sport     string             `json:"sport"`
	League    string             `json:"league"`
	Status    string             `json:"status"`
	StartTime time.Time          `json:"startTime"`
	Odds      map[string]float64 `json:"odds"`
	Score     *string            `json:"score,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ValidStatus reporta se s pertence ao vocabulário canônico de status
func ValidStatus(s string) bool {
	return s == StatusScheduled || s == StatusLive || s == StatusClosed
}

// Update carrega campos opcionais para atualização parcial de uma partida
type Update struct {
	HomeTeam  *string
	AwayTeam  *string
	Sport     *string
	League    *string
	Status    *string
	StartTime *time.Time
	Odds      map[string]float64
	Score     *string
}
