package events

import "time"

// Snapshot de uma partida ao vivo, enviado pelo feed WebSocket.
type MatchUpdate struct {
	MatchID   string             `json:"match_id"`
	HomeTeam  string             `json:"home_team"`
	AwayTeam  string             `json:"away_team"`
	Status    string             `json:"status"`
	Score     string             `json:"score,omitempty"`
	Odds      map[string]float64 `json:"odds"`
	UpdatedAt time.Time          `json:"updated_at"`
}
