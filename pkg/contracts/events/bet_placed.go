package events

// Evento publicado no tópico "bet_placed" após o commit da aposta.
type BetPlaced struct {
	BetID             string  `json:"bet_id"`
	UserID            string  `json:"user_id"`
	MatchID           string  `json:"match_id"`
	Market            string  `json:"market"`
	StakeCents        int64   `json:"stake_cents"`
	Odds              float64 `json:"odds"`
	PotentialWinCents int64   `json:"potential_win_cents"`
	TsUnixMs          int64   `json:"ts_unix_ms"`
}
