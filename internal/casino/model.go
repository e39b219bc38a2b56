package casino

import "time"

// Game é um jogo de cassino oferecido na plataforma
type Game struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	MinStakeCents int64     `json:"minStakeCents"`
	MaxStakeCents int64     `json:"maxStakeCents"`
	Enabled       bool      `json:"enabled"`
	CreatedAt     time.Time `json:"createdAt"`
}
