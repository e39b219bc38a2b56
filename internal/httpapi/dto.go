package httpapi

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// LoginRequest aceita username ou email no mesmo campo
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"` // sempre "bearer"
}

type MeResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	BalanceCents int64  `json:"balance_cents"`
	IsAdmin      bool   `json:"isAdmin"`
	CreatedAt    string `json:"createdAt"`
}

type PasswordResetRequestBody struct {
	Email string `json:"email"`
}

// ResetToken é devolvido na resposta; não há entrega por email aqui
type PasswordResetRequestResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

type PasswordResetBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// PlaceBetRequest é o formato canônico do pedido de aposta.
// Odds é a cotação que o cliente viu; divergência com a cotação corrente
// resulta em 409.
type PlaceBetRequest struct {
	MatchID    string  `json:"matchId"`
	Market     string  `json:"market"`
	Odds       float64 `json:"odds"`
	StakeCents int64   `json:"stake_cents"`
}

type PlaceBetResponse struct {
	BetID           string  `json:"betId"`
	Status          string  `json:"status"`
	Odds            float64 `json:"odds"`
	NewBalanceCents int64   `json:"new_balance_cents"`
}

type GameRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	MinStakeCents int64  `json:"min_stake_cents"`
	MaxStakeCents int64  `json:"max_stake_cents"`
	Enabled       bool   `json:"enabled"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
