package user

import "time"

// User é o modelo persistido no Postgres.
// Saldo em centavos; a constraint do banco garante balance_cents >= 0.
type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	BalanceCents        int64
	IsAdmin             bool
	IsActive            bool
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
}
