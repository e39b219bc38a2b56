package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/rmachado/sportsbook-backend/internal/bet"
	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

// Postgres implementa o ledger de apostas e a transação de débito
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Place executa o débito do saldo e o insert da aposta numa única transação.
// O FOR UPDATE na linha do usuário serializa apostas concorrentes do mesmo
// usuário: a checagem de saldo nunca enxerga um valor pré-débito obsoleto.
// Ordem das checagens: usuário existe -> saldo suficiente -> stake > 0.
func (p *Postgres) Place(ctx context.Context, b *bet.Bet) (string, int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, errs.Wrap(errs.Unavailable, "begin tx", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance_cents FROM users WHERE id=$1 AND is_active FOR UPDATE`,
		b.UserID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, errs.New(errs.NotFound, "user not found")
	}
	if err != nil {
		return "", 0, errs.Wrap(errs.Internal, "lock user row", err)
	}

	if balance < b.StakeCents {
		return "", 0, errs.New(errs.InsufficientFunds, "insufficient funds")
	}
	if b.StakeCents <= 0 {
		return "", 0, errs.New(errs.InvalidArgument, "stake must be positive")
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET balance_cents = balance_cents - $1 WHERE id=$2`,
		b.StakeCents, b.UserID); err != nil {
		return "", 0, errs.Wrap(errs.Internal, "debit balance", err)
	}

	id := uuid.NewString()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, match_id, market, stake_cents, odds, potential_win_cents, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'pending')`,
		id, b.UserID, b.MatchID, b.Market, b.StakeCents, b.Odds, b.PotentialWinCents,
	); err != nil {
		return "", 0, errs.Wrap(errs.Internal, "insert bet", err)
	}

	if err = tx.Commit(); err != nil {
		return "", 0, errs.Wrap(errs.Unavailable, "commit tx", err)
	}

	return id, balance - b.StakeCents, nil
}

// Get devolve uma aposta pelo id
func (p *Postgres) Get(ctx context.Context, betID string) (*bet.Bet, error) {
	var b bet.Bet
	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, match_id, market, stake_cents, odds, potential_win_cents, status, created_at
		FROM bets WHERE id=$1`, betID).
		Scan(&b.ID, &b.UserID, &b.MatchID, &b.Market, &b.StakeCents, &b.Odds,
			&b.PotentialWinCents, &b.Status, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.NotFound, "bet not found")
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "get bet", err)
	}
	return &b, nil
}

// History lista as apostas do usuário, mais recentes primeiro
func (p *Postgres) History(ctx context.Context, userID string, page, pageSize int) ([]bet.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, match_id, market, stake_cents, odds, potential_win_cents, status, created_at
		FROM bets WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, pageSize, pageSize*(page-1))
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "bet history", err)
	}
	defer rows.Close()

	var out []bet.Bet
	for rows.Next() {
		var b bet.Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.MatchID, &b.Market, &b.StakeCents,
			&b.Odds, &b.PotentialWinCents, &b.Status, &b.CreatedAt); err != nil {
			return nil, errs.Wrap(errs.Internal, "scan bet", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "bet history", err)
	}
	return out, nil
}
