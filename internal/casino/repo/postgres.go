package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rmachado/sportsbook-backend/internal/casino"
	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

// Postgres implementa o CRUD de jogos de cassino
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const gameCols = `id, name, category, min_stake_cents, max_stake_cents, enabled, created_at`

func (p *Postgres) Create(ctx context.Context, g *casino.Game) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO casino_games (id, name, category, min_stake_cents, max_stake_cents, enabled)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		id, g.Name, g.Category, g.MinStakeCents, g.MaxStakeCents, g.Enabled,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", errs.New(errs.Conflict, "game name already exists")
		}
		return "", errs.Wrap(errs.Internal, "insert game", err)
	}
	return id, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*casino.Game, error) {
	var g casino.Game
	err := p.db.QueryRowContext(ctx,
		`SELECT `+gameCols+` FROM casino_games WHERE id=$1`, id).
		Scan(&g.ID, &g.Name, &g.Category, &g.MinStakeCents, &g.MaxStakeCents, &g.Enabled, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.NotFound, "game not found")
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "get game", err)
	}
	return &g, nil
}

func (p *Postgres) List(ctx context.Context, page, pageSize int) ([]casino.Game, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+gameCols+` FROM casino_games WHERE enabled ORDER BY name LIMIT $1 OFFSET $2`,
		pageSize, pageSize*(page-1))
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "list games", err)
	}
	defer rows.Close()

	var out []casino.Game
	for rows.Next() {
		var g casino.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Category, &g.MinStakeCents,
			&g.MaxStakeCents, &g.Enabled, &g.CreatedAt); err != nil {
			return nil, errs.Wrap(errs.Internal, "scan game", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "list games", err)
	}
	return out, nil
}

func (p *Postgres) Update(ctx context.Context, g *casino.Game) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE casino_games
		SET name=$1, category=$2, min_stake_cents=$3, max_stake_cents=$4, enabled=$5
		WHERE id=$6`,
		g.Name, g.Category, g.MinStakeCents, g.MaxStakeCents, g.Enabled, g.ID)
	if err != nil {
		return errs.Wrap(errs.Internal, "update game", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.NotFound, "game not found")
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM casino_games WHERE id=$1`, id)
	if err != nil {
		return errs.Wrap(errs.Internal, "delete game", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.NotFound, "game not found")
	}
	return nil
}
