package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/match"
)

// Postgres implementa operações de persistência de partidas
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de partidas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Filter restringe listagens de partidas.
// Day filtra partidas do dia; UpcomingAfter filtra partidas futuras agendadas.
type Filter struct {
	Status        string
	Sport         string
	Day           *time.Time
	UpcomingAfter *time.Time
}

const matchCols = `id, home_team, away_team, sport, league, status, start_time, odds, score, updated_at`

func scanMatch(scan func(dest ...any) error) (*match.Match, error) {
	var m match.Match
	var oddsRaw []byte
	err := scan(&m.ID, &m.HomeTeam, &m.AwayTeam, &m.Sport, &m.League,
		&m.Status, &m.StartTime, &oddsRaw, &m.Score, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.NotFound, "match not found")
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "scan match", err)
	}
	if err := json.Unmarshal(oddsRaw, &m.Odds); err != nil {
		return nil, errs.Wrap(errs.Internal, "decode odds", err)
	}
	return &m, nil
}

// List devolve partidas paginadas; skip = pageSize * (page - 1)
func (p *Postgres) List(ctx context.Context, f Filter, page, pageSize int) ([]match.Match, error) {
	where := []string{"TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.Sport != "" {
		where = append(where, "sport = "+arg(f.Sport))
	}
	if f.Day != nil {
		day := f.Day.Truncate(24 * time.Hour)
		where = append(where, "start_time >= "+arg(day), "start_time < "+arg(day.Add(24*time.Hour)))
	}
	if f.UpcomingAfter != nil {
		where = append(where, "status = 'scheduled'", "start_time > "+arg(*f.UpcomingAfter))
	}

	q := `SELECT ` + matchCols + ` FROM matches WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY start_time` +
		` LIMIT ` + arg(pageSize) + ` OFFSET ` + arg(pageSize*(page-1))

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "list matches", err)
	}
	defer rows.Close()

	var out []match.Match
	for rows.Next() {
		m, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "list matches", err)
	}
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*match.Match, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+matchCols+` FROM matches WHERE id=$1`, id)
	return scanMatch(row.Scan)
}

// Create insere uma nova partida com status scheduled
func (p *Postgres) Create(ctx context.Context, m *match.Match) (string, error) {
	id := uuid.NewString()
	odds, err := json.Marshal(m.Odds)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "encode odds", err)
	}
	status := m.Status
	if status == "" {
		status = match.StatusScheduled
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO matches (id, home_team, away_team, sport, league, status, start_time, odds, score)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, m.HomeTeam, m.AwayTeam, m.Sport, m.League, status, m.StartTime, odds, m.Score,
	)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "insert match", err)
	}
	return id, nil
}

// Update aplica atualização parcial; campos nil ficam como estão
func (p *Postgres) Update(ctx context.Context, id string, upd match.Update) error {
	set := []string{"updated_at = NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if upd.HomeTeam != nil {
		set = append(set, "home_team = "+arg(*upd.HomeTeam))
	}
	if upd.AwayTeam != nil {
		set = append(set, "away_team = "+arg(*upd.AwayTeam))
	}
	if upd.Sport != nil {
		set = append(set, "sport = "+arg(*upd.Sport))
	}
	if upd.League != nil {
		set = append(set, "league = "+arg(*upd.League))
	}
	if upd.Status != nil {
		if !match.ValidStatus(*upd.Status) {
			return errs.New(errs.InvalidArgument, "unknown match status")
		}
		set = append(set, "status = "+arg(*upd.Status))
	}
	if upd.StartTime != nil {
		set = append(set, "start_time = "+arg(*upd.StartTime))
	}
	if upd.Odds != nil {
		odds, err := json.Marshal(upd.Odds)
		if err != nil {
			return errs.Wrap(errs.Internal, "encode odds", err)
		}
		set = append(set, "odds = "+arg(odds))
	}
	if upd.Score != nil {
		set = append(set, "score = "+arg(*upd.Score))
	}

	q := `UPDATE matches SET ` + strings.Join(set, ", ") + ` WHERE id = ` + arg(id)
	res, err := p.db.ExecContext(ctx, q, args...)
	if err != nil {
		return errs.Wrap(errs.Internal, "update match", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.NotFound, "match not found")
	}
	return nil
}

// deleteErr classifica a falha do DELETE: violação da FK de bets (23503)
// vira Conflict; qualquer outra falha é Internal.
func deleteErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return errs.New(errs.Conflict, "match has bets")
	}
	return errs.Wrap(errs.Internal, "delete match", err)
}

// Delete remove uma partida sem apostas vinculadas.
// A FK de bets bloqueia a remoção de partidas já referenciadas.
func (p *Postgres) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM matches WHERE id=$1`, id)
	if err != nil {
		return deleteErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.NotFound, "match not found")
	}
	return nil
}

// LiveSnapshots devolve as partidas ao vivo para o feed WebSocket
func (p *Postgres) LiveSnapshots(ctx context.Context) ([]match.Match, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+matchCols+` FROM matches WHERE status='live' ORDER BY start_time`)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "live snapshots", err)
	}
	defer rows.Close()

	var out []match.Match
	for rows.Next() {
		m, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.Internal, "live snapshots", err)
	}
	return out, nil
}
