package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/user"
)

// Postgres implementa operações de persistência de usuários
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de usuários
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const userCols = `id, username, email, password_hash, balance_cents, is_admin, is_active, reset_token, reset_token_expires_at, created_at`

func scanUser(row *sql.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.BalanceCents,
		&u.IsAdmin, &u.IsActive, &u.ResetToken, &u.ResetTokenExpiresAt, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "scan user", err)
	}
	return &u, nil
}

// Create insere um novo usuário e devolve o id gerado.
// Violação de unicidade (username/email) vira Conflict.
func (p *Postgres) Create(ctx context.Context, username, email, passwordHash string) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, balance_cents, is_admin, is_active)
		VALUES ($1,$2,$3,$4,0,FALSE,TRUE)`,
		id, username, email, passwordHash,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", errs.New(errs.Conflict, "username or email already registered")
		}
		return "", errs.Wrap(errs.Internal, "insert user", err)
	}
	return id, nil
}

func (p *Postgres) ByID(ctx context.Context, id string) (*user.User, error) {
	return scanUser(p.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

// ByIdentifier busca por username ou email, apenas contas ativas
func (p *Postgres) ByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	return scanUser(p.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE (username=$1 OR email=$1) AND is_active`, identifier))
}

// ByEmail só enxerga contas ativas: conta desativada não entra no fluxo de reset
func (p *Postgres) ByEmail(ctx context.Context, email string) (*user.User, error) {
	return scanUser(p.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email=$1 AND is_active`, email))
}

func (p *Postgres) ByResetToken(ctx context.Context, token string) (*user.User, error) {
	u, err := scanUser(p.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE reset_token=$1 AND is_active`, token))
	if errs.Is(err, errs.NotFound) {
		return nil, errs.New(errs.Unauthorized, "invalid reset token")
	}
	return u, err
}

// SetResetToken grava token e expiração no registro do usuário
func (p *Postgres) SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE users SET reset_token=$1, reset_token_expires_at=$2 WHERE email=$3 AND is_active`,
		token, expiresAt, email)
	if err != nil {
		return errs.Wrap(errs.Internal, "set reset token", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.NotFound, "email not found")
	}
	return nil
}

// ConsumeResetToken troca a senha e limpa o token num único UPDATE,
// garantindo uso único mesmo com chamadas concorrentes.
func (p *Postgres) ConsumeResetToken(ctx context.Context, token, newPasswordHash string) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash=$1, reset_token=NULL, reset_token_expires_at=NULL
		WHERE reset_token=$2 AND is_active`,
		newPasswordHash, token)
	if err != nil {
		return errs.Wrap(errs.Internal, "consume reset token", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.Unauthorized, "invalid reset token")
	}
	return nil
}
