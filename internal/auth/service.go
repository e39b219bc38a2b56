package auth

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/user"
)

// UserStore define as operações de identidade usadas pelo serviço de auth
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (string, error)
	ByID(ctx context.Context, id string) (*user.User, error)
	ByIdentifier(ctx context.Context, identifier string) (*user.User, error)
	ByEmail(ctx context.Context, email string) (*user.User, error)
	ByResetToken(ctx context.Context, token string) (*user.User, error)
	SetResetToken(ctx context.Context, email, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, newPasswordHash string) error
}

// Service concentra registro, login e fluxo de reset de senha
type Service struct {
	log    *zap.Logger
	users  UserStore
	tokens *TokenIssuer
}

func NewService(log *zap.Logger, users UserStore, tokens *TokenIssuer) *Service {
	return &Service{log: log, users: users, tokens: tokens}
}

// Register cria um usuário novo com senha em bcrypt
func (s *Service) Register(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || !strings.Contains(email, "@") {
		return "", errs.New(errs.InvalidArgument, "username and valid email required")
	}
	if len(password) < 6 {
		return "", errs.New(errs.InvalidArgument, "password too short")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "hash password", err)
	}

	id, err := s.users.Create(ctx, username, email, string(hash))
	if err != nil {
		return "", err
	}
	s.log.Info("user registered", zap.String("userId", id), zap.String("username", username))
	return id, nil
}

// Authenticate valida credenciais por username ou email.
// Usuário inexistente/inativo vira NotFound; senha errada vira Unauthorized.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*user.User, error) {
	u, err := s.users.ByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt", zap.String("identifier", identifier))
		return nil, errs.New(errs.Unauthorized, "incorrect password")
	}
	return u, nil
}

// Login autentica e emite o bearer token
func (s *Service) Login(ctx context.Context, identifier, password string) (string, error) {
	u, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.IssueAccess(u.ID)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "issue token", err)
	}
	s.log.Info("user logged in", zap.String("userId", u.ID))
	return token, nil
}

// ResolveToken verifica o bearer token e devolve o id do usuário.
// Não garante que o usuário ainda existe; quem precisar disso faz o lookup.
func (s *Service) ResolveToken(token string) (string, error) {
	return s.tokens.ResolveAccess(token)
}

// UserByID carrega um usuário pelo id
func (s *Service) UserByID(ctx context.Context, id string) (*user.User, error) {
	return s.users.ByID(ctx, id)
}

// CurrentUser resolve o token e carrega o usuário correspondente
func (s *Service) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	userID, err := s.tokens.ResolveAccess(token)
	if err != nil {
		return nil, err
	}
	return s.users.ByID(ctx, userID)
}

// RequestPasswordReset emite um token de reset e grava no registro do usuário.
// O envio de email fica fora deste serviço; o token é devolvido ao chamador.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if _, err := s.users.ByEmail(ctx, email); err != nil {
		return "", err
	}

	token, err := s.tokens.IssueReset(email)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "issue reset token", err)
	}

	expiresAt := time.Now().Add(s.tokens.ResetTTL())
	if err := s.users.SetResetToken(ctx, email, token, expiresAt); err != nil {
		return "", err
	}
	s.log.Info("password reset requested", zap.String("email", email))
	return token, nil
}

// ResetPassword consome o token de reset (uso único) e troca a senha
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return errs.New(errs.InvalidArgument, "password too short")
	}

	u, err := s.users.ByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if u.ResetTokenExpiresAt == nil || time.Now().After(*u.ResetTokenExpiresAt) {
		return errs.New(errs.Unauthorized, "reset token expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errs.Wrap(errs.Internal, "hash password", err)
	}
	if err := s.users.ConsumeResetToken(ctx, token, string(hash)); err != nil {
		return err
	}
	s.log.Info("password reset", zap.String("userId", u.ID))
	return nil
}
