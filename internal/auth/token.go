package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

// TokenIssuer emite e verifica tokens JWT (HS256).
// Tokens de acesso e de reset compartilham o segredo mas têm "typ" e
// janelas de expiração distintas.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
}

func NewTokenIssuer(secret string, accessTTL, resetTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, resetTTL: resetTTL}
}

func (t *TokenIssuer) ResetTTL() time.Duration { return t.resetTTL }

// IssueAccess gera um bearer token com o id do usuário como subject
func (t *TokenIssuer) IssueAccess(userID string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = userID
	claims["typ"] = "access"
	claims["exp"] = time.Now().Add(t.accessTTL).Unix()

	return token.SignedString(t.secret)
}

// IssueReset gera um token de reset de senha atrelado ao email
func (t *TokenIssuer) IssueReset(email string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["email"] = email
	claims["typ"] = "reset"
	claims["exp"] = time.Now().Add(t.resetTTL).Unix()

	return token.SignedString(t.secret)
}

// ResolveAccess verifica assinatura e expiração e devolve o subject.
// Não consulta o banco: quem precisar do usuário faz o lookup depois.
func (t *TokenIssuer) ResolveAccess(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", errs.Wrap(errs.Unauthorized, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errs.New(errs.Unauthorized, "invalid token")
	}
	if typ, _ := claims["typ"].(string); typ != "access" {
		return "", errs.New(errs.Unauthorized, "not an access token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errs.New(errs.Unauthorized, "token without subject")
	}
	return sub, nil
}
