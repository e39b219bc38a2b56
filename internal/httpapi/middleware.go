package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

type ctxKey string

const ctxUserID ctxKey = "userId"

// userID devolve o id autenticado colocado no contexto pelo middleware
func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxUserID).(string)
	return id
}

// authenticate exige um bearer token válido e injeta o userId no contexto.
// A existência do usuário não é reverificada aqui; handlers que precisam do
// registro fazem o lookup.
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeErr(w, s.log, errs.New(errs.Unauthorized, "missing authorization header"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeErr(w, s.log, errs.New(errs.Unauthorized, "malformed authorization header"))
			return
		}

		uid, err := s.auth.ResolveToken(parts[1])
		if err != nil {
			writeErr(w, s.log, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), ctxUserID, uid)))
	}
}

// requireAdmin exige conta ativa com flag de administrador
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.authenticate(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.auth.UserByID(r.Context(), userID(r))
		if err != nil {
			writeErr(w, s.log, err)
			return
		}
		if !u.IsAdmin || !u.IsActive {
			writeErr(w, s.log, errs.New(errs.Unauthorized, "admin privileges required"))
			return
		}
		next(w, r)
	})
}
