package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "bad json"))
		return
	}

	id, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{UserID: id, Message: "user registered successfully"})
}

// login aceita username ou email; credenciais inválidas sempre viram 401,
// sem distinguir usuário inexistente de senha errada.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "bad json"))
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		kind := errs.KindOf(err)
		if kind == errs.NotFound || kind == errs.Unauthorized {
			writeErr(w, s.log, errs.New(errs.Unauthorized, "incorrect username, email or password"))
			return
		}
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.UserByID(r.Context(), userID(r))
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		BalanceCents: u.BalanceCents,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) passwordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "bad json"))
		return
	}

	token, err := s.auth.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, PasswordResetRequestResponse{
		Message:    "password reset token issued",
		ResetToken: token,
	})
}

func (s *Server) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, s.log, errs.New(errs.InvalidArgument, "bad json"))
		return
	}

	if err := s.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeErr(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated successfully"})
}
