package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
)

// statusOf mapeia o Kind de domínio para o status HTTP voltado ao cliente.
// Partida fechada e saldo insuficiente são erros de cliente (400).
func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.InvalidArgument, errs.InvalidState, errs.InsufficientFunds:
		return http.StatusBadRequest
	case errs.NotFound:
		return http.StatusNotFound
	case errs.Unauthorized:
		return http.StatusUnauthorized
	case errs.Conflict:
		return http.StatusConflict
	case errs.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeErr serializa o erro sem vazar detalhe de storage.
// Só falhas de servidor (5xx) são logadas como erro.
func writeErr(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := errs.KindOf(err)
	status := statusOf(kind)

	msg := "internal server error"
	var de *errs.Error
	if errors.As(err, &de) && status < http.StatusInternalServerError {
		msg = de.Msg
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Code: kind.String()})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
