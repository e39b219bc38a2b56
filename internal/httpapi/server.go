package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/auth"
	"github.com/rmachado/sportsbook-backend/internal/bet"
	"github.com/rmachado/sportsbook-backend/internal/casino"
	"github.com/rmachado/sportsbook-backend/internal/domain/errs"
	"github.com/rmachado/sportsbook-backend/internal/match"
	mcache "github.com/rmachado/sportsbook-backend/internal/match/cache"
	mrepo "github.com/rmachado/sportsbook-backend/internal/match/repo"
	"github.com/rmachado/sportsbook-backend/internal/ws"
)

// MatchStore é a visão de partidas usada pelos handlers
type MatchStore interface {
	List(ctx context.Context, f mrepo.Filter, page, pageSize int) ([]match.Match, error)
	Get(ctx context.Context, id string) (*match.Match, error)
	Create(ctx context.Context, m *match.Match) (string, error)
	Update(ctx context.Context, id string, upd match.Update) error
	Delete(ctx context.Context, id string) error
}

// GameStore é o CRUD de jogos de cassino usado pelos handlers
type GameStore interface {
	Create(ctx context.Context, g *casino.Game) (string, error)
	Get(ctx context.Context, id string) (*casino.Game, error)
	List(ctx context.Context, page, pageSize int) ([]casino.Game, error)
	Update(ctx context.Context, g *casino.Game) error
	Delete(ctx context.Context, id string) error
}

// Server expõe a API pública do sportsbook
type Server struct {
	log     *zap.Logger
	auth    *auth.Service
	bets    *bet.Service
	matches MatchStore
	odds    *mcache.Cache // cache de odds; opcional
	games   GameStore
	hub     *ws.Hub
}

func NewServer(
	log *zap.Logger,
	authSvc *auth.Service,
	bets *bet.Service,
	matches MatchStore,
	odds *mcache.Cache,
	games GameStore,
	hub *ws.Hub,
) *Server {
	return &Server{
		log:     log,
		auth:    authSvc,
		bets:    bets,
		matches: matches,
		odds:    odds,
		games:   games,
		hub:     hub,
	}
}

// Router retorna o roteador HTTP com todos os endpoints da API
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/token", s.login)
		r.Get("/me", s.authenticate(s.me))
		r.Post("/password-reset-request", s.passwordResetRequest)
		r.Post("/password-reset", s.passwordReset)
	})

	r.Route("/api/matches", func(r chi.Router) {
		r.Get("/", s.listMatches)
		r.Get("/live", s.listLiveMatches)
		r.Get("/today", s.listTodayMatches)
		r.Get("/upcoming", s.listUpcomingMatches)
		r.Get("/sports/{category}", s.listMatchesBySport)
		r.Get("/{id}", s.getMatch)
		r.Get("/{id}/odds", s.getMatchOdds)

		// administração de partidas
		r.Post("/", s.requireAdmin(s.createMatch))
		r.Put("/{id}", s.requireAdmin(s.updateMatch))
		r.Delete("/{id}", s.requireAdmin(s.deleteMatch))
	})

	r.Route("/api/bets", func(r chi.Router) {
		r.Post("/", s.authenticate(s.placeBet))
		r.Get("/history", s.authenticate(s.betHistory))
		r.Get("/{id}", s.authenticate(s.betStatus))
	})

	r.Route("/api/casino/games", func(r chi.Router) {
		r.Get("/", s.listGames)
		r.Get("/{id}", s.getGame)
		r.Post("/", s.requireAdmin(s.createGame))
		r.Put("/{id}", s.requireAdmin(s.updateGame))
		r.Delete("/{id}", s.requireAdmin(s.deleteGame))
	})

	if s.hub != nil {
		r.Get("/ws/live-matches", s.hub.HandleWS)
	}

	return r
}

// paginação padrão: page >= 1, 1 <= page_size <= 100
func pagination(r *http.Request) (page, pageSize int, err error) {
	page, pageSize = 1, 10
	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, errs.New(errs.InvalidArgument, "page must be >= 1")
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		pageSize, err = strconv.Atoi(v)
		if err != nil || pageSize < 1 || pageSize > 100 {
			return 0, 0, errs.New(errs.InvalidArgument, "page_size must be between 1 and 100")
		}
	}
	return page, pageSize, nil
}
