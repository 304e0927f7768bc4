package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/codm-tournament/docs"
	"github.com/Dosada05/codm-tournament/handlers"
	"github.com/Dosada05/codm-tournament/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
	Logger *slog.Logger
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	rankingHandler *handlers.RankingHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	adminOnly := []func(http.Handler) http.Handler{
		middleware.Authenticate(opts.JWTSecret),
		middleware.Authorize(middleware.RoleAdmin),
		middleware.AuditLog(opts.Logger),
	}

	router.Get("/healthz", healthHandler(opts.Health))
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Websocket connections must not go through the request timeout.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/records", leaderboardHandler.ListGlobalRecords)
		r.Get("/records/{gameMode}", leaderboardHandler.GetGlobalRecords)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListHandler)
			r.Get("/active/{gameMode}", tournamentHandler.GetActiveHandler)
			r.With(adminOnly...).Post("/", tournamentHandler.CreateHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByIDHandler)
				r.Get("/overview", tournamentHandler.OverviewHandler)
				r.Get("/progress", matchHandler.GetProgress)

				r.Get("/teams", teamHandler.ListTeams)
				r.Get("/teams/{teamID}", teamHandler.GetTeam)

				r.Get("/matches", matchHandler.ListMatches)
				r.Get("/matches/{matchID}", matchHandler.GetMatch)

				r.Get("/standings/groups", standingsHandler.ListGroupStandings)
				r.Get("/standings/groups/{groupName}", standingsHandler.GetGroupStandings)
				r.Get("/standings/blocs/{bloc}", standingsHandler.GetBlocStandings)
				r.Get("/standings/qualification", standingsHandler.GetQualification)

				r.Get("/leaderboards/{gameMode}", leaderboardHandler.GetLeaderboard)
				r.Get("/rankings", rankingHandler.GetRankings)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly...)

					r.Put("/", tournamentHandler.UpdateHandler)
					r.Delete("/", tournamentHandler.DeleteHandler)
					r.Post("/activate", tournamentHandler.ActivateHandler)
					r.Post("/stats", tournamentHandler.RecomputeStatsHandler)
					r.Post("/archive", tournamentHandler.ExportArchiveHandler)

					r.Post("/teams", teamHandler.RegisterTeam)
					r.Delete("/teams/{teamID}", teamHandler.DeleteTeam)
					r.Post("/teams/{teamID}/reject", teamHandler.RejectTeam)
					r.Post("/teams/{teamID}/players/{playerID}/validate", teamHandler.ValidatePlayer)
					r.Post("/teams/{teamID}/players/{playerID}/reject", teamHandler.RejectPlayer)

					r.Post("/phases/{phase}", matchHandler.GeneratePhase)
					r.Put("/phases/{phase}", matchHandler.RegeneratePhase)
					r.Post("/matches/{matchID}/rounds", matchHandler.RecordRound)

					r.Post("/leaderboards/{gameMode}/entries", leaderboardHandler.AddManualEntry)
					r.Post("/leaderboards/{gameMode}/recalculate", leaderboardHandler.Recalculate)

					r.Post("/results", rankingHandler.RecordGameResult)
				})
			})
		})
	})
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				slog.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
