package httpapi

import (
	"net/http"
	"time"

	"chadcinema-backend-go/internal/config"
	"chadcinema-backend-go/internal/services"
	"chadcinema-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Stores bundles the storage interfaces the handlers depend on. Production
// wires every field to the postgres store; tests use the memory store.
type Stores struct {
	Contents store.ContentStore
	Users    store.UserStore
	Watches  store.WatchStore
	Curation store.CurationStore
	Metrics  store.MetricStore
}

type Server struct {
	Stores     Stores
	Config     config.Config
	Tokens     services.TokenService
	MetricsHub *services.MetricsHub
}

func NewServer(stores Stores, cfg config.Config, hub *services.MetricsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		Stores:     stores,
		Config:     cfg,
		Tokens:     tokens,
		MetricsHub: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)

		api.Post("/auth/signup", s.Signup)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.With(WithAuth(s.Tokens)).Get("/auth/verify", s.Verify)

		api.Route("/content", func(content chi.Router) {
			content.Get("/trending", s.Trending)
			content.Get("/by-category/{category}", s.ByCategory)
			content.Get("/detail/{contentID}", s.ContentDetail)
			content.Get("/search", s.Search)
			content.Get("/weekly/today", s.WeeklyToday)
			content.Get("/weekly/all", s.WeeklyAll)
			content.Get("/weekly/{day}", s.WeeklyByDay)
		})

		api.Get("/hero/carousel", s.HeroCarousel)

		api.Route("/user", func(user chi.Router) {
			user.Use(WithAuth(s.Tokens))
			user.Get("/watchlist", s.Watchlist)
			user.Post("/watchlist/add", s.WatchlistAdd)
			user.Post("/watchlist/remove", s.WatchlistRemove)
			user.Post("/track-view", s.TrackView)
			user.Get("/recommendations", s.Recommendations)
			user.Get("/history", s.History)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(WithAuth(s.Tokens))
			admin.Use(RequireAdmin)
			admin.Get("/weekly-assignments", s.AdminWeeklyAssignments)
			admin.Post("/weekly-assignments", s.AdminReplaceWeekly)
			admin.Post("/hero/carousel", s.AdminReplaceHero)
			admin.Get("/metrics/history", s.MetricsHistory)
		})
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}
