package internal

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"assettrack/internal/auth"
	"assettrack/internal/config"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type Server struct {
	DB         *sql.DB
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
}

func NewServer(dsn string, cfg *config.Config) *Server {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Database ping failed:", err)
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		log.Fatal("JWT configuration validation failed:", err)
	}

	s := &Server{
		DB:         db,
		Router:     chi.NewRouter(),
		JWTManager: jwtManager,
		Metrics:    NewMetrics(),
	}

	s.Router.Use(RequestID)

	metricsEnabled := os.Getenv("ENABLE_METRICS") == "true"
	if metricsEnabled {
		s.Router.Use(s.Metrics.Middleware())
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	if metricsEnabled {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// Identity endpoints (no token required)
	s.Router.Post("/api/auth/local/register", s.registerUser)
	s.Router.Post("/api/auth/local", s.loginUser)

	// Tabular collections. Reads are open; writes require a valid
	// bearer token.
	s.Router.Route("/store", func(r chi.Router) {
		r.Get("/assets", s.listAssets)
		r.Get("/assets/{id}", s.getAsset)
		r.Get("/categories", s.listCategories)
		r.Get("/categories/{id}", s.getCategory)
		r.Get("/departments", s.listDepartments)
		r.Get("/departments/{id}", s.getDepartment)
		r.Get("/users", s.listUsers)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.JWTManager))

			r.Post("/assets", s.createAsset)
			r.Put("/assets/{id}", s.updateAsset)
			r.Delete("/assets/{id}", s.deleteAsset)

			r.Post("/categories", s.createCategory)
			r.Put("/categories/{id}", s.updateCategory)
			r.Delete("/categories/{id}", s.deleteCategory)

			r.Post("/departments", s.createDepartment)
			r.Put("/departments/{id}", s.updateDepartment)
			r.Delete("/departments/{id}", s.deleteDepartment)
		})
	})

	return s
}

// Close properly shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
