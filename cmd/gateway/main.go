package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/edulane/scoring-service/internal/activity"
	api "github.com/edulane/scoring-service/internal/api/http"
	auth "github.com/edulane/scoring-service/internal/auth/middleware"
	"github.com/edulane/scoring-service/internal/config"
	"github.com/edulane/scoring-service/internal/db"
	"github.com/edulane/scoring-service/internal/ingest"
	"github.com/edulane/scoring-service/internal/metrics"
	"github.com/edulane/scoring-service/internal/rbac"
	"github.com/edulane/scoring-service/internal/score"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	store := activity.NewSQLStore(dbh)
	resolver := score.NewResolver(store)
	events := ingest.NewEventRepo(dbh)
	contexts := activity.ContextLookup{Store: store}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.RoleClaimFallback))

		// Either grant reaches the score endpoint; the handler still
		// demands score:view-any before serving someone else's score.
		pr.With(rbac.RequireAny("score:view", "score:view-any")).
			Get("/activities/{activityID}/score", api.GetScoreHandler(resolver))

		pr.With(rbac.Require("completion:set")).
			Post("/activities/{activityID}/completion", api.SetCompletionHandler(store, resolver))

		pr.With(rbac.Require("events:submit")).
			Post("/xapi/statements", api.ProcessStatementsHandler(events, contexts, resolver))

		// Provisioning (teacher/admin)
		pr.With(rbac.Require("admin:activities")).
			Put("/admin/activities", api.UpsertActivityHandler(store))
		pr.With(rbac.Require("admin:grades")).
			Put("/admin/grades", api.UpsertGradeHandler(store))
		pr.With(rbac.Require("admin:enrollments")).
			Put("/admin/enrollments", api.EnrollHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
