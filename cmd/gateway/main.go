package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/classledger/classledger/internal/api/http"
	auth "github.com/classledger/classledger/internal/auth/middleware"
	"github.com/classledger/classledger/internal/config"
	"github.com/classledger/classledger/internal/db"
	"github.com/classledger/classledger/internal/rbac"
	"github.com/classledger/classledger/internal/result"
	"github.com/classledger/classledger/internal/store"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := ensureAdminUser(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	st := store.NewSQLStore(dbh, cfg.DBDriver)
	engine := result.NewEngine(st, result.WithBatchWorkers(cfg.BatchWorkers))

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
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
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.AllowClaimRole))

		// Students may view their own result; teachers/admins anyone's.
		pr.With(rbac.RequireOwnerOr("result:view-all", ownResult)).
			Get("/students/{code}/result", api.GetStudentResultHandler(engine))
		pr.With(rbac.Require("result:view-all")).
			Post("/results/batch", api.BatchResultsHandler(engine, st))

		pr.With(rbac.Require("settings:view")).
			Get("/settings", api.GetSettingsHandler(st))
		pr.With(rbac.Require("settings:edit")).
			Put("/settings", api.PutSettingsHandler(st))

		pr.With(rbac.Require("exams:view")).
			Get("/exams", api.ListExamsHandler(st))
		pr.With(rbac.Require("exams:edit")).
			Put("/exams/{examID}", api.PutExamHandler(st))

		pr.With(rbac.Require("fields:view")).
			Get("/fields", api.ListFieldsHandler(st))
		pr.With(rbac.Require("fields:edit")).
			Put("/fields/{key}", api.PutFieldHandler(st))
		pr.With(rbac.Require("fields:edit")).
			Delete("/fields/{key}", api.DeleteFieldHandler(st))

		pr.With(rbac.Require("students:list")).
			Get("/students", api.ListStudentsHandler(st))
		pr.With(rbac.Require("students:edit")).
			Put("/students/{code}", api.PutStudentHandler(st))

		// Upstream pushes: graded percentages and raw extra values.
		pr.With(rbac.Require("attempt:record")).
			Post("/attempts", api.PostAttemptHandler(st))
		pr.With(rbac.Require("values:record")).
			Post("/values", api.PostValueHandler(st))

		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// ownResult is true when the authenticated subject asks for their own
// result (student user IDs double as student codes).
func ownResult(r *http.Request) bool {
	sub := auth.SubjectFromContext(r.Context())
	return sub != "" && sub == chi.URLParam(r, "code")
}

func ensureAdminUser(ctx context.Context, dbh *sql.DB, username, passHash string) error {
	var exist int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, username).Scan(&exist)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,'admin',$4)`,
		username, username, passHash, time.Now().Unix())
	return err
}
