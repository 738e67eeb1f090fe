package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/asset-audit/internal/config"
	"github.com/crucial707/asset-audit/internal/handlers"
	mw "github.com/crucial707/asset-audit/internal/middleware"
	"github.com/crucial707/asset-audit/internal/recon"
	"github.com/crucial707/asset-audit/internal/repo"
	"github.com/crucial707/asset-audit/internal/snapshot"
	"github.com/crucial707/asset-audit/internal/snipeit"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full API router. Split out from main so the
// integration tests can stand the whole thing up against a sqlmock DB and
// an httptest asset directory.
func newRouter(database *sql.DB, client *snipeit.Client, cache *snapshot.Cache, cfg config.Config) http.Handler {
	auditRepo := repo.NewAuditRepo(database)
	workflow := recon.NewWorkflow(client, auditRepo)

	auditH := &handlers.AuditHandler{Repo: auditRepo, Workflow: workflow}
	assetH := &handlers.AssetHandler{Client: client, Cache: cache}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.Recoverer)
	r.Use(mw.RequestLog)
	r.Use(mw.Prometheus)
	r.Use(mw.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(mw.CORS(cfg.CORSAllowedOrigins))
	r.Use(mw.MaxBytes(mw.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	limiter := mw.APIRateLimiter()

	r.Route("/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(mw.APIToken(cfg.APIToken))

		r.Post("/audits", auditH.SubmitAudit)
		r.Get("/audits", auditH.ListAudits)
		r.Get("/audits/export", auditH.ExportAudits)
		r.Post("/audits/resolve", auditH.ResolveAudits)
		r.Delete("/audits/{id}", auditH.DeleteAudit)

		r.Get("/assets/snapshot", assetH.GetSnapshot)
		r.Get("/assets/lookup", assetH.LookupAsset)
		r.Get("/assets/{id}", assetH.GetAsset)
		r.Patch("/assets/{id}/location", assetH.PatchAssetLocation)

		r.Get("/locations", assetH.ListLocations)
		r.Get("/me", assetH.CurrentUser)
	})

	return r
}
