package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/crucial707/asset-audit/internal/config"
	"github.com/crucial707/asset-audit/internal/db"
	"github.com/crucial707/asset-audit/internal/scheduler"
	"github.com/crucial707/asset-audit/internal/snapshot"
	"github.com/crucial707/asset-audit/internal/snipeit"
)

func main() {

	// Load configuration
	cfg := config.Load()

	if cfg.Env == "prod" && cfg.APIToken == "dev-token" {
		log.Fatal("API_TOKEN must be set in prod")
	}

	setupLogging(cfg.LogFormat)

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	log.Println("Successfully connected to the database")

	// Apply migrations
	if err := db.Run(databaseURL(cfg)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Remote asset directory + snapshot cache
	client := snipeit.New(cfg.SnipeITURL, cfg.SnipeITToken, nil)
	cache := snapshot.NewCache(client.FetchAllAssets, cfg.SnapshotTTL)

	// Optional scheduled snapshot warming
	if cfg.SnapshotWarmCron != "" {
		if _, err := scheduler.RunSnapshotWarmer(cfg.SnapshotWarmCron, cache); err != nil {
			log.Fatalf("Invalid SNAPSHOT_WARM_CRON %q: %v", cfg.SnapshotWarmCron, err)
		}
		log.Printf("Snapshot warmer scheduled: %s", cfg.SnapshotWarmCron)
	}

	r := newRouter(database, client, cache, cfg)

	// Start server LAST
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		log.Println("Starting HTTPS server on :" + cfg.Port)
		err = http.ListenAndServeTLS(":"+cfg.Port, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		log.Println("Starting server on :" + cfg.Port)
		err = http.ListenAndServe(":"+cfg.Port, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// setupLogging selects the slog handler the middleware logs through.
func setupLogging(format string) {
	if format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	}
}

func databaseURL(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(cfg.DBUser), url.QueryEscape(cfg.DBPass),
		cfg.DBHost, cfg.DBPort, cfg.DBName)
}
