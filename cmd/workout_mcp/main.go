// Package main runs the workout history MCP server over stdio, for local MCP clients.
// The same tools are mounted on the backend at /mcp over HTTP, scoped to the logged-in user.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"

	"github.com/2beens/gymsession/internal"
	"github.com/2beens/gymsession/internal/config"
	"github.com/2beens/gymsession/internal/db"
	"github.com/2beens/gymsession/internal/workout/catalog"
	workoutmcp "github.com/2beens/gymsession/internal/workout/mcp"
	"github.com/2beens/gymsession/internal/workout/stats"
	"github.com/2beens/gymsession/internal/workout/store/pgstore"
	"github.com/2beens/gymsession/internal/workout/store/sqlitestore"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
)

const version = "1.0.0"

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	envFile := flag.String("envfile", ".env", "optional file with secrets as env vars")
	userID := flag.Int("user", 0, "id of the user whose history the tools read")
	flag.Parse()

	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	if *userID <= 0 {
		log.Fatal("-user is required")
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load env file [%s]: %s", *envFile, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx := context.Background()
	var store internal.Store
	switch cfg.StoreBackend {
	case config.StoreBackendSQLite:
		sqliteStore, err := sqlitestore.Open(ctx, cfg.SQLiteStorePath)
		if err != nil {
			log.Fatalf("open sqlite store: %s", err)
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				log.Errorf("close sqlite store: %s", err)
			}
		}()
		store = sqliteStore
	default:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     os.Getenv("GYMSESSION_POSTGRES_PASS"),
			TracingEnabled: false,
		})
		if err != nil {
			log.Fatalf("db pool: %s", err)
		}
		defer dbPool.Close()
		store = pgstore.New(dbPool)
	}

	mcpServer := workoutmcp.NewServer(
		workoutmcp.NewHistoryService(store, catalog.New(store, cfg.CatalogCacheSizeMB), stats.NewStats(store)),
		version,
	)

	if err := server.ServeStdio(mcpServer, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return workoutmcp.WithUserID(ctx, *userID)
	})); err != nil {
		log.Errorf("serve stdio: %s", err)
	}
}
