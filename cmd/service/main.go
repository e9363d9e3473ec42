// Package main runs the gymsession backend: workout session API, auth and the MCP endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/2beens/gymsession/internal"
	"github.com/2beens/gymsession/internal/config"
	"github.com/2beens/gymsession/internal/logging"
	"github.com/2beens/gymsession/pkg"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type secrets struct {
	postgresPassword string
	redisPassword    string
	sentryDSN        string
	honeycombEnabled bool
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	envFile := flag.String("envfile", ".env", "optional file with secrets as env vars")
	flag.Parse()

	// real env vars win over the ones from the file
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Errorf("load env file [%s]: %s", *envFile, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	sec := readSecrets(cfg)
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogMaxBackups:    cfg.LogMaxBackups,
		LogMaxAgeDays:    cfg.LogMaxAgeDays,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sec.sentryDSN,
		SentryServerName: "gymsession-service",
	})

	log.Warnf("---->> running in [%s] environment, store [%s]", cfg.Environment, cfg.StoreBackend)
	log.Debugf("listening on %s:%d, logs path [%s]", cfg.Host, cfg.Port, cfg.LogsPath)

	version := versionInfo()
	log.Debugf("running version: [%s]", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		VersionInfo:             version,
		PostgresPassword:        sec.postgresPassword,
		RedisPassword:           sec.redisPassword,
		HoneycombTracingEnabled: sec.honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("shutdown signal received, ending ...")
	server.GracefulShutdown()
}

func readSecrets(cfg *config.Config) secrets {
	sec := secrets{
		postgresPassword: os.Getenv("GYMSESSION_POSTGRES_PASS"),
		redisPassword:    os.Getenv("GYMSESSION_REDIS_PASS"),
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}

	if sec.postgresPassword == "" && cfg.StoreBackend == config.StoreBackendPostgres {
		log.Warnln("postgres password not set, use GYMSESSION_POSTGRES_PASS")
	}
	if sec.redisPassword == "" {
		log.Warnln("redis password not set, use GYMSESSION_REDIS_PASS")
	}
	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}
	if sec.honeycombEnabled && os.Getenv("HONEYCOMB_API_KEY") == "" {
		log.Warnln("honeycomb enabled, but HONEYCOMB_API_KEY not set")
	}

	return sec
}

// versionInfo prefers the vcs revision stamped by the go toolchain, then asks git,
// assuming the binary runs from the repo root.
func versionInfo() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		log.Tracef("get last commit hash: %s", err)
		return "unknown"
	}
	return strings.TrimSpace(pkg.BytesToString(out))
}
