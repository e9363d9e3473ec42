package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymsession/internal/auth"
	"github.com/2beens/gymsession/internal/config"
	"github.com/2beens/gymsession/internal/db"
	"github.com/2beens/gymsession/internal/middleware"
	"github.com/2beens/gymsession/internal/misc"
	"github.com/2beens/gymsession/internal/telemetry/metrics"
	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/internal/workout/catalog"
	"github.com/2beens/gymsession/internal/workout/engine"
	"github.com/2beens/gymsession/internal/workout/handler"
	workoutmcp "github.com/2beens/gymsession/internal/workout/mcp"
	"github.com/2beens/gymsession/internal/workout/stats"
	"github.com/2beens/gymsession/internal/workout/store/pgstore"
	"github.com/2beens/gymsession/internal/workout/store/sqlitestore"
	"github.com/2beens/gymsession/internal/workout/templates"
)

const sessionsCleanupInterval = 8 * time.Hour

// Store is everything the service reads and writes. Implemented by
// pgstore (production) and sqlitestore (local, single binary).
type Store interface {
	workout.Writer
	workout.RecordStore
	Exercise(ctx context.Context, id int) (*workout.Exercise, error)
	Exercises(ctx context.Context, filter workout.ExerciseFilter) ([]workout.Exercise, error)
	Templates(ctx context.Context, userID int) ([]workout.Template, error)
	TemplateEntries(ctx context.Context, userID, templateID int) ([]workout.TemplateEntry, error)
	UserByEmail(ctx context.Context, email string) (*workout.User, error)
	User(ctx context.Context, userID int) (*workout.User, error)
	Workouts(ctx context.Context, userID int, filter workout.WorkoutFilter) ([]workout.Workout, error)
	Workout(ctx context.Context, userID int, workoutID int64) (*workout.Workout, error)
	Records(ctx context.Context, userID int) ([]workout.PersonalRecord, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	sqliteStore *sqlitestore.Store
	store       Store

	catalog   *catalog.Catalog
	templates *templates.Loader
	stats     *stats.Stats
	engine    *engine.Engine

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
	}

	var extraCollectors []prometheus.Collector
	switch cfg.StoreBackend {
	case config.StoreBackendSQLite:
		sqliteStore, err := sqlitestore.Open(ctx, cfg.SQLiteStorePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Debugf("using sqlite store: %s", cfg.SQLiteStorePath)
		s.sqliteStore = sqliteStore
		s.store = sqliteStore
	default:
		dbParams := db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		}
		if cfg.RunMigrations {
			if err := db.RunMigrations(dbParams.ConnString()); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		dbPool, err := db.NewDBPool(ctx, dbParams)
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		s.dbPool = dbPool
		s.store = pgstore.New(dbPool)
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	s.promRegistry = metrics.SetupPrometheus(extraCollectors...)
	s.metricsManager = metrics.NewManager("backend", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}
	s.redisClient = rdb

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymsession-backend", rdb)
	if err != nil {
		return nil, err
	}
	s.otelShutdown = otelShutdown

	if err := s.setupServices(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// setupServices builds the auth and workout services on top of the store,
// redis client and metrics manager.
func (s *Server) setupServices(ctx context.Context) error {
	cfg := s.config
	s.authService = auth.NewAuthService(s.store, auth.DefaultTTL, s.redisClient)
	s.loginChecker = auth.NewLoginChecker(auth.DefaultTTL, s.redisClient)
	go s.authService.RunCleanup(ctx, sessionsCleanupInterval)

	s.catalog = catalog.New(s.store, cfg.CatalogCacheSizeMB)
	s.templates = templates.NewLoader(s.store)
	s.stats = stats.NewStats(s.store)

	workoutEngine, err := engine.New(engine.NewEngineParams{
		Writer:         s.store,
		RecordStore:    s.store,
		Catalog:        s.catalog,
		Templates:      s.templates,
		Users:          s.store,
		MetricsManager: s.metricsManager,
		SaveAttempts:   cfg.WorkoutSaveAttempts,
		SaveBackoff:    cfg.WorkoutSaveBackoff.Duration,
	})
	if err != nil {
		return fmt.Errorf("new engine: %w", err)
	}
	s.engine = workoutEngine

	return nil
}

// mcpHandler serves the history tools over streamable HTTP, scoped to the
// user resolved by the auth middleware.
func (s *Server) mcpHandler() http.Handler {
	mcpServer := workoutmcp.NewServer(
		workoutmcp.NewHistoryService(s.store, s.catalog, s.stats),
		s.versionInfo,
	)
	return server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			userID, _ := middleware.UserIDFromContext(r.Context())
			return workoutmcp.WithUserID(ctx, userID)
		}),
	)
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService, s.config.LoginRateLimitPerMinute)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager)

	workoutHandler := handler.NewHandler(handler.NewHandlerParams{
		Engine:    s.engine,
		Catalog:   s.catalog,
		Templates: s.templates,
		History:   s.store,
		Stats:     s.stats,
	})
	workoutHandler.SetupRoutes(r)

	r.Handle("/mcp", s.mcpHandler()).Methods("GET", "POST", "DELETE", "OPTIONS").Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	// unsaved sessions are lost here, rest timers stop
	s.engine.Close()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if s.sqliteStore != nil {
		if err := s.sqliteStore.Close(); err != nil {
			log.Errorf("failed to close sqlite store: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeOpenConnections.Inc()
	case http.StateClosed:
		s.metricsManager.GaugeOpenConnections.Dec()
	default:
		// do nothing
	}
}
