package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/auth"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/config"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/db"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/middleware"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/routines"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/metrics"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/workouts"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/workouts/session"
	"github.com/lclasicoaj/Fitness-app-project-1/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config        *config.Config
	VersionInfo   string
	RedisPassword string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: params.Config.PostgresHost,
		DBPort: params.Config.PostgresPort,
		DBName: params.Config.PostgresDBName,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("workouttracker", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	sessionTTL := time.Duration(params.Config.SessionTTLHours) * time.Hour
	authService := auth.NewService(auth.NewUsersRepo(dbPool), sessionTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()
	go consumeSessionEvents(authService.Subscribe(), metricsManager)

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(sessionTTL, rdb),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET", "POST", "OPTIONS").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	authHandler := auth.NewHandler(s.authService)
	authSubrouter := r.PathPrefix("/a").Subrouter()
	authSubrouter.HandleFunc("/signup", authHandler.HandleSignUp).Methods("POST", "OPTIONS").Name("signup")
	authSubrouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authSubrouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")

	// rate limit the auth endpoints to prevent abuse
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	authSubrouter.Use(middleware.RateLimit(
		reqRateLimiter, "auth",
		s.config.AuthRateLimitAllowedPerMin,
		s.metricsManager,
	))
	authSubrouter.Use(middleware.Cors())

	routinesRepo := routines.NewRepo(s.dbPool)
	routinesHandler := routines.NewHandler(routinesRepo)
	r.HandleFunc("/routines", routinesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines", routinesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-routine")
	r.HandleFunc("/routines/{id}", routinesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")

	workoutsRepo := workouts.NewRepo(s.dbPool)
	workoutsHandler := workouts.NewHandler(workoutsRepo)
	r.HandleFunc("/workouts", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}/summary", workoutsHandler.HandleSummary).Methods("GET", "OPTIONS").Name("workout-summary")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")

	sessionEditor := session.NewEditor(session.NewRedisStore(s.redisClient), workoutsRepo)
	activeWorkoutHandler := session.NewHandler(sessionEditor, routinesRepo, s.metricsManager)
	r.HandleFunc("/workout/active", activeWorkoutHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-active-workout")
	r.HandleFunc("/workout/active", activeWorkoutHandler.HandleStart).Methods("POST", "OPTIONS").Name("start-workout")
	r.HandleFunc("/workout/active/finish", activeWorkoutHandler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-workout")
	r.HandleFunc("/workout/active/cancel", activeWorkoutHandler.HandleCancel).Methods("POST", "OPTIONS").Name("cancel-workout")
	r.HandleFunc("/workout/active/exercises", activeWorkoutHandler.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-exercise")
	r.HandleFunc("/workout/active/exercises/{exerciseId}", activeWorkoutHandler.HandleUpdateExercise).Methods("PUT", "OPTIONS").Name("update-exercise")
	r.HandleFunc("/workout/active/exercises/{exerciseId}", activeWorkoutHandler.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	r.HandleFunc("/workout/active/exercises/{exerciseId}/sets", activeWorkoutHandler.HandleAddSet).Methods("POST", "OPTIONS").Name("add-set")
	r.HandleFunc("/workout/active/exercises/{exerciseId}/sets/{setId}", activeWorkoutHandler.HandleUpdateSet).Methods("PUT", "OPTIONS").Name("update-set")
	r.HandleFunc("/workout/active/exercises/{exerciseId}/sets/{setId}", activeWorkoutHandler.HandleDeleteSet).Methods("DELETE", "OPTIONS").Name("delete-set")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

// consumeSessionEvents counts and logs every sign-in and sign-out for
// the lifetime of the process.
func consumeSessionEvents(events <-chan auth.SessionEvent, metricsManager *metrics.Manager) {
	for event := range events {
		if event.SignedIn {
			metricsManager.CounterSessionsStarted.Inc()
			log.Debugf("session started for user %d", event.UserID)
		} else {
			metricsManager.CounterSessionsEnded.Inc()
			log.Debugf("session ended for user %d", event.UserID)
		}
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
