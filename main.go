package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"Propmatic/internal/auth"
	"Propmatic/internal/cache"
	"Propmatic/internal/calc/chart"
	"Propmatic/internal/calc/jsbsim"
	"Propmatic/internal/calc/premium/autodesign"
	"Propmatic/internal/calc/premium/batch"
	"Propmatic/internal/calc/premium/importer"
	"Propmatic/internal/calc/propeller"
	"Propmatic/internal/calc/report"
	"Propmatic/internal/config"
	"Propmatic/internal/health"
	"Propmatic/internal/metrics"
	"Propmatic/internal/repo"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// probePath is true for paths polled by orchestrators, logged at Debug only.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

func logging(logger hclog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := hclog.Info
			if probePath(r.URL.Path) {
				level = hclog.Debug
			}
			logger.Log(level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}

// deps are the collaborators the routes need. Accounts is nil when user
// accounts are disabled, and then the tool routes are open.
type deps struct {
	Config   config.Config
	Logger   hclog.Logger
	Cache    cache.Cache
	Accounts repo.Repository
	Ready    map[string]health.Check
}

func HandleList(router *mux.Router, d deps) {
	router.Use(metrics.Middleware)
	router.Use(logging(d.Logger.Named("http")))

	router.HandleFunc("/healthz", health.Healthz).Methods("GET")
	router.HandleFunc("/readyz", health.Readyz(d.Logger.Named("health"), d.Ready)).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	limiter := auth.NewIPRateLimiter(d.Config.RateLimit, d.Config.RateBurst, d.Config.TrustProxy, d.Logger.Named("ratelimit"))

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	tools := api.PathPrefix("/tools/propeller").Subrouter()
	premium := api.PathPrefix("/premium/propeller").Subrouter()

	if d.Accounts != nil {
		authEnv := &auth.Authenv{
			JWTkey:   d.Config.TokenKey,
			Repo:     d.Accounts,
			Logger:   d.Logger.Named("auth"),
			Insecure: !d.Config.TLS(),
		}
		api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
		api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
		api.Handle("/me", authEnv.AuthMiddleware(http.HandlerFunc(authEnv.Me))).Methods("GET")

		tools.Use(authEnv.AuthMiddleware)
		premium.Use(authEnv.AuthMiddleware)
	}

	calcLog := d.Logger.Named("propeller")
	propellerH := &propeller.Handler{Logger: calcLog}
	jsbsimH := &jsbsim.Handler{Cache: d.Cache, Logger: calcLog}
	chartH := &chart.Handler{Logger: calcLog}
	reportH := &report.Handler{Logger: d.Logger.Named("report")}
	batchH := &batch.Handler{Logger: calcLog}
	importerH := &importer.Handler{Logger: d.Logger.Named("import")}
	directH := &autodesign.Handler{Logger: calcLog}

	tools.HandleFunc("/calc", propellerH.Calc).Methods("POST")
	tools.HandleFunc("/xml", jsbsimH.Document).Methods("POST")
	tools.HandleFunc("/chart", chartH.Chart).Methods("POST")
	tools.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
	tools.HandleFunc("/report/xlsx", reportH.Workbook).Methods("POST")

	premium.HandleFunc("/batch", batchH.Propellers).Methods("POST")
	premium.HandleFunc("/import", importerH.Propellers).Methods("POST")
	premium.HandleFunc("/direct-drive", directH.DirectDrive).Methods("POST")
}

// openCache prefers Redis when configured and reachable, falling back to an
// in-process cache.
func openCache(ctx context.Context, cfg config.Config, logger hclog.Logger) (cache.Cache, health.Check, func()) {
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.CacheTTL, logger)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := rc.Ping(pingCtx)
		if err == nil {
			logger.Info("using redis document cache", "addr", cfg.RedisAddr)
			return rc, rc.Ping, func() { rc.Close() }
		}
		logger.Warn("redis unreachable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		rc.Close()
	}
	return cache.NewMemory(cfg.CacheTTL), nil, func() {}
}

func run(ctx context.Context, cfg config.Config, logger hclog.Logger) error {
	d := deps{Config: cfg, Logger: logger, Ready: map[string]health.Check{}}

	docCache, check, closeCache := openCache(ctx, cfg, logger.Named("cache"))
	defer closeCache()
	d.Cache = docCache
	if check != nil {
		d.Ready["cache"] = check
	}

	if cfg.Accounts() {
		db, err := repo.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		users := repo.NewPostgresUserDB(db)
		if err := users.Migrate(ctx); err != nil {
			return err
		}
		d.Accounts = users
		d.Ready["database"] = users.Ping
	} else {
		logger.Info("DATABASE_URL not set, accounts disabled")
	}

	router := mux.NewRouter()
	HandleList(router, d)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "addr", cfg.Addr, "tls", cfg.TLS())
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	wg.Wait()
	logger.Info("server stopped")
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		hclog.Default().Error("configuration", "error", err)
		os.Exit(1)
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "propmatic",
		Level: cfg.LogLevel,
	})

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
