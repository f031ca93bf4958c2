package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sakshamsingh/shop-invoice/internal/bulkimport"
	"github.com/sakshamsingh/shop-invoice/internal/catalog"
	"github.com/sakshamsingh/shop-invoice/internal/common"
	"github.com/sakshamsingh/shop-invoice/internal/config"
	"github.com/sakshamsingh/shop-invoice/internal/events"
	"github.com/sakshamsingh/shop-invoice/internal/health"
	"github.com/sakshamsingh/shop-invoice/internal/invoice"
	"github.com/sakshamsingh/shop-invoice/internal/obs"
	"github.com/sakshamsingh/shop-invoice/internal/ratelimit"
	"github.com/sakshamsingh/shop-invoice/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "shopinvoice")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "shop-invoice-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, continuing without cache")
		}
		pingCancel()
	} else {
		logger.Info().Msg("redis not configured, cache and import guards disabled")
	}

	bus := &events.Bus{Notifiers: []events.Notifier{logNotifier{logger: logger}}}

	loader, err := catalog.NewLoader(catalog.LoaderConfig{
		BaseURL:   cfg.CatalogBaseURL,
		Documents: cfg.CatalogDocuments,
		Timeout:   cfg.CatalogFetchTimeout,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog loader")
	}
	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Loader: loader,
		Cache:  catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		Bus:    bus,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise catalog service")
	}
	catalogService.Boot(ctx)
	if !catalogService.Ready() {
		logger.Warn().Msg("catalog is empty after boot load")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Service: catalogService})

	store := session.NewStore(cfg.SessionTTL, logger)
	store.StartJanitor(ctx, time.Minute)

	sessionHandler := &session.Handler{
		Store:    store,
		Catalog:  catalogService,
		Bus:      bus,
		Validate: validator.New(),
	}
	invoiceHandler := &invoice.Handler{Store: store, Bus: bus}
	importHandler := &bulkimport.Handler{
		Store:   store,
		Catalog: catalogService,
		Bus:     bus,
		Extractor: bulkimport.NewExtractor(bulkimport.ExtractorConfig{
			URL:     cfg.ExtractorURL,
			APIKey:  cfg.ExtractorAPIKey,
			Timeout: cfg.ExtractorTimeout,
			Logger:  logger,
		}),
		MaxImages: cfg.ImportMaxImages,
	}

	idem := common.Idem{R: redisClient, TTL: cfg.IdempotencyTTL}
	importLimiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: redisClient, Prefix: "ratelimit:import:"},
		Config: ratelimit.Config{
			Key:    ratelimit.ClientIPKey,
			Window: cfg.ImportRateWindow,
			Max:    cfg.ImportRateMax,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{catalog: catalogService, redis: redisClient},
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/items", catalogHandler.Items)
		v.Post("/catalog/reload", catalogHandler.Reload)

		v.Route("/sessions", func(s chi.Router) {
			s.Post("/", sessionHandler.Create)
			s.Get("/{id}", sessionHandler.Get)
			s.Delete("/{id}", sessionHandler.Reset)
			s.Put("/{id}/items/{name}", sessionHandler.SetItem)
			s.Post("/{id}/items/{name}/increment", sessionHandler.Increment)
			s.Put("/{id}/mode", sessionHandler.SetMode)
			s.Put("/{id}/rates", sessionHandler.SetRates)

			s.Get("/{id}/invoice", invoiceHandler.Preview)
			s.Get("/{id}/invoice.pdf", invoiceHandler.PDF)

			s.Group(func(g chi.Router) {
				g.Use(idem.Middleware)
				g.Post("/{id}/import", importHandler.Pairs)
				g.With(importLimiter.Middleware).Post("/{id}/import/images", importHandler.Images)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

// logNotifier mirrors every emitted event into the structured log.
type logNotifier struct {
	logger zerolog.Logger
}

func (n logNotifier) Notify(_ context.Context, event events.Event) error {
	n.logger.Info().
		Str("topic", event.Topic).
		Str("session_id", event.SessionID).
		RawJSON("payload", event.Payload).
		Msg("domain_event")
	return nil
}

type readinessChecker struct {
	catalog *catalog.Service
	redis   *redis.Client
}

func (c readinessChecker) CatalogReady() bool {
	return c.catalog != nil && c.catalog.Ready()
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
