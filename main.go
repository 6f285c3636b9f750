package main

import (
	"crypto/tls"
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/finassist/backend/src/config"
	"github.com/username/finassist/backend/src/database"
	"github.com/username/finassist/backend/src/handlers"
	"github.com/username/finassist/backend/src/logger"
	"github.com/username/finassist/backend/src/model"
	"github.com/username/finassist/backend/src/parsers/bank"
	"github.com/username/finassist/backend/src/parsers/sales"
	"github.com/username/finassist/backend/src/processors"
	"github.com/username/finassist/backend/src/security"
	"github.com/username/finassist/backend/src/services"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func enableCORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && origin == allowedOrigin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
				w.Header().Set("Access-Control-Expose-Headers", "ETag, X-Request-ID, Content-Disposition")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("finassist backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations()

	reportCache := cache.New(config.Cfg.ReportCacheTTL, services.CacheCleanupInterval)
	store := model.NewSQLStore(database.DB)

	var authService *security.AuthService
	if config.Cfg.JWTSecret != "" {
		if len(config.Cfg.JWTSecret) < 32 {
			stdlog.Fatalf("API_JWT_SECRET must be at least 32 characters long")
		}
		authService = security.NewAuthService(config.Cfg.JWTSecret)
	}

	reconService := services.NewReconciliationService(store, processors.NewReconProcessor(config.Cfg.CardPaymentTokens))
	uploadService := services.NewUploadService(
		store,
		sales.NewExtractor(),
		bank.NewExtractor(),
		reconService,
		reportCache,
	)
	reportService := services.NewReportService(
		store,
		processors.NewFeeProcessor(),
		processors.NewAnomalyProcessor(),
		processors.NewKPIProcessor(),
		processors.NewVATProcessor(),
		reportCache,
	)

	uploadHandler := handlers.NewUploadHandler(uploadService)
	reconHandler := handlers.NewReconHandler(reconService, reportService)
	reportHandler := handlers.NewReportHandler(reportService)

	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), config.Cfg.RateLimitBurst)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS(config.Cfg.FrontendBaseURL))
	r.Use(rateLimitMiddleware(limiter))

	handlers.RegisterRoutes(r, uploadHandler, reconHandler, reportHandler, authService)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
