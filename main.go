package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PaoloMadone/invest/src/config"
	"github.com/PaoloMadone/invest/src/database"
	"github.com/PaoloMadone/invest/src/handlers"
	"github.com/PaoloMadone/invest/src/logger"
	"github.com/PaoloMadone/invest/src/model"
	"github.com/PaoloMadone/invest/src/security"
	"github.com/PaoloMadone/invest/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Invest backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(authService)

	mappingStore := &model.SymbolMappingDB{DB: database.DB}
	priceService := services.NewPriceService(
		mappingStore,
		config.Cfg.CoinGeckoBaseURL,
		config.Cfg.YahooQuoteBaseURL,
		config.Cfg.PriceCacheTTL,
	)
	performanceService := services.NewPerformanceService(priceService)
	backupService := services.NewBackupService(config.Cfg.BackupFilePath)

	incomeHandler := handlers.NewIncomeHandler()
	txHandler := handlers.NewTransactionHandler()
	portfolioHandler := handlers.NewPortfolioHandler(performanceService)
	backupHandler := handlers.NewBackupHandler(backupService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	apiRouter.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	apiRouter.HandleFunc("POST /api/auth/refresh", userHandler.RefreshTokenHandler)
	apiRouter.HandleFunc("POST /api/auth/logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))

	apiRouter.HandleFunc("POST /api/incomes", userHandler.AuthMiddleware(incomeHandler.HandleCreateIncome))
	apiRouter.HandleFunc("GET /api/incomes", userHandler.AuthMiddleware(incomeHandler.HandleGetIncomes))
	apiRouter.HandleFunc("GET /api/budget", userHandler.AuthMiddleware(incomeHandler.HandleGetBudget))

	apiRouter.HandleFunc("POST /api/transactions/purchase", userHandler.AuthMiddleware(txHandler.HandleRecordPurchase))
	apiRouter.HandleFunc("POST /api/transactions/sale", userHandler.AuthMiddleware(txHandler.HandleRecordSale))
	apiRouter.HandleFunc("GET /api/transactions", userHandler.AuthMiddleware(txHandler.HandleGetTransactions))
	apiRouter.HandleFunc("DELETE /api/transactions/all", userHandler.AuthMiddleware(txHandler.HandleDeleteAllTransactions))

	apiRouter.HandleFunc("GET /api/portfolio/lots", userHandler.AuthMiddleware(portfolioHandler.HandleGetLots))
	apiRouter.HandleFunc("GET /api/portfolio/realized", userHandler.AuthMiddleware(portfolioHandler.HandleGetRealizedGain))
	apiRouter.HandleFunc("GET /api/portfolio/performance", userHandler.AuthMiddleware(portfolioHandler.HandleGetPerformance))
	apiRouter.HandleFunc("GET /api/portfolio/summary", userHandler.AuthMiddleware(portfolioHandler.HandleGetSummary))

	apiRouter.HandleFunc("GET /api/backup/export", userHandler.AuthMiddleware(backupHandler.HandleExport))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Invest backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
