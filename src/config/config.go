package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	JWTSecret    string
	Port         string
	DatabasePath string
	LogLevel     string

	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Fraction of monthly net income earmarked per asset class (0.10 = 10%).
	InvestmentAllocationPercent float64

	PriceCacheTTL     time.Duration
	CoinGeckoBaseURL  string
	YahooQuoteBaseURL string

	BackupFilePath string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	jwtSecret := getEnv("JWT_SECRET", "your-very-secure-and-long-jwt-secret-key-for-hs256-minimum-32-bytes")
	if jwtSecret == "your-very-secure-and-long-jwt-secret-key-for-hs256-minimum-32-bytes" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET environment variable for production.")
	}

	accessTokenExpiry := getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 60*time.Minute)
	refreshTokenExpiry := getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour)
	priceCacheTTL := getEnvAsDuration("PRICE_CACHE_TTL", 5*time.Minute)

	allocationPercentStr := getEnv("INVESTMENT_ALLOCATION_PERCENT", "0.10")
	allocationPercent, err := strconv.ParseFloat(allocationPercentStr, 64)
	if err != nil || allocationPercent <= 0 || allocationPercent >= 1 {
		log.Printf("WARNING: Invalid INVESTMENT_ALLOCATION_PERCENT '%s'. Using default 0.10. Error: %v", allocationPercentStr, err)
		allocationPercent = 0.10
	}

	Cfg = &AppConfig{
		JWTSecret:    jwtSecret,
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./invest.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		AccessTokenExpiry:  accessTokenExpiry,
		RefreshTokenExpiry: refreshTokenExpiry,

		InvestmentAllocationPercent: allocationPercent,

		PriceCacheTTL:     priceCacheTTL,
		CoinGeckoBaseURL:  getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		YahooQuoteBaseURL: getEnv("YAHOO_QUOTE_BASE_URL", "https://query2.finance.yahoo.com"),

		BackupFilePath: getEnv("BACKUP_FILE_PATH", "./investments_backup.json"),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, AllocationPercent=%.2f",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.InvestmentAllocationPercent)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
