package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// FiscalYearStartMonth is the calendar month the fiscal year begins in.
	// A fiscal year is named by the calendar year it ends in.
	FiscalYearStartMonth time.Month

	// FunctionalCurrency is the reporting currency all entry amounts are
	// converted into for the functional balance columns.
	FunctionalCurrency string

	// RateLimit uses the limiter formatted syntax, e.g. "100-M" for 100
	// requests per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "dawinos-ledger")
	viper.SetDefault("FISCAL_YEAR_START_MONTH", 7)
	viper.SetDefault("FUNCTIONAL_CURRENCY", "USD")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	startMonth := viper.GetInt("FISCAL_YEAR_START_MONTH")
	if startMonth < 1 || startMonth > 12 {
		return nil, fmt.Errorf("invalid FISCAL_YEAR_START_MONTH %d: must be 1-12", startMonth)
	}
	cfg.FiscalYearStartMonth = time.Month(startMonth)

	cfg.FunctionalCurrency = strings.ToUpper(viper.GetString("FUNCTIONAL_CURRENCY"))
	if len(cfg.FunctionalCurrency) != 3 {
		return nil, fmt.Errorf("invalid FUNCTIONAL_CURRENCY %q: must be a 3-letter code", cfg.FunctionalCurrency)
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
