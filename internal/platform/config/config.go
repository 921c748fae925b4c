package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	LogLevel           slog.Level
	MigrationsPath     string
	RedisAddr          string
	StatementCacheTTL  time.Duration
	RateLimit          string
	CORSAllowedOrigins []string
	TaxBracketsFile    string
	ChartFile          string
	WorkerConcurrency  int
	IntegrityCron      string
	Accounting         domain.AccountingSettings
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("STATEMENT_CACHE_TTL", "1h")
	v.SetDefault("RATE_LIMIT", "120-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TAX_BRACKETS_FILE", "")
	v.SetDefault("CHART_FILE", "")
	v.SetDefault("MINIMUM_WAGE", "1518.00")
	v.SetDefault("RESERVE_PERCENT", "10")
	v.SetDefault("ADMIN_BASE_PERCENT", "5")
	v.SetDefault("PARTNER_POOL_PERCENT", "85")
	v.SetDefault("EMPLOYER_SS_PERCENT", "20")
	v.SetDefault("EMPLOYEE_SS_PERCENT", "11")
	v.SetDefault("SOLVER_MAX_ITERATIONS", 100)
	v.SetDefault("WORKER_CONCURRENCY", 4)
	v.SetDefault("INTEGRITY_CRON", "0 3 * * *")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:       v.GetString("DATABASE_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		MigrationsPath:    v.GetString("MIGRATIONS_PATH"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RateLimit:         v.GetString("RATE_LIMIT"),
		TaxBracketsFile:   v.GetString("TAX_BRACKETS_FILE"),
		ChartFile:         v.GetString("CHART_FILE"),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		IntegrityCron:     v.GetString("INTEGRITY_CRON"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = v.GetString("PGSQL_URL")
	}
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL environment variable not set")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v.GetString("LOG_LEVEL"), err)
	}

	ttl, err := time.ParseDuration(v.GetString("STATEMENT_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATEMENT_CACHE_TTL %q: %w", v.GetString("STATEMENT_CACHE_TTL"), err)
	}
	cfg.StatementCacheTTL = ttl

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 4
	}

	cfg.Accounting, err = accountingSettings(v)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func accountingSettings(v *viper.Viper) (domain.AccountingSettings, error) {
	settings := domain.DefaultAccountingSettings()
	fields := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"MINIMUM_WAGE", &settings.MinimumWage},
		{"RESERVE_PERCENT", &settings.ReservePercent},
		{"ADMIN_BASE_PERCENT", &settings.AdminBasePercent},
		{"PARTNER_POOL_PERCENT", &settings.PartnerPoolPercent},
		{"EMPLOYER_SS_PERCENT", &settings.EmployerSSPercent},
		{"EMPLOYEE_SS_PERCENT", &settings.EmployeeSSPercent},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(v.GetString(f.key))
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return settings, fmt.Errorf("invalid %s %q: %w", f.key, raw, err)
		}
		if value.IsNegative() {
			return settings, fmt.Errorf("invalid %s %q: must not be negative", f.key, raw)
		}
		*f.target = value
	}
	if n := v.GetInt("SOLVER_MAX_ITERATIONS"); n > 0 {
		settings.MaxSolverIterations = n
	}
	return settings, nil
}
