package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/core_banking_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	LogLevel      string
	StorageDriver string
	DatabaseURL   string
	EnableDBCheck bool
	RunMigrations bool

	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimit          string

	Ledger       LedgerConfig
	FixedDeposit FixedDepositConfig
	Interest     InterestConfig
	Scheduler    SchedulerConfig
}

// LedgerConfig tunes account locking and per-type account rules.
type LedgerConfig struct {
	LockTimeout     time.Duration
	LockMaxAttempts int
	LockBackoff     time.Duration
	Policies        domain.AccountPolicies
}

// FixedDepositConfig holds fixed deposit product rules.
type FixedDepositConfig struct {
	MinPrincipal      decimal.Decimal
	PrematurePenalty  decimal.Decimal // percentage points
	PrematureBaseRate decimal.Decimal // used when held for less than the shortest tenure
	TenureRates       domain.TenureRates
}

// InterestConfig tunes the interest engine.
type InterestConfig struct {
	DayCount     int
	Workers      int
	SavingsRates domain.InterestRateTable
}

// SchedulerConfig controls the background interest jobs.
type SchedulerConfig struct {
	Enabled          bool
	SavingsSchedule  string
	MaturitySchedule string
	Actor            string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:   v.GetString("PGSQL_URL"),
		EnableDBCheck: v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations: v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		RateLimit:     v.GetString("RATE_LIMIT"),
		Ledger: LedgerConfig{
			LockTimeout:     v.GetDuration("LOCK_TIMEOUT"),
			LockMaxAttempts: v.GetInt("LOCK_MAX_ATTEMPTS"),
			LockBackoff:     v.GetDuration("LOCK_BACKOFF"),
			Policies:        copyPolicies(domain.DefaultAccountPolicies),
		},
		Interest: InterestConfig{
			DayCount: v.GetInt("INTEREST_DAY_COUNT"),
			Workers:  v.GetInt("INTEREST_WORKERS"),
		},
		Scheduler: SchedulerConfig{
			Enabled:          v.GetBool("SCHEDULER_ENABLED"),
			SavingsSchedule:  v.GetString("SAVINGS_SWEEP_SCHEDULE"),
			MaturitySchedule: v.GetString("MATURITY_SWEEP_SCHEDULE"),
			Actor:            v.GetString("SCHEDULER_ACTOR"),
		},
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	var err error
	fd := &cfg.FixedDeposit
	if fd.MinPrincipal, err = decimalSetting(v, "FD_MIN_PRINCIPAL"); err != nil {
		return nil, err
	}
	if fd.PrematurePenalty, err = decimalSetting(v, "FD_PREMATURE_PENALTY"); err != nil {
		return nil, err
	}
	if fd.PrematureBaseRate, err = decimalSetting(v, "FD_PREMATURE_BASE_RATE"); err != nil {
		return nil, err
	}
	fd.TenureRates = copyTenureRates(domain.DefaultTenureRates)

	if path := v.GetString("LEDGER_CONFIG_FILE"); path != "" {
		if err := loadLedgerTables(path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random"
	}
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}

	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RATE_LIMIT", "600-M")
	v.SetDefault("LOCK_TIMEOUT", "2s")
	v.SetDefault("LOCK_MAX_ATTEMPTS", 3)
	v.SetDefault("LOCK_BACKOFF", "50ms")
	v.SetDefault("FD_MIN_PRINCIPAL", "1000.00")
	v.SetDefault("FD_PREMATURE_PENALTY", "1.00")
	v.SetDefault("FD_PREMATURE_BASE_RATE", "3.50")
	v.SetDefault("INTEREST_DAY_COUNT", 365)
	v.SetDefault("INTEREST_WORKERS", 8)
	v.SetDefault("SCHEDULER_ENABLED", true)
	// robfig/cron standard five-field specs
	v.SetDefault("SAVINGS_SWEEP_SCHEDULE", "30 0 1 * *")
	v.SetDefault("MATURITY_SWEEP_SCHEDULE", "15 0 * * *")
	v.SetDefault("SCHEDULER_ACTOR", "system:interest-scheduler")
	v.SetDefault("LEDGER_CONFIG_FILE", "")
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.Ledger.LockTimeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive")
	}
	if c.Ledger.LockMaxAttempts < 1 {
		return fmt.Errorf("LOCK_MAX_ATTEMPTS must be at least 1")
	}
	if c.Interest.DayCount <= 0 {
		return fmt.Errorf("INTEREST_DAY_COUNT must be positive")
	}
	if c.Interest.Workers < 1 {
		return fmt.Errorf("INTEREST_WORKERS must be at least 1")
	}
	if len(c.FixedDeposit.TenureRates) == 0 {
		return fmt.Errorf("at least one fixed deposit tenure rate is required")
	}
	if err := c.Interest.SavingsRates.Validate(); err != nil {
		return err
	}
	if c.FixedDeposit.PrematurePenalty.IsNegative() {
		return fmt.Errorf("FD_PREMATURE_PENALTY must not be negative")
	}
	return nil
}

func decimalSetting(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// loadLedgerTables reads optional rate tables and account policy overrides
// from a YAML/JSON/TOML file:
//
//	tenure_rates:
//	  "12": "7.25"
//	interest_rates:
//	  - account_type: SAVINGS
//	    min_balance: "100000"
//	    rate: "4.50"
//	account_policies:
//	  savings:
//	    minimum_balance: "250"
func loadLedgerTables(path string, cfg *Config) error {
	f := viper.New()
	f.SetConfigFile(path)
	if err := f.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read ledger config %s: %w", path, err)
	}

	if f.IsSet("tenure_rates") {
		rates := domain.TenureRates{}
		for tenure, raw := range f.GetStringMapString("tenure_rates") {
			months, err := strconv.Atoi(tenure)
			if err != nil || months <= 0 {
				return fmt.Errorf("invalid tenure %q in %s", tenure, path)
			}
			rate, err := decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("invalid rate for tenure %d: %w", months, err)
			}
			rates[months] = rate
		}
		cfg.FixedDeposit.TenureRates = rates
	}

	if f.IsSet("interest_rates") {
		bands, err := interestRateBands(f)
		if err != nil {
			return fmt.Errorf("invalid interest_rates in %s: %w", path, err)
		}
		cfg.Interest.SavingsRates = bands
	}

	for accountType, policy := range cfg.Ledger.Policies {
		sub := f.Sub("account_policies." + strings.ToLower(string(accountType)))
		if sub == nil {
			continue
		}
		var err error
		if sub.IsSet("minimum_balance") {
			if policy.MinimumBalance, err = decimalSetting(sub, "minimum_balance"); err != nil {
				return err
			}
		}
		if sub.IsSet("overdraft_limit") {
			if policy.OverdraftLimit, err = decimalSetting(sub, "overdraft_limit"); err != nil {
				return err
			}
		}
		if sub.IsSet("default_rate") {
			if policy.DefaultRate, err = decimalSetting(sub, "default_rate"); err != nil {
				return err
			}
		}
		if sub.IsSet("allow_overdraft") {
			policy.AllowOverdraft = sub.GetBool("allow_overdraft")
		}
		if sub.IsSet("interest_bearing") {
			policy.InterestBearing = sub.GetBool("interest_bearing")
		}
		cfg.Ledger.Policies[accountType] = policy
	}
	return nil
}

type interestRateEntry struct {
	AccountType string `mapstructure:"account_type"`
	MinBalance  string `mapstructure:"min_balance"`
	MaxBalance  string `mapstructure:"max_balance"`
	Rate        string `mapstructure:"rate"`
}

func interestRateBands(f *viper.Viper) (domain.InterestRateTable, error) {
	var entries []interestRateEntry
	if err := f.UnmarshalKey("interest_rates", &entries); err != nil {
		return nil, err
	}
	table := make(domain.InterestRateTable, 0, len(entries))
	for i, entry := range entries {
		accountType, ok := domain.ParseAccountType(strings.ToUpper(entry.AccountType))
		if !ok {
			return nil, fmt.Errorf("entry %d: unknown account type %q", i, entry.AccountType)
		}
		rate, err := decimal.NewFromString(entry.Rate)
		if err != nil {
			return nil, fmt.Errorf("entry %d: rate: %w", i, err)
		}
		band := domain.InterestRateBand{AccountType: accountType, Rate: rate}
		if band.MinBalance, err = optionalDecimal(entry.MinBalance); err != nil {
			return nil, fmt.Errorf("entry %d: min_balance: %w", i, err)
		}
		if band.MaxBalance, err = optionalDecimal(entry.MaxBalance); err != nil {
			return nil, fmt.Errorf("entry %d: max_balance: %w", i, err)
		}
		table = append(table, band)
	}
	return table, nil
}

func optionalDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func copyPolicies(in domain.AccountPolicies) domain.AccountPolicies {
	out := make(domain.AccountPolicies, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyTenureRates(in domain.TenureRates) domain.TenureRates {
	out := make(domain.TenureRates, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
