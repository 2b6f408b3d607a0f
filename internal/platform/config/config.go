package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	// Currency defaults used when bootstrapping the settings record
	BaseCurrency        string
	DefaultCurrency     string
	SupportedCurrencies []string
	AutoUpdateRates     bool
	RateUpdateFrequency string

	// Rate scheduler
	RateCheckInterval     time.Duration
	RateStartupDelay      time.Duration
	RateProviderTimeout   time.Duration
	RateBatchTimeout      time.Duration
	RateBatchConcurrency  int
	RatePreferredProvider string
	RateUserAgent         string

	// Rate provider endpoints
	OpenERAPIURL              string
	ExchangeRateHostURL       string
	ExchangeRateHostAccessKey string
	CurrencyAPIURL            string

	// Event publishing
	KafkaBrokers []string
	KafkaTopic   string

	// HTTP surface
	AdminRateLimit     string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Using in-memory storage.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")

	cfg.BaseCurrency = strings.ToUpper(v.GetString("BASE_CURRENCY"))
	cfg.DefaultCurrency = strings.ToUpper(v.GetString("DEFAULT_CURRENCY"))
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = cfg.BaseCurrency
	}
	cfg.SupportedCurrencies = splitList(strings.ToUpper(v.GetString("SUPPORTED_CURRENCIES")))
	cfg.AutoUpdateRates = v.GetBool("AUTO_UPDATE_RATES")
	cfg.RateUpdateFrequency = strings.ToLower(v.GetString("RATE_UPDATE_FREQUENCY"))

	cfg.RateCheckInterval = durationOrDefault(v, "RATE_CHECK_INTERVAL", time.Hour)
	cfg.RateStartupDelay = durationOrDefault(v, "RATE_STARTUP_DELAY", 10*time.Second)
	cfg.RateProviderTimeout = durationOrDefault(v, "RATE_PROVIDER_TIMEOUT", 5*time.Second)
	cfg.RateBatchTimeout = durationOrDefault(v, "RATE_BATCH_TIMEOUT", 2*time.Minute)

	cfg.RateBatchConcurrency = v.GetInt("RATE_BATCH_CONCURRENCY")
	if cfg.RateBatchConcurrency <= 0 {
		cfg.RateBatchConcurrency = 4
		log.Printf("Warning: Invalid value for RATE_BATCH_CONCURRENCY. Defaulting to %d.\n", cfg.RateBatchConcurrency)
	}
	cfg.RatePreferredProvider = v.GetString("RATE_PREFERRED_PROVIDER")
	cfg.RateUserAgent = v.GetString("RATE_USER_AGENT")

	cfg.OpenERAPIURL = strings.TrimRight(v.GetString("OPEN_ER_API_URL"), "/")
	cfg.ExchangeRateHostURL = strings.TrimRight(v.GetString("EXCHANGERATE_HOST_URL"), "/")
	cfg.ExchangeRateHostAccessKey = v.GetString("EXCHANGERATE_HOST_ACCESS_KEY")
	cfg.CurrencyAPIURL = strings.TrimRight(v.GetString("CURRENCY_API_URL"), "/")

	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = v.GetString("KAFKA_TOPIC")

	cfg.AdminRateLimit = v.GetString("ADMIN_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("DEFAULT_CURRENCY", "")
	v.SetDefault("SUPPORTED_CURRENCIES", "")
	v.SetDefault("AUTO_UPDATE_RATES", true)
	v.SetDefault("RATE_UPDATE_FREQUENCY", "daily")
	v.SetDefault("RATE_CHECK_INTERVAL", "1h")
	v.SetDefault("RATE_STARTUP_DELAY", "10s")
	v.SetDefault("RATE_PROVIDER_TIMEOUT", "5s")
	v.SetDefault("RATE_BATCH_TIMEOUT", "2m")
	v.SetDefault("RATE_BATCH_CONCURRENCY", 4)
	v.SetDefault("RATE_PREFERRED_PROVIDER", "")
	v.SetDefault("RATE_USER_AGENT", "sales-ledger/1.0")
	v.SetDefault("OPEN_ER_API_URL", "https://open.er-api.com")
	v.SetDefault("EXCHANGERATE_HOST_URL", "https://api.exchangerate.host")
	v.SetDefault("EXCHANGERATE_HOST_ACCESS_KEY", "")
	v.SetDefault("CURRENCY_API_URL", "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "sales-ledger-events")
	v.SetDefault("ADMIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
