package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration plus every analytics threshold in
// one place, so pipeline variants are configuration rather than copies.
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret    string
	GeminiAPIKey string

	// Reporting currency.
	Currency     string
	CurrencyRate float64 // source -> reporting scaling applied by the loader

	// Financial modeling. CostRate is a modeling assumption, not a real
	// COGS lookup: cost is taken as a flat fraction of sale amount.
	CostRate      float64
	MinStockFloor int // minimum_stock floor to avoid division by zero

	// Loader query window.
	QueryWindowMonths int
	RowLimit          int

	// Descriptive thresholds.
	TopProductsN      int
	ExpirySoonDays    int
	VIPSpendQuantile  float64
	VIPRecencyDays    int
	LoyalMinFrequency int
	LoyalRecencyDays  int
	AtRiskRecencyDays int

	// Diagnostic thresholds.
	Contamination       float64
	MinAnomalyDays      int
	IsolationTrees      int
	DeclineThresholdPct float64
	OverstockMultiplier float64

	// Predictive thresholds.
	MinForecastDays     int
	ForecastHorizonDays int
	ChurnRecencyDays    int
	ChurnSampleLimit    int

	// Prescriptive (EOQ reorder suggestions).
	TargetProfitMargin float64
	EOQOrderingCost    float64
	EOQHoldingRate     float64

	// Seed drives the synthetic fallback generator, customer simulation
	// and the isolation forest. Same seed + same input = same result.
	Seed              int64
	SyntheticFallback bool

	// Result cache and scheduled refresh.
	CacheTTL        time.Duration
	RefreshSchedule string
	DefaultSession  string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Default returns the configuration with all analytics thresholds at the
// values the pipeline was calibrated with.
func Default() Config {
	return Config{
		Currency:            "INR",
		CurrencyRate:        83,
		CostRate:            0.70,
		MinStockFloor:       5,
		QueryWindowMonths:   12,
		RowLimit:            10000,
		TopProductsN:        10,
		ExpirySoonDays:      30,
		VIPSpendQuantile:    0.80,
		VIPRecencyDays:      30,
		LoyalMinFrequency:   5,
		LoyalRecencyDays:    60,
		AtRiskRecencyDays:   90,
		Contamination:       0.10,
		MinAnomalyDays:      11,
		IsolationTrees:      100,
		DeclineThresholdPct: -15,
		OverstockMultiplier: 3,
		MinForecastDays:     6,
		ForecastHorizonDays: 30,
		ChurnRecencyDays:    60,
		ChurnSampleLimit:    20,
		TargetProfitMargin:  25,
		EOQOrderingCost:     50,
		EOQHoldingRate:      0.25,
		Seed:                42,
		SyntheticFallback:   true,
		CacheTTL:            time.Hour,
		RefreshSchedule:     "@daily",
		DefaultSession:      "default",
	}
}

// Load builds a Config from defaults overridden by environment variables.
func Load() Config {
	cfg := Default()

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.Currency = envString("REPORT_CURRENCY", cfg.Currency)
	cfg.CurrencyRate = envFloat("CURRENCY_RATE", cfg.CurrencyRate)
	cfg.CostRate = envFloat("COST_RATE", cfg.CostRate)
	cfg.QueryWindowMonths = envInt("QUERY_WINDOW_MONTHS", cfg.QueryWindowMonths)
	cfg.RowLimit = envInt("ROW_LIMIT", cfg.RowLimit)
	cfg.Contamination = envFloat("ANOMALY_CONTAMINATION", cfg.Contamination)
	cfg.DeclineThresholdPct = envFloat("DECLINE_THRESHOLD_PCT", cfg.DeclineThresholdPct)
	cfg.ForecastHorizonDays = envInt("FORECAST_HORIZON_DAYS", cfg.ForecastHorizonDays)
	cfg.ChurnRecencyDays = envInt("CHURN_RECENCY_DAYS", cfg.ChurnRecencyDays)
	cfg.Seed = int64(envInt("ANALYTICS_SEED", int(cfg.Seed)))
	cfg.SyntheticFallback = envBool("SYNTHETIC_FALLBACK", cfg.SyntheticFallback)
	cfg.RefreshSchedule = envString("REFRESH_SCHEDULE", cfg.RefreshSchedule)
	if ttl := envInt("CACHE_TTL_MINUTES", 0); ttl > 0 {
		cfg.CacheTTL = time.Duration(ttl) * time.Minute
	}

	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
