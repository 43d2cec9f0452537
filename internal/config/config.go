package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
)

type Config struct {
	DatabaseURL    string
	DatabaseDriver string
	CatalogPath    string
	DevMode        bool

	// Pricing defaults a quote file starts from.
	GSTRate            float64
	BaseFee            float64
	HourlyRate         float64
	PressureHourlyRate float64
	MinimumJob         float64
	HighReachPercent   float64
	SetupBufferMinutes float64

	BusinessName         string
	BusinessABN          string
	BillingBank          string
	BillingAccountName   string
	BillingAccountNumber string
	BillingBSB           string
}

func Load(dbConn, dbDriver, catalogPath, devMode string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if dbConn == "" {
		dbConn = getEnv("DATABASE_URL", "./quote.db")
	}

	if dbDriver == "" {
		dbDriver = getEnv("DATABASE_DRIVER", "sqlite3")
	}
	if dbDriver != "sqlite3" && dbDriver != "libsql" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (want sqlite3 or libsql)", dbDriver)
	}

	if catalogPath == "" {
		catalogPath = getEnv("CATALOG_PATH", "")
	}

	isDevMode := devMode == "true" || (devMode == "" && getEnv("DEV_MODE", "false") == "true")

	cfg := &Config{
		DatabaseURL:          dbConn,
		DatabaseDriver:       dbDriver,
		CatalogPath:          catalogPath,
		DevMode:              isDevMode,
		BusinessName:         getEnv("BUSINESS_NAME", "Window & Pressure Cleaning"),
		BusinessABN:          getEnv("BUSINESS_ABN", ""),
		BillingBank:          getEnv("BILLING_BANK", ""),
		BillingAccountName:   getEnv("BILLING_ACCOUNT_NAME", ""),
		BillingAccountNumber: getEnv("BILLING_ACCOUNT_NUMBER", ""),
		BillingBSB:           getEnv("BILLING_BSB", ""),
	}

	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{"GST_RATE", money.GSTRate, &cfg.GSTRate},
		{"BASE_FEE", 0, &cfg.BaseFee},
		{"HOURLY_RATE", 80, &cfg.HourlyRate},
		{"PRESSURE_HOURLY_RATE", 90, &cfg.PressureHourlyRate},
		{"MINIMUM_JOB", 150, &cfg.MinimumJob},
		{"HIGH_REACH_PERCENT", 40, &cfg.HighReachPercent},
		{"SETUP_BUFFER_MINUTES", 15, &cfg.SetupBufferMinutes},
	}
	for _, f := range floats {
		v, err := getEnvFloat(f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	return cfg, nil
}

// DefaultQuoteState is the pricing configuration a new quote starts from.
func (c *Config) DefaultQuoteState() models.QuoteState {
	return models.QuoteState{
		BaseFee:                  c.BaseFee,
		HourlyRate:               c.HourlyRate,
		PressureHourlyRate:       c.PressureHourlyRate,
		MinimumJob:               c.MinimumJob,
		HighReachModifierPercent: c.HighReachPercent,
		InsideMultiplier:         1,
		OutsideMultiplier:        1,
		SetupBufferMinutes:       c.SetupBufferMinutes,
		GSTRate:                  c.GSTRate,
	}
}

func (c *Config) Dump() {
	fmt.Fprintf(os.Stderr, "Database URL: %s\n", c.DatabaseURL)
	fmt.Fprintf(os.Stderr, "Database Driver: %s\n", c.DatabaseDriver)
	fmt.Fprintf(os.Stderr, "Catalog: %s\n", valueOr(c.CatalogPath, "(built in)"))
	fmt.Fprintf(os.Stderr, "GST Rate: %v\n", c.GSTRate)
	fmt.Fprintf(os.Stderr, "Hourly Rate: %s\n", money.FormatCurrency(c.HourlyRate))
	fmt.Fprintf(os.Stderr, "Pressure Hourly Rate: %s\n", money.FormatCurrency(c.PressureHourlyRate))
	fmt.Fprintf(os.Stderr, "Minimum Job: %s\n", money.FormatCurrency(c.MinimumJob))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if err := money.CheckFinite(key, v); err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, raw)
	}
	return v, nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
