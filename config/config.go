// Package config loads application settings from a .env file and the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"agencydesk/services"
)

// Config holds company details printed on documents and the currency
// formatting rules shared by every renderer.
type Config struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyGSTIN   string

	CurrencyLocale        string
	PDFCurrencyPrefix     string
	DisplayCurrencyPrefix string
	DefaultPaymentDays    int

	// PDFFormatter renders amounts for generated PDFs (ASCII prefix).
	PDFFormatter *services.Formatter
	// DisplayFormatter renders amounts for JSON and HTML consumers.
	DisplayFormatter *services.Formatter
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for
// unset keys.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		CompanyName:           get("COMPANY_NAME", "Agency Desk"),
		CompanyAddress:        get("COMPANY_ADDRESS", "Bangalore, Karnataka"),
		CompanyEmail:          get("COMPANY_EMAIL", "accounts@agencydesk.in"),
		CompanyGSTIN:          getenv("COMPANY_GSTIN"),
		CurrencyLocale:        get("CURRENCY_LOCALE", services.DefaultLocale),
		PDFCurrencyPrefix:     get("PDF_CURRENCY_PREFIX", services.PDFPrefix),
		DisplayCurrencyPrefix: get("DISPLAY_CURRENCY_PREFIX", services.DisplayPrefix),
		DefaultPaymentDays:    15,
	}

	if raw := getenv("DEFAULT_PAYMENT_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return nil, fmt.Errorf("config: DEFAULT_PAYMENT_DAYS must be a non-negative integer, got %q", raw)
		}
		cfg.DefaultPaymentDays = days
	}

	var err error
	cfg.PDFFormatter, err = services.NewFormatter(cfg.CurrencyLocale, cfg.PDFCurrencyPrefix)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.DisplayFormatter, err = services.NewFormatter(cfg.CurrencyLocale, cfg.DisplayCurrencyPrefix)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	cfg, err := FromEnv(func(string) string { return "" })
	if err != nil {
		panic(err)
	}
	return cfg
}

// Company returns the issuing company block for document exports.
func (c *Config) Company() services.CompanyInfo {
	return services.CompanyInfo{
		Name:    c.CompanyName,
		Address: c.CompanyAddress,
		Email:   c.CompanyEmail,
		GSTIN:   c.CompanyGSTIN,
	}
}
