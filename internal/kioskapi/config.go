package kioskapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/nocts/fuelflow/pkg/fuel"
)

const (
	defaultListenAddr      = ":8080"
	defaultAllowedOrigin   = "http://localhost:5173"
	defaultMarketPrice     = 3.40
	defaultSubsidizedPrice = 2.00
	defaultStaffID         = "STAFF001"
	defaultStaffPassword   = "admin123"
	defaultStaffName       = "John Doe"
	defaultStaffRole       = "Admin"
	defaultSessionIssuer   = "kioskd"
	defaultSessionCookie   = "kiosk_session"
	defaultSessionTTL      = 12 * time.Hour
)

// Config aggregates runtime settings for the kiosk API.
type Config struct {
	ListenAddr        string
	AllowedOrigins    []string
	MarketPrice       float64
	SubsidizedPrice   float64
	PumpCount         int
	StaffID           string
	StaffPassword     string
	StaffName         string
	SessionSigningKey string
	SessionIssuer     string
	SessionCookieName string
	SessionTTL        time.Duration
}

// Validate ensures the configuration contains sane values.
func (cfg *Config) Validate() error {
	cfg.ListenAddr = defaultIfEmpty(cfg.ListenAddr, defaultListenAddr)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if cfg.MarketPrice == 0 {
		cfg.MarketPrice = defaultMarketPrice
	}
	if cfg.SubsidizedPrice == 0 {
		cfg.SubsidizedPrice = defaultSubsidizedPrice
	}
	if cfg.PumpCount == 0 {
		cfg.PumpCount = fuel.DefaultPumpCount
	}
	cfg.StaffID = defaultIfEmpty(cfg.StaffID, defaultStaffID)
	cfg.StaffPassword = defaultIfEmpty(cfg.StaffPassword, defaultStaffPassword)
	cfg.StaffName = defaultIfEmpty(cfg.StaffName, defaultStaffName)
	cfg.SessionIssuer = defaultIfEmpty(cfg.SessionIssuer, defaultSessionIssuer)
	cfg.SessionCookieName = defaultIfEmpty(cfg.SessionCookieName, defaultSessionCookie)
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if err := cfg.Prices().Validate(); err != nil {
		return err
	}
	if cfg.PumpCount < 1 {
		return fmt.Errorf("pump count must be at least one")
	}
	if len(cfg.SessionSigningKey) == 0 {
		return fmt.Errorf("jwt signing key is required")
	}
	return nil
}

// Prices returns the configured per-liter price constants.
func (cfg *Config) Prices() fuel.PriceConfig {
	return fuel.PriceConfig{
		MarketPrice:     cfg.MarketPrice,
		SubsidizedPrice: cfg.SubsidizedPrice,
	}
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ParseAllowedOrigins splits comma-delimited origins into a slice.
func ParseAllowedOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}
