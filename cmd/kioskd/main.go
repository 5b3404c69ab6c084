package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nocts/fuelflow/internal/kioskapi"
	"github.com/nocts/fuelflow/internal/store/filestore"
	"github.com/nocts/fuelflow/internal/store/gormstore"
	"github.com/nocts/fuelflow/internal/store/pgstore"
	"github.com/nocts/fuelflow/pkg/transactions"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	flagListenAddr      = "listen-addr"
	flagDatabaseURL     = "database-url"
	flagMarketPrice     = "market-price"
	flagSubsidizedPrice = "subsidized-price"
	flagPumpCount       = "pump-count"
	flagStaffID         = "staff-id"
	flagStaffPassword   = "staff-password"
	flagStaffName       = "staff-name"
	flagJWTSigningKey   = "jwt-signing-key"
	flagJWTIssuer       = "jwt-issuer"
	flagJWTCookieName   = "jwt-cookie-name"
	flagAllowedOrigins  = "allowed-origins"
	envPrefix           = "KIOSKD"

	defaultDatabaseURL = "file://kiosk_transactions.json"

	driverFile     = "file"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverPgx      = "pgx"
)

type runtimeConfig struct {
	DatabaseURL string
	API         kioskapi.Config
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "kioskd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "kioskd",
		Short:         "Fuel kiosk subsidy and transaction backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().String(flagListenAddr, "", "HTTP listen address")
	cmd.Flags().String(flagDatabaseURL, defaultDatabaseURL, "transaction store URL (file://, sqlite://, postgres://, pgx://)")
	cmd.Flags().Float64(flagMarketPrice, 0, "market price per liter")
	cmd.Flags().Float64(flagSubsidizedPrice, 0, "subsidized price per liter")
	cmd.Flags().Int(flagPumpCount, 0, "number of pumps on the forecourt")
	cmd.Flags().String(flagStaffID, "", "operator staff id")
	cmd.Flags().String(flagStaffPassword, "", "operator password")
	cmd.Flags().String(flagStaffName, "", "operator display name")
	cmd.Flags().String(flagJWTSigningKey, "", "session JWT signing key (required)")
	cmd.Flags().String(flagJWTIssuer, "", "session JWT issuer")
	cmd.Flags().String(flagJWTCookieName, "", "session cookie name")
	cmd.Flags().String(flagAllowedOrigins, "", "comma-separated list of allowed CORS origins")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flagNames := []string{
		flagListenAddr, flagDatabaseURL, flagMarketPrice, flagSubsidizedPrice,
		flagPumpCount, flagStaffID, flagStaffPassword, flagStaffName,
		flagJWTSigningKey, flagJWTIssuer, flagJWTCookieName, flagAllowedOrigins,
	}
	for _, flagName := range flagNames {
		if err := v.BindPFlag(flagName, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(v.GetString(flagDatabaseURL))
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	cfg.API.ListenAddr = strings.TrimSpace(v.GetString(flagListenAddr))
	cfg.API.MarketPrice = v.GetFloat64(flagMarketPrice)
	cfg.API.SubsidizedPrice = v.GetFloat64(flagSubsidizedPrice)
	cfg.API.PumpCount = v.GetInt(flagPumpCount)
	cfg.API.StaffID = strings.TrimSpace(v.GetString(flagStaffID))
	cfg.API.StaffPassword = v.GetString(flagStaffPassword)
	cfg.API.StaffName = strings.TrimSpace(v.GetString(flagStaffName))
	cfg.API.SessionSigningKey = v.GetString(flagJWTSigningKey)
	cfg.API.SessionIssuer = strings.TrimSpace(v.GetString(flagJWTIssuer))
	cfg.API.SessionCookieName = strings.TrimSpace(v.GetString(flagJWTCookieName))
	cfg.API.AllowedOrigins = kioskapi.ParseAllowedOrigins(v.GetString(flagAllowedOrigins))

	return cfg.API.Validate()
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	store, cleanup, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("store open: %w", err)
	}
	defer func() { _ = cleanup() }()

	return kioskapi.Run(ctx, cfg.API, store)
}

func openStore(ctx context.Context, dsn string) (transactions.Store, func() error, error) {
	driver, path, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, err
	}

	noop := func() error { return nil }
	switch driver {
	case driverFile:
		return filestore.Open(path), noop, nil
	case driverSQLite:
		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, nil, err
		}
		return prepareGormStore(ctx, db)
	case driverPostgres:
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, nil, err
		}
		return prepareGormStore(ctx, db)
	case driverPgx:
		pool, err := pgxpool.New(ctx, strings.Replace(dsn, "pgx://", "postgres://", 1))
		if err != nil {
			return nil, nil, err
		}
		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, func() error { pool.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database scheme %q", driver)
	}
}

func prepareGormStore(ctx context.Context, db *gorm.DB) (transactions.Store, func() error, error) {
	store := gormstore.New(db.WithContext(ctx))
	if err := store.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("auto migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return store, func() error { return sqlDB.Close() }, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres, "", nil
	}
	if strings.HasPrefix(dsn, "pgx://") {
		return driverPgx, "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		path, err := parseURLPath(dsn, "kiosk.db")
		return driverSQLite, path, err
	}
	if strings.HasPrefix(dsn, "file://") {
		path, err := parseURLPath(dsn, "kiosk_transactions.json")
		return driverFile, path, err
	}
	if strings.HasSuffix(dsn, ".db") {
		path, err := normalizeLocalPath(dsn)
		return driverSQLite, path, err
	}
	// Treat everything else as a direct blob file path.
	path, err := normalizeLocalPath(dsn)
	return driverFile, path, err
}

func parseURLPath(dsn string, fallback string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse store url: %w", err)
	}
	path := u.Path
	if path == "" {
		path = u.Host
	}
	if path == "" || path == "/" {
		path = fallback
	}
	return normalizeLocalPath(path)
}

func normalizeLocalPath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}
