package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the API and the storectl CLI.
type Config struct {
	AppName string
	AppEnv  string
	Port    string

	DBDriver    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	FacetCacheTTL time.Duration

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	LowStockThreshold     int

	StoreAddress       string
	MTNMerchantNumber  string
	OrangeMerchantCode string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_NAME", "Wig Store API v1.0")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("FACET_CACHE_TTL", "5m")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("TAX_RATE", "0.08")
	v.SetDefault("FREE_SHIPPING_THRESHOLD", "100")
	v.SetDefault("FLAT_SHIPPING_FEE", "10")
	v.SetDefault("LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("STORE_ADDRESS", "our store")
	v.SetDefault("MTN_MERCHANT_NUMBER", "")
	v.SetDefault("ORANGE_MERCHANT_CODE", "")

	return &Config{
		AppName:               v.GetString("APP_NAME"),
		AppEnv:                v.GetString("APP_ENV"),
		Port:                  v.GetString("PORT"),
		DBDriver:              strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:           v.GetString("DATABASE_URL"),
		RedisAddr:             v.GetString("REDIS_ADDR"),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		FacetCacheTTL:         v.GetDuration("FACET_CACHE_TTL"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		AdminEmail:            v.GetString("ADMIN_EMAIL"),
		AdminPassword:         v.GetString("ADMIN_PASSWORD"),
		TaxRate:               decimalOr(v.GetString("TAX_RATE"), "0.08"),
		FreeShippingThreshold: decimalOr(v.GetString("FREE_SHIPPING_THRESHOLD"), "100"),
		FlatShippingFee:       decimalOr(v.GetString("FLAT_SHIPPING_FEE"), "10"),
		LowStockThreshold:     v.GetInt("LOW_STOCK_THRESHOLD"),
		StoreAddress:          v.GetString("STORE_ADDRESS"),
		MTNMerchantNumber:     v.GetString("MTN_MERCHANT_NUMBER"),
		OrangeMerchantCode:    v.GetString("ORANGE_MERCHANT_CODE"),
	}
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func decimalOr(raw, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("invalid decimal setting, using default", "value", raw, "default", fallback)
		return decimal.RequireFromString(fallback)
	}
	return d
}
