package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	GRPCPort int
	HTTPPort int

	// CatalogAddr is the gRPC target of the stock backend, used by the gateway.
	CatalogAddr string
	NatsURL     string

	Postgres Postgres
	Cart     Cart
}

type Postgres struct {
	Host string
	Port int
	User string
	Pass string
	DB   string
}

type Cart struct {
	Storage           string // sqlite | postgres
	DBPath            string
	Currency          string
	ShippingFee       int64
	FreeShippingFrom  int64
	DefaultMaxQty     int
	SyncInterval      time.Duration
	SyncTimeout       time.Duration
	PriceChangePolicy string
	DiscountRulesPath string
	IdleCarts         int
}

func Load() Config {
	return Config{
		AppEnv:      getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		GRPCPort:    getEnvInt("GRPC_PORT", 8081),
		CatalogAddr: getEnv("CATALOG_ADDR", "localhost:8081"),
		NatsURL:     getEnv("NATS_URL", ""),
		Postgres: Postgres{
			Host: getEnv("POSTGRES_HOST", "localhost"),
			Port: getEnvInt("POSTGRES_PORT", 5432),
			User: getEnv("POSTGRES_USER", "shopping"),
			Pass: getEnv("POSTGRES_PASSWORD", "shoppingpassword"),
			DB:   getEnv("POSTGRES_DB", "shopping_db"),
		},
		Cart: Cart{
			Storage:           getEnv("CART_STORAGE", "sqlite"),
			DBPath:            getEnv("CART_DB_PATH", "data/cart.db"),
			Currency:          getEnv("CART_CURRENCY", "KRW"),
			ShippingFee:       int64(getEnvInt("CART_SHIPPING_FEE", 3000)),
			FreeShippingFrom:  int64(getEnvInt("CART_FREE_SHIPPING_FROM", 0)),
			DefaultMaxQty:     getEnvInt("CART_DEFAULT_MAX_QTY", 10),
			SyncInterval:      getEnvDuration("CART_SYNC_INTERVAL", 30*time.Second),
			SyncTimeout:       getEnvDuration("CART_SYNC_TIMEOUT", 5*time.Second),
			PriceChangePolicy: getEnv("CART_PRICE_POLICY", "flag-only"),
			DiscountRulesPath: getEnv("CART_DISCOUNT_RULES", ""),
			IdleCarts:         getEnvInt("CART_IDLE_CARTS", 1024),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
