package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                  string
	MongoURI              string
	MongoDatabase         string
	MerchantCollection    string
	OfficeCollection      string
	ShopCollection        string
	CouponCollection      string
	AccountCollection     string
	FormSessionCollection string
	Timeout               time.Duration
	Timezone              string
	ServerLog             *log.Logger
	JWTConfigs            []JWTConfig
	JWTAudience           string
	AddressLookupEndpoint string
	AddressLookupTimeout  time.Duration
	AllowedOrigins        []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	addressEndpoint := strings.TrimSpace(os.Getenv("ADDRESS_LOOKUP_URL"))
	if addressEndpoint == "" {
		addressEndpoint = "https://zipcloud.ibsnet.co.jp/api/search"
	}

	addressTimeout := 5 * time.Second
	if raw := strings.TrimSpace(os.Getenv("ADDRESS_LOOKUP_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			addressTimeout = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_ADMIN_JWT_ISSUER", "tamanomi-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_PORTAL_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_PORTAL_JWT_ISSUER", "tamanomi-portal-auth"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_ADMIN_JWT_SECRET or AUTH_PORTAL_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                  envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:              envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:         envOrDefault("MONGO_DB", "tamanomi"),
		MerchantCollection:    envOrDefault("MERCHANT_COLLECTION", "merchants"),
		OfficeCollection:      envOrDefault("OFFICE_COLLECTION", "offices"),
		ShopCollection:        envOrDefault("SHOP_COLLECTION", "shops"),
		CouponCollection:      envOrDefault("COUPON_COLLECTION", "coupons"),
		AccountCollection:     envOrDefault("ACCOUNT_COLLECTION", "accounts"),
		FormSessionCollection: envOrDefault("FORM_SESSION_COLLECTION", "form_sessions"),
		Timeout:               timeout,
		Timezone:              envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:             log.New(os.Stdout, "[tamanomi-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:            jwtConfigs,
		JWTAudience:           jwtAudience,
		AddressLookupEndpoint: addressEndpoint,
		AddressLookupTimeout:  addressTimeout,
		AllowedOrigins:        allowedOrigins,
	}

	cfg.ServerLog.Printf("loaded config: addr=%q db=%q addressLookup=%q", cfg.Addr, cfg.MongoDatabase, addressEndpoint)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
