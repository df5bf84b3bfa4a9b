package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	Port     string
	// Provider
	Provider        string
	ExchangeAPIBase string
	ExchangeAPIKey  string
	BaseCurrency    string
	FetchTimeout    time.Duration
	FetchRetries    int
	// Session
	DefaultCurrencies []string
	DisplayTimezone   string
	FlagCDNBase       string
	// Cache
	CacheBackend string
	CacheKey     string
	CacheFile    string
	CacheTTL     time.Duration
	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Memcached
	MemcacheHosts []string
	// Postgres
	DatabaseURL string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "fxconverter", "cache.json")
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:               getEnv("ENV", "local"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnv("PORT", "8080"),
		Provider:          getEnv("PROVIDER", "exchangerateapi"),
		ExchangeAPIBase:   getEnv("EXCHANGE_API_BASE", "https://v6.exchangerate-api.com/v6"),
		ExchangeAPIKey:    getEnv("EXCHANGE_API_KEY", ""),
		BaseCurrency:      strings.ToUpper(getEnv("BASE_CURRENCY", "USD")),
		FetchTimeout:      time.Duration(atoiDef(getEnv("FETCH_TIMEOUT_MS", "0"), 0)) * time.Millisecond,
		FetchRetries:      atoiDef(getEnv("FETCH_RETRIES", "0"), 0),
		DefaultCurrencies: splitList(strings.ToUpper(getEnv("DEFAULT_CURRENCIES", "CNY,JPY,USD,EUR,KRW"))),
		DisplayTimezone:   getEnv("DISPLAY_TIMEZONE", "Asia/Shanghai"),
		FlagCDNBase:       getEnv("FLAG_CDN_BASE", "https://flagcdn.com/w40"),
		CacheBackend:      getEnv("CACHE_BACKEND", "file"),
		CacheKey:          getEnv("CACHE_KEY", "currency_cache"),
		CacheFile:         getEnv("CACHE_FILE", defaultCacheFile()),
		CacheTTL:          time.Duration(atoiDef(getEnv("CACHE_TTL_MS", "3600000"), 3600000)) * time.Millisecond,
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           atoiDef(getEnv("REDIS_DB", "0"), 0),
		MemcacheHosts:     splitList(getEnv("MEMCACHE_HOSTS", "localhost:11211")),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
	}
}

// Location resolves DisplayTimezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
