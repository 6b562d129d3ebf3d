package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Providers ProvidersConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds session token configuration.
// Secret is a base64 fernet key; when empty a key is generated at startup
// and sessions do not survive a restart.
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// ProvidersConfig holds the endpoints of the balance and price providers
// and the fallback prices used when the price provider is unavailable.
type ProvidersConfig struct {
	BlockstreamURL   string
	EthereumRPCURL   string
	CoinGeckoURL     string
	CoinGeckoProURL  string
	CoinGeckoAPIKey  string
	HTTPTimeout      time.Duration
	FallbackBTCPrice float64
	FallbackETHPrice float64
}

// SchedulerConfig holds the balance refresh job configuration.
// An empty RefreshSchedule disables the job.
type SchedulerConfig struct {
	RefreshSchedule string
	Concurrency     int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	tokenTTL, err := getEnvDuration("AUTH_TOKEN_TTL", 720*time.Hour)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := getEnvDuration("PROVIDER_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fallbackBTC, err := getEnvFloat("FALLBACK_BTC_PRICE", 65000)
	if err != nil {
		return nil, err
	}
	fallbackETH, err := getEnvFloat("FALLBACK_ETH_PRICE", 3200)
	if err != nil {
		return nil, err
	}
	concurrency, err := getEnvInt("REFRESH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/crypto_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Auth: AuthConfig{
			Secret:   os.Getenv("AUTH_SECRET"),
			TokenTTL: tokenTTL,
		},
		Providers: ProvidersConfig{
			BlockstreamURL:   getEnv("BLOCKSTREAM_API_URL", "https://blockstream.info/api"),
			EthereumRPCURL:   getEnv("ETHEREUM_RPC_URL", "https://ethereum-rpc.publicnode.com"),
			CoinGeckoURL:     getEnv("COINGECKO_API_URL", "https://api.coingecko.com/api/v3"),
			CoinGeckoProURL:  getEnv("COINGECKO_PRO_API_URL", "https://pro-api.coingecko.com/api/v3"),
			CoinGeckoAPIKey:  os.Getenv("COINGECKO_API_KEY"),
			HTTPTimeout:      httpTimeout,
			FallbackBTCPrice: fallbackBTC,
			FallbackETHPrice: fallbackETH,
		},
		Scheduler: SchedulerConfig{
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 15m"),
			Concurrency:     concurrency,
		},
	}

	if origin := os.Getenv("CORS_ALLOWED_ORIGIN"); origin != "" {
		config.CORS.AllowedOrigins = append(config.CORS.AllowedOrigins, origin)
	}
	if os.Getenv("REFRESH_DISABLED") == "true" {
		config.Scheduler.RefreshSchedule = ""
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if i < 1 {
		return 0, fmt.Errorf("invalid %s: must be at least 1", key)
	}
	return i, nil
}
