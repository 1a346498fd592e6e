package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the exchange.
type Config struct {
	Port     int
	LogLevel string

	FeeAccount     string
	FeePercent     uint64
	CustodyAccount string

	TokenName     string
	TokenSymbol   string
	TokenDecimals uint8
	TokenSupply   uint64
	TokenDeployer string

	WebhookTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applies defaults, and
// validates values. A .env file in the working directory is loaded first if
// present; real environment variables take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	feeAccount := getStr("FEE_ACCOUNT", "fees")
	if feeAccount == "" {
		return nil, fmt.Errorf("FEE_ACCOUNT must not be empty")
	}

	feePercent, err := getUint64("FEE_PERCENT", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid FEE_PERCENT: %w", err)
	}
	if feePercent > 100 {
		return nil, fmt.Errorf("invalid FEE_PERCENT: %d, must be between 0 and 100", feePercent)
	}

	custodyAccount := getStr("CUSTODY_ACCOUNT", "exchange")
	if custodyAccount == "" {
		return nil, fmt.Errorf("CUSTODY_ACCOUNT must not be empty")
	}

	tokenName := getStr("TOKEN_NAME", "Venus Token")
	tokenSymbol := getStr("TOKEN_SYMBOL", "VEN")
	if tokenSymbol == "" {
		return nil, fmt.Errorf("TOKEN_SYMBOL must not be empty")
	}

	tokenDecimals, err := getUint64("TOKEN_DECIMALS", 6)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_DECIMALS: %w", err)
	}
	if tokenDecimals > 18 {
		return nil, fmt.Errorf("invalid TOKEN_DECIMALS: %d, must be at most 18", tokenDecimals)
	}

	tokenSupply, err := getUint64("TOKEN_SUPPLY", 1_000_000_000_000)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_SUPPLY: %w", err)
	}

	tokenDeployer := getStr("TOKEN_DEPLOYER", "treasury")
	if tokenDeployer == "" {
		return nil, fmt.Errorf("TOKEN_DEPLOYER must not be empty")
	}

	webhookTimeout, err := getDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:            port,
		LogLevel:        logLevel,
		FeeAccount:      feeAccount,
		FeePercent:      feePercent,
		CustodyAccount:  custodyAccount,
		TokenName:       tokenName,
		TokenSymbol:     tokenSymbol,
		TokenDecimals:   uint8(tokenDecimals),
		TokenSupply:     tokenSupply,
		TokenDeployer:   tokenDeployer,
		WebhookTimeout:  webhookTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getUint64(key string, defaultVal uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseUint(v, 10, 64)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
