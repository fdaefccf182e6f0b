package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the terminal needs from the environment.
type Config struct {
	DBSource string
	Port     string
	Env      string

	GatewayURL        string
	GatewayPublicKey  string
	GatewayPrivateKey string
	Sandbox           bool

	PushoverToken string
	PushoverUser  string

	JournalPath    string
	FailureLogPath string

	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	Operator string
	Hostname string
}

// Load reads the optional .env file and the environment. Database and
// gateway credentials are required; everything else has workable defaults.
// POS_SANDBOX=true selects the sandbox key pair, which front ends surface
// as a warning banner.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on system env variables")
	}

	cfg := &Config{
		Port:           getEnv("SERVER_PORT", "8080"),
		Env:            getEnv("ENVIRONMENT", "development"),
		GatewayURL:     getEnv("GATEWAY_URL", "https://api.simplify.com/v1/api"),
		Sandbox:        getEnv("POS_SANDBOX", "") == "true",
		PushoverToken:  os.Getenv("PUSHOVER_FAILURE"),
		PushoverUser:   os.Getenv("PUSHOVER_USER"),
		JournalPath:    getEnv("JOURNAL_PATH", "transactions.csv"),
		FailureLogPath: getEnv("FAILURE_LOG_PATH", "failed_payments.txt"),
		SMTPAddr:       getEnv("SMTP_ADDR", "localhost:25"),
		SMTPFrom:       getEnv("SMTP_FROM", "receipts@localhost"),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		Operator:       getEnv("OPERATOR_NAME", os.Getenv("USER")),
	}

	cfg.DBSource = os.Getenv("DB_SOURCE")
	if cfg.DBSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required")
	}

	if cfg.Sandbox {
		cfg.GatewayPublicKey = os.Getenv("SANDBOX_PUBLIC_KEY")
		cfg.GatewayPrivateKey = os.Getenv("SANDBOX_PRIVATE_KEY")
	} else {
		cfg.GatewayPublicKey = os.Getenv("LIVE_PUBLIC_KEY")
		cfg.GatewayPrivateKey = os.Getenv("LIVE_PRIVATE_KEY")
	}
	if cfg.GatewayPublicKey == "" || cfg.GatewayPrivateKey == "" {
		return nil, fmt.Errorf("gateway key pair is required (set LIVE_* or SANDBOX_* keys)")
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}
	cfg.Hostname = host
	if cfg.Operator == "" {
		cfg.Operator = "unknown-operator"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
