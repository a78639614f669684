package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres, mysql, sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	PaymentGateway     string // razorpay, sandbox
	RazorpayKeyID      string
	RazorpayKeySecret  string
	RazorpayMerchantID string
	RazorpayApiURL     string
	GatewayTimeout     time.Duration

	SendgridApiKey  string
	EmailSender     string
	EmailSenderName string
	MailTimeout     time.Duration

	ReconcileCron string

	LogLevel  string
	LogPretty bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "4000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "logiclabs"),
		DBPort:     getEnv("DB_PORT", "5432"),

		PaymentGateway:     getEnv("PAYMENT_GATEWAY", "razorpay"),
		RazorpayKeyID:      getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:  getEnv("RAZORPAY_KEY_SECRET", "defaultSecret"),
		RazorpayMerchantID: getEnv("RAZORPAY_MERCHANT_ID", ""),
		RazorpayApiURL:     getEnv("RAZORPAY_API_URL", "https://api.razorpay.com/v1"),
		GatewayTimeout:     time.Duration(getEnvInt("GATEWAY_TIMEOUT_SECONDS", 10)) * time.Second,

		SendgridApiKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@logiclabs.dev"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Logic Labs Ed"),
		MailTimeout:     time.Duration(getEnvInt("MAIL_TIMEOUT_SECONDS", 10)) * time.Second,

		ReconcileCron: getEnv("RECONCILE_CRON", "*/30 * * * *"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnv("LOG_PRETTY", "false") == "true",
	}

	SetupLogger(AppConfig)

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Warn().Msg("Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PaymentGateway == "razorpay" && AppConfig.RazorpayKeySecret == "defaultSecret" {
		log.Warn().Msg("Using default RAZORPAY_KEY_SECRET. Payment signatures will not match real orders.")
	}
}

// SetupLogger configures the global zerolog logger
func SetupLogger(cfg *Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Error converting environment variable to int")
		return defaultValue
	}
	return intValue
}
