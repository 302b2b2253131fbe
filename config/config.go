package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Payment  PaymentConfig
	SMTP     SMTPConfig
	S3       S3Config
	Checkout CheckoutConfig
	Store    StoreConfig
	RateAPI  RateAPIConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type PaymentConfig struct {
	Razorpay RazorpayConfig
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Email    string
	Password string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// CheckoutConfig carries the pricing policy knobs for order creation.
// The tolerance values are policy, not invariants, so they stay configurable.
type CheckoutConfig struct {
	KYCThreshold       float64       // order value at which PAN/Aadhaar become mandatory
	PriceTolerance     float64       // accepted deviation of a client price from the DB price
	TotalTolerance     float64       // accepted deviation of the submitted order total
	CODCharge          float64       // flat cash-on-delivery surcharge
	CartAbandonedAfter time.Duration // idle time before a cart counts as abandoned
}

// RateAPIConfig points at the external precious metal rate feed.
type RateAPIConfig struct {
	BaseURL string
	APIKey  string
}

// StoreConfig identifies the merchant on invoices and notification mail.
type StoreConfig struct {
	Name       string
	GSTIN      string
	Address    string
	AdminEmail string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "swarnika"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Payment: PaymentConfig{
			Razorpay: RazorpayConfig{
				KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
				KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
				BaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
			},
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Email:    getEnv("SMTP_EMAIL", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "swarnika-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Checkout: CheckoutConfig{
			KYCThreshold:       parseFloat(getEnv("CHECKOUT_KYC_THRESHOLD", "200000"), 200000),
			PriceTolerance:     parseFloat(getEnv("CHECKOUT_PRICE_TOLERANCE", "0.20"), 0.20),
			TotalTolerance:     parseFloat(getEnv("CHECKOUT_TOTAL_TOLERANCE", "0.05"), 0.05),
			CODCharge:          parseFloat(getEnv("CHECKOUT_COD_CHARGE", "0"), 0),
			CartAbandonedAfter: parseDuration(getEnv("CART_ABANDONED_AFTER", "6h"), 6*time.Hour),
		},
		Store: StoreConfig{
			Name:       getEnv("STORE_NAME", "Swarnika Jewels"),
			GSTIN:      getEnv("STORE_GSTIN", ""),
			Address:    getEnv("STORE_ADDRESS", ""),
			AdminEmail: getEnv("STORE_ADMIN_EMAIL", ""),
		},
		RateAPI: RateAPIConfig{
			BaseURL: getEnv("RATE_API_BASE_URL", "https://www.goldapi.io/api"),
			APIKey:  getEnv("RATE_API_KEY", ""),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
