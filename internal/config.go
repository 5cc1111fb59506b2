package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Mail          MailConfig          `mapstructure:"mail"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret  string        `mapstructure:"access_token_secret" validate:"required,min=32"`
	RefreshTokenSecret string        `mapstructure:"refresh_token_secret" validate:"required,min=32"`
	SessionDuration    time.Duration `mapstructure:"session_duration"`
	ShortTokenDuration time.Duration `mapstructure:"short_token_duration"`
	OTPDuration        time.Duration `mapstructure:"otp_duration"`
	BCryptCost         int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
	ReceiptSecret      string        `mapstructure:"receipt_secret" validate:"required,min=32"`
}

// GatewayConfig carries the payment gateway credentials. KeySecret signs
// orders and verifies callback signatures and must never appear in any
// response payload or log line.
type GatewayConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	KeyID     string        `mapstructure:"key_id" validate:"required"`
	KeySecret string        `mapstructure:"key_secret" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type MailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	From     string `mapstructure:"from"`
	Password string `mapstructure:"password"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- DEFAULTS -----------------

const (
	DefaultSessionDuration    = 7 * 24 * time.Hour
	DefaultShortTokenDuration = 5 * time.Minute
	DefaultOTPDuration        = 5 * time.Minute
)

func (c *SecurityConfig) ApplyDefaults() {
	if c.SessionDuration <= 0 {
		c.SessionDuration = DefaultSessionDuration
	}
	if c.ShortTokenDuration <= 0 {
		c.ShortTokenDuration = DefaultShortTokenDuration
	}
	if c.OTPDuration <= 0 {
		c.OTPDuration = DefaultOTPDuration
	}
}

// ----------------- ENV LOADING -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds the configuration entirely from environment
// variables for containerized deployments.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_SOURCE", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Security: SecurityConfig{
			AccessTokenSecret:  getEnv("SECURITY_ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret: getEnv("SECURITY_REFRESH_TOKEN_SECRET", ""),
			SessionDuration:    getEnvAsDuration("SECURITY_SESSION_DURATION", DefaultSessionDuration),
			ShortTokenDuration: getEnvAsDuration("SECURITY_SHORT_TOKEN_DURATION", DefaultShortTokenDuration),
			OTPDuration:        getEnvAsDuration("SECURITY_OTP_DURATION", DefaultOTPDuration),
			BCryptCost:         getEnvAsInt("SECURITY_BCRYPT_COST", 12),
			ReceiptSecret:      getEnv("SECURITY_RECEIPT_SECRET", ""),
		},
		Gateway: GatewayConfig{
			BaseURL:   getEnv("GATEWAY_BASE_URL", "https://api.razorpay.com"),
			KeyID:     getEnv("GATEWAY_KEY_ID", ""),
			KeySecret: getEnv("GATEWAY_KEY_SECRET", ""),
			Timeout:   getEnvAsDuration("GATEWAY_TIMEOUT", 30*time.Second),
		},
		Mail: MailConfig{
			SMTPHost: getEnv("MAIL_SMTP_HOST", ""),
			SMTPPort: getEnvAsInt("MAIL_SMTP_PORT", 587),
			From:     getEnv("MAIL_FROM", ""),
			Password: getEnv("MAIL_PASSWORD", ""),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.Security.ApplyDefaults()
	return cfg
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Gateway.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("gateway config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("access token secret must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("refresh token secret must be at least 32 characters")
	}
	if len(c.ReceiptSecret) < 32 {
		return errors.New("receipt secret must be at least 32 characters")
	}
	return nil
}

func (c *GatewayConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("gateway base_url is required")
	}
	if c.KeyID == "" || c.KeySecret == "" {
		return errors.New("gateway key_id and key_secret are required")
	}
	return nil
}
