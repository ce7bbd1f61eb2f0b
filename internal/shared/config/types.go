package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url" validate:"omitempty,url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite". For sqlite, Database is the file path.
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	AddSource  bool   `mapstructure:"add_source"`
}

type JWTConfig struct {
	Secret   string        `mapstructure:"secret" validate:"required"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	// AlertAddress receives order amount mismatch notices.
	AlertAddress string `mapstructure:"alert_address" validate:"omitempty,email"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
	LockWait time.Duration `mapstructure:"lock_wait"`

	// RateLimit caps session requests per client IP and RateWindow; 0 disables it.
	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MerchantURLsConfig holds the callback URL templates sent to the provider.
// "{order_id}" is replaced with the local order id; "{checkout.order_id}"
// is left for the provider to substitute.
type MerchantURLsConfig struct {
	Checkout     string `mapstructure:"checkout"`
	Confirmation string `mapstructure:"confirmation"`
	Push         string `mapstructure:"push"`
}

type KlarnaConfig struct {
	Username                     string             `mapstructure:"username" validate:"required"`
	Password                     string             `mapstructure:"password" validate:"required"`
	Mode                         string             `mapstructure:"mode" validate:"oneof=test live"`
	PurchaseCountry              string             `mapstructure:"purchase_country" validate:"required,len=2"`
	Locale                       string             `mapstructure:"locale" validate:"required"`
	StoreName                    string             `mapstructure:"store_name"`
	TermsPath                    string             `mapstructure:"terms_path"`
	Capture                      bool               `mapstructure:"capture"`
	UpdateBillingProfile         bool               `mapstructure:"update_billing_profile"`
	AllowedCustomerTypes         []string           `mapstructure:"allowed_customer_types" validate:"dive,oneof=person organization"`
	AllowSeparateShippingAddress bool               `mapstructure:"allow_separate_shipping_address"`
	MerchantURLs                 MerchantURLsConfig `mapstructure:"merchant_urls"`
	BaseURL                      string             `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout                      time.Duration      `mapstructure:"timeout"`
	RetryAttempts                int                `mapstructure:"retry_attempts" validate:"gte=0,lte=10"`
	RetryWait                    time.Duration      `mapstructure:"retry_wait"`
	LogHTTPBodies                bool               `mapstructure:"log_http_bodies"`
	ClientCacheTTL               time.Duration      `mapstructure:"client_cache_ttl"`
	ClientCacheSize              int                `mapstructure:"client_cache_size"`
}

// IsTestMode reports whether the provider playground should be used.
func (k *KlarnaConfig) IsTestMode() bool {
	return k.Mode != "live"
}

type CurrencyConfig struct {
	// FractionDigits overrides currency metadata per ISO 4217 code.
	FractionDigits map[string]int `mapstructure:"fraction_digits"`
}
