package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/klarnacheckout/internal/shared/config"
	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server" validate:"required"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database" validate:"required"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Auth     sharedConfig.AuthConfig     `mapstructure:"auth" validate:"required"`
	Email    sharedConfig.EmailConfig    `mapstructure:"email"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Klarna   sharedConfig.KlarnaConfig   `mapstructure:"klarna" validate:"required"`
	Currency sharedConfig.CurrencyConfig `mapstructure:"currency"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Load loads configuration from file and environment variables.
// configPath, when set, points at an explicit file instead of ./configs/config.yaml.
func Load(env string, configPath ...string) (*Config, error) {
	v := viper.New()

	if len(configPath) > 0 && configPath[0] != "" {
		v.SetConfigFile(configPath[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("KCO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Validate checks struct tags and reports the first failing field as a
// configuration error.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
		}
		return errors.NewConfigurationError("invalid configuration", strings.Join(fields, ", "))
	}
	if cfg.Email.Enabled && cfg.Email.AlertAddress == "" {
		return errors.NewConfigurationError("invalid configuration", "Config.Email.AlertAddress (required)")
	}
	return nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "klarnacheckout_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.add_source", false)

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.issuer", "klarnacheckout")
	v.SetDefault("auth.jwt.token_ttl", "12h")

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@klarnacheckout.local")
	v.SetDefault("email.from_name", "Checkout")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "30s")
	v.SetDefault("redis.lock_wait", "10s")
	v.SetDefault("redis.rate_limit", 0)
	v.SetDefault("redis.rate_window", "1m")

	// Klarna defaults
	v.SetDefault("klarna.mode", "test")
	v.SetDefault("klarna.locale", "sv-se")
	v.SetDefault("klarna.capture", false)
	v.SetDefault("klarna.update_billing_profile", true)
	v.SetDefault("klarna.allowed_customer_types", []string{})
	v.SetDefault("klarna.allow_separate_shipping_address", false)
	v.SetDefault("klarna.merchant_urls.checkout", "/checkout/{order_id}")
	v.SetDefault("klarna.merchant_urls.confirmation", "/api/checkout/orders/{order_id}/confirmation")
	v.SetDefault("klarna.merchant_urls.push", "/api/checkout/push?klarna_order_id={checkout.order_id}")
	v.SetDefault("klarna.timeout", "30s")
	v.SetDefault("klarna.retry_attempts", 2)
	v.SetDefault("klarna.retry_wait", "500ms")
	v.SetDefault("klarna.log_http_bodies", false)
	v.SetDefault("klarna.client_cache_ttl", "1h")
	v.SetDefault("klarna.client_cache_size", 16)
}
