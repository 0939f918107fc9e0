package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/bagcheck-inc/bagcheck/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Storage      sharedConfig.StorageConfig      `mapstructure:"storage"`
	Upload       sharedConfig.UploadConfig       `mapstructure:"upload"`
	Certificate  sharedConfig.CertificateConfig  `mapstructure:"certificate"`
	Notification sharedConfig.NotificationConfig `mapstructure:"notification"`
	Lock         sharedConfig.LockConfig         `mapstructure:"lock"`
	Idempotency  sharedConfig.IdempotencyConfig  `mapstructure:"idempotency"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"ratelimit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

var defaultSearchPaths = []string{"./configs", "../configs", "../../configs"}

// Load reads configs/config.yaml, overlays configs/config.{env}.yaml when present,
// then applies BAGCHECK_* environment variables.
func Load(env string) (*Config, error) {
	return LoadFrom(env, defaultSearchPaths...)
}

// LoadFrom is Load with explicit search paths.
func LoadFrom(env string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("BAGCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to merge %s config: %w", env, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Certificate.Format) {
	case "html", "pdf":
	default:
		return fmt.Errorf("invalid certificate.format %q: must be html or pdf", c.Certificate.Format)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "local", "gcs":
	default:
		return fmt.Errorf("invalid storage.driver %q: must be local or gcs", c.Storage.Driver)
	}
	if c.Storage.Driver == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("storage.gcs_bucket is required when storage.driver is gcs")
	}
	if c.Upload.MaxFiles <= 0 || c.Upload.MaxFileBytes <= 0 {
		return fmt.Errorf("upload.max_files and upload.max_file_bytes must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.public_base_url", "http://localhost:3000")
	v.SetDefault("server.api_base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)

	// Database
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "bagcheck_dev")
	v.SetDefault("database.sqlite_path", "bagcheck.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.source_all_levels", false)

	// Email
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@bagcheck.local")
	v.SetDefault("email.from_name", "BagCheck")
	v.SetDefault("email.breaker_failures", 5)
	v.SetDefault("email.breaker_timeout", 60)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Storage
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "./data/uploads")
	v.SetDefault("storage.local_url_prefix", "http://localhost:8080/uploads")
	v.SetDefault("storage.object_key_prefix", "tickets")

	// Upload limits
	v.SetDefault("upload.max_files", 10)
	v.SetDefault("upload.max_file_bytes", 5*1024*1024)
	v.SetDefault("upload.max_concurrency", 4)
	v.SetDefault("upload.max_pixels", 40_000_000)

	// Certificate
	v.SetDefault("certificate.format", "pdf")
	v.SetDefault("certificate.default_brand", "Designer Bag")
	v.SetDefault("certificate.default_item_type", "Bag")
	v.SetDefault("certificate.default_expert_name", "BagCheck Expert")
	v.SetDefault("certificate.issuer_name", "BagCheck")
	v.SetDefault("certificate.token_length", 16)

	// Notification
	v.SetDefault("notification.send_timeout", 30)
	v.SetDefault("notification.max_attempts", 5)
	v.SetDefault("notification.retry_interval", 60)
	v.SetDefault("notification.retry_batch", 20)

	// Per-ticket lock
	v.SetDefault("lock.ttl", 30)
	v.SetDefault("lock.retry_backoff_ms", 100)
	v.SetDefault("lock.retry_count", 50)

	// Idempotency
	v.SetDefault("idempotency.submission_ttl", 86400)
	v.SetDefault("idempotency.test_email_ttl", 5)

	// Rate limiting
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.submit_per_min", 10)
	v.SetDefault("ratelimit.verify_per_min", 60)
	v.SetDefault("ratelimit.default_per_min", 120)
}
