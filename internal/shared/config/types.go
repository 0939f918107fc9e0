package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	PublicBaseURL  string   `mapstructure:"public_base_url"`
	APIBaseURL     string   `mapstructure:"api_base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetPublicBaseURL returns the externally reachable base URL without a trailing slash.
func (s *ServerConfig) GetPublicBaseURL() string {
	return strings.TrimRight(s.PublicBaseURL, "/")
}

// GetAPIBaseURL returns the base URL of this API, falling back to the public base URL.
func (s *ServerConfig) GetAPIBaseURL() string {
	if s.APIBaseURL == "" {
		return s.GetPublicBaseURL()
	}
	return strings.TrimRight(s.APIBaseURL, "/")
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.IsSQLite() {
		return d.SQLitePath + "?_foreign_keys=on"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

func (d *DatabaseConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, "sqlite")
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	// SourceAllLevels attaches caller info to debug and info records too.
	SourceAllLevels bool `mapstructure:"source_all_levels"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	// BreakerFailures is the consecutive failure count that opens the SMTP circuit.
	BreakerFailures uint32 `mapstructure:"breaker_failures"`
	BreakerTimeout  int    `mapstructure:"breaker_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig selects the image store backend.
type StorageConfig struct {
	Driver          string `mapstructure:"driver"`
	LocalDir        string `mapstructure:"local_dir"`
	LocalURLPrefix  string `mapstructure:"local_url_prefix"`
	GCSBucket       string `mapstructure:"gcs_bucket"`
	GCSCredentials  string `mapstructure:"gcs_credentials"`
	GCSPublicURL    string `mapstructure:"gcs_public_url"`
	ObjectKeyPrefix string `mapstructure:"object_key_prefix"`
}

type UploadConfig struct {
	MaxFiles       int   `mapstructure:"max_files"`
	MaxFileBytes   int64 `mapstructure:"max_file_bytes"`
	MaxConcurrency int   `mapstructure:"max_concurrency"`
	// MaxPixels bounds decoded image dimensions (width * height).
	MaxPixels int `mapstructure:"max_pixels"`
}

type CertificateConfig struct {
	Format            string `mapstructure:"format"`
	DefaultBrand      string `mapstructure:"default_brand"`
	DefaultItemType   string `mapstructure:"default_item_type"`
	DefaultExpertName string `mapstructure:"default_expert_name"`
	IssuerName        string `mapstructure:"issuer_name"`
	TokenLength       int    `mapstructure:"token_length"`
}

type NotificationConfig struct {
	SendTimeout   int `mapstructure:"send_timeout"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	RetryInterval int `mapstructure:"retry_interval"`
	RetryBatch    int `mapstructure:"retry_batch"`
}

func (n *NotificationConfig) GetSendTimeout() time.Duration {
	return time.Duration(n.SendTimeout) * time.Second
}

type LockConfig struct {
	TTL          int `mapstructure:"ttl"`
	RetryBackoff int `mapstructure:"retry_backoff_ms"`
	RetryCount   int `mapstructure:"retry_count"`
}

type IdempotencyConfig struct {
	SubmissionTTL int `mapstructure:"submission_ttl"`
	TestEmailTTL  int `mapstructure:"test_email_ttl"`
}

type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	SubmitPerMin  int  `mapstructure:"submit_per_min"`
	VerifyPerMin  int  `mapstructure:"verify_per_min"`
	DefaultPerMin int  `mapstructure:"default_per_min"`
}
