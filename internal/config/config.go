// Package config provides configuration management for the audit service.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/goseo/internal/logger"
)

// Default configuration values.
const (
	defaultServerAddress      = ":8080"
	defaultReadTimeoutSec     = 15
	defaultWriteTimeoutSec    = 30
	defaultIdleTimeoutSec     = 60
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBUser             = "postgres"
	defaultDBName             = "goseo"
	defaultDBSSLMode          = "disable"
	defaultDBMaxOpenConns     = 25
	defaultDBMaxIdleConns     = 5
	defaultDBConnMaxLifetimeM = 5
	defaultRedisAddr          = "localhost:6379"
	defaultStream             = "goseo:audits"
	defaultUserAgent          = "goseo-bot/1.0"
	defaultPageTimeoutSec     = 30
	defaultJobTimeoutMin      = 20
	defaultWorkers            = 4
	defaultStartRatePerMin    = 5
	defaultStartRateBurst     = 5
	defaultJWTExpirationHours = 24
	defaultPollIntervalSec    = 30
	defaultSMTPPort           = 587
	defaultRetentionDays      = 90
	defaultPruneSchedule      = "0 3 * * *"
)

// Config is the root configuration for all goseo commands.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Auth        AuthConfig        `mapstructure:"auth"`
	SMTP        SMTPConfig        `mapstructure:"smtp"`
	Audit       AuditConfig       `mapstructure:"audit"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Logger      logger.Config     `mapstructure:"logger"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds postgres connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `json:"-" mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_connections"`
	MaxIdleConns    int           `mapstructure:"max_idle_connections"`
	ConnMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
}

// DSN builds the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds the work-queue connection settings. An empty Addr
// disables the queue; audits then run on the in-process fallback path.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `json:"-" mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Stream   string `mapstructure:"stream"`
}

// AuthConfig holds token and admin settings.
type AuthConfig struct {
	JWTSecret     string        `json:"-" mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	AdminEmails   []string      `mapstructure:"admin_emails"`
}

// SMTPConfig holds mail notification settings. Leaving Host empty disables
// notifications.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `json:"-" mapstructure:"password"`
	Sender   string `mapstructure:"sender"`
}

// AuditConfig holds audit execution settings.
type AuditConfig struct {
	UserAgent          string        `mapstructure:"user_agent"`
	PageTimeout        time.Duration `mapstructure:"page_timeout"`
	JobTimeout         time.Duration `mapstructure:"job_timeout"`
	Workers            int           `mapstructure:"workers"`
	LighthouseEnabled  bool          `mapstructure:"lighthouse_enabled"`
	StartRatePerMinute int           `mapstructure:"start_rate_per_minute"`
	StartRateBurst     int           `mapstructure:"start_rate_burst"`
}

// SchedulerConfig holds the recurring-audit matcher settings.
type SchedulerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// MaintenanceConfig holds the janitor settings.
type MaintenanceConfig struct {
	Schedule  string        `mapstructure:"schedule"`
	Retention time.Duration `mapstructure:"retention"`
}

// Validate checks the configuration for serving commands. The one-shot audit
// command runs without a database and skips this.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.JWTExpiration <= 0 {
		return errors.New("auth.jwt_expiration must be positive")
	}
	if c.Audit.JobTimeout <= 0 {
		return errors.New("audit.job_timeout must be positive")
	}
	if c.Maintenance.Retention <= 0 {
		return errors.New("maintenance.retention must be positive")
	}
	return nil
}

// Validate checks the database settings.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Port <= 0 {
		return errors.New("database.port is required and must be positive")
	}
	if c.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database == "" {
		return errors.New("database.database is required")
	}
	return nil
}
