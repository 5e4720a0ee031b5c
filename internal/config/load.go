package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from .env, environment variables (GOSEO prefix)
// and an optional config file, applies defaults and unmarshals into Config.
// An empty cfgFile means the default search path (./config.yaml or
// ./config/config.yaml). Validation is the caller's concern: serving
// commands validate, the one-shot audit command runs on defaults alone.
func Load(cfgFile string) (*Config, error) {
	loadEnvFile()
	setupViper(cfgFile)
	setDefaults()
	readConfigFile()

	if err := bindEnvironmentVariables(); err != nil {
		return nil, fmt.Errorf("failed to bind environment variables: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env file (ignores error if file doesn't exist).
func loadEnvFile() {
	_ = godotenv.Load()
}

// setupViper configures Viper for environment variable and config file reading.
func setupViper(cfgFile string) {
	viper.SetEnvPrefix("GOSEO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
}

// readConfigFile reads config file (ignores error if file doesn't exist).
func readConfigFile() {
	_ = viper.ReadInConfig()
}

// setDefaults sets default configuration values so the binary runs with
// zero config outside of serving credentials.
func setDefaults() {
	viper.SetDefault("app", map[string]any{
		"name":        "goseo",
		"environment": "production",
		"debug":       false,
	})

	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"encoding":    "json",
		"development": false,
	})

	viper.SetDefault("server", map[string]any{
		"address":       defaultServerAddress,
		"read_timeout":  fmt.Sprintf("%ds", defaultReadTimeoutSec),
		"write_timeout": fmt.Sprintf("%ds", defaultWriteTimeoutSec),
		"idle_timeout":  fmt.Sprintf("%ds", defaultIdleTimeoutSec),
	})

	viper.SetDefault("database", map[string]any{
		"host":                    defaultDBHost,
		"port":                    defaultDBPort,
		"user":                    defaultDBUser,
		"database":                defaultDBName,
		"sslmode":                 defaultDBSSLMode,
		"max_open_connections":    defaultDBMaxOpenConns,
		"max_idle_connections":    defaultDBMaxIdleConns,
		"connection_max_lifetime": fmt.Sprintf("%dm", defaultDBConnMaxLifetimeM),
	})

	viper.SetDefault("redis", map[string]any{
		"addr":   defaultRedisAddr,
		"db":     0,
		"stream": defaultStream,
	})

	viper.SetDefault("auth", map[string]any{
		"jwt_expiration": fmt.Sprintf("%dh", defaultJWTExpirationHours),
	})

	viper.SetDefault("smtp", map[string]any{
		"port": defaultSMTPPort,
	})

	viper.SetDefault("audit", map[string]any{
		"user_agent":            defaultUserAgent,
		"page_timeout":          fmt.Sprintf("%ds", defaultPageTimeoutSec),
		"job_timeout":           fmt.Sprintf("%dm", defaultJobTimeoutMin),
		"workers":               defaultWorkers,
		"lighthouse_enabled":    false,
		"start_rate_per_minute": defaultStartRatePerMin,
		"start_rate_burst":      defaultStartRateBurst,
	})

	viper.SetDefault("scheduler", map[string]any{
		"enabled":       true,
		"poll_interval": fmt.Sprintf("%ds", defaultPollIntervalSec),
	})

	viper.SetDefault("maintenance", map[string]any{
		"schedule":  defaultPruneSchedule,
		"retention": fmt.Sprintf("%dh", defaultRetentionDays*24),
	})
}

// bindEnvironmentVariables binds well-known unprefixed environment variables
// to config keys.
func bindEnvironmentVariables() error {
	bindings := map[string][]string{
		"app.environment":   {"APP_ENV"},
		"app.debug":         {"APP_DEBUG"},
		"logger.level":      {"LOG_LEVEL"},
		"logger.encoding":   {"LOG_FORMAT"},
		"server.address":    {"SERVER_ADDRESS"},
		"database.host":     {"POSTGRES_HOST"},
		"database.port":     {"POSTGRES_PORT"},
		"database.user":     {"POSTGRES_USER"},
		"database.password": {"POSTGRES_PASSWORD"},
		"database.database": {"POSTGRES_DB"},
		"database.sslmode":  {"POSTGRES_SSLMODE"},
		"redis.addr":        {"REDIS_ADDR"},
		"redis.password":    {"REDIS_PASSWORD"},
		"auth.jwt_secret":   {"JWT_SECRET"},
		"auth.admin_emails": {"ADMIN_EMAILS"},
		"smtp.host":         {"SMTP_HOST"},
		"smtp.port":         {"SMTP_PORT"},
		"smtp.username":     {"SMTP_USERNAME"},
		"smtp.password":     {"SMTP_PASSWORD"},
		"smtp.sender":       {"SMTP_SENDER"},
	}

	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return nil
}
