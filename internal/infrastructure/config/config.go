package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "nmqueue/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Email     sharedConfig.EmailConfig     `mapstructure:"email"`
	Directory sharedConfig.DirectoryConfig `mapstructure:"directory"`
	Keyring   sharedConfig.KeyringConfig   `mapstructure:"keyring"`
	Archive   sharedConfig.ArchiveConfig   `mapstructure:"archive"`
	Reconcile sharedConfig.ReconcileConfig `mapstructure:"reconcile"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("NMQUEUE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
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

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.timezone", "UTC")

	// Database defaults
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "nmqueue_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	viper.SetDefault("auth.bcrypt_cost", 12)
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("auth.access_exp_minutes", 60)
	viper.SetDefault("auth.rbac_model_path", "configs/rbac_model.conf")

	// Redis defaults
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Email defaults
	viper.SetDefault("email.host", "localhost")
	viper.SetDefault("email.port", 587)
	viper.SetDefault("email.from_address", "nm@example.org")
	viper.SetDefault("email.from_name", "New Member Front Desk")
	viper.SetDefault("email.archive_addr", "")

	// Directory defaults
	viper.SetDefault("directory.uri", "ldap://localhost:389")
	viper.SetDefault("directory.base_dn", "ou=users,dc=debian,dc=org")
	viper.SetDefault("directory.guest_gid", 60000)
	viper.SetDefault("directory.account_gid", 800)

	// Keyring defaults
	viper.SetDefault("keyring.manifest_path", "./keyrings/manifest.yaml")
	viper.SetDefault("keyring.changelog_path", "./keyrings/changelog")

	// Archive defaults
	viper.SetDefault("archive.maintainers_url", "")
	viper.SetDefault("archive.timeout_secs", 30)

	// Reconcile defaults
	viper.SetDefault("reconcile.cron_expr", "0 3 * * *")
	viper.SetDefault("reconcile.ctte_window_days", 180)
	viper.SetDefault("reconcile.expiry_sweep_hour", 4)
}
