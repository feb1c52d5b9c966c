package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type AuthConfig struct {
	BcryptCost       int    `mapstructure:"bcrypt_cost"`
	JWTSecret        string `mapstructure:"jwt_secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	RBACModelPath    string `mapstructure:"rbac_model_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type EmailConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ArchiveAddr string `mapstructure:"archive_addr"`
}

// DirectoryConfig points at the LDAP directory treated as authoritative for
// account names and forwarding emails.
type DirectoryConfig struct {
	URI          string `mapstructure:"uri"`
	BindDN       string `mapstructure:"bind_dn"`
	BindPassword string `mapstructure:"bind_password"`
	BaseDN       string `mapstructure:"base_dn"`
	GuestGID     int    `mapstructure:"guest_gid"`
	AccountGID   int    `mapstructure:"account_gid"`
}

// KeyringConfig locates the keyring manifest file, a yaml mapping of
// membership tier to fingerprint-list location.
type KeyringConfig struct {
	ManifestPath  string `mapstructure:"manifest_path"`
	ChangelogPath string `mapstructure:"changelog_path"`
}

// ArchiveConfig points at the package-archive maintainer export.
type ArchiveConfig struct {
	MaintainersURL string `mapstructure:"maintainers_url"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

type ReconcileConfig struct {
	CronExpr        string `mapstructure:"cron_expr"`
	CtteWindowDays  int    `mapstructure:"ctte_window_days"`
	ExpirySweepHour int    `mapstructure:"expiry_sweep_hour"`
}
