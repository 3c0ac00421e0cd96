package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Session      SessionConfig
	Media        MediaConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = defaultSQLiteDSN
		}
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"CASECRAFT_APP_ENV" required:"true"`
	Port           string   `envconfig:"CASECRAFT_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"CASECRAFT_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"CASECRAFT_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"CASECRAFT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CASECRAFT_DB_DSN"`
	Driver string `envconfig:"CASECRAFT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CASECRAFT_DB_HOST"`
	LegacyPort     int    `envconfig:"CASECRAFT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CASECRAFT_DB_USER"`
	LegacyPassword string `envconfig:"CASECRAFT_DB_PASSWORD"`
	LegacyName     string `envconfig:"CASECRAFT_DB_NAME"`
	LegacySSLMode  string `envconfig:"CASECRAFT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CASECRAFT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CASECRAFT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CASECRAFT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASECRAFT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CASECRAFT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CASECRAFT_REDIS_ADDR"`
	Password     string        `envconfig:"CASECRAFT_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASECRAFT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASECRAFT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASECRAFT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASECRAFT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASECRAFT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASECRAFT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CASECRAFT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CASECRAFT_AUTO_MIGRATE" default:"false"`
}

// SessionConfig bounds the in-memory customization sessions.
type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"CASECRAFT_SESSION_IDLE_TTL" default:"30m"`
	MaxSessions   int           `envconfig:"CASECRAFT_SESSION_MAX" default:"10000"`
	SweepInterval time.Duration `envconfig:"CASECRAFT_SESSION_SWEEP_INTERVAL" default:"1m"`
}

type MediaConfig struct {
	UploadDir    string `envconfig:"CASECRAFT_UPLOAD_DIR" default:"uploads"`
	MaxUploadMB  int    `envconfig:"CASECRAFT_MAX_UPLOAD_MB" default:"10"`
	PublicPrefix string `envconfig:"CASECRAFT_UPLOAD_PUBLIC_PREFIX" default:"/uploads"`
}

// MaxUploadBytes converts the configured megabytes to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 0
	}
	return int64(m.MaxUploadMB) * 1024 * 1024
}

type RateLimitConfig struct {
	OrderWindow    time.Duration `envconfig:"CASECRAFT_RATE_LIMIT_ORDER_WINDOW" default:"1m"`
	OrderLimit     int           `envconfig:"CASECRAFT_RATE_LIMIT_ORDER_LIMIT" default:"5"`
	SessionWindow  time.Duration `envconfig:"CASECRAFT_RATE_LIMIT_SESSION_WINDOW" default:"1m"`
	SessionLimit   int           `envconfig:"CASECRAFT_RATE_LIMIT_SESSION_LIMIT" default:"30"`
	IdempotencyTTL time.Duration `envconfig:"CASECRAFT_IDEMPOTENCY_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
