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
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"KARAOKE_APP_ENV" required:"true"`
	Port         string   `envconfig:"KARAOKE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"KARAOKE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"KARAOKE_LOG_WARN_STACK" default:"false"`
	TimeZone     string   `envconfig:"KARAOKE_TIME_ZONE" default:"Asia/Ho_Chi_Minh"`
	CORSOrigins  []string `envconfig:"KARAOKE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the venue time zone used for "today" boundaries.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	return loc, nil
}

type DBConfig struct {
	DSN    string `envconfig:"KARAOKE_DB_DSN"`
	Driver string `envconfig:"KARAOKE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KARAOKE_DB_HOST"`
	LegacyPort     int    `envconfig:"KARAOKE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KARAOKE_DB_USER"`
	LegacyPassword string `envconfig:"KARAOKE_DB_PASSWORD"`
	LegacyName     string `envconfig:"KARAOKE_DB_NAME"`
	LegacySSLMode  string `envconfig:"KARAOKE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KARAOKE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KARAOKE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KARAOKE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KARAOKE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"KARAOKE_REDIS_URL"`
	Address      string        `envconfig:"KARAOKE_REDIS_ADDR"`
	Password     string        `envconfig:"KARAOKE_REDIS_PASSWORD"`
	DB           int           `envconfig:"KARAOKE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KARAOKE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KARAOKE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KARAOKE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KARAOKE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KARAOKE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"KARAOKE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KARAOKE_JWT_ISSUER" default:"karaoke-backend"`
	ExpirationMinutes int    `envconfig:"KARAOKE_JWT_EXPIRATION_MINUTES" default:"720"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KARAOKE_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"KARAOKE_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"KARAOKE_CRON_LOCK_TTL" default:"55m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
