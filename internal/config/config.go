package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Redis         RedisConfig
	SMTP          SMTPConfig
	Storage       StorageConfig
	Accounts      AccountsConfig
	Log           LogConfig
	Notifications NotificationsConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	FrontendURL   string
	PublicBaseURL string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
	RunMigrations bool
	RunSeeders    bool
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	InviteSecret  string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	InviteTTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	UploadDir    string
	PublicPrefix string
	MaxPhotoSize int64
}

type AccountsConfig struct {
	AllowedEmailDomains []string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type NotificationsConfig struct {
	Workers       int
	Buffer        int
	RatePerSecond int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

var defaults = map[string]any{
	"FRONTEND_URL": "http://localhost:3000",

	"DB_HOST":                     "localhost",
	"DB_PORT":                     "5432",
	"DB_SSL_MODE":                 "disable",
	"DB_CONNECT_TIMEOUT":          5 * time.Second,
	"DB_POOL_MAX_CONNS":           10,
	"DB_POOL_MIN_CONNS":           0,
	"DB_POOL_MAX_CONN_LIFETIME":   time.Hour,
	"DB_POOL_MAX_CONN_IDLE_TIME":  30 * time.Minute,
	"DB_POOL_HEALTH_CHECK_PERIOD": time.Minute,
	"DB_RUN_MIGRATIONS":           false,
	"DB_RUN_SEEDERS":              false,

	"JWT_ACCESS_TTL":  15 * time.Minute,
	"JWT_REFRESH_TTL": 7 * 24 * time.Hour,
	"JWT_INVITE_TTL":  72 * time.Hour,

	"REDIS_PORT": "6379",
	"REDIS_DB":   0,
	"REDIS_TTL":  10 * time.Minute,

	"SMTP_PORT":      587,
	"SMTP_FROM_NAME": "AmaliTech Capacity Management",

	"STORAGE_UPLOAD_DIR":      "uploads",
	"STORAGE_PUBLIC_PREFIX":   "/uploads",
	"STORAGE_MAX_PHOTO_BYTES": int64(5 << 20),

	"ACCOUNTS_ALLOWED_EMAIL_DOMAINS": "amalitech.com,amalitech.org",

	"LOG_JSON":  false,
	"LOG_DEBUG": false,

	"NOTIFY_WORKERS":         2,
	"NOTIFY_BUFFER":          64,
	"NOTIFY_RATE_PER_SECOND": 0,
}

// env reads the process environment through viper. Blank values fall back to
// the key's default; values that fail to convert are collected in invalid.
type env struct {
	v       *viper.Viper
	missing []string
	invalid []error
}

func newEnv() *env {
	v := viper.New()
	v.AutomaticEnv()
	for key, def := range defaults {
		v.SetDefault(key, def)
	}
	return &env{v: v}
}

func (e *env) raw(key string) any {
	val := e.v.Get(key)
	if s, ok := val.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return defaults[key]
	}
	return val
}

func (e *env) req(key string) string {
	v := cast.ToString(e.raw(key))
	if v == "" {
		e.missing = append(e.missing, key)
	}
	return v
}

func (e *env) getString(key string) string {
	return cast.ToString(e.raw(key))
}

func (e *env) getInt(key string) int {
	n, err := cast.ToIntE(e.raw(key))
	if err != nil {
		e.fail(key, err)
		return cast.ToInt(defaults[key])
	}
	return n
}

func (e *env) getInt32(key string) int32 {
	n, err := cast.ToInt32E(e.raw(key))
	if err != nil {
		e.fail(key, err)
		return cast.ToInt32(defaults[key])
	}
	return n
}

func (e *env) getInt64(key string) int64 {
	n, err := cast.ToInt64E(e.raw(key))
	if err != nil {
		e.fail(key, err)
		return cast.ToInt64(defaults[key])
	}
	return n
}

func (e *env) getBool(key string) bool {
	b, err := cast.ToBoolE(e.raw(key))
	if err != nil {
		e.fail(key, err)
		return cast.ToBool(defaults[key])
	}
	return b
}

func (e *env) getDuration(key string) time.Duration {
	d, err := cast.ToDurationE(e.raw(key))
	if err != nil {
		e.fail(key, err)
		return cast.ToDuration(defaults[key])
	}
	return d
}

func (e *env) fail(key string, err error) {
	e.invalid = append(e.invalid, fmt.Errorf("%s: %w", key, err))
}

func Load() (Config, error) {
	cfg := Config{}
	e := newEnv()

	cfg.App = AppConfig{
		AppName:       e.req("APP_NAME"),
		Environment:   e.req("APP_ENV"),
		HTTPPort:      e.req("HTTP_PORT"),
		FrontendURL:   strings.TrimRight(e.getString("FRONTEND_URL"), "/"),
		PublicBaseURL: strings.TrimRight(e.getString("PUBLIC_BASE_URL"), "/"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     e.getString("DB_HOST"),
		DBPort:     e.getString("DB_PORT"),
		DBName:     e.req("DB_NAME"),
		DBUser:     e.req("DB_USER"),
		DBPassword: e.getString("DB_PASSWORD"),
		DBSSLMode:  e.getString("DB_SSL_MODE"),

		ConnectTimeout:        e.getDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          e.getInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          e.getInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   e.getDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   e.getDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: e.getDuration("DB_POOL_HEALTH_CHECK_PERIOD"),

		MigrationsDir: e.getString("DB_MIGRATIONS_DIR"),
		RunMigrations: e.getBool("DB_RUN_MIGRATIONS"),
		RunSeeders:    e.getBool("DB_RUN_SEEDERS"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:  e.req("JWT_ACCESS_SECRET"),
		RefreshSecret: e.req("JWT_REFRESH_SECRET"),
		InviteSecret:  e.req("JWT_INVITE_SECRET"),
		AccessTTL:     e.getDuration("JWT_ACCESS_TTL"),
		RefreshTTL:    e.getDuration("JWT_REFRESH_TTL"),
		InviteTTL:     e.getDuration("JWT_INVITE_TTL"),
	}

	cfg.Redis = RedisConfig{
		Host:     e.getString("REDIS_HOST"),
		Port:     e.getString("REDIS_PORT"),
		Password: e.getString("REDIS_PASSWORD"),
		DB:       e.getInt("REDIS_DB"),
		TTL:      e.getDuration("REDIS_TTL"),
	}

	cfg.SMTP = SMTPConfig{
		Host:     e.getString("SMTP_HOST"),
		Port:     e.getInt("SMTP_PORT"),
		Username: e.getString("SMTP_USERNAME"),
		Password: e.getString("SMTP_PASSWORD"),
		From:     e.getString("SMTP_FROM"),
		FromName: e.getString("SMTP_FROM_NAME"),
	}

	cfg.Storage = StorageConfig{
		UploadDir:    e.getString("STORAGE_UPLOAD_DIR"),
		PublicPrefix: "/" + strings.Trim(e.getString("STORAGE_PUBLIC_PREFIX"), "/"),
		MaxPhotoSize: e.getInt64("STORAGE_MAX_PHOTO_BYTES"),
	}

	cfg.Accounts = AccountsConfig{
		AllowedEmailDomains: splitList(e.getString("ACCOUNTS_ALLOWED_EMAIL_DOMAINS")),
	}

	cfg.Log = LogConfig{
		JSON:  e.getBool("LOG_JSON"),
		Debug: e.getBool("LOG_DEBUG"),
	}

	cfg.Notifications = NotificationsConfig{
		Workers:       e.getInt("NOTIFY_WORKERS"),
		Buffer:        e.getInt("NOTIFY_BUFFER"),
		RatePerSecond: e.getInt("NOTIFY_RATE_PER_SECOND"),
	}

	if cfg.App.FrontendURL != "" {
		if _, err := url.ParseRequestURI(cfg.App.FrontendURL); err != nil {
			e.fail("FRONTEND_URL", err)
		}
	}
	if cfg.Notifications.Workers <= 0 {
		e.fail("NOTIFY_WORKERS", errors.New("must be positive"))
	}

	if len(e.missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(e.missing, ", "))
	}
	if len(e.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(e.invalid...))
	}

	return cfg, nil
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(c.DBHost),
		strings.TrimSpace(c.DBPort),
		strings.TrimSpace(c.DBUser),
		c.DBPassword,
		strings.TrimSpace(c.DBName),
		strings.TrimSpace(c.DBSSLMode),
	)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
