package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	AMQP      AMQPConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	AppName        string
	Environment    string
	HTTPPort       string
	CORSOrigins    []string
	UploadMaxBytes int
	UploadMaxFiles int
	UploadWorkers  int
}

// multipartOverhead covers form fields and part headers around the files.
const multipartOverhead = 1 << 20

// RequestBodyLimit is the largest request body the server accepts: a full
// screening batch of UploadMaxFiles files at UploadMaxBytes each.
func (a AppConfig) RequestBodyLimit() int {
	files := a.UploadMaxFiles
	if files < 1 {
		files = 1
	}
	return a.UploadMaxBytes*files + multipartOverhead
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
	RunSeeders    bool
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
	// KeyPrefix namespaces every key so several deployments can share a Redis.
	KeyPrefix string
}

// AMQPConfig is optional; an empty URL disables notification publishing.
type AMQPConfig struct {
	URL      string
	Exchange string
}

// MatchingConfig carries the skill vocabulary. Empty means the built-in list.
type MatchingConfig struct {
	Vocabulary []string
}

type RateLimitConfig struct {
	UploadRPS   float64
	UploadBurst int
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

type loader struct {
	missing []string
	invalid []string
}

func (l *loader) req(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		l.missing = append(l.missing, key)
	}
	return v
}

func (l *loader) opt(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func (l *loader) optInt(key string, def int) int {
	raw := l.opt(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		l.invalid = append(l.invalid, key)
		return def
	}
	return v
}

func (l *loader) optFloat(key string, def float64) float64 {
	raw := l.opt(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		l.invalid = append(l.invalid, key)
		return def
	}
	return v
}

func (l *loader) optDuration(key string, def time.Duration) time.Duration {
	raw := l.opt(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		l.invalid = append(l.invalid, key)
		return def
	}
	return v
}

func (l *loader) optBool(key string, def bool) bool {
	raw := l.opt(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		l.invalid = append(l.invalid, key)
		return def
	}
	return v
}

func (l *loader) err() error {
	if len(l.missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(l.missing, ", "))
	}
	if len(l.invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(l.invalid, ", "))
	}
	return nil
}

func Load() (Config, error) {
	l := &loader{}
	cfg := Config{}

	cfg.App = AppConfig{
		AppName:        l.opt("APP_NAME", "aegis"),
		Environment:    l.opt("APP_ENV", "development"),
		HTTPPort:       l.req("HTTP_PORT"),
		CORSOrigins:    splitList(l.opt("CORS_ORIGINS", "*")),
		UploadMaxBytes: l.optInt("UPLOAD_MAX_BYTES", 16*1024*1024),
		UploadMaxFiles: l.optInt("UPLOAD_MAX_FILES", 20),
		UploadWorkers:  l.optInt("UPLOAD_WORKERS", 4),
	}

	cfg.Database = l.database()

	cfg.JWT = JWTConfig{
		AccessSecret:     l.req("JWT_ACCESS_SECRET"),
		RefreshSecret:    l.req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  l.optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: l.optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:      l.opt("REDIS_HOST", "localhost"),
		Port:      l.opt("REDIS_PORT", "6379"),
		Password:  l.opt("REDIS_PASSWORD", ""),
		TTL:       l.optDuration("REDIS_TTL", 10*time.Minute),
		KeyPrefix: l.opt("REDIS_KEY_PREFIX", "aegis:"),
	}

	cfg.AMQP = AMQPConfig{
		URL:      l.opt("AMQP_URL", ""),
		Exchange: l.opt("AMQP_EXCHANGE", "notifications"),
	}

	cfg.Matching = l.matching()

	cfg.RateLimit = RateLimitConfig{
		UploadRPS:   l.optFloat("UPLOAD_RATE_LIMIT_RPS", 2),
		UploadBurst: l.optInt("UPLOAD_RATE_LIMIT_BURST", 5),
	}

	if err := l.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDatabase reads only the database section, for tooling that never
// serves HTTP.
func LoadDatabase() (DatabaseConfig, error) {
	l := &loader{}
	cfg := l.database()
	if err := l.err(); err != nil {
		return DatabaseConfig{}, err
	}
	return cfg, nil
}

func LoadMatching() MatchingConfig {
	l := &loader{}
	return l.matching()
}

func (l *loader) database() DatabaseConfig {
	return DatabaseConfig{
		DBHost:                l.req("DB_HOST"),
		DBPort:                l.opt("DB_PORT", "5432"),
		DBName:                l.req("DB_NAME"),
		DBUser:                l.req("DB_USER"),
		DBPassword:            l.opt("DB_PASSWORD", ""),
		DBSSLMode:             l.opt("DB_SSL_MODE", "disable"),
		ConnectTimeout:        l.optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(l.optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(l.optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   l.optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   l.optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: l.optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
		MigrationsDir:         l.opt("DB_MIGRATIONS_DIR", ""),
		RunSeeders:            l.optBool("DB_RUN_SEEDERS", false),
	}
}

func (l *loader) matching() MatchingConfig {
	return MatchingConfig{Vocabulary: splitList(l.opt("SKILL_VOCABULARY", ""))}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
