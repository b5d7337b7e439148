package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvProduction enables secure cookies, JSON logs and gin release mode.
const EnvProduction = "production"

// ErrMissingConfig is returned when a required setting is absent.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is honored
	// when resolving the client IP. Empty means only the socket peer counts.
	TrustedProxies []string

	Session   SessionConfig
	Admin     AdminConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type SessionConfig struct {
	Secret string
	// DatabaseURL optionally points the session store at its own database.
	DatabaseURL string
	TTL         time.Duration
}

// AdminConfig holds the bootstrap admin credentials.
type AdminConfig struct {
	Username string
	Password string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type RateLimitConfig struct {
	ContactLimit  int
	ContactWindow time.Duration
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Log format derived from the environment.
func (c *Config) LogFormat() string {
	if c.IsProduction() {
		return "json"
	}
	return "console"
}

// keys and the environment variables that feed them
var envBindings = map[string][]string{
	"port":                     {"PORT"},
	"env":                      {"APP_ENV", "NODE_ENV"},
	"log.level":                {"LOG_LEVEL"},
	"database.url":             {"DATABASE_URL"},
	"session.secret":           {"SESSION_SECRET"},
	"session.db_url":           {"SESSION_DB_URL"},
	"session.ttl":              {"SESSION_TTL"},
	"admin.username":           {"ADMIN_USERNAME"},
	"admin.password":           {"ADMIN_PASSWORD"},
	"trusted_proxies":          {"TRUSTED_PROXIES"},
	"redis.addr":               {"REDIS_ADDR"},
	"redis.password":           {"REDIS_PASSWORD"},
	"ratelimit.contact_limit":  {"CONTACT_RATE_LIMIT"},
	"ratelimit.contact_window": {"CONTACT_RATE_WINDOW"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("session.ttl", "168h")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("ratelimit.contact_limit", 5)
	v.SetDefault("ratelimit.contact_window", "1m")
}

// Load reads configs/config.yml (if present under dir) and the environment.
// Environment variables win over the file. DATABASE_URL and SESSION_SECRET
// are required.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if dir != "" {
		v.AddConfigPath(dir) // <dir>/config.yml
		v.SetConfigName("config")
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	cfg := &Config{
		Port:           v.GetString("port"),
		Env:            strings.TrimSpace(v.GetString("env")),
		LogLevel:       v.GetString("log.level"),
		DatabaseURL:    strings.TrimSpace(v.GetString("database.url")),
		TrustedProxies: splitList(v.GetString("trusted_proxies")),
		Session: SessionConfig{
			Secret:      v.GetString("session.secret"),
			DatabaseURL: strings.TrimSpace(v.GetString("session.db_url")),
			TTL:         v.GetDuration("session.ttl"),
		},
		Admin: AdminConfig{
			Username: strings.TrimSpace(v.GetString("admin.username")),
			Password: v.GetString("admin.password"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("redis.addr")),
			Password: v.GetString("redis.password"),
		},
		RateLimit: RateLimitConfig{
			ContactLimit:  v.GetInt("ratelimit.contact_limit"),
			ContactWindow: v.GetDuration("ratelimit.contact_window"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList parses a comma-separated value, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validProxyEntry(entry string) bool {
	if strings.Contains(entry, "/") {
		_, _, err := net.ParseCIDR(entry)
		return err == nil
	}
	return net.ParseIP(entry) != nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if strings.TrimSpace(c.Session.Secret) == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	for _, entry := range c.TrustedProxies {
		if !validProxyEntry(entry) {
			return fmt.Errorf("trusted proxy %q is not an IP or CIDR", entry)
		}
	}
	if c.RateLimit.ContactLimit <= 0 || c.RateLimit.ContactWindow <= 0 {
		return fmt.Errorf("contact rate limit requires positive limit and window")
	}
	return nil
}
