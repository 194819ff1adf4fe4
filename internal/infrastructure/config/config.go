package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMySQL  = "mysql"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port            string `env:"PORT,             default=8080"`
	Env             string `env:"ENV,              default=production"`
	LogLevel        string `env:"LOG_LEVEL,        default=info"`
	FrontendURL     string `env:"FRONTEND_URL,     default=http://localhost:3000"`
	SwaggerEnabled  bool   `env:"SWAGGER_ENABLED,  default=true"`
	ActivityWorkers int    `env:"ACTIVITY_WORKERS, default=4"`
	StoreDriver     string `env:"STORE_DRIVER,     default=mysql"`

	// TrustedProxies is a comma-separated list of CIDRs allowed to set
	// X-Forwarded-For. Empty means client addresses come from the socket.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Auth      AuthConfig
	MySQL     MySQLConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"JWT_EXPIRES_IN, default=24h"`
	Issuer     string        `env:"JWT_ISSUER,     default=client-portal"`
	BcryptCost int           `env:"BCRYPT_COST,    default=10"`
}

type MySQLConfig struct {
	Host            string        `env:"DB_HOST,              default=localhost"`
	Port            int           `env:"DB_PORT,              default=3306"`
	User            string        `env:"DB_USER,              default=root"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME,              default=massage_portal"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=massage_portal"`
}

// RedisConfig configures the shared rate limit store. An empty Addr selects
// the in-process limiter.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,              default=0"`
	PoolSize       int           `env:"REDIS_POOL_SIZE,       default=20"`
	CommandTimeout time.Duration `env:"REDIS_COMMAND_TIMEOUT, default=250ms"`
}

type RateLimitConfig struct {
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
	Max    int           `env:"RATE_LIMIT_MAX,    default=100"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}
	switch c.StoreDriver {
	case StoreMySQL, StoreMongo, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of mysql, mongo, memory; got %q", c.StoreDriver))
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		errs = append(errs, err)
	}
	if c.ActivityWorkers <= 0 {
		errs = append(errs, errors.New("ACTIVITY_WORKERS must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// TrustedProxyNets parses TRUSTED_PROXIES. A bare IP is treated as a single
// host range.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}
