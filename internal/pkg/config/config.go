package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string        `env:"PORT,            default=8080"`
	Env            string        `env:"ENV,             default=development"`
	LogLevel       string        `env:"LOG_LEVEL,       default=info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`

	Auth    AuthConfig
	Orders  OrderConfig
	Uploads UploadConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET, required"`
	ExpiryMode  string        `env:"TOKEN_EXPIRY_MODE,    default=fixed"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,            default=24h"`
	BcryptCost  int           `env:"BCRYPT_COST,          default=10"`
	PhoneRegion string        `env:"DEFAULT_PHONE_REGION, default=IN"`
}

type OrderConfig struct {
	TotalPolicy           string        `env:"ORDER_TOTAL_POLICY,       default=verify"`
	StrictTransitions     bool          `env:"ORDER_STRICT_TRANSITIONS, default=true"`
	AllOrdersRequireAdmin bool          `env:"ALLORDERS_REQUIRE_ADMIN,  default=false"`
	IdempotencyTTL        time.Duration `env:"IDEMPOTENCY_TTL,          default=24h"`
	AuditWorkers          int           `env:"AUDIT_WORKERS,            default=4"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR,       default=uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=5242880"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=food_ordering"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,         default=localhost:6379"`
	Username    string        `env:"REDIS_USERNAME"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,           default=0"`
	PoolSize    int           `env:"REDIS_POOL_SIZE,    default=10"`
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT, default=5s"`
	KeyPrefix   string        `env:"REDIS_KEY_PREFIX,   default=idem:order:"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
