package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,             default=8080"`
	Env         string        `env:"ENV,              default=development"`
	LogLevel    string        `env:"LOG_LEVEL,        default=info"`
	ServiceName string        `env:"SERVICE_NAME,     default=hr-gateway"`
	CORSOrigins []string      `env:"CORS_ORIGINS,     default=http://localhost:3000"`
	AuthRPS     float64       `env:"AUTH_RATE_LIMIT,  default=5"`
	ShutdownTTL time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Backend  BackendConfig
	Session  SessionConfig
	Notice   NoticeConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Storage  StorageConfig
	Tracing  TracingConfig
	Activity ActivityConfig
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, required"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=15s"`
}

type SessionConfig struct {
	ProtectedPrefix string        `env:"SESSION_PROTECTED_PREFIX, default=/dashboard"`
	LoginPath       string        `env:"SESSION_LOGIN_PATH,       default=/login"`
	AllowedRoles    []string      `env:"SESSION_ALLOWED_ROLES,    default=admin,hr"`
	VerifySecret    string        `env:"SESSION_VERIFY_SECRET"`
	CookieTTL       time.Duration `env:"SESSION_COOKIE_TTL,       default=720h"`
	CookieSecure    bool          `env:"SESSION_COOKIE_SECURE,    default=false"`
	CookieDomain    string        `env:"SESSION_COOKIE_DOMAIN"`
	AdminLanding    string        `env:"LOGIN_ADMIN_LANDING,      default=/dashboard/admin/user-management"`
	UserLanding     string        `env:"LOGIN_USER_LANDING,       default=/dashboard/user/ai-chatbot"`
	ProfileTTL      time.Duration `env:"PROFILE_CACHE_TTL,        default=60s"`
	InFlightTTL     time.Duration `env:"INFLIGHT_TTL,             default=30s"`
}

type NoticeConfig struct {
	BodyMinLength  int           `env:"NOTICE_BODY_MIN_LENGTH,  default=10"`
	MaxUploadBytes int64         `env:"NOTICE_MAX_UPLOAD_BYTES, default=10485760"`
	ViewStateTTL   time.Duration `env:"NOTICE_VIEW_STATE_TTL,   default=24h"`
	EditorRoles    []string      `env:"NOTICE_EDITOR_ROLES,     default=admin,hr"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=20"`
}

// MongoConfig is optional: an empty URI disables GridFS storage and the
// activity log.
type MongoConfig struct {
	URI         string `env:"MONGO_URI"`
	Database    string `env:"MONGO_DB,            default=hr_gateway"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type StorageConfig struct {
	Driver              string        `env:"STORAGE_DRIVER,           default=cloudinary"`
	Timeout             time.Duration `env:"STORAGE_TIMEOUT,          default=60s"`
	CloudinaryCloudName string        `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryPreset    string        `env:"CLOUDINARY_UPLOAD_PRESET"`
	BlobBaseURL         string        `env:"BLOB_BASE_URL"`
	BlobToken           string        `env:"BLOB_READ_WRITE_TOKEN"`
	PublicBaseURL       string        `env:"PUBLIC_BASE_URL"`
}

type TracingConfig struct {
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE, default=true"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLE_RATIO,    default=1"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "cloudinary", "blob", "gridfs":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be cloudinary, blob or gridfs, got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "gridfs" && c.Mongo.URI == "" {
		return fmt.Errorf("STORAGE_DRIVER=gridfs requires MONGO_URI")
	}
	if c.Notice.BodyMinLength < 1 {
		return fmt.Errorf("NOTICE_BODY_MIN_LENGTH must be positive")
	}
	if !strings.HasPrefix(c.Session.ProtectedPrefix, "/") {
		return fmt.Errorf("SESSION_PROTECTED_PREFIX must start with /")
	}
	return nil
}
