package config

import "github.com/caarlos0/env/v6"

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	// Port the API listens on
	Port string `env:"SERVER_PORT" envDefault:"5250"`

	// Origins allowed by the CORS middleware
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// StoreConfig selects and configures the listing store backend
type StoreConfig struct {
	// Backend is either "supabase" (hosted) or "sqlite" (local)
	Backend string `env:"STORE_BACKEND" envDefault:"supabase"`

	// Hosted backend settings
	SupabaseURL string `env:"SUPABASE_URL"`
	SupabaseKey string `env:"SUPABASE_ANON_KEY"`
	Table       string `env:"SUPABASE_TABLE" envDefault:"listings"`

	// Local backend settings
	SQLitePath string `env:"SQLITE_PATH" envDefault:"database/marketplace.db"`
}

// AssetsConfig configures the listing image store
type AssetsConfig struct {
	// Backend is either "s3" or "stub" (in-memory, development only)
	Backend string `env:"ASSETS_BACKEND" envDefault:"s3"`

	Endpoint  string `env:"ASSETS_ENDPOINT"`
	Region    string `env:"ASSETS_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"ASSETS_BUCKET" envDefault:"listing-images"`
	AccessKey string `env:"ASSETS_ACCESS_KEY"`
	SecretKey string `env:"ASSETS_SECRET_KEY"`

	UsePathStyle bool `env:"ASSETS_PATH_STYLE" envDefault:"true"`
	UseSSL       bool `env:"ASSETS_USE_SSL" envDefault:"true"`

	// PublicBaseURL overrides URL resolution when the bucket sits behind
	// a CDN or public storage gateway
	PublicBaseURL string `env:"ASSETS_PUBLIC_BASE_URL"`

	// CacheControl metadata attached to every uploaded asset
	CacheControl string `env:"ASSETS_CACHE_CONTROL" envDefault:"max-age=3600"`
}

// MailConfig configures the contact-seller relay and its dispatch queue
type MailConfig struct {
	Endpoint   string `env:"MAIL_RELAY_ENDPOINT"`
	ServiceID  string `env:"MAIL_SERVICE_ID"`
	TemplateID string `env:"MAIL_TEMPLATE_ID"`
	PublicKey  string `env:"MAIL_PUBLIC_KEY"`

	// Maximum number of queued contact messages before pushes fail
	QueueSize int `env:"MAIL_QUEUE_SIZE" envDefault:"64"`

	// Maximum number of retries for a failed relay call
	MaxRetries int `env:"MAIL_MAX_RETRIES" envDefault:"3"`

	// Delay between retries in seconds
	RetryDelay int `env:"MAIL_RETRY_DELAY" envDefault:"5"`
}

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Assets AssetsConfig
	Mail   MailConfig
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
