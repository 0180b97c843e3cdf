package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Media providers
const (
	MediaNone       = "none"
	MediaS3         = "s3"
	MediaCloudinary = "cloudinary"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	LLM      LLMConfig      `yaml:"llm"`
	Media    MediaConfig    `yaml:"media"`
	Push     PushConfig     `yaml:"push"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MongoURL string `yaml:"mongo_url"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// LLMConfig holds text generation configuration
type LLMConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// MediaConfig holds image host configuration
type MediaConfig struct {
	Provider      string `yaml:"provider"`
	S3Bucket      string `yaml:"s3_bucket"`
	Region        string `yaml:"region"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Endpoint      string `yaml:"endpoint"`
	CloudinaryURL string `yaml:"cloudinary_url"`
	Folder        string `yaml:"folder"`
}

// PushConfig holds APNs and Web Push configuration
type PushConfig struct {
	APNsKeyPath     string `yaml:"apns_key_path"`
	APNsKeyID       string `yaml:"apns_key_id"`
	APNsTeamID      string `yaml:"apns_team_id"`
	APNsTopic       string `yaml:"apns_topic"`
	APNsProduction  bool   `yaml:"apns_production"`
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	VAPIDSubscriber string `yaml:"vapid_subscriber"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:  DriverMemory,
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
			DBName:  "candle",
		},
		JWT: JWTConfig{
			Expiry: 7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Model: "gemini-2.5-flash",
		},
		Media: MediaConfig{
			Provider: MediaNone,
			Folder:   "candle",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file, then applies .env and
// environment overrides. A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	str("HOST", &c.Server.Host)
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	str("DATABASE_DRIVER", &c.Database.Driver)
	str("DATABASE_URL", &c.Database.URL)
	str("MONGO_URL", &c.Database.MongoURL)
	str("DB_NAME", &c.Database.DBName)

	str("JWT_SECRET", &c.JWT.Secret)
	if v, ok := lookup("JWT_EXPIRY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRY %q: %w", v, err)
		}
		c.JWT.Expiry = d
	}

	str("GEMINI_API_KEY", &c.LLM.APIKey)
	str("LLM_API_KEY", &c.LLM.APIKey)
	str("LLM_MODEL", &c.LLM.Model)

	str("MEDIA_PROVIDER", &c.Media.Provider)
	str("S3_BUCKET", &c.Media.S3Bucket)
	str("AWS_REGION", &c.Media.Region)
	str("AWS_ACCESS_KEY_ID", &c.Media.AccessKey)
	str("AWS_SECRET_ACCESS_KEY", &c.Media.SecretKey)
	str("S3_ENDPOINT", &c.Media.Endpoint)
	str("CLOUDINARY_URL", &c.Media.CloudinaryURL)

	str("APNS_KEY_PATH", &c.Push.APNsKeyPath)
	str("APNS_KEY_ID", &c.Push.APNsKeyID)
	str("APNS_TEAM_ID", &c.Push.APNsTeamID)
	str("APNS_TOPIC", &c.Push.APNsTopic)
	str("VAPID_PUBLIC_KEY", &c.Push.VAPIDPublicKey)
	str("VAPID_PRIVATE_KEY", &c.Push.VAPIDPrivateKey)
	str("VAPID_SUBSCRIBER", &c.Push.VAPIDSubscriber)

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	return nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres, DriverMongo:
		if c.JWT.Secret == "" {
			return errors.New("jwt secret is required outside the memory driver")
		}
		if c.Database.Driver == DriverMongo && c.Database.MongoURL == "" {
			return errors.New("mongo_url is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Media.Provider {
	case MediaNone, "":
	case MediaS3:
		if c.Media.S3Bucket == "" {
			return errors.New("s3_bucket is required for the s3 media provider")
		}
	case MediaCloudinary:
		if c.Media.CloudinaryURL == "" {
			return errors.New("cloudinary_url is required for the cloudinary media provider")
		}
	default:
		return fmt.Errorf("unknown media provider %q", c.Media.Provider)
	}
	if c.JWT.Expiry <= 0 {
		return errors.New("jwt expiry must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
