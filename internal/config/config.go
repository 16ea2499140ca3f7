package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Database    DatabaseConfig    `yaml:"database"`
	NATS        NATSConfig        `yaml:"nats"`
	MinIO       MinIOConfig       `yaml:"minio"`
	Notify      NotifyConfig      `yaml:"notify"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type RecognitionConfig struct {
	// CollectionID names the face collection maintained by the recognition
	// service. Required.
	CollectionID string `yaml:"collection_id"`
	// Region overrides the ambient AWS region when set.
	Region string `yaml:"region"`
}

// DatabaseConfig carries one of two credential schemes: a secret-store
// reference (SecretARN) or discrete host/user/password/name values.
type DatabaseConfig struct {
	SecretARN string `yaml:"secret_arn"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Name      string `yaml:"name"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Table     string `yaml:"table"`
	MaxConns  int    `yaml:"max_conns"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	// Bucket is checked/created at worker startup. Events may still name
	// other buckets; objects are always fetched from the bucket the event
	// names.
	Bucket string `yaml:"bucket"`
}

type NotifyConfig struct {
	// URL is the outbound webhook target. Optional: when empty the search
	// pipeline skips notification.
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ConfigurationError reports a required setting that is absent. Raised
// eagerly at startup, before any work begins.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return "missing required setting: " + e.Setting
}

// Load reads config from YAML file and applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

// Validate checks that every required setting is present. StaticCredentials
// reports which credential scheme the database section resolved to.
func (c *Config) Validate() error {
	if c.Recognition.CollectionID == "" {
		return &ConfigurationError{Setting: "recognition.collection_id"}
	}
	if c.Database.SecretARN == "" && !c.Database.StaticCredentials() {
		return &ConfigurationError{Setting: "database.secret_arn or database.{host,user,password,name}"}
	}
	if c.NATS.URL == "" {
		return &ConfigurationError{Setting: "nats.url"}
	}
	if c.MinIO.Endpoint == "" {
		return &ConfigurationError{Setting: "minio.endpoint"}
	}
	return nil
}

// StaticCredentials reports whether the discrete credential scheme is fully
// configured.
func (d DatabaseConfig) StaticCredentials() bool {
	return d.Host != "" && d.User != "" && d.Password != "" && d.Name != ""
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.Table == "" {
		cfg.Database.Table = "uploads"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 4
	}
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = 3 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FP_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FP_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("FP_COLLECTION_ID"); v != "" {
		cfg.Recognition.CollectionID = v
	}
	if v := os.Getenv("FP_REGION"); v != "" {
		cfg.Recognition.Region = v
	}
	if v := os.Getenv("FP_SECRET_ARN"); v != "" {
		cfg.Database.SecretARN = v
	}
	if v := os.Getenv("FP_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FP_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FP_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FP_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FP_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FP_TABLE_NAME"); v != "" {
		cfg.Database.Table = v
	}
	if v := os.Getenv("FP_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("FP_MINIO_ENDPOINT"); v != "" {
		cfg.MinIO.Endpoint = v
	}
	if v := os.Getenv("FP_MINIO_ACCESS_KEY"); v != "" {
		cfg.MinIO.AccessKey = v
	}
	if v := os.Getenv("FP_MINIO_SECRET_KEY"); v != "" {
		cfg.MinIO.SecretKey = v
	}
	if v := os.Getenv("FP_MINIO_BUCKET"); v != "" {
		cfg.MinIO.Bucket = v
	}
	if v := os.Getenv("FP_NOTIFY_URL"); v != "" {
		cfg.Notify.URL = v
	}
}
