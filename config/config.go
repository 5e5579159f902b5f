package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	API      APIConfig      `yaml:"api"`
	Payment  PaymentConfig  `yaml:"payment"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Session  SessionConfig  `yaml:"session"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

// APIConfig points at the remote rental REST API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Zero keeps outbound calls without a deadline.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type PaymentConfig struct {
	Key      string `yaml:"key"`
	Currency string `yaml:"currency"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	AttemptsTopic string   `yaml:"attempts_topic"`
	GroupID       string   `yaml:"group_id"`
}

type SessionConfig struct {
	TTLHours            int `yaml:"ttl_hours"`
	CatalogCacheSeconds int `yaml:"catalog_cache_seconds"`
	OrderLockMinutes    int `yaml:"order_lock_minutes"`
}

type WorkerConfig struct {
	AttemptSweepMinutes     int    `yaml:"attempt_sweep_minutes"`
	AttemptRetentionMinutes int    `yaml:"attempt_retention_minutes"`
	SupportEmail            string `yaml:"support_email"`
}

// LoadConfig reads the YAML file at path. ${VAR} references are expanded from the
// environment, which is first seeded from a .env file when one exists.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is required")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "INR"
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 24
	}
	if c.Session.CatalogCacheSeconds == 0 {
		c.Session.CatalogCacheSeconds = 300
	}
	if c.Session.OrderLockMinutes == 0 {
		c.Session.OrderLockMinutes = 15
	}
	if c.Worker.AttemptSweepMinutes == 0 {
		c.Worker.AttemptSweepMinutes = 5
	}
	if c.Worker.AttemptRetentionMinutes == 0 {
		c.Worker.AttemptRetentionMinutes = 60
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "staybook-worker"
	}
	if c.Worker.SupportEmail == "" {
		c.Worker.SupportEmail = "support@staybook.local"
	}
}
