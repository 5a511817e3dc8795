package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Limit is a token bucket: Capacity requests, refilled at RefillPerMinute.
type Limit struct {
	Capacity        int `yaml:"capacity"`
	RefillPerMinute int `yaml:"refillPerMinute"`
}

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		Env          string        `yaml:"env"`
		CORSOrigins  []string      `yaml:"corsOrigins"`
		ReadTimeout  time.Duration `yaml:"readTimeout"`
		WriteTimeout time.Duration `yaml:"writeTimeout"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // mysql | postgres | memory
		Host         string `yaml:"host"`
		Port         int    `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Name         string `yaml:"name"`
		SSLMode      string `yaml:"sslMode"`
		MaxOpenConns int    `yaml:"maxOpenConns"`
		MaxIdleConns int    `yaml:"maxIdleConns"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret  string        `yaml:"jwtSecret"`
		TokenTTL   time.Duration `yaml:"tokenTTL"`
		BcryptCost int           `yaml:"bcryptCost"`
	} `yaml:"auth"`

	RateLimit struct {
		API  Limit `yaml:"api"`
		Auth Limit `yaml:"auth"`
		Scan Limit `yaml:"scan"`
	} `yaml:"rateLimit"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json | text
	} `yaml:"log"`
}

// Defaults returns a development configuration. Values are overridden by the
// YAML file and then by environment variables.
func Defaults() *Config {
	var c Config
	c.Server.Port = 5000
	c.Server.Env = "development"
	c.Server.CORSOrigins = []string{"http://localhost:5173"}
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second

	c.Database.Driver = "mysql"
	c.Database.Host = "localhost"
	c.Database.User = "safespace"
	c.Database.Name = "safespace"
	c.Database.SSLMode = "disable"
	c.Database.MaxOpenConns = 25
	c.Database.MaxIdleConns = 10

	c.Auth.TokenTTL = 30 * 24 * time.Hour
	c.Auth.BcryptCost = 12

	c.RateLimit.API = Limit{Capacity: 100, RefillPerMinute: 100}
	c.RateLimit.Auth = Limit{Capacity: 5, RefillPerMinute: 5}
	c.RateLimit.Scan = Limit{Capacity: 10, RefillPerMinute: 10}

	c.Minio.Region = "us-east-1"
	c.OpenAI.Model = "gpt-4o-mini"

	c.Log.Level = "info"
	c.Log.Format = "json"
	return &c
}

// Load baca file config.yaml. A missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getenv("APP_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := getenv("CORS_ORIGIN"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Database.Port = p
		}
	}
	if v := getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects configurations that cannot run. Outside development a JWT
// secret is mandatory; in development an insecure one is filled in.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("auth.jwtSecret (JWT_SECRET) is required")
		}
		c.Auth.JWTSecret = "development-secret"
	}
	if c.Database.Port == 0 {
		c.Database.Port = DefaultPort(c.Database.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTTL must be positive")
	}
	return nil
}

// DefaultPort is the stock server port for a database driver.
func DefaultPort(driver string) int {
	if driver == "postgres" {
		return 5432
	}
	return 3306
}

func (c *Config) portOr(def int) int {
	if c.Database.Port == 0 {
		return def
	}
	return c.Database.Port
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "" || c.Server.Env == "development"
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC&multiStatements=true&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.portOr(3306),
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.portOr(5432),
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
