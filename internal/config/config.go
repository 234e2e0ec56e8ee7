// Package config loads the server configuration from an optional YAML file
// and the environment. Environment variables always win over the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arcrobot/admin_backend/internal/ranking"
)

// Storage drivers for uploaded files.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type StorageConfig struct {
	Driver    string `yaml:"driver"`
	UploadDir string `yaml:"upload_dir"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

type SMTPConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`
	NotifyTo  string `yaml:"notify_to"`
}

// Enabled reports whether enough is set to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.FromEmail != "" && c.NotifyTo != ""
}

type Config struct {
	ServerPort    string         `yaml:"port"`
	BackendURL    string         `yaml:"backend_url"`
	CORSOrigins   string         `yaml:"cors_origins"`
	LogLevel      string         `yaml:"log_level"`
	RankPolicy    string         `yaml:"rank_policy"`
	AuditInterval time.Duration  `yaml:"audit_interval"`
	Database      DatabaseConfig `yaml:"database"`
	Storage       StorageConfig  `yaml:"storage"`
	SMTP          SMTPConfig     `yaml:"smtp"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerPort:    "8080",
		BackendURL:    "http://localhost:8080",
		CORSOrigins:   "*",
		LogLevel:      "info",
		RankPolicy:    string(ranking.PolicyClamp),
		AuditInterval: 24 * time.Hour,
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "arcbot",
			SSLMode: "disable",
		},
		Storage: StorageConfig{
			Driver:    StorageDisk,
			UploadDir: "public/images",
			Region:    "us-east-1",
		},
		SMTP: SMTPConfig{
			Port:     "587",
			FromName: "Arcbot Admin",
		},
	}
}

// LoadConfig reads CONFIG_FILE (default config.yaml, optional) and applies
// environment overrides.
func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	return Load(path)
}

// Load reads the YAML file at path if it exists, then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.ServerPort, "PORT")
	setString(&c.BackendURL, "BACKEND_URL")
	setString(&c.CORSOrigins, "CORS_ORIGINS")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.RankPolicy, "RANK_POLICY")

	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USERNAME")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.UploadDir, "UPLOAD_DIR")
	setString(&c.Storage.Bucket, "S3_BUCKET_NAME")
	setString(&c.Storage.Region, "S3_REGION")

	setString(&c.SMTP.Host, "SMTP_HOST")
	setString(&c.SMTP.Port, "SMTP_PORT")
	setString(&c.SMTP.User, "SMTP_USER")
	setString(&c.SMTP.Password, "SMTP_PASSWORD")
	setString(&c.SMTP.FromName, "SMTP_FROM_NAME")
	setString(&c.SMTP.FromEmail, "SMTP_FROM_EMAIL")
	setString(&c.SMTP.NotifyTo, "NOTIFY_EMAIL")

	if v := os.Getenv("AUDIT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AUDIT_INTERVAL %q: %w", v, err)
		}
		c.AuditInterval = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks values that cannot be fixed up later.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDisk:
	case StorageS3:
		if c.Storage.Bucket == "" {
			return errors.New("S3_BUCKET_NAME is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := ranking.ParsePolicy(c.RankPolicy); err != nil {
		return err
	}
	if c.AuditInterval < 0 {
		return fmt.Errorf("audit interval must not be negative, got %s", c.AuditInterval)
	}
	return nil
}

// Policy returns the validated rank policy.
func (c *Config) Policy() ranking.Policy {
	p, err := ranking.ParsePolicy(c.RankPolicy)
	if err != nil {
		return ranking.PolicyClamp
	}
	return p
}

// GetDBConnString renders the lib/pq connection URL.
func (c *Config) GetDBConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   c.Database.Host + ":" + c.Database.Port,
		Path:   "/" + c.Database.Name,
	}
	q := url.Values{}
	q.Set("sslmode", c.Database.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// AllowedOrigins returns the CORS origins as fiber expects them.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}
