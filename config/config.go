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
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	Reports  ReportsConfig  `yaml:"reports"`
	Minio    MinioConfig    `yaml:"minio"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
	Auth     AuthConfig     `yaml:"auth"`
	Users    []User         `yaml:"users"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	UploadDir   string   `yaml:"upload_dir"`
	MaxUploadMB int64    `yaml:"max_upload_mb"`
	CORSOrigins []string `yaml:"cors_origins"`
	RateLimit   int      `yaml:"rate_limit"` // requests per minute per client, negative disables
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type StoreConfig struct {
	MaxAnalyses int `yaml:"max_analyses"` // 0 = unlimited
}

// Report storage backends
const (
	ReportsBackendFile  = "file"
	ReportsBackendMinio = "minio"
)

type ReportsConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type AdvisorConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	MaxTokens      int64  `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the advisory call deadline
func (a AdvisorConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type AuthConfig struct {
	Enabled          bool   `yaml:"enabled"`
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads path, falling back to defaults when the file does not
// exist. A .env file in the working directory is loaded first so that
// secrets can stay out of the YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"ANTHROPIC_API_KEY", &c.Advisor.APIKey},
		{"LAWASSISTANT_DB_PATH", &c.Database.Path},
		{"LAWASSISTANT_JWT_SECRET", &c.Auth.JWTSecret},
		{"MINIO_ACCESS_KEY", &c.Minio.AccessKey},
		{"MINIO_SECRET_KEY", &c.Minio.SecretKey},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8001
	}
	if c.Server.UploadDir == "" {
		c.Server.UploadDir = "uploads"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 20
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.Path == "" {
		c.Database.Path = "lawassistant.db"
	}
	if c.Store.MaxAnalyses < 0 {
		c.Store.MaxAnalyses = 0
	}
	if c.Reports.Backend == "" {
		c.Reports.Backend = ReportsBackendFile
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = "reports"
	}
	if c.Minio.Bucket == "" {
		c.Minio.Bucket = "lawassistant-reports"
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "claude-haiku-4-5"
	}
	if c.Advisor.MaxTokens == 0 {
		c.Advisor.MaxTokens = 2048
	}
	if c.Advisor.TimeoutSeconds == 0 {
		c.Advisor.TimeoutSeconds = 60
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
}

// Validate checks combinations that cannot work at runtime
func (c *Config) Validate() error {
	switch c.Reports.Backend {
	case ReportsBackendFile:
	case ReportsBackendMinio:
		if c.Minio.Endpoint == "" {
			return errors.New("minio.endpoint is required when reports.backend is minio")
		}
	default:
		return fmt.Errorf("unknown reports.backend %q", c.Reports.Backend)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when auth is enabled")
	}
	if c.Advisor.Enabled && c.Advisor.APIKey == "" {
		return errors.New("advisor.api_key (or ANTHROPIC_API_KEY) is required when the advisor is enabled")
	}
	return nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
