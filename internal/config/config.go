package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Env               string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServerConfig  `yaml:"http_server"`
	PostgresConfig    `yaml:"postgres"`
	SlackConfig       `yaml:"slack"`
	GitHubConfig      `yaml:"github"`
	ReviewersConfig   `yaml:"reviewers"`
	MaintenanceConfig `yaml:"maintenance"`
	MigrationsPath    string `yaml:"migrations_path" env-default:"file://./migrations"`
}

type HTTPServerConfig struct {
	Host        string        `yaml:"host" env-default:"localhost"`
	Port        int           `yaml:"port" env-default:"3000"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AdminToken  string        `yaml:"admin_token" env:"ADMIN_TOKEN" env-required:"true"`
	// WebhookTimeout bounds synchronous webhook handling and must stay below Timeout.
	WebhookTimeout time.Duration `yaml:"webhook_timeout" env-default:"8s"`
}

type PostgresConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-required:"true"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	DBName   string `yaml:"dbname" env-required:"true"`
	SSLMode  string `yaml:"ssl_mode" env-default:"disable"`
}

type SlackConfig struct {
	BotToken      string   `yaml:"bot_token" env:"SLACK_BOT_TOKEN" env-required:"true"`
	SigningSecret string   `yaml:"signing_secret" env:"SLACK_SIGNING_SECRET" env-required:"true"`
	AdminIDs      []string `yaml:"admin_ids" env:"SLACK_ADMIN_IDS" env-separator:","`
	// BootChannel receives the overview message on startup when set.
	BootChannel string        `yaml:"boot_channel" env:"SLACK_BOOT_CHANNEL"`
	APIURL      string        `yaml:"api_url" env-default:"https://slack.com/api"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env-default:"10s"`
}

type GitHubConfig struct {
	WebhookSecret string `yaml:"webhook_secret" env:"GITHUB_WEBHOOK_SECRET" env-required:"true"`
	Token         string `yaml:"token" env:"GITHUB_TOKEN"`
	// App auth is used instead of Token when AppID is set.
	AppID          string        `yaml:"app_id" env:"GITHUB_APP_ID"`
	AppKeyPath     string        `yaml:"app_key_path" env:"GITHUB_APP_KEY_PATH"`
	InstallationID int64         `yaml:"installation_id" env:"GITHUB_INSTALLATION_ID"`
	APIURL         string        `yaml:"api_url" env-default:"https://api.github.com"`
	HTTPTimeout    time.Duration `yaml:"http_timeout" env-default:"30s"`
}

type ReviewersConfig struct {
	Count int `yaml:"count" env-default:"2"`
}

type MaintenanceConfig struct {
	RepoDir       string        `yaml:"repo_dir" env-default:"."`
	DefaultBranch string        `yaml:"default_branch" env-default:"master"`
	NotifyTimeout time.Duration `yaml:"notify_timeout" env-default:"5s"`
}

func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file doesn't exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if cfg.ReviewersConfig.Count < 1 {
		return nil, fmt.Errorf("%w: reviewers.count must be positive", ErrInvalid)
	}

	if w := cfg.HTTPServerConfig.WebhookTimeout; w <= 0 || w >= cfg.HTTPServerConfig.Timeout {
		return nil, fmt.Errorf("%w: http_server.webhook_timeout must be positive and below http_server.timeout", ErrInvalid)
	}

	return &cfg, nil
}

func MustPath() string {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	return configPath
}

func MustLoad() *Config {
	cfg, err := Load(MustPath())
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// DSN is the lib/pq key-value connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL is the connection string in the form golang-migrate expects.
func (c PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.DBName, c.SSLMode)
}
