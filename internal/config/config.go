package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Slack    SlackConfig    `yaml:"slack"`
	Channels ChannelsConfig `yaml:"channels"`
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	LogLevel string         `yaml:"log_level"`
}

type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	AppToken string `yaml:"app_token"`
	// SigningSecret is only needed for HTTP delivery; Socket Mode
	// authenticates with the app-level token.
	SigningSecret string `yaml:"signing_secret"`
	Debug         bool   `yaml:"debug"`
}

// ChannelsConfig holds the announcement destinations. An empty value means
// the entry is announced in the channel the command was invoked from.
type ChannelsConfig struct {
	Articles string `yaml:"articles"`
	Jobs     string `yaml:"jobs"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns URL verbatim when set, otherwise a key/value connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type ScraperConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Enabled reports whether submission events should be published.
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references against the environment, decodes the YAML
// document and applies defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "require"
	}
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = 15 * time.Second
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = DefaultUserAgent
	}
	if c.Scraper.MaxAttempts == 0 {
		c.Scraper.MaxAttempts = 1
	}
	if c.Scraper.InitialBackoff == 0 {
		c.Scraper.InitialBackoff = 1 * time.Second
	}
	if c.Scraper.MaxBackoff == 0 {
		c.Scraper.MaxBackoff = 10 * time.Second
	}
	if c.Scraper.MaxBodyBytes == 0 {
		c.Scraper.MaxBodyBytes = 5 << 20
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "linkboard"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "submissions"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "linkboard_submissions"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Slack.BotToken == "" {
		errs = append(errs, errors.New("slack.bot_token is required"))
	}
	if c.Slack.AppToken == "" {
		errs = append(errs, errors.New("slack.app_token is required for Socket Mode"))
	} else if !strings.HasPrefix(c.Slack.AppToken, "xapp-") {
		errs = append(errs, errors.New("slack.app_token must start with xapp-"))
	}
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.DBName == "") {
		errs = append(errs, errors.New("database.url or database.host and database.dbname are required"))
	}
	if c.Scraper.MaxAttempts < 1 {
		errs = append(errs, errors.New("scraper.max_attempts must be at least 1"))
	}

	return errors.Join(errs...)
}
