package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"FondoSync/internal/fund"
	"FondoSync/internal/store"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL    string `yaml:"base_url"`
		Password   string `yaml:"password"`
		CodigoApp  string `yaml:"codigo_app"`
		ClientCert string `yaml:"client_cert"` // PEM content for mTLS
		ClientKey  string `yaml:"client_key"`
	} `yaml:"api"`
	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
	Gmail struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		RefreshToken string `yaml:"refresh_token"`
		Sender       string `yaml:"sender"`
		Subject      string `yaml:"subject"`
	} `yaml:"gmail"`
	Storage struct {
		Surreal    store.SurrealConfig `yaml:"surreal"`
		SQLitePath string              `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Schedule struct {
		APICron  string `yaml:"api_cron"`
		MailCron string `yaml:"mail_cron"`
	} `yaml:"schedule"`
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Funds []fund.Profile `yaml:"funds"`
	Proxy string         `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("AUTH_PASSWORD"); v != "" {
		cfg.API.Password = v
	}
	if v := os.Getenv("AUTH_CODIGO_APP"); v != "" {
		cfg.API.CodigoApp = v
	}
	if v := os.Getenv("CLIENT_CERT_CONTENT"); v != "" {
		cfg.API.ClientCert = v
	}
	if v := os.Getenv("CLIENT_KEY_CONTENT"); v != "" {
		cfg.API.ClientKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Gmail.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Gmail.ClientSecret = v
	}
	if v := os.Getenv("REFRESH_TOKEN_KEY"); v != "" {
		cfg.Gmail.RefreshToken = v
	}
	if v := os.Getenv("SURREAL_ADDRESS"); v != "" {
		cfg.Storage.Surreal.Address = v
	}
	if v := os.Getenv("SURREAL_USERNAME"); v != "" {
		cfg.Storage.Surreal.Username = v
	}
	if v := os.Getenv("SURREAL_PASSWORD"); v != "" {
		cfg.Storage.Surreal.Password = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://apifondosmpf.accivalores.com"
	}
	if cfg.Gmail.Sender == "" {
		cfg.Gmail.Sender = "extractos@accivalores.com"
	}
	if cfg.Gmail.Subject == "" {
		cfg.Gmail.Subject = "Valor diario de la unidad y rentabilidad fondos"
	}
	if cfg.Storage.Surreal.Namespace == "" {
		cfg.Storage.Surreal.Namespace = "fondosync"
	}
	if cfg.Storage.Surreal.Database == "" {
		cfg.Storage.Surreal.Database = "funds"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/fondosync.db"
	}
	if cfg.Schedule.APICron == "" {
		cfg.Schedule.APICron = "0 0 7 * * *"
	}
	if cfg.Schedule.MailCron == "" {
		cfg.Schedule.MailCron = "0 30 7 * * *"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Funds) == 0 {
		cfg.Funds = fund.DefaultProfiles()
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Password == "" || c.API.CodigoApp == "" {
		return fmt.Errorf("api.password and api.codigo_app are required")
	}
	if len(c.Funds) == 0 {
		return fmt.Errorf("funds must not be empty")
	}
	return nil
}

// MailEnabled reports whether the email/AI ingestion path is fully
// configured.
func (c *Config) MailEnabled() bool {
	return c.Gemini.APIKey != "" &&
		c.Gmail.ClientID != "" && c.Gmail.ClientSecret != "" && c.Gmail.RefreshToken != ""
}
