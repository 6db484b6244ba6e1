package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not fail: %v", err)
	}

	if cfg.API.BaseURL != "https://apifondosmpf.accivalores.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Gmail.Sender != "extractos@accivalores.com" {
		t.Errorf("sender = %q", cfg.Gmail.Sender)
	}
	if cfg.Schedule.APICron != "0 0 7 * * *" || cfg.Schedule.MailCron != "0 30 7 * * *" {
		t.Errorf("crons = %q / %q", cfg.Schedule.APICron, cfg.Schedule.MailCron)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Funds) != 6 {
		t.Errorf("default fund set has %d entries, want 6", len(cfg.Funds))
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://file.example.com
  password: from-file
server:
  port: 9090
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("AUTH_PASSWORD", "from-env")
	t.Setenv("AUTH_CODIGO_APP", "app-code")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.API.BaseURL != "https://file.example.com" {
		t.Errorf("base url = %q, want file value", cfg.API.BaseURL)
	}
	// Environment wins over the file
	if cfg.API.Password != "from-env" {
		t.Errorf("password = %q, want env value", cfg.API.Password)
	}
	if cfg.API.CodigoApp != "app-code" {
		t.Errorf("codigo app = %q", cfg.API.CodigoApp)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure without api credentials")
	}

	cfg.API.Password = "secret"
	cfg.API.CodigoApp = "app"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation failure: %v", err)
	}
}

func TestMailEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.MailEnabled() {
		t.Error("mail must be disabled without credentials")
	}

	cfg.Gemini.APIKey = "k"
	cfg.Gmail.ClientID = "id"
	cfg.Gmail.ClientSecret = "secret"
	if cfg.MailEnabled() {
		t.Error("mail must stay disabled without a refresh token")
	}

	cfg.Gmail.RefreshToken = "token"
	if !cfg.MailEnabled() {
		t.Error("mail must be enabled with full credentials")
	}
}
