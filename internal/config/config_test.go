package config

import (
	"testing"
	"time"
)

// setRequired configura as variáveis obrigatórias mínimas
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JIRA_SERVER", "https://example.atlassian.net")
	t.Setenv("JIRA_EMAIL", "dev@example.com")
	t.Setenv("JIRA_API_TOKEN", "secret-token")
	t.Setenv("JIRA_PROJECT", "")
	t.Setenv("TOKEN_API", "")
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_JSON", "")
	t.Setenv("JIRA_TIMEOUT_SECONDS", "")
}

func TestLoadRequiredVariables(t *testing.T) {
	cases := []struct {
		name string
		env  string
	}{
		{"sem JIRA_SERVER", "JIRA_SERVER"},
		{"sem JIRA_EMAIL", "JIRA_EMAIL"},
		{"sem JIRA_API_TOKEN", "JIRA_API_TOKEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.env, "")

			if _, err := Load(); err == nil {
				t.Fatalf("esperava erro com %s ausente", tc.env)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, esperava 8080", cfg.Port)
	}
	if cfg.GinMode != "debug" {
		t.Errorf("GinMode = %q, esperava debug", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, esperava info", cfg.LogLevel)
	}
	if cfg.JiraTimeout != DefaultJiraTimeout {
		t.Errorf("JiraTimeout = %v, esperava %v", cfg.JiraTimeout, DefaultJiraTimeout)
	}
	if cfg.LogJSON {
		t.Error("LogJSON deveria ser false por padrão")
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	setRequired(t)
	t.Setenv("JIRA_SERVER", "https://example.atlassian.net/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.JiraServer != "https://example.atlassian.net" {
		t.Errorf("JiraServer = %q", cfg.JiraServer)
	}
}

func TestLoadRejectsInvalidServer(t *testing.T) {
	setRequired(t)
	t.Setenv("JIRA_SERVER", "example.atlassian.net")

	if _, err := Load(); err == nil {
		t.Fatal("esperava erro para servidor sem esquema")
	}
}

func TestLoadTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("JIRA_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.JiraTimeout != 5*time.Second {
		t.Errorf("JiraTimeout = %v, esperava 5s", cfg.JiraTimeout)
	}

	t.Setenv("JIRA_TIMEOUT_SECONDS", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("esperava erro para timeout inválido")
	}

	t.Setenv("JIRA_TIMEOUT_SECONDS", "-3")
	if _, err := Load(); err == nil {
		t.Fatal("esperava erro para timeout negativo")
	}
}
