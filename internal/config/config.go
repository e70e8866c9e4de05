package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJiraTimeout é o timeout padrão para chamadas ao Jira
const DefaultJiraTimeout = 30 * time.Second

// Config armazena as configurações da aplicação
type Config struct {
	JiraServer   string
	JiraEmail    string
	JiraAPIToken string
	JiraProject  string
	TokenAPI     string
	Port         string
	GinMode      string
	LogLevel     string
	LogJSON      bool
	JiraTimeout  time.Duration
}

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()          // ./backend/.env
	_ = godotenv.Load("../.env") // ./.env (raiz do projeto)

	cfg := &Config{
		JiraServer:   strings.TrimRight(os.Getenv("JIRA_SERVER"), "/"),
		JiraEmail:    os.Getenv("JIRA_EMAIL"),
		JiraAPIToken: os.Getenv("JIRA_API_TOKEN"),
		JiraProject:  os.Getenv("JIRA_PROJECT"),
		TokenAPI:     os.Getenv("TOKEN_API"),
		Port:         os.Getenv("PORT"),
		GinMode:      os.Getenv("GIN_MODE"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogJSON:      os.Getenv("LOG_JSON") == "true",
		JiraTimeout:  DefaultJiraTimeout,
	}

	// Validações obrigatórias
	if cfg.JiraServer == "" {
		return nil, errors.New("JIRA_SERVER não configurado")
	}

	if cfg.JiraEmail == "" {
		return nil, errors.New("JIRA_EMAIL não configurado")
	}

	if cfg.JiraAPIToken == "" {
		return nil, errors.New("JIRA_API_TOKEN não configurado")
	}

	if !strings.HasPrefix(cfg.JiraServer, "http://") && !strings.HasPrefix(cfg.JiraServer, "https://") {
		return nil, fmt.Errorf("JIRA_SERVER inválido: %q", cfg.JiraServer)
	}

	// Timeout opcional por requisição ao Jira
	if raw := os.Getenv("JIRA_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("JIRA_TIMEOUT_SECONDS inválido: %q", raw)
		}
		cfg.JiraTimeout = time.Duration(seconds) * time.Second
	}

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.GinMode == "" {
		cfg.GinMode = "debug"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
