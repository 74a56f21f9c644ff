package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Settings is the explicit configuration object for a review run. It is
// loaded once and passed down; nothing below the CLI touches the filesystem
// or environment for configuration after Load returns.
type Settings struct {
	APIKeys   map[string]string `json:"api_keys"`
	Prompts   map[string]string `json:"prompts,omitempty"`
	MetaModel string            `json:"meta_model,omitempty"`

	Env string `json:"-"`

	path string
}

// DefaultMetaModel is the synthesis model used when the config file does not
// name one.
const DefaultMetaModel = "gpt4-o1"

// Dir returns the configuration directory, ~/.ai-peer-review by default.
// AI_PEER_REVIEW_CONFIG_DIR overrides it (used by tests).
func Dir() string {
	if dir := os.Getenv("AI_PEER_REVIEW_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ai-peer-review")
}

// Path returns the path of the persisted config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

func defaults() *Settings {
	return &Settings{
		APIKeys: map[string]string{},
		Prompts: map[string]string{},
	}
}

// Load reads .env files, then the persisted config file, creating a default
// one on first run. A corrupt config file yields defaults rather than an
// error so a bad edit never bricks the tool.
func Load() (*Settings, error) {
	_ = godotenv.Load(".env")
	if envPath := filepath.Join(Dir(), ".env"); fileExists(envPath) {
		_ = godotenv.Load(envPath)
	}

	s := defaults()
	s.Env = getEnv("AI_PEER_REVIEW_ENV", "development")
	s.path = Path()

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, s); jsonErr != nil {
			s = defaults()
			s.Env = getEnv("AI_PEER_REVIEW_ENV", "development")
			s.path = Path()
		}
	case os.IsNotExist(err):
		if saveErr := s.Save(); saveErr != nil {
			return nil, fmt.Errorf("creating default config: %w", saveErr)
		}
	default:
		return nil, fmt.Errorf("reading config %s: %w", s.path, err)
	}

	if s.APIKeys == nil {
		s.APIKeys = map[string]string{}
	}
	if s.Prompts == nil {
		s.Prompts = map[string]string{}
	}
	if s.MetaModel == "" {
		s.MetaModel = DefaultMetaModel
	}
	return s, nil
}

// Save persists the settings to the config file, creating the directory if
// needed.
func (s *Settings) Save() error {
	path := s.path
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// APIKey resolves a credential for a service ("openai", "anthropic",
// "google", "together", "deepseek"). Environment variables win over the
// config file; an empty string means no credential is resolvable.
func (s *Settings) APIKey(service string) string {
	if key := os.Getenv(EnvVar(service)); key != "" {
		return key
	}
	return s.APIKeys[service]
}

// SetAPIKey records a credential for a service and persists it.
func (s *Settings) SetAPIKey(service, key string) error {
	s.APIKeys[service] = key
	return s.Save()
}

// Prompt returns a configured prompt template by name ("review",
// "metareview", "system"), or "" if the config has no entry.
func (s *Settings) Prompt(name string) string {
	return s.Prompts[name]
}

// EnvVar returns the environment variable name holding a service credential.
func EnvVar(service string) string {
	return strings.ToUpper(service) + "_API_KEY"
}

func (s *Settings) IsProduction() bool {
	return s.Env == "production"
}

func (s *Settings) IsDevelopment() bool {
	return s.Env == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
