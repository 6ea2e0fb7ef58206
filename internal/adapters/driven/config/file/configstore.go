// Package file provides the TOML-backed settings store.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// ConfigFileName is the settings file name under the config directory.
const ConfigFileName = "config.toml"

// fileConfig mirrors AppSettings in the on-disk TOML layout. Only the
// keys present in the file override defaults.
type fileConfig struct {
	Embedding struct {
		Provider string `toml:"provider,omitempty"`
		Model    string `toml:"model,omitempty"`
		BaseURL  string `toml:"base_url,omitempty"`
		APIKey   string `toml:"api_key,omitempty"`
	} `toml:"embedding"`
	Generation struct {
		Mode         string `toml:"mode,omitempty"`
		Provider     string `toml:"provider,omitempty"`
		Model        string `toml:"model,omitempty"`
		BaseURL      string `toml:"base_url,omitempty"`
		APIKey       string `toml:"api_key,omitempty"`
		MaxNewTokens int    `toml:"max_new_tokens,omitempty"`
	} `toml:"generation"`
	Retrieval struct {
		TopK                int     `toml:"top_k,omitempty"`
		MaxTokens           int     `toml:"max_tokens,omitempty"`
		Overlap             int     `toml:"overlap,omitempty"`
		EscalationThreshold float64 `toml:"escalation_threshold,omitempty"`
	} `toml:"retrieval"`
	QdrantURL       string `toml:"qdrant_url,omitempty"`
	Collection      string `toml:"collection,omitempty"`
	DataDir         string `toml:"data_dir,omitempty"`
	StorageDir      string `toml:"storage_dir,omitempty"`
	DefaultCourseID string `toml:"default_course_id,omitempty"`
}

// ConfigStore loads and saves application settings as TOML.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a settings store under configDir.
// If configDir is empty, defaults to ~/.lena.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".lena")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, ConfigFileName),
	}, nil
}

// Path returns the settings file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Load reads settings from disk, layering the file over the defaults
// and environment API keys over the file. A missing file yields pure
// defaults.
func (s *ConfigStore) Load() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&settings)
			return settings, nil
		}
		return settings, fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return settings, fmt.Errorf("parse config: %w", err)
	}

	applyFile(&settings, cfg)
	applyEnv(&settings)
	return settings, nil
}

// Save writes the settings to disk, creating the file if needed.
func (s *ConfigStore) Save(settings domain.AppSettings) error {
	var cfg fileConfig
	cfg.Embedding.Provider = settings.Embedding.Provider.String()
	cfg.Embedding.Model = settings.Embedding.Model
	cfg.Embedding.BaseURL = settings.Embedding.BaseURL
	cfg.Embedding.APIKey = settings.Embedding.APIKey
	cfg.Generation.Mode = settings.Generation.Mode.String()
	cfg.Generation.Provider = settings.Generation.Provider.String()
	cfg.Generation.Model = settings.Generation.Model
	cfg.Generation.BaseURL = settings.Generation.BaseURL
	cfg.Generation.APIKey = settings.Generation.APIKey
	cfg.Generation.MaxNewTokens = settings.Generation.MaxNewTokens
	cfg.Retrieval.TopK = settings.Retrieval.TopK
	cfg.Retrieval.MaxTokens = settings.Retrieval.MaxTokens
	cfg.Retrieval.Overlap = settings.Retrieval.Overlap
	cfg.Retrieval.EscalationThreshold = settings.Retrieval.EscalationThreshold
	cfg.QdrantURL = settings.QdrantURL
	cfg.Collection = settings.Collection
	cfg.DataDir = settings.DataDir
	cfg.StorageDir = settings.StorageDir
	cfg.DefaultCourseID = settings.DefaultCourseID

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// API keys live in this file; keep it private.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyFile overlays non-zero file values onto settings.
func applyFile(settings *domain.AppSettings, cfg fileConfig) {
	if cfg.Embedding.Provider != "" {
		settings.Embedding.Provider = domain.AIProvider(cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model != "" {
		settings.Embedding.Model = cfg.Embedding.Model
	}
	if cfg.Embedding.BaseURL != "" {
		settings.Embedding.BaseURL = cfg.Embedding.BaseURL
	}
	if cfg.Embedding.APIKey != "" {
		settings.Embedding.APIKey = cfg.Embedding.APIKey
	}

	if cfg.Generation.Mode != "" {
		settings.Generation.Mode = domain.GenerationMode(cfg.Generation.Mode)
	}
	if cfg.Generation.Provider != "" {
		settings.Generation.Provider = domain.AIProvider(cfg.Generation.Provider)
	}
	if cfg.Generation.Model != "" {
		settings.Generation.Model = cfg.Generation.Model
	}
	if cfg.Generation.BaseURL != "" {
		settings.Generation.BaseURL = cfg.Generation.BaseURL
	}
	if cfg.Generation.APIKey != "" {
		settings.Generation.APIKey = cfg.Generation.APIKey
	}
	if cfg.Generation.MaxNewTokens > 0 {
		settings.Generation.MaxNewTokens = cfg.Generation.MaxNewTokens
	}

	if cfg.Retrieval.TopK > 0 {
		settings.Retrieval.TopK = cfg.Retrieval.TopK
	}
	if cfg.Retrieval.MaxTokens > 0 {
		settings.Retrieval.MaxTokens = cfg.Retrieval.MaxTokens
	}
	if cfg.Retrieval.Overlap > 0 {
		settings.Retrieval.Overlap = cfg.Retrieval.Overlap
	}
	if cfg.Retrieval.EscalationThreshold > 0 {
		settings.Retrieval.EscalationThreshold = cfg.Retrieval.EscalationThreshold
	}

	if cfg.QdrantURL != "" {
		settings.QdrantURL = cfg.QdrantURL
	}
	if cfg.Collection != "" {
		settings.Collection = cfg.Collection
	}
	if cfg.DataDir != "" {
		settings.DataDir = cfg.DataDir
	}
	if cfg.StorageDir != "" {
		settings.StorageDir = cfg.StorageDir
	}
	if cfg.DefaultCourseID != "" {
		settings.DefaultCourseID = cfg.DefaultCourseID
	}
}

// applyEnv lets environment API keys override the file so secrets can
// stay out of it entirely.
func applyEnv(settings *domain.AppSettings) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if settings.Embedding.APIKey == "" {
			settings.Embedding.APIKey = key
		}
		if settings.Generation.APIKey == "" {
			settings.Generation.APIKey = key
		}
	}
	if url := os.Getenv("QDRANT_URL"); url != "" {
		settings.QdrantURL = url
	}
}
