package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendHosted = "hosted"
	BackendLocal  = "local"
	BackendOllama = "ollama"
)

const (
	// APIKeyEnv holds the bearer key for the hosted backend.
	APIKeyEnv = "DEEPSEEK_API_KEY"

	// DefaultOllamaModel is used for every stage on the ollama backend.
	DefaultOllamaModel = "llama3.2:latest"

	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = ".xpostgen.yaml"

	// xdgConfigFile is looked up under $XDG_CONFIG_HOME and the XDG config dirs.
	xdgConfigFile = "xpostgen/config.yaml"
)

// Stage names a model-backed pipeline step.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageSummarize Stage = "summarize"
	StageGenerate  Stage = "generate"
)

// Stages lists the model-backed steps in pipeline order.
var Stages = []Stage{StageExtract, StageSummarize, StageGenerate}

// StageModel selects the model and sampling settings for one stage.
type StageModel struct {
	Name        string
	Temperature float64
	MaxTokens   int
}

// ModelSet holds the per-stage model choice of a backend.
type ModelSet struct {
	Extract   StageModel
	Summarize StageModel
	Generate  StageModel
}

// For returns the model configured for stage.
func (m *ModelSet) For(stage Stage) *StageModel {
	switch stage {
	case StageExtract:
		return &m.Extract
	case StageSummarize:
		return &m.Summarize
	case StageGenerate:
		return &m.Generate
	}
	return nil
}

// DefaultModels returns the stock model set of backend.
func DefaultModels(backend string) (ModelSet, error) {
	switch backend {
	case BackendHosted:
		return ModelSet{
			Extract:   StageModel{Name: "deepseek-chat", Temperature: 1.0},
			Summarize: StageModel{Name: "deepseek-chat", Temperature: 1.5},
			Generate:  StageModel{Name: "deepseek-reasoner", Temperature: 1.5},
		}, nil
	case BackendLocal:
		return ModelSet{
			Extract:   StageModel{Name: "google/gemma-3-4b", Temperature: 1.0, MaxTokens: 20000},
			Summarize: StageModel{Name: "google/gemma-3-1b", Temperature: 1.5, MaxTokens: 20000},
			Generate:  StageModel{Name: "google/gemma-3-4b", Temperature: 1.5, MaxTokens: 4000},
		}, nil
	case BackendOllama:
		return ModelSet{
			Extract:   StageModel{Name: DefaultOllamaModel, Temperature: 1.0},
			Summarize: StageModel{Name: DefaultOllamaModel, Temperature: 1.5},
			Generate:  StageModel{Name: DefaultOllamaModel, Temperature: 1.5},
		}, nil
	default:
		return ModelSet{}, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Config is everything a run needs. It is built once at startup and passed
// explicitly; nothing reads process state after that.
type Config struct {
	Backend string
	// BaseURL is the backend endpoint; empty selects the backend default.
	BaseURL      string
	APIKey       string
	ExamplesPath string
	HTMLMode     string
	// Language is requested for summary and post; empty lets the model choose.
	Language     string
	FetchTimeout time.Duration
	Models       ModelSet
}

// DefaultConfig returns the stock configuration of backend.
func DefaultConfig(backend string) (Config, error) {
	models, err := DefaultModels(backend)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Backend:      backend,
		ExamplesPath: DefaultExamplesFile,
		HTMLMode:     HTMLModeRaw,
		Models:       models,
	}
	if backend == BackendHosted {
		cfg.Language = "english"
	}
	return cfg, nil
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendHosted:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	case BackendLocal, BackendOllama:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	switch c.HTMLMode {
	case HTMLModeRaw, HTMLModeStrip, HTMLModeReadability:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownHTMLMode, c.HTMLMode)
	}
	if c.FetchTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// File is the on-disk YAML configuration. Unset fields keep their defaults.
type File struct {
	Backend      string                  `yaml:"backend"`
	BaseURL      string                  `yaml:"base_url"`
	Examples     string                  `yaml:"examples"`
	HTMLMode     string                  `yaml:"html_mode"`
	Language     *string                 `yaml:"language"`
	FetchTimeout time.Duration           `yaml:"fetch_timeout"`
	Models       map[Stage]StageOverride `yaml:"models"`
}

// StageOverride replaces parts of a stage's default model settings.
type StageOverride struct {
	Name        string   `yaml:"name"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`
}

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads a YAML configuration file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	for stage := range f.Models {
		if (&ModelSet{}).For(stage) == nil {
			return nil, fmt.Errorf("invalid config %s: unknown stage %q", path, stage)
		}
	}
	return &f, nil
}

// FindConfigFile returns the configuration file to load, or "" if none:
// an explicit path always wins, then DefaultConfigFile in the working
// directory, then xpostgen/config.yaml in the XDG config directories.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if p, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return p
	}
	return ""
}

// Overrides carries command-line values; nil fields were not given.
type Overrides struct {
	Backend      *string
	BaseURL      *string
	ExamplesPath *string
	HTMLMode     *string
	Language     *string
	FetchTimeout *time.Duration
}

// BuildConfig layers defaults, the config file (may be nil), the
// environment and command-line overrides, then validates the result.
func BuildConfig(file *File, o Overrides, getenv func(string) string) (Config, error) {
	if file == nil {
		file = &File{}
	}

	backend := BackendHosted
	if file.Backend != "" {
		backend = file.Backend
	}
	if o.Backend != nil {
		backend = *o.Backend
	}

	cfg, err := DefaultConfig(backend)
	if err != nil {
		return Config{}, err
	}
	file.apply(&cfg)
	o.apply(&cfg)
	if backend == BackendHosted {
		cfg.APIKey = getenv(APIKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f *File) apply(cfg *Config) {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.Examples != "" {
		cfg.ExamplesPath = f.Examples
	}
	if f.HTMLMode != "" {
		cfg.HTMLMode = f.HTMLMode
	}
	if f.Language != nil {
		cfg.Language = *f.Language
	}
	if f.FetchTimeout != 0 {
		cfg.FetchTimeout = f.FetchTimeout
	}
	for stage, ov := range f.Models {
		m := cfg.Models.For(stage)
		if m == nil {
			continue
		}
		if ov.Name != "" {
			m.Name = ov.Name
		}
		if ov.Temperature != nil {
			m.Temperature = *ov.Temperature
		}
		if ov.MaxTokens != nil {
			m.MaxTokens = *ov.MaxTokens
		}
	}
}

func (o Overrides) apply(cfg *Config) {
	if o.BaseURL != nil {
		cfg.BaseURL = *o.BaseURL
	}
	if o.ExamplesPath != nil {
		cfg.ExamplesPath = *o.ExamplesPath
	}
	if o.HTMLMode != nil {
		cfg.HTMLMode = *o.HTMLMode
	}
	if o.Language != nil {
		cfg.Language = *o.Language
	}
	if o.FetchTimeout != nil {
		cfg.FetchTimeout = *o.FetchTimeout
	}
}
