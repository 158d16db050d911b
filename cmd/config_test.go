package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envWith(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func strPtr(s string) *string { return &s }

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := BuildConfig(nil, Overrides{}, envWith(map[string]string{APIKeyEnv: "sk-abc"}))
	require.NoError(t, err)

	assert.Equal(t, BackendHosted, cfg.Backend)
	assert.Equal(t, "sk-abc", cfg.APIKey)
	assert.Equal(t, DefaultExamplesFile, cfg.ExamplesPath)
	assert.Equal(t, HTMLModeRaw, cfg.HTMLMode)
	assert.Equal(t, "english", cfg.Language)
	assert.Equal(t, "deepseek-chat", cfg.Models.Extract.Name)
	assert.Equal(t, 1.0, cfg.Models.Extract.Temperature)
	assert.Equal(t, 1.5, cfg.Models.Summarize.Temperature)
	assert.Equal(t, "deepseek-reasoner", cfg.Models.Generate.Name)
	assert.Equal(t, 1.5, cfg.Models.Generate.Temperature)
}

func TestBuildConfigLocalBackend(t *testing.T) {
	cfg, err := BuildConfig(nil, Overrides{Backend: strPtr(BackendLocal)}, envWith(nil))
	require.NoError(t, err)

	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.Language)
	assert.Equal(t, StageModel{Name: "google/gemma-3-4b", Temperature: 1.0, MaxTokens: 20000}, cfg.Models.Extract)
	assert.Equal(t, StageModel{Name: "google/gemma-3-1b", Temperature: 1.5, MaxTokens: 20000}, cfg.Models.Summarize)
	assert.Equal(t, StageModel{Name: "google/gemma-3-4b", Temperature: 1.5, MaxTokens: 4000}, cfg.Models.Generate)
}

func TestBuildConfigErrors(t *testing.T) {
	timeout := -time.Second
	testCases := []struct {
		name   string
		file   *File
		o      Overrides
		env    map[string]string
		target error
	}{
		{name: "hosted without key", target: ErrMissingAPIKey},
		{name: "unknown backend flag", o: Overrides{Backend: strPtr("bard")}, target: ErrUnknownBackend},
		{name: "unknown backend file", file: &File{Backend: "bard"}, target: ErrUnknownBackend},
		{name: "unknown html mode", o: Overrides{Backend: strPtr(BackendLocal), HTMLMode: strPtr("pdf")}, target: ErrUnknownHTMLMode},
		{name: "negative timeout", o: Overrides{Backend: strPtr(BackendOllama), FetchTimeout: &timeout}, target: ErrInvalidTimeout},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildConfig(tc.file, tc.o, envWith(tc.env))
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestBuildConfigPrecedence(t *testing.T) {
	temp := 0.2
	maxTokens := 1000
	file := &File{
		Backend:      BackendLocal,
		BaseURL:      "http://10.0.0.5:1234",
		Examples:     "file-examples.json",
		HTMLMode:     HTMLModeStrip,
		Language:     strPtr("french"),
		FetchTimeout: 10 * time.Second,
		Models: map[Stage]StageOverride{
			StageSummarize: {Name: "qwen2.5-7b", Temperature: &temp},
			StageGenerate:  {MaxTokens: &maxTokens},
		},
	}
	flagTimeout := 3 * time.Second
	o := Overrides{
		ExamplesPath: strPtr("flag-examples.json"),
		FetchTimeout: &flagTimeout,
	}

	cfg, err := BuildConfig(file, o, envWith(map[string]string{APIKeyEnv: "ignored"}))
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "http://10.0.0.5:1234", cfg.BaseURL)
	assert.Equal(t, "flag-examples.json", cfg.ExamplesPath)
	assert.Equal(t, HTMLModeStrip, cfg.HTMLMode)
	assert.Equal(t, "french", cfg.Language)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)

	assert.Equal(t, StageModel{Name: "google/gemma-3-4b", Temperature: 1.0, MaxTokens: 20000}, cfg.Models.Extract)
	assert.Equal(t, StageModel{Name: "qwen2.5-7b", Temperature: 0.2, MaxTokens: 20000}, cfg.Models.Summarize)
	assert.Equal(t, StageModel{Name: "google/gemma-3-4b", Temperature: 1.5, MaxTokens: 1000}, cfg.Models.Generate)

	// An explicit empty language clears the backend default.
	cfg, err = BuildConfig(&File{Language: strPtr("")}, Overrides{}, envWith(map[string]string{APIKeyEnv: "k"}))
	require.NoError(t, err)
	assert.Empty(t, cfg.Language)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `backend: ollama
base_url: http://localhost:11434
html_mode: readability
fetch_timeout: 30s
models:
  generate:
    name: gemma3:12b
    temperature: 1.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, BackendOllama, f.Backend)
	assert.Equal(t, "http://localhost:11434", f.BaseURL)
	assert.Equal(t, HTMLModeReadability, f.HTMLMode)
	assert.Equal(t, 30*time.Second, f.FetchTimeout)
	assert.Nil(t, f.Language)
	require.Contains(t, f.Models, StageGenerate)
	assert.Equal(t, "gemma3:12b", f.Models[StageGenerate].Name)
	require.NotNil(t, f.Models[StageGenerate].Temperature)
	assert.Equal(t, 1.2, *f.Models[StageGenerate].Temperature)

	cfg, err := BuildConfig(f, Overrides{}, envWith(nil))
	require.NoError(t, err)
	assert.Equal(t, StageModel{Name: "gemma3:12b", Temperature: 1.2}, cfg.Models.Generate)
	assert.Equal(t, StageModel{Name: DefaultOllamaModel, Temperature: 1.0}, cfg.Models.Extract)
}

func TestLoadConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("backend: [unclosed"), 0644))
	_, err = LoadConfigFile(bad)
	assert.Error(t, err)

	unknownStage := filepath.Join(dir, "stage.yaml")
	require.NoError(t, os.WriteFile(unknownStage, []byte("models:\n  translate:\n    name: x\n"), 0644))
	_, err = LoadConfigFile(unknownStage)
	assert.ErrorContains(t, err, "translate")
}

func TestFindConfigFile(t *testing.T) {
	assert.Equal(t, "explicit.yaml", FindConfigFile("explicit.yaml"))

	origDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(origDir)
	}()

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("backend: local\n"), 0644))

	found := FindConfigFile("")
	assert.Equal(t, DefaultConfigFile, filepath.Base(found))
}

func TestFindConfigFileXDG(t *testing.T) {
	t.Chdir(t.TempDir())
	home := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()

	assert.Empty(t, FindConfigFile(""))

	path := filepath.Join(home, "xpostgen", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("backend: ollama\n"), 0644))
	assert.Equal(t, path, FindConfigFile(""))
}
