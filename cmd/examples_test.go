package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExamplesKeepsOrder(t *testing.T) {
	path := writeExamples(t, testExamples)

	examples, err := LoadExamples(path)
	require.NoError(t, err)
	assert.Equal(t, testExamples, examples)
}

func TestLoadExamplesMissingFile(t *testing.T) {
	_, err := LoadExamples(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrExamples)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadExamplesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"topic": "not an array"`), 0644))

	_, err := LoadExamples(path)
	assert.ErrorIs(t, err, ErrExamples)
	assert.Contains(t, err.Error(), path)
}

func TestBundledExamplesFile(t *testing.T) {
	examples, err := LoadExamples(filepath.Join("..", DefaultExamplesFile))
	require.NoError(t, err)
	assert.NotEmpty(t, examples)
	for _, ex := range examples {
		assert.NotEmpty(t, ex.Topic)
		assert.NotEmpty(t, ex.Post)
	}
}
