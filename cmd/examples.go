package cmd

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultExamplesFile is read from the working directory unless overridden.
const DefaultExamplesFile = "post-examples.json"

// Example is a stored topic and post pair used only as a style reference.
type Example struct {
	Topic string `json:"topic"`
	Post  string `json:"post"`
}

// LoadExamples reads a JSON array of examples, keeping file order.
func LoadExamples(path string) ([]Example, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided examples path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExamples, err)
	}
	var examples []Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExamples, path, err)
	}
	return examples, nil
}
