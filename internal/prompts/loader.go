// Package prompts provides a loader for externalized LLM prompt
// templates. Prompts are stored as JSON files and embedded at compile
// time so the binary is self-contained.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	mu    sync.Mutex
	files = make(map[string]map[string]string)
)

// Get retrieves a prompt by filename and key. The filename should not
// include a path (e.g. "generation.json").
func Get(filename, key string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	table, ok := files[filename]
	if !ok {
		data, err := promptFiles.ReadFile(filename)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file %s: %w", filename, err)
		}
		if err := json.Unmarshal(data, &table); err != nil {
			return "", fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
		}
		files[filename] = table
	}

	prompt, ok := table[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet retrieves a prompt by filename and key, panicking if not
// found. Use this for prompts that are required at initialization time.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// ClearCache drops parsed prompt files. Useful for testing.
func ClearCache() {
	mu.Lock()
	files = make(map[string]map[string]string)
	mu.Unlock()
}
