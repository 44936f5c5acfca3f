// Package prompts holds the language model prompt templates. Each JSON file
// maps a key to a template with {{.Name}} placeholders and is embedded into
// the binary.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// AssistantFile holds the career assistant prompts.
const AssistantFile = "assistant.json"

//go:embed *.json
var files embed.FS

// loaded caches parsed files by name.
var loaded sync.Map

// Set is the parsed contents of one prompt file.
type Set map[string]string

// Load returns the prompts in filename, parsing it on first use.
func Load(filename string) (Set, error) {
	if set, ok := loaded.Load(filename); ok {
		return set.(Set), nil
	}

	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	actual, _ := loaded.LoadOrStore(filename, set)
	return actual.(Set), nil
}

// Get returns the template stored under key.
func (s Set) Get(key string) (string, error) {
	template, ok := s[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return template, nil
}

// Keys returns the prompt keys, sorted.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	template, err := set.Get(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filename, err)
	}
	return template, nil
}

// MustGet is Get for prompts that ship with the binary. It panics on error.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Format replaces {{.Key}} placeholders with values from data. Placeholders
// without a value are left as they are; values are not expanded again.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render is Get followed by Format.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

// reset drops every cached file.
func reset() {
	loaded.Clear()
}
