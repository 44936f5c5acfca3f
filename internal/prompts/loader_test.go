package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	reset()

	prompt, err := Get(AssistantFile, "career-assistant")
	require.NoError(t, err)
	assert.Contains(t, prompt, "career assistant")
	assert.Contains(t, prompt, "{{.Question}}")

	_, err = Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")

	_, err = Get(AssistantFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `assistant.json: prompt key "nonexistent-key" not found`)
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotPanics(t, func() { assert.NotEmpty(t, MustGet(AssistantFile, "no-jobs")) })
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{"single", "Hi {{.Name}}", map[string]string{"Name": "Eli"}, "Hi Eli"},
		{"repeated", "{{.A}}-{{.A}}", map[string]string{"A": "x"}, "x-x"},
		{"missing value kept", "{{.A}} {{.B}}", map[string]string{"A": "1"}, "1 {{.B}}"},
		{"value with braces not re-expanded", "{{.A}}", map[string]string{"A": "{{.B}}", "B": "no"}, "{{.B}}"},
		{"nil data", "plain", nil, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestRender(t *testing.T) {
	out, err := Render(AssistantFile, "career-assistant", map[string]string{"Question": "Where can I work?"})
	require.NoError(t, err)
	assert.Contains(t, out, "Question: Where can I work?")
	assert.NotContains(t, out, "{{.Question}}")

	_, err = Render(AssistantFile, "missing", nil)
	assert.Error(t, err)
}

func TestLoad_CachesAndListsKeys(t *testing.T) {
	reset()

	set, err := Load(AssistantFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"career-assistant", "no-history", "no-jobs"}, set.Keys())

	_, cached := loaded.Load(AssistantFile)
	assert.True(t, cached)

	reset()
	_, cached = loaded.Load(AssistantFile)
	assert.False(t, cached)
}
