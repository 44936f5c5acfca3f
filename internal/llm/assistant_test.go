package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	prompt string
	tier   ModelTier
	reply  string
	err    error
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier ModelTier) (string, error) {
	f.prompt = prompt
	f.tier = tier
	return f.reply, f.err
}

func (f *fakeClient) Close() error { return nil }

func testProfile() Profile {
	return Profile{
		Name:       "Eli",
		Education:  "High School",
		Skills:     []string{"Cooking", "Driving"},
		Experience: 2,
		Location:   "Hoboken Terminal",
	}
}

func TestAssistant_Answer(t *testing.T) {
	client := &fakeClient{reply: "Try the barista job."}
	a := NewAssistant(client)

	answer, err := a.Answer(context.Background(), testProfile(),
		[]Listing{{Title: "Barista", CompanyName: "Brew Co", TimeSlot: "Mornings", Salary: "$15/hr"}},
		[]Turn{{Question: "Hi", Answer: "Hello"}},
		"  What suits me?  ")
	require.NoError(t, err)
	assert.Equal(t, "Try the barista job.", answer)
	assert.Equal(t, TierStandard, client.tier)

	assert.Contains(t, client.prompt, "- Name: Eli")
	assert.Contains(t, client.prompt, "- Skills: Cooking, Driving")
	assert.Contains(t, client.prompt, "- Barista at Brew Co (Mornings), $15/hr")
	assert.Contains(t, client.prompt, "Q: Hi\nA: Hello")
	assert.Contains(t, client.prompt, "Question: What suits me?")
	assert.NotContains(t, client.prompt, "{{.")
}

func TestAssistant_EmptyQuestion(t *testing.T) {
	client := &fakeClient{}
	_, err := NewAssistant(client).Answer(context.Background(), testProfile(), nil, nil, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, client.prompt)
}

func TestAssistant_ClientError(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := NewAssistant(&fakeClient{err: boom}).Answer(context.Background(), testProfile(), nil, nil, "Hi")
	assert.ErrorIs(t, err, boom)
}

func TestAssistant_PromptPlaceholders(t *testing.T) {
	a := NewAssistant(&fakeClient{})

	prompt, err := a.Prompt(Profile{}, nil, nil, "Hi")
	require.NoError(t, err)
	assert.Contains(t, prompt, "(no open jobs right now)")
	assert.Contains(t, prompt, "(this is the first question)")
	assert.Contains(t, prompt, "- Name: -")
	assert.Contains(t, prompt, "- Experience: 0 year(s)")
}

func TestAssistant_PromptTruncates(t *testing.T) {
	var jobs []Listing
	for i := 0; i < MaxPromptJobs+5; i++ {
		jobs = append(jobs, Listing{Title: fmt.Sprintf("Job%02d", i)})
	}
	var history []Turn
	for i := 0; i < MaxPromptHistory+3; i++ {
		history = append(history, Turn{Question: fmt.Sprintf("q%d", i), Answer: "a"})
	}

	prompt, err := NewAssistant(&fakeClient{}).Prompt(testProfile(), jobs, history, "Hi")
	require.NoError(t, err)

	assert.Equal(t, MaxPromptJobs, strings.Count(prompt, "- Job"))
	assert.NotContains(t, prompt, "Job10")
	assert.NotContains(t, prompt, "Q: q0\n")
	assert.Contains(t, prompt, "Q: q7\n")
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestResponseText(t *testing.T) {
	for _, resp := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}}}}},
	} {
		_, err := responseText(resp)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	}

	text, err := responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{
			Parts: []genai.Part{genai.Text("Hello "), genai.Text("there\n")},
		}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
}
