package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/jobportal/internal/prompts"
)

// Prompt sizing limits. Older history and extra jobs are dropped first.
const (
	MaxPromptJobs    = 10
	MaxPromptHistory = 5
)

// ErrEmptyQuestion is returned for blank questions.
var ErrEmptyQuestion = errors.New("question is empty")

// Profile is what the assistant knows about the job seeker.
type Profile struct {
	Name       string
	Education  string
	Skills     []string
	Experience int
	Location   string
}

// Listing is an open job offered to the assistant as context.
type Listing struct {
	Title       string
	CompanyName string
	TimeSlot    string
	Salary      string
}

// Turn is one earlier question and answer.
type Turn struct {
	Question string
	Answer   string
}

// Assistant answers job seekers' questions with a language model.
type Assistant struct {
	client Client
	tier   ModelTier
}

// NewAssistant creates an assistant backed by client.
func NewAssistant(client Client) *Assistant {
	return &Assistant{client: client, tier: TierStandard}
}

// Prompt renders the full model prompt for a question.
func (a *Assistant) Prompt(p Profile, jobs []Listing, history []Turn, question string) (string, error) {
	return prompts.Render(prompts.AssistantFile, "career-assistant", map[string]string{
		"Name":       orDash(p.Name),
		"Education":  orDash(p.Education),
		"Skills":     orDash(strings.Join(p.Skills, ", ")),
		"Experience": strconv.Itoa(p.Experience),
		"Location":   orDash(p.Location),
		"Jobs":       formatListings(jobs),
		"History":    formatHistory(history),
		"Question":   strings.TrimSpace(question),
	})
}

// Answer asks the model and returns its reply.
func (a *Assistant) Answer(ctx context.Context, p Profile, jobs []Listing, history []Turn, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	prompt, err := a.Prompt(p, jobs, history, question)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	answer, err := a.client.GenerateContent(ctx, prompt, a.tier)
	if err != nil {
		return "", fmt.Errorf("assistant failed: %w", err)
	}
	return answer, nil
}

func formatListings(jobs []Listing) string {
	if len(jobs) == 0 {
		return prompts.MustGet(prompts.AssistantFile, "no-jobs")
	}
	if len(jobs) > MaxPromptJobs {
		jobs = jobs[:MaxPromptJobs]
	}

	var sb strings.Builder
	for _, j := range jobs {
		sb.WriteString("- ")
		sb.WriteString(j.Title)
		if j.CompanyName != "" {
			sb.WriteString(" at ")
			sb.WriteString(j.CompanyName)
		}
		if j.TimeSlot != "" {
			fmt.Fprintf(&sb, " (%s)", j.TimeSlot)
		}
		if j.Salary != "" {
			fmt.Fprintf(&sb, ", %s", j.Salary)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatHistory(history []Turn) string {
	if len(history) == 0 {
		return prompts.MustGet(prompts.AssistantFile, "no-history")
	}
	if len(history) > MaxPromptHistory {
		history = history[len(history)-MaxPromptHistory:]
	}

	var sb strings.Builder
	for _, t := range history {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n", t.Question, t.Answer)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
