// Package enrich adds an optional LLM-generated outreach note to verified
// records. It runs after filtering and never changes which records are kept.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/contactsift/internal/model"
	"github.com/sashabaranov/go-openai"
)

// completionFunc performs one chat completion (injectable for tests)
type completionFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

// Noter generates a short outreach note per verified record
type Noter struct {
	complete completionFunc
	model    string
}

// NewNoter creates a noter from the enrich section of the configuration
func NewNoter(cfg model.EnrichConfig) (*Noter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	noteModel := cfg.Model
	if noteModel == "" {
		noteModel = openai.GPT4oMini
	}

	return &Noter{
		complete: client.CreateChatCompletion,
		model:    noteModel,
	}, nil
}

// Note produces a one-sentence opener for the given record. Failures return
// an error and an empty note; the caller decides whether to warn or skip.
func (n *Noter) Note(ctx context.Context, result *model.SiteResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := buildPrompt(result)

	resp, err := n.complete(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write one-sentence, factual cold-outreach openers. Mention only what the input states. No greetings, no placeholders.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   120,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// NoteAll generates notes aligned with results. A failed note becomes an
// empty string; enrichment problems never drop a record.
func (n *Noter) NoteAll(ctx context.Context, results []*model.SiteResult, warn func(website string, err error)) []string {
	notes := make([]string, len(results))
	for i, result := range results {
		note, err := n.Note(ctx, result)
		if err != nil {
			if warn != nil {
				warn(result.Website, err)
			}
			continue
		}
		notes[i] = note
	}
	return notes
}

func buildPrompt(result *model.SiteResult) string {
	var sb strings.Builder
	sb.WriteString("Business website: ")
	sb.WriteString(result.Website)
	sb.WriteString("\nContact emails: ")
	sb.WriteString(strings.Join(result.Emails, ", "))
	if len(result.SocialLinks) > 0 {
		sb.WriteString("\nSocial profiles: ")
		sb.WriteString(strings.Join(result.SocialLinks, ", "))
	}
	sb.WriteString("\n\nWrite the opener.")
	return sb.String()
}
