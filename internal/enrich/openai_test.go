package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avolkov/contactsift/internal/model"
	"github.com/sashabaranov/go-openai"
)

func fakeCompletion(content string, err error) completionFunc {
	return func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		if err != nil {
			return openai.ChatCompletionResponse{}, err
		}
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: content}},
			},
		}, nil
	}
}

func TestNewNoter_RequiresAPIKey(t *testing.T) {
	if _, err := NewNoter(model.EnrichConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestNoter_Note(t *testing.T) {
	n := &Noter{complete: fakeCompletion("  Saw your site.  ", nil), model: "test"}

	result := &model.SiteResult{Website: "http://acme.com", Emails: []string{"a@acme.com"}}
	note, err := n.Note(context.Background(), result)
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	if note != "Saw your site." {
		t.Errorf("expected trimmed note, got %q", note)
	}
}

func TestNoter_NoteAll_FailureLeavesEmptyNote(t *testing.T) {
	n := &Noter{complete: fakeCompletion("", errors.New("boom")), model: "test"}

	results := []*model.SiteResult{
		{Website: "http://acme.com", Emails: []string{"a@acme.com"}},
	}

	var warned string
	notes := n.NoteAll(context.Background(), results, func(website string, err error) {
		warned = website
	})

	if len(notes) != 1 || notes[0] != "" {
		t.Errorf("expected one empty note, got %v", notes)
	}
	if warned != "http://acme.com" {
		t.Errorf("expected warning for the failed website, got %q", warned)
	}
}

func TestBuildPrompt(t *testing.T) {
	result := &model.SiteResult{
		Website:     "http://acme.com",
		Emails:      []string{"a@acme.com"},
		SocialLinks: []string{"https://facebook.com/acme"},
	}

	prompt := buildPrompt(result)
	for _, want := range []string{"http://acme.com", "a@acme.com", "facebook.com/acme"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q: %s", want, prompt)
		}
	}
}
