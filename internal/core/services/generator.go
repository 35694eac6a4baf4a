package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/core/ports/driving"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// Ensure ContentGenerator implements the interface.
var _ driving.ContentGenerator = (*ContentGenerator)(nil)

// Generation parameters for post drafting.
const (
	postMaxTokens   = 600
	postTemperature = 0.7
)

// Built-in prompt templates, used when the prompt store has no override.
const (
	DefaultPostPrompt       = domain.DefaultPostPrompt
	DefaultPostSystemPrompt = domain.DefaultPostSystemPrompt
)

// ContentGenerator drafts post text from keywords using an LLM.
type ContentGenerator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewContentGenerator creates a generator. prompts may be nil, in which case
// the built-in templates are used.
func NewContentGenerator(llm driven.LLMService, prompts driven.PromptStore) *ContentGenerator {
	return &ContentGenerator{
		llm:     llm,
		prompts: prompts,
	}
}

// Generate produces a post about keywords. The result carries at least
// MinHashtags distinct hashtags.
func (g *ContentGenerator) Generate(ctx context.Context, keywords []string) (string, error) {
	keywords = domain.CleanKeywords(keywords)
	if len(keywords) == 0 {
		return "", domain.ErrNoKeywords
	}
	if g.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrLLMUnavailable)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: g.systemPrompt()},
		{Role: "user", Content: fmt.Sprintf(g.userTemplate(), strings.Join(keywords, ", "))},
	}

	logger.Debug("Generating post with %s for %d keywords", g.llm.ModelName(), len(keywords))
	text, err := g.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   postMaxTokens,
		Temperature: postTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, errors.New("model returned no content"))
	}

	return AugmentHashtags(text, keywords, MinHashtags), nil
}

// Hashtags returns up to limit hashtags for keywords.
func (g *ContentGenerator) Hashtags(keywords []string, limit int) string {
	return BuildHashtags(keywords, limit)
}

func (g *ContentGenerator) userTemplate() string {
	if g.prompts == nil {
		return DefaultPostPrompt
	}
	tmpl, err := g.prompts.Load(driven.PromptPost)
	if err != nil || strings.Count(tmpl, "%s") != 1 {
		if err == nil {
			logger.Warn("Prompt %q must contain exactly one %%s, using built-in prompt", driven.PromptPost)
		}
		return DefaultPostPrompt
	}
	return tmpl
}

func (g *ContentGenerator) systemPrompt() string {
	if g.prompts == nil {
		return DefaultPostSystemPrompt
	}
	p, err := g.prompts.Load(driven.PromptPostSystem)
	if err != nil || strings.TrimSpace(p) == "" {
		return DefaultPostSystemPrompt
	}
	return p
}
