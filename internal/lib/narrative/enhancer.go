// Package narrative turns a structured analysis into a conversational
// commuter briefing using an LLM. The structured output stays authoritative;
// the narrative is presentation only.
package narrative

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/explain"
)

// Enhancer produces a natural-language briefing from an analysis.
type Enhancer interface {
	EnhanceExplanation(ctx context.Context, out explain.Output) (string, error)
}

type openAIEnhancer struct {
	client *openai.Client
	model  string
}

// NewEnhancer creates an OpenAI-backed Enhancer. With an empty API key the
// enhancer is constructed but every call returns an error, so callers can
// wire it unconditionally and degrade at request time.
func NewEnhancer(apiKey, model string) Enhancer {
	if apiKey == "" {
		return &openAIEnhancer{client: nil, model: model}
	}
	return &openAIEnhancer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const systemPrompt = `You are a traffic analyst for Bangalore who explains congestion to commuters in plain language. You are given a structured, evidence-backed analysis. Rewrite it as a short conversational briefing (3-5 sentences). Never invent numbers or causes that are not in the analysis; keep every percentage and category exactly as given. Mention the confidence grade only when it is C or D.`

// EnhanceExplanation renders the analysis report through the model and
// returns the narrative text.
func (e *openAIEnhancer) EnhanceExplanation(ctx context.Context, out explain.Output) (string, error) {
	if e.client == nil {
		return "", errors.New("OpenAI client not initialized - no API key configured")
	}

	userPrompt := fmt.Sprintf("Write the commuter briefing for this analysis:\n\n%s", explain.FormatForDisplay(out))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.4,
		MaxTokens:   400,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI API")
	}

	return resp.Choices[0].Message.Content, nil
}
