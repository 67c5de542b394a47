package briefing

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const draftSystemPrompt = `You write concise pre-flight sortie briefs for research aircraft crews.
Given a route table, write two or three short paragraphs covering the transit
out, the science legs and the recovery. Use the waypoint codes, times and
altitudes exactly as given. Do not invent weather, NOTAMs or frequencies.`

// Drafter writes the narrative section of a brief from the rendered table
type Drafter interface {
	Draft(ctx context.Context, brief string) (string, error)
}

// OpenAIDrafter drafts narratives with a chat completion model
type OpenAIDrafter struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAIDrafter creates a drafter for the given API key and model
func NewOpenAIDrafter(apiKey, model string, maxTokens int, opts ...option.RequestOption) *OpenAIDrafter {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIDrafter{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Draft asks the model for a narrative of the brief
func (d *OpenAIDrafter) Draft(ctx context.Context, brief string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(d.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(draftSystemPrompt),
			openai.UserMessage(brief),
		},
	}
	if d.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(d.maxTokens))
	}

	resp, err := d.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to draft brief: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("failed to draft brief: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
