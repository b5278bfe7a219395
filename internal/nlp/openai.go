package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/oncokg/oncograph/internal/model"
)

// OpenAIProvider implements Provider on the OpenAI Chat Completions API.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

const nerSystemPrompt = `You are a biomedical named-entity recognizer for lung cancer texts.
Extract entities of these kinds: Histology, Stage, Biomarker, Mutation, Drug, Therapy, Test, Outcome.
Respond with a JSON array only, no prose. Each element:
{"name": "...", "type": "...", "salience": 0.0-1.0, "mentions": ["span", ...]}`

// ExtractEntities asks the chat model for entities in the text.
func (p *OpenAIProvider) ExtractEntities(ctx context.Context, text string) ([]model.NLPEntity, error) {
	chatModel := p.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: nerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("openai entity extraction: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai entity extraction: empty response")
	}

	return parseEntityJSON(resp.Choices[0].Message.Content)
}

// parseEntityJSON tolerates markdown code fences around the JSON array.
func parseEntityJSON(content string) ([]model.NLPEntity, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var entities []model.NLPEntity
	if err := json.Unmarshal([]byte(content), &entities); err != nil {
		return nil, fmt.Errorf("parse entity response: %w", err)
	}
	return entities, nil
}
