package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/fwojciec/minerva"
)

// Interface compliance checks.
var (
	_ minerva.Provider   = (*Client)(nil)
	_ minerva.Summarizer = (*Client)(nil)
)

// Client implements [minerva.Provider] and [minerva.Summarizer] for the
// Google Gemini API.
type Client struct {
	client     *genai.Client
	chatModel  string
	titleModel string
}

// Option configures a [Client].
type Option func(*Client)

// WithChatModel sets the chat model ID. Default is gemini-2.5-flash.
func WithChatModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.chatModel = model
		}
	}
}

// WithTitleModel sets the title summarization model ID.
// Default is gemini-2.5-flash-lite.
func WithTitleModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.titleModel = model
		}
	}
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client:     gc,
		chatModel:  defaultChatModel,
		titleModel: defaultTitleModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Stream sends the conversation to the Gemini API and returns a stream of
// reply chunks.
func (c *Client) Stream(ctx context.Context, req minerva.Request) (minerva.ChunkStream, error) {
	model := req.Model
	if model == "" {
		model = c.chatModel
	}
	contents := ConvertHistory(req.History, req.Prompt)
	iter := c.client.Models.GenerateContentStream(ctx, model, contents, buildConfig(req))
	return newStream(iter), nil
}

// Summarize generates a short conversation title from its first message.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(titlePromptFormat, text)
	resp, err := c.client.Models.GenerateContent(ctx, c.titleModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func buildConfig(req minerva.Request) *genai.GenerateContentConfig {
	prompt := req.SystemPrompt
	if prompt == "" {
		prompt = systemInstruction
	}
	return &genai.GenerateContentConfig{
		// Google Search grounding is what produces citation metadata.
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
}

// ConvertHistory converts the conversation to genai Contents, with the new
// prompt as the final user content. Assistant placeholders that never
// received content are skipped. Exported for testing.
func ConvertHistory(history []minerva.Message, prompt string) []*genai.Content {
	var result []*genai.Content
	for _, msg := range history {
		if msg.IsLoading {
			continue
		}
		role := "user"
		if msg.Role == minerva.RoleAssistant {
			role = "model"
		}
		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return append(result, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	})
}
