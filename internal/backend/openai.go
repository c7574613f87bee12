package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Settings configure the OpenAI-compatible chat completion client.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string        // empty keeps the provider default
	Timeout time.Duration // per-request deadline; zero means no extra deadline
}

// OpenAIGenerator implements Generator against any OpenAI-compatible chat
// completions endpoint.
type OpenAIGenerator struct {
	model   string
	timeout time.Duration
	opts    []option.RequestOption
}

// NewOpenAIGenerator validates settings and builds a generator.
func NewOpenAIGenerator(settings Settings) (*OpenAIGenerator, error) {
	if strings.TrimSpace(settings.APIKey) == "" {
		return nil, &BackendError{Kind: KindAuth, Message: "api key missing; set LECTIO_API_KEY or OPENAI_API_KEY"}
	}
	if strings.TrimSpace(settings.Model) == "" {
		return nil, fmt.Errorf("backend: model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(settings.APIKey)}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}
	return &OpenAIGenerator{
		model:   settings.Model,
		timeout: settings.Timeout,
		opts:    opts,
	}, nil
}

// Generate runs one chat completion. Failures come back classified.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	client := openai.NewClient(g.opts...)
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Result{}, Classify(err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, &BackendError{Kind: KindRejected, Message: "empty completion"}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return Result{}, &BackendError{Kind: KindRejected, Message: "blank completion"}
	}

	return Result{
		Content:   content,
		WordCount: CountWords(content),
		Model:     resp.Model,
		Duration:  time.Since(start),
	}, nil
}
