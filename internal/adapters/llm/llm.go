// Package llm wraps an OpenAI-compatible chat completions endpoint as the
// last strategy of the answer chain and as the synthesizer of retrieved
// context.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/okian/medals/pkg/logger"
	"github.com/okian/medals/pkg/metrics"
)

// SystemPrompt frames every completion.
const SystemPrompt = "Eres un asistente experto en el medallero de los Juegos Olímpicos de verano. " +
	"Responde en español, de forma breve y precisa. " +
	"Si se te da un contexto, usa solo esa información y di que no lo sabes cuando no alcance."

// Generator produces an answer for prompt, grounded in optional context.
type Generator interface {
	Generate(ctx context.Context, prompt, contextText string) (string, error)
}

// OpenAIGenerator calls chat completions through openai-go.
type OpenAIGenerator struct {
	client      openai.Client
	model       string
	temperature float64
	timeout     time.Duration
	attempts    uint
	delay       time.Duration
	log         logger.Logger
}

// NewOpenAI creates a generator. It returns ErrNotConfigured without an
// API key.
func NewOpenAI(apiKey string, opts ...Option) (*OpenAIGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	cfg := settings{
		model:       "gemini-2.5-flash",
		temperature: 0.2,
		timeout:     30 * time.Second,
		attempts:    3,
		delay:       time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Nop()
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(cfg.httpClient))
	}

	return &OpenAIGenerator{
		client:      openai.NewClient(clientOpts...),
		model:       cfg.model,
		temperature: cfg.temperature,
		timeout:     cfg.timeout,
		attempts:    cfg.attempts,
		delay:       cfg.delay,
		log:         cfg.log,
	}, nil
}

// Generate sends one completion. Rate limits and server errors are retried
// with backoff; other API errors are returned at once.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	start := time.Now()
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(userMessage(prompt, contextText)),
		},
		Temperature: openai.Float(g.temperature),
	}

	text, err := retry.DoWithData(
		func() (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()
			resp, err := g.client.Chat.Completions.New(callCtx, params)
			if err != nil {
				if !retryable(err) {
					return "", retry.Unrecoverable(err)
				}
				return "", err
			}
			if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
				return "", retry.Unrecoverable(ErrEmptyCompletion)
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		},
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.Delay(g.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			g.log.Warn(ctx, "retrying completion", logger.Int("attempt", int(n)+1), logger.Error(err))
		}),
	)
	metrics.RecordLLMLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordLLMError()
		return "", fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return text, nil
}

// userMessage follows the prompt layout used for retrieval augmented
// answers: instructions, context block, question.
func userMessage(prompt, contextText string) string {
	if strings.TrimSpace(contextText) == "" {
		return prompt
	}
	return "Usa la siguiente información del medallero olímpico para responder de forma breve y precisa.\n\n" +
		"Contexto:\n" + contextText + "\n\n" +
		"Pregunta: " + prompt
}

func retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}
