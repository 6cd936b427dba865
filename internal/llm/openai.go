package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

const (
	initialBackoff   = 1 * time.Second
	rateLimitFactor  = 5
	maxRateLimitWait = 60 * time.Second
)

// chatClient is the slice of the OpenAI client the gateway uses.
// Tests substitute a fake to exercise the retry machine without a network.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGateway implements Gateway against the OpenAI chat-completions API
type OpenAIGateway struct {
	client  chatClient
	limiter *Limiter
	log     *zap.Logger

	modelName      string
	defaultTimeout time.Duration
	maxAttempts    int

	// sleep is swapped out in tests to observe backoff without real waits
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOpenAIGateway constructs the gateway from configuration.
// The returned value is safe for concurrent use and is meant to be created
// once at process start and injected into the pipeline.
func NewOpenAIGateway(cfg model.LLMConfig, log *zap.Logger) (*OpenAIGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4o
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIGateway{
		client:         openai.NewClientWithConfig(clientConfig),
		limiter:        NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		log:            log,
		modelName:      modelName,
		defaultTimeout: timeout,
		maxAttempts:    maxAttempts,
		sleep:          sleepCtx,
	}, nil
}

// Invoke executes one model call with timeout, retry, and backoff.
// A non-error return is always a non-empty, trimmed string.
func (g *OpenAIGateway) Invoke(ctx context.Context, req Request) (string, error) {
	chatReq := g.buildRequest(req)

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = g.defaultTimeout
	}

	backoff := initialBackoff
	var lastErr *GatewayError

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx, g.modelName); err != nil {
			return "", &GatewayError{Kind: FailConnection, Attempts: attempt, Err: err}
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := g.client.CreateChatCompletion(callCtx, chatReq)
		cancel()

		if err == nil {
			text, contentErr := contentOf(resp)
			if contentErr == nil {
				return text, nil
			}
			err = contentErr
		}

		lastErr = classify(err)
		lastErr.Attempts = attempt

		if !lastErr.Kind.Retryable() || attempt == g.maxAttempts {
			return "", lastErr
		}

		delay := backoff
		if lastErr.Kind == FailRateLimited {
			delay = backoff * rateLimitFactor
			if delay > maxRateLimitWait {
				delay = maxRateLimitWait
			}
		}

		g.log.Warn("model call failed, retrying",
			zap.String("kind", string(lastErr.Kind)),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxAttempts),
			zap.Duration("backoff", delay))

		if err := g.sleep(ctx, delay); err != nil {
			lastErr.Err = err
			return "", lastErr
		}
		backoff *= 2
	}

	return "", lastErr
}

func (g *OpenAIGateway) buildRequest(req Request) openai.ChatCompletionRequest {
	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	if len(req.Images) > 0 {
		parts := make([]openai.ChatMessagePart, 0, len(req.Images)+1)
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: req.Text,
		})
		for _, img := range req.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: img.URL},
			})
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Text,
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:     g.modelName,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}

	// Structured extraction always runs deterministically
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
		chatReq.Temperature = 0
	} else {
		chatReq.Temperature = req.Temperature
	}

	return chatReq
}

// contentOf validates the API response down to a usable non-empty string
func contentOf(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Kind: FailMalformed, Err: errors.New("response contains no choices")}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &GatewayError{Kind: FailMalformed, Err: errors.New("response choice has empty content")}
	}
	return text, nil
}

// classify maps transport and API errors into the failure taxonomy
func classify(err error) *GatewayError {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: FailTimeout, Err: err}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &GatewayError{Kind: FailTimeout, Err: err}
		}
		return &GatewayError{Kind: FailConnection, Err: err}
	}

	return &GatewayError{Kind: FailConnection, Err: err}
}

func classifyStatus(status int, err error) *GatewayError {
	switch {
	case status == 401 || status == 403:
		return &GatewayError{Kind: FailAuth, Err: err}
	case status == 429:
		return &GatewayError{Kind: FailRateLimited, Err: err}
	case status == 408 || status == 504:
		return &GatewayError{Kind: FailTimeout, Err: err}
	case status >= 500:
		return &GatewayError{Kind: FailConnection, Err: err}
	case status >= 400:
		return &GatewayError{Kind: FailBadRequest, Err: err}
	default:
		return &GatewayError{Kind: FailConnection, Err: err}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
