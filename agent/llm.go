package agent

import (
	"context"
	"errors"
	"net/http"

	"github.com/kataras/golog"
	openai "github.com/sashabaranov/go-openai"
)

// LLM is the single indirection point for answer generation. All four
// pipeline stages go through it.
type LLM interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// OpenAI implements LLM on top of the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI backend with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  openai.GPT3Dot5Turbo,
	}
}

// Generate runs one chat completion with a system and a user message.
func (o *OpenAI) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// complete calls the configured backend and substitutes the deterministic
// offline response when no backend is configured or the call fails. The
// pipeline stays runnable fully offline.
func (a *Agent) complete(ctx context.Context, system, user, offline string) string {
	if a.llm == nil {
		return offline
	}

	out, err := a.llm.Generate(ctx, system, user)
	if err != nil {
		if isBackendUnavailable(err) {
			golog.Warnf("llm: backend unavailable, using offline stub: %v", err)
		} else {
			golog.Warnf("llm: call failed, using offline stub: %v", err)
		}
		return offline
	}
	return out
}

// isBackendUnavailable recognizes auth, quota, rate-limit and transport
// errors from the OpenAI client.
func isBackendUnavailable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			return true
		}
		return apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	var reqErr *openai.RequestError
	return errors.As(err, &reqErr)
}
