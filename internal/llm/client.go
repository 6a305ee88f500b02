package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Image is an inline picture attached to a message.
type Image struct {
	MIMEType string
	Data     []byte
}

type Message struct {
	Role    string
	Content string
	Images  []Image
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// ErrNotConfigured is returned by the disabled client used when no
// credentials are present.
var ErrNotConfigured = errors.New("llm: api key is not configured")

// ErrImagesUnsupported is returned by providers without vision input.
var ErrImagesUnsupported = errors.New("llm: provider does not accept images")

type disabledClient struct{}

// Disabled returns a Client whose every call fails with ErrNotConfigured.
func Disabled() Client { return disabledClient{} }

func (disabledClient) Generate(context.Context, []Message) (Response, error) {
	return Response{}, ErrNotConfigured
}
