// Package coach is the AI seller coach: a multi-turn chat with a fixed
// persona whose transcript is persisted between restarts.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/history"
	"hensgen-helper/internal/llm"
)

const Persona = "You are an Aussie market seller coach. You provide friendly, straightforward advice on how to sell second-hand goods in Australia. Keep your tone encouraging and your tips practical. Use Australian slang where appropriate, mate."

const (
	msgFailed        = "Couldn't get a response. The AI might be having a smoko. Try again later."
	msgNotConfigured = "API key is not configured. AI features are disabled."
)

// OfflineTips are shown instead of the chat while there is no connectivity.
var OfflineTips = []string{
	"Take clear, well-lit photos.",
	"Write honest and detailed descriptions.",
	"Price competitively by checking similar items.",
}

// Client forwards one new turn together with the caller-supplied transcript.
// It keeps no session of its own.
type Client struct {
	llm llm.Client
}

func NewClient(c llm.Client) *Client {
	return &Client{llm: c}
}

func (c *Client) Send(ctx context.Context, transcript []history.Entry, utterance string) (string, error) {
	msgs := make([]llm.Message, 0, len(transcript)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: Persona})
	msgs = append(msgs, history.ToLLM(transcript)...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: utterance})

	resp, err := c.llm.Generate(ctx, msgs)
	if errors.Is(err, llm.ErrNotConfigured) {
		return "", apperr.Unavailable(msgNotConfigured, err)
	}
	if err != nil {
		return "", apperr.Unavailable(msgFailed, fmt.Errorf("chat reply: %w", err))
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", apperr.Unavailable(msgFailed, errors.New("empty chat reply"))
	}
	return text, nil
}

// Service binds the client to the persisted transcript.
type Service struct {
	client  *Client
	history *history.Manager
}

func NewService(client *Client, h *history.Manager) *Service {
	return &Service{client: client, history: h}
}

// Ask sends utterance with the full stored transcript. The (user, model) pair
// is appended only when the reply arrives; a failure leaves the transcript
// untouched.
func (s *Service) Ask(ctx context.Context, utterance string) (string, error) {
	if strings.TrimSpace(utterance) == "" {
		return "", apperr.Invalid("Ask for selling advice...")
	}
	reply, err := s.client.Send(ctx, s.history.Get(ctx), utterance)
	if err != nil {
		return "", err
	}
	if err := s.history.AppendPair(ctx, utterance, reply); err != nil {
		return reply, fmt.Errorf("save transcript: %w", err)
	}
	return reply, nil
}

func (s *Service) Transcript(ctx context.Context) []history.Entry {
	return s.history.Get(ctx)
}

func (s *Service) Reset(ctx context.Context) error {
	return s.history.Reset(ctx)
}
