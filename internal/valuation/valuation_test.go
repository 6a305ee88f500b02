package valuation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/llm"
)

type fakeLLM struct {
	resp llm.Response
	err  error
	got  []llm.Message
}

func (f *fakeLLM) Generate(_ context.Context, msgs []llm.Message) (llm.Response, error) {
	f.got = msgs
	return f.resp, f.err
}

func TestValue_SendsPromptAndImage(t *testing.T) {
	f := &fakeLLM{resp: llm.Response{Content: "  **Drill**\n- AUD 40-60  "}}
	s := New(f)

	out, err := s.Value(context.Background(), llm.Image{Data: []byte("jpg")})
	require.NoError(t, err)
	assert.Equal(t, "**Drill**\n- AUD 40-60", out)

	require.Len(t, f.got, 1)
	assert.Equal(t, Prompt, f.got[0].Content)
	require.Len(t, f.got[0].Images, 1)
	assert.Equal(t, "image/jpeg", f.got[0].Images[0].MIMEType)
}

func TestValue_BackendFailureIsServiceUnavailable(t *testing.T) {
	s := New(&fakeLLM{err: errors.New("503")})
	_, err := s.Value(context.Background(), llm.Image{Data: []byte("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ServiceUnavailable))
	assert.Equal(t, "Failed to get valuation from AI. Please try again.", apperr.UserMessage(err))
}

func TestValue_UnconfiguredIsServiceUnavailable(t *testing.T) {
	s := New(llm.Disabled())
	_, err := s.Value(context.Background(), llm.Image{Data: []byte("x")})
	assert.True(t, errors.Is(err, apperr.ServiceUnavailable))
	assert.True(t, errors.Is(err, llm.ErrNotConfigured))
}

func TestValue_EmptyOutputIsServiceUnavailable(t *testing.T) {
	s := New(&fakeLLM{resp: llm.Response{Content: "   "}})
	_, err := s.Value(context.Background(), llm.Image{Data: []byte("x")})
	assert.True(t, errors.Is(err, apperr.ServiceUnavailable))
}

func TestValue_EmptyImageIsValidation(t *testing.T) {
	s := New(&fakeLLM{})
	_, err := s.Value(context.Background(), llm.Image{})
	assert.True(t, errors.Is(err, apperr.Validation))
}

func TestParseDataURL(t *testing.T) {
	img, err := ParseDataURL("data:image/png;base64,AQID")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, img.Data)

	img, err = ParseDataURL("AQID,AQID")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)

	_, err = ParseDataURL("data:image/png;base64,")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = ParseDataURL("data:image/png;base64,!!!")
	assert.Error(t, err)
}
