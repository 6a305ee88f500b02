package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hensgen-helper/internal/config"
)

func TestOpenAIClient_SendsImagePartAndReturnsText(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer auth")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"**Chair** $40-60"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`))
	}))
	defer srv.Close()

	c := NewOpenAI("key", srv.URL+"/v1/", "gemini-2.5-flash", 5*time.Second)
	resp, err := c.Generate(context.Background(), []Message{
		{Role: RoleUser, Content: "value this", Images: []Image{{MIMEType: "image/png", Data: []byte{1, 2, 3}}}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Content != "**Chair** $40-60" || resp.TotalTokens != 8 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	msgs := got["messages"].([]any)
	content := msgs[0].(map[string]any)["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("want image+text parts, got %v", content)
	}
	img := content[0].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	if img != "data:image/png;base64,AQID" {
		t.Fatalf("unexpected data url %q", img)
	}
}

func TestOpenAIClient_PropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	c := NewOpenAI("key", srv.URL, "m", time.Second)
	if _, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewClients_WithoutKeyIsDisabled(t *testing.T) {
	cl, err := NewClients(&config.Config{LLMProvider: config.ProviderOpenAI})
	if err != nil {
		t.Fatalf("new clients: %v", err)
	}
	if _, err := cl.Vision.Generate(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
	if _, err := cl.Chat.Generate(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

func TestNewClients_UnknownProvider(t *testing.T) {
	if _, err := NewClients(&config.Config{LLMProvider: "nope"}); err == nil {
		t.Fatalf("expected error")
	}
}
