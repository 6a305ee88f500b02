package history

import (
	"context"
	"testing"

	"hensgen-helper/internal/llm"
	"hensgen-helper/internal/storage"
)

func TestHistoryAppendGetReset(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	h := NewManager(store)

	if err := h.AppendPair(ctx, "hello", "g'day mate"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := h.append(ctx, Entry{Role: RoleUser, Text: "still there?"}); err != nil {
		t.Fatalf("append user: %v", err)
	}
	if err := h.append(ctx, Entry{Role: RoleUser, Text: "hello?"}); err != nil {
		t.Fatalf("consecutive user turns must be accepted: %v", err)
	}

	msgs := h.Get(ctx)
	if len(msgs) != 4 {
		t.Fatalf("unexpected length: %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Text != "hello" {
		t.Fatalf("unexpected [0]: %+v", msgs[0])
	}
	if msgs[1].Role != RoleModel || msgs[1].Text != "g'day mate" {
		t.Fatalf("unexpected [1]: %+v", msgs[1])
	}

	// copy semantics
	msgs[0] = Entry{Role: RoleUser, Text: "mutated"}
	if h.Get(ctx)[0].Text != "hello" {
		t.Fatalf("internal state mutated via returned slice")
	}

	// persisted: a fresh manager over the same store sees the transcript
	if got := NewManager(store).Get(ctx); len(got) != 4 {
		t.Fatalf("transcript not persisted: %+v", got)
	}

	if err := h.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(h.Get(ctx)) != 0 {
		t.Fatalf("reset did not clear transcript")
	}
}

func TestToLLM_MapsRoles(t *testing.T) {
	out := ToLLM([]Entry{{Role: RoleUser, Text: "a"}, {Role: RoleModel, Text: "b"}})
	if out[0].Role != llm.RoleUser || out[1].Role != llm.RoleAssistant || out[1].Content != "b" {
		t.Fatalf("unexpected mapping: %+v", out)
	}
}
