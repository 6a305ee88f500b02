package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type logEntry struct {
	ID    int64     `json:"id"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "nested", "store.json")
	s, err := NewFileStore(p)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}

	in := []logEntry{
		{ID: 1, Date: time.Unix(100, 0).UTC(), Value: 2.4},
		{ID: 2, Date: time.Unix(200, 0).UTC(), Value: 3.1},
	}
	if err := Save(ctx, s, KeyINRLogs, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out := Load(ctx, s, KeyINRLogs, []logEntry{})
	if len(out) != 2 {
		t.Fatalf("want 2 entries, got %d", len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID || out[i].Value != in[i].Value || !out[i].Date.Equal(in[i].Date) {
			t.Fatalf("entry %d mismatch: %+v vs %+v", i, out[i], in[i])
		}
	}

	// survives reopening
	s2, err := NewFileStore(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := Load(ctx, s2, KeyINRLogs, []logEntry{}); len(got) != 2 {
		t.Fatalf("reopen lost data: %+v", got)
	}
}

func TestFileStore_MissingKeyYieldsDefault(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	got := Load(context.Background(), s, KeyLegacyContent, "default text")
	if got != "default text" {
		t.Fatalf("want default, got %q", got)
	}
}

func TestFileStore_MalformedValueYieldsDefault(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := s.Set(ctx, KeyPhotoQueue, []byte("{not json")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got := Load(ctx, s, KeyPhotoQueue, []string{"fallback"})
	if len(got) != 1 || got[0] != "fallback" {
		t.Fatalf("want fallback, got %+v", got)
	}
}

func TestFileStore_CorruptFileYieldsDefaultAndRecovers(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(p, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewFileStore(p)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := Load(ctx, s, KeyOwnerChat, int64(7)); got != 7 {
		t.Fatalf("want default 7, got %d", got)
	}
	if err := Save(ctx, s, KeyOwnerChat, int64(99)); err != nil {
		t.Fatalf("save over corrupt file: %v", err)
	}
	if got := Load(ctx, s, KeyOwnerChat, int64(7)); got != 99 {
		t.Fatalf("want 99 after recovery, got %d", got)
	}
}

func TestFileStore_DeleteAndClose(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	_ = Save(ctx, s, KeyReminders, true)
	if err := s.Delete(ctx, KeyReminders); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, KeyReminders); ok {
		t.Fatalf("key still present after delete")
	}
	_ = s.Close()
	if err := s.Set(ctx, KeyReminders, []byte("true")); err != ErrClosed {
		t.Fatalf("want ErrClosed, got %v", err)
	}
}

func TestValue_UpdateDoesNotShareDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v := NewValue(s, KeyChatHistory, func() []string { return []string{} })

	got, err := v.Update(ctx, func(cur []string) []string { return append(cur, "a") })
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected: %+v", got)
	}
	if err := s.Delete(ctx, v.Key()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if fresh := v.Load(ctx); len(fresh) != 0 {
		t.Fatalf("default mutated: %+v", fresh)
	}
}
