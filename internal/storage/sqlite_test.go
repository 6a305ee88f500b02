package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SetGetDelete(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "absent")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "k1", []byte(`"v1"`)))
	require.NoError(t, s.Set(ctx, "k1", []byte(`"v2"`)))

	v, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`"v2"`), v)

	require.NoError(t, s.Delete(ctx, "k1"))
	_, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStore_TypedRoundTripOnDisk(t *testing.T) {
	p := filepath.Join(t.TempDir(), "db", "store.db")
	s, err := NewSQLiteStore(p)
	require.NoError(t, err)
	ctx := context.Background()

	type item struct {
		ID       string `json:"id"`
		FileName string `json:"fileName"`
	}
	require.NoError(t, Save(ctx, s, KeyPhotoQueue, []item{{ID: "a", FileName: "chair.jpg"}}))
	require.NoError(t, s.Close())

	s2, err := NewSQLiteStore(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	got := Load(ctx, s2, KeyPhotoQueue, []item(nil))
	require.Equal(t, []item{{ID: "a", FileName: "chair.jpg"}}, got)
}
