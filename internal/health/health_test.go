package health

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/storage"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestAdd_KeepsEntriesSortedRegardlessOfInsertionOrder(t *testing.T) {
	ctx := context.Background()
	l := NewLog(storage.NewMemoryStore())

	_, err := l.Add(ctx, 2.6, "", base.Add(48*time.Hour))
	require.NoError(t, err)
	_, err = l.Add(ctx, 2.1, "after dinner", base)
	require.NoError(t, err)
	_, err = l.Add(ctx, 3.4, "", base.Add(24*time.Hour))
	require.NoError(t, err)

	es := l.Entries(ctx)
	require.Len(t, es, 3)
	assert.Equal(t, 2.1, es[0].Value)
	assert.Equal(t, "after dinner", es[0].Notes)
	assert.Equal(t, 3.4, es[1].Value)
	assert.Equal(t, 2.6, es[2].Value)
	assert.Equal(t, base.UnixMilli(), es[0].ID)
}

func TestAdd_RejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	l := NewLog(storage.NewMemoryStore())

	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := l.Add(ctx, v, "", base)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.Validation))
		assert.Equal(t, "Please enter a valid INR value.", apperr.UserMessage(err))
	}
	assert.Empty(t, l.Entries(ctx))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(" 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = ParseValue("2,8")
	require.NoError(t, err)
	assert.Equal(t, 2.8, v)

	for _, bad := range []string{"", "abc", "0", "-2", "NaN"} {
		_, err := ParseValue(bad)
		assert.Error(t, err, bad)
	}
}

func TestRecentAndSummary(t *testing.T) {
	ctx := context.Background()
	l := NewLog(storage.NewMemoryStore())
	for i := 0; i < 15; i++ {
		_, err := l.Add(ctx, 1.5+float64(i)*0.1, "", base.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	recent := l.Recent(ctx, ChartSize)
	require.Len(t, recent, ChartSize)
	assert.InDelta(t, 1.8, recent[0].Value, 1e-9)

	s := l.Summarize(ctx, 0)
	assert.Equal(t, 15, s.Count)
	assert.InDelta(t, 1.5, s.Min, 1e-9)
	assert.InDelta(t, 2.9, s.Max, 1e-9)
	require.NotNil(t, s.Latest)
	assert.InDelta(t, 2.9, s.Latest.Value, 1e-9)
	// 2.0 .. 2.9 inclusive
	assert.Equal(t, 10, s.InRange)

	empty := NewLog(storage.NewMemoryStore()).Summarize(ctx, ChartSize)
	assert.Zero(t, empty.Count)
	assert.Nil(t, empty.Latest)
}

func TestEntriesPersisted(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_, err := NewLog(store).Add(ctx, 2.4, "", base)
	require.NoError(t, err)

	es := NewLog(store).Entries(ctx)
	require.Len(t, es, 1)
	assert.True(t, es[0].Date.Equal(base))
}
