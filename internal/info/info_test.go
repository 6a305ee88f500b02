package info

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hensgen-helper/internal/storage"
)

func TestTipOfDay(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 10, 0, 0, 0, time.UTC) }
	assert.Equal(t, DailyTips[1], TipOfDay(day(1)))
	assert.Equal(t, DailyTips[0], TipOfDay(day(6)))
	assert.Equal(t, DailyTips[1], TipOfDay(day(31)))
}

func TestLegacy_DefaultThenEdit(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	l := NewLegacy(store)

	assert.Equal(t, DefaultLegacy, l.Get(ctx))

	require.NoError(t, l.Set(ctx, "# New page\n\nBuilt the shed. "))
	assert.Equal(t, "# New page\n\nBuilt the shed.", NewLegacy(store).Get(ctx))

	assert.Error(t, l.Set(ctx, "   "))
	assert.Equal(t, "# New page\n\nBuilt the shed.", l.Get(ctx))
}
