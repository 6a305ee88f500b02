// Package info holds the tip of the day and the editable legacy page.
package info

import (
	"context"
	"strings"
	"time"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/storage"
)

var DailyTips = []string{
	"Measure twice, cut once. It's less embarrassing.",
	"A tidy worksite is a safe worksite. And you can find your pencil.",
	"Don't blame the tool. Unless it's a cheap one. Then blame the tool.",
	"Respect the wood grain. It has a story to tell.",
	"Coffee first, safety second. Just kidding. Mostly.",
	"The best tool you have is your brain. Use it.",
}

const DefaultLegacy = "# A Master Builder's Journey\n\n" +
	"Adrian Hensgen's story is one of dedication, skill, and a passion for creation. From his early days as an apprentice to becoming a master builder in Ringwood, his hands have shaped countless homes and structures.\n\n" +
	"This is a space to celebrate that legacy."

// TipOfDay picks by day of month, so the tip changes daily and repeats monthly.
func TipOfDay(t time.Time) string {
	return DailyTips[t.Day()%len(DailyTips)]
}

// Legacy is the editable markdown page.
type Legacy struct {
	value *storage.Value[string]
}

func NewLegacy(store storage.Store) *Legacy {
	return &Legacy{value: storage.NewValue(store, storage.KeyLegacyContent, func() string { return DefaultLegacy })}
}

func (l *Legacy) Get(ctx context.Context) string {
	return l.value.Load(ctx)
}

// Set replaces the page. Blank content is rejected.
func (l *Legacy) Set(ctx context.Context, markdown string) error {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return apperr.Invalid("Legacy content cannot be empty.")
	}
	return l.value.Save(ctx, markdown)
}
