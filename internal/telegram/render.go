package telegram

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/coach"
	"hensgen-helper/internal/feeds"
	"hensgen-helper/internal/health"
	"hensgen-helper/internal/history"
	"hensgen-helper/internal/info"
	"hensgen-helper/internal/tools"
)

const (
	maxMessageLen  = 4000
	maxDescription = 160
	transcriptTail = 6
	chartWidth     = 20
	chartMax       = 5.0
)

// render builds the body of screen s.
func (b *Bot) render(ctx context.Context, s Screen) string {
	var body string
	switch s {
	case ScreenPrice:
		body = b.renderPrice(ctx)
	case ScreenTools:
		body = b.renderTools()
	case ScreenNews:
		body = b.renderNews(ctx)
	case ScreenHealth:
		body = b.renderHealth(ctx)
	case ScreenChat:
		body = b.renderChat(ctx)
	case ScreenInfo:
		body = b.renderInfo()
	default:
		body = b.renderHome(ctx)
	}
	return s.Title() + "\n\n" + body
}

func (b *Bot) online() bool {
	return b.deps.Online == nil || b.deps.Online.Online()
}

func (b *Bot) renderHome(ctx context.Context) string {
	var sb strings.Builder
	sb.WriteString(subtitle + "\n\n")
	sb.WriteString("📷 Photo Price Check: Value items with AI\n")
	sb.WriteString("🛠 Builder's Tools: Bubble level & ruler\n")
	sb.WriteString("📰 News & Weather: Melbourne updates\n")
	sb.WriteString("❤️ Heart Health: Log INR & diet tips\n")
	sb.WriteString("💬 AI Seller Coach: Chat about selling\n")
	sb.WriteString("ℹ️ Info Pages: Tips & Legacy")
	if !b.online() {
		sb.WriteString("\n\n📴 Offline")
		if n := b.deps.Queue.Len(ctx); n > 0 {
			sb.WriteString(fmt.Sprintf(", %d item(s) waiting to be sent", n))
		}
	}
	return sb.String()
}

func (b *Bot) renderPrice(ctx context.Context) string {
	var sb strings.Builder
	sb.WriteString("Take or pick a photo of the item and send it here for a price check.")
	if n := b.deps.Queue.Len(ctx); n > 0 {
		sb.WriteString(fmt.Sprintf("\n\nOffline Queue\n%d item(s) waiting to be sent.", n))
	}
	return sb.String()
}

func (b *Bot) renderTools() string {
	b.mu.Lock()
	angle := b.lastAngle
	b.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("Bubble Level\n")
	sb.WriteString(tools.Read(angle).String())
	sb.WriteString("\nSend /level <degrees> with your phone's tilt reading, e.g. /level 1.5")
	sb.WriteString("\n\nCamera Ruler\n")
	sb.WriteString(tools.RulerNotice)
	return sb.String()
}

func (b *Bot) renderNews(ctx context.Context) string {
	snap := b.deps.Feeds.Dashboard(ctx)
	now := b.now()

	var sb strings.Builder
	sb.WriteString("Melbourne Weather\n")
	if snap.WeatherErr != nil {
		sb.WriteString("⚠️ " + apperr.UserMessage(snap.WeatherErr) + "\n")
	}
	if snap.Weather != nil {
		for _, d := range snap.Weather.Days {
			line := fmt.Sprintf("%s %s %d° / %d°", d.Date.Format("Mon"), feeds.Emoji(d.Code), int(math.Round(d.MaxTemp)), int(math.Round(d.MinTemp)))
			if d.Precipitation > 0 {
				line += fmt.Sprintf(" %gmm", d.Precipitation)
			}
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\nTop Headlines\n")
	if snap.NewsErr != nil {
		sb.WriteString("⚠️ " + apperr.UserMessage(snap.NewsErr) + "\n")
	}
	for _, it := range snap.News {
		when := ""
		if !it.PubDate.IsZero() {
			when = " · " + feeds.TimeAgo(now, it.PubDate)
		}
		sb.WriteString(fmt.Sprintf("\n%s [%s%s]\n%s\n", sourceBadge(it.Source), it.Source, when, it.Title))
		if it.Description != "" {
			sb.WriteString(truncate(it.Description, maxDescription) + "\n")
		}
		if it.Link != "" {
			sb.WriteString(it.Link + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func sourceBadge(source string) string {
	switch {
	case strings.Contains(source, "Cricket"):
		return "🟢"
	case strings.Contains(source, "SBS"):
		return "🔵"
	default:
		return "🔴"
	}
}

func (b *Bot) renderHealth(ctx context.Context) string {
	var sb strings.Builder
	sb.WriteString("INR Log\nSend a reading to log it, e.g. 2.5 or 2.5 after dinner\n")

	recent := b.deps.Health.Recent(ctx, health.ChartSize)
	if len(recent) > 0 {
		sb.WriteString(fmt.Sprintf("\nLast %d Entries (target %.1f–%.1f)\n", len(recent), health.TargetLow, health.TargetHigh))
		for _, e := range recent {
			mark := "✅"
			if !e.InRange() {
				mark = "⚠️"
			}
			line := fmt.Sprintf("%s %s %.1f %s", e.Date.Format("02/01"), bar(e.Value), e.Value, mark)
			if e.Notes != "" {
				line += " " + e.Notes
			}
			sb.WriteString(line + "\n")
		}
		sum := b.deps.Health.Summarize(ctx, health.ChartSize)
		sb.WriteString(fmt.Sprintf("In range: %d of %d (min %.1f, max %.1f)\n", sum.InRange, sum.Count, sum.Min, sum.Max))
	}

	sb.WriteString("\nWarfarin Diet Tips\n")
	for _, tip := range health.DietTips {
		sb.WriteString("• " + tip + "\n")
	}
	sb.WriteString(health.Disclaimer + "\n")

	state := "off"
	if b.deps.Reminders != nil && b.deps.Reminders.Enabled(ctx) {
		state = "on"
	}
	sb.WriteString(fmt.Sprintf("\nReminders\nWeekly reminder to log your INR: %s (/remind on or /remind off)", state))
	return sb.String()
}

// bar draws value on the chart's 0..5 domain with the target band marked.
func bar(v float64) string {
	filled := int(math.Round(math.Min(v, chartMax) / chartMax * chartWidth))
	lo := int(health.TargetLow / chartMax * chartWidth)
	hi := int(health.TargetHigh / chartMax * chartWidth)

	var sb strings.Builder
	for i := 0; i < chartWidth; i++ {
		switch {
		case i < filled:
			sb.WriteString("█")
		case i == lo || i == hi:
			sb.WriteString("┊")
		default:
			sb.WriteString("·")
		}
	}
	return sb.String()
}

func (b *Bot) renderChat(ctx context.Context) string {
	if !b.online() {
		var sb strings.Builder
		sb.WriteString("You're Offline\nChat is unavailable. Here are some quick tips:\n")
		for _, tip := range coach.OfflineTips {
			sb.WriteString("• " + tip + "\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}

	var sb strings.Builder
	tr := b.deps.Coach.Transcript(ctx)
	if len(tr) > transcriptTail {
		tr = tr[len(tr)-transcriptTail:]
	}
	for _, e := range tr {
		who := "You"
		if e.Role == history.RoleModel {
			who = "Coach"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n\n", who, e.Text))
	}
	sb.WriteString("Ask for selling advice... (/reset to start over)")
	return sb.String()
}

func (b *Bot) renderInfo() string {
	var sb strings.Builder
	sb.WriteString("Adrian's Universe\nTip of the Day\n")
	sb.WriteString(fmt.Sprintf("\"%s\"\n\n", info.TipOfDay(b.now())))
	sb.WriteString("Builder's Legacy\n/legacy to read it, /legacy_edit <markdown> to replace it.")
	return sb.String()
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// splitMessage cuts text into parts of at most n runes, preferring to break
// after a newline in the second half of each part.
func splitMessage(text string, n int) []string {
	r := []rune(text)
	if len(r) <= n {
		return []string{text}
	}
	var parts []string
	for len(r) > n {
		cut := n
		for i := n - 1; i > n/2; i-- {
			if r[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
