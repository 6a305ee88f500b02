package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/health"
	"hensgen-helper/internal/llm"
	"hensgen-helper/internal/queue"
	"hensgen-helper/internal/tools"
)

const maxPhotoBytes = 20 << 20

var errNoOwner = errors.New("telegram: owner chat unknown")

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	if !b.acceptChat(ctx, chatID) {
		b.log.Warn().Int64("chat_id", chatID).Msg("ignoring message from foreign chat")
		return
	}
	b.log.Debug().Int64("chat_id", chatID).Str("text", msg.Text).Bool("photo", len(msg.Photo) > 0).Msg("incoming message")

	switch {
	case len(msg.Photo) > 0 || isImageDocument(msg.Document):
		b.setScreen(ScreenPrice)
		b.handlePhoto(ctx, msg)
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	default:
		if s, ok := navTarget(msg.Text); ok {
			b.showScreen(ctx, chatID, s)
			return
		}
		b.handleText(ctx, msg)
	}
}

func (b *Bot) showScreen(ctx context.Context, chatID int64, s Screen) {
	s = b.setScreen(s)
	b.sendScreen(chatID, s, b.render(ctx, s))
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	args := strings.TrimSpace(msg.CommandArguments())
	cmd := msg.Command()

	s, known := commandScreen[cmd]
	if !known {
		b.sendMessage(chatID, "Unknown command. Use the buttons below to get around.")
		b.showScreen(ctx, chatID, b.currentScreen())
		return
	}
	b.setScreen(s)

	switch cmd {
	case "level":
		angle, err := tools.ParseAngle(args)
		if err != nil {
			b.sendMessage(chatID, apperr.UserMessage(err))
			return
		}
		b.mu.Lock()
		b.lastAngle = angle
		b.mu.Unlock()
		b.sendScreen(chatID, s, tools.Read(angle).String())
	case "ruler":
		b.sendScreen(chatID, s, "Camera Ruler\n"+tools.RulerNotice)
	case "remind":
		b.handleRemind(ctx, chatID, args)
	case "reset":
		if err := b.deps.Coach.Reset(ctx); err != nil {
			b.log.Error().Err(err).Msg("reset transcript")
			b.sendMessage(chatID, apperr.UserMessage(err))
			return
		}
		b.sendScreen(chatID, s, "Chat cleared. Ask for selling advice...")
	case "queue":
		b.sendScreen(chatID, s, renderQueue(b.deps.Queue.Items(ctx)))
	case "inr":
		if args == "" {
			b.showScreen(ctx, chatID, s)
			return
		}
		b.logINR(ctx, chatID, args)
	case "legacy":
		b.sendScreen(chatID, s, b.deps.Legacy.Get(ctx))
	case "legacy_edit":
		if err := b.deps.Legacy.Set(ctx, args); err != nil {
			b.sendMessage(chatID, apperr.UserMessage(err))
			return
		}
		b.sendScreen(chatID, s, "Legacy saved.\n\n"+b.deps.Legacy.Get(ctx))
	default:
		b.showScreen(ctx, chatID, s)
	}
}

func (b *Bot) handleRemind(ctx context.Context, chatID int64, args string) {
	if b.deps.Reminders == nil {
		b.sendMessage(chatID, "Reminders are not available.")
		return
	}
	var on bool
	switch strings.ToLower(args) {
	case "on":
		on = true
	case "off":
		on = false
	default:
		b.showScreen(ctx, chatID, ScreenHealth)
		return
	}
	if err := b.deps.Reminders.SetEnabled(ctx, on); err != nil {
		b.log.Error().Err(err).Msg("toggle reminders")
		b.sendMessage(chatID, "Could not save the reminder setting. Try again.")
		return
	}
	if on {
		b.sendScreen(chatID, ScreenHealth, "Weekly INR reminder is on.")
		return
	}
	b.sendScreen(chatID, ScreenHealth, "Weekly INR reminder is off.")
}

// handleText routes free text by the current screen.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	switch s := b.currentScreen(); s {
	case ScreenHealth:
		b.logINR(ctx, chatID, text)
	case ScreenChat:
		b.askCoach(ctx, chatID, text)
	case ScreenTools:
		angle, err := tools.ParseAngle(text)
		if err != nil {
			b.sendMessage(chatID, apperr.UserMessage(err))
			return
		}
		b.mu.Lock()
		b.lastAngle = angle
		b.mu.Unlock()
		b.sendScreen(chatID, s, tools.Read(angle).String())
	case ScreenPrice:
		b.sendScreen(chatID, s, "Please pick a photo first.")
	default:
		b.showScreen(ctx, chatID, s)
	}
}

// logINR parses "<value> [notes]".
func (b *Bot) logINR(ctx context.Context, chatID int64, text string) {
	valueText, notes, _ := strings.Cut(text, " ")
	v, err := health.ParseValue(valueText)
	if err != nil {
		b.sendMessage(chatID, apperr.UserMessage(err))
		return
	}
	e, err := b.deps.Health.Add(ctx, v, notes, b.now())
	if err != nil {
		b.log.Error().Err(err).Msg("add INR entry")
		b.sendMessage(chatID, apperr.UserMessage(err))
		return
	}
	status := "in range ✅"
	if !e.InRange() {
		status = "outside the 2.0–3.0 target ⚠️"
	}
	b.sendMessage(chatID, fmt.Sprintf("Logged INR %.1f (%s).", e.Value, status))
	b.showScreen(ctx, chatID, ScreenHealth)
}

func (b *Bot) askCoach(ctx context.Context, chatID int64, text string) {
	if !b.online() {
		b.sendScreen(chatID, ScreenChat, b.render(ctx, ScreenChat))
		return
	}
	b.sendTyping(chatID)
	reply, err := b.deps.Coach.Ask(ctx, text)
	if err != nil {
		b.log.Warn().Err(err).Msg("coach reply failed")
		b.sendMessage(chatID, apperr.UserMessage(err))
		return
	}
	b.sendScreen(chatID, ScreenChat, reply)
}

// handlePhoto values the photo now, or queues it while offline.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	fileID, fileName, mime := photoRef(msg)

	data, err := b.download(ctx, fileID)
	if err != nil {
		b.log.Error().Err(err).Str("file_id", fileID).Msg("photo download failed")
		b.sendMessage(chatID, "Could not read that photo. Please try again.")
		return
	}
	img := llm.Image{MIMEType: mime, Data: data}

	if !b.online() {
		item := queue.Item{DataURL: llm.DataURL(img), FileName: fileName}
		if err := b.deps.Queue.Enqueue(ctx, item); err != nil {
			b.log.Error().Err(err).Msg("enqueue photo")
			b.sendMessage(chatID, apperr.UserMessage(err))
			return
		}
		b.sendScreen(chatID, ScreenPrice, fmt.Sprintf("%s\n\nOffline Queue\n%d item(s) waiting to be sent.", queue.OfflineNotice, b.deps.Queue.Len(ctx)))
		return
	}

	b.sendMessage(chatID, "Getting valuation... this may take a moment.")
	b.sendTyping(chatID)
	result, err := b.deps.Valuer.Value(ctx, img)
	if err != nil {
		b.log.Warn().Err(err).Msg("valuation failed")
		b.sendMessage(chatID, apperr.UserMessage(err))
		return
	}
	b.sendScreen(chatID, ScreenPrice, "Valuation Result\n\n"+result)
}

func isImageDocument(d *tgbotapi.Document) bool {
	return d != nil && strings.HasPrefix(d.MimeType, "image/")
}

// photoRef picks the largest photo size, or the image document.
func photoRef(msg *tgbotapi.Message) (fileID, fileName, mime string) {
	if len(msg.Photo) > 0 {
		p := msg.Photo[len(msg.Photo)-1]
		return p.FileID, fmt.Sprintf("photo_%d.jpg", msg.MessageID), "image/jpeg"
	}
	d := msg.Document
	name := d.FileName
	if name == "" {
		name = fmt.Sprintf("image_%d", msg.MessageID)
	}
	return d.FileID, name, d.MimeType
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	link, err := b.files.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	return data, nil
}

func renderQueue(items []queue.Item) string {
	if len(items) == 0 {
		return "Offline Queue\nNothing waiting to be sent."
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Offline Queue\n%d item(s) waiting to be sent.\n", len(items)))
	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, it.FileName))
	}
	return strings.TrimRight(sb.String(), "\n")
}
