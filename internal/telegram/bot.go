package telegram

import (
	"context"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"hensgen-helper/internal/feeds"
	"hensgen-helper/internal/health"
	"hensgen-helper/internal/history"
	"hensgen-helper/internal/llm"
	"hensgen-helper/internal/metrics"
	"hensgen-helper/internal/queue"
	"hensgen-helper/internal/storage"
)

type valuer interface {
	Value(ctx context.Context, img llm.Image) (string, error)
}

type photoQueue interface {
	Enqueue(ctx context.Context, it queue.Item) error
	Len(ctx context.Context) int
	Items(ctx context.Context) []queue.Item
}

type coachService interface {
	Ask(ctx context.Context, utterance string) (string, error)
	Transcript(ctx context.Context) []history.Entry
	Reset(ctx context.Context) error
}

type dashboard interface {
	Dashboard(ctx context.Context) feeds.Snapshot
}

type inrLog interface {
	Add(ctx context.Context, value float64, notes string, now time.Time) (health.Entry, error)
	Recent(ctx context.Context, n int) []health.Entry
	Summarize(ctx context.Context, n int) health.Summary
}

type reminders interface {
	Enabled(ctx context.Context) bool
	SetEnabled(ctx context.Context, on bool) error
}

type legacyPage interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, markdown string) error
}

type onlineSource interface {
	Online() bool
}

// Deps are the screen services the shell renders.
type Deps struct {
	Valuer    valuer
	Queue     photoQueue
	Coach     coachService
	Feeds     dashboard
	Health    inrLog
	Reminders reminders
	Legacy    legacyPage
	Online    onlineSource
	Store     storage.Store
}

type Bot struct {
	api   *tgbotapi.BotAPI
	s     sender
	files fileLinker
	http  *http.Client
	log   zerolog.Logger
	now   func() time.Time
	deps  Deps

	owner *storage.Value[int64]

	mu        sync.Mutex
	screen    Screen
	lastAngle float64
}

func New(botToken string, ownerChatID int64, deps Deps, httpClient *http.Client, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	s := botAPISender{api: api}
	b := newBot(s, s, deps, httpClient, log)
	b.api = api
	if ownerChatID != 0 {
		if err := b.owner.Save(context.Background(), ownerChatID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func newBot(s sender, files fileLinker, deps Deps, httpClient *http.Client, log zerolog.Logger) *Bot {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Bot{
		s:      s,
		files:  files,
		http:   httpClient,
		log:    log.With().Str("component", "telegram").Logger(),
		now:    time.Now,
		deps:   deps,
		owner:  storage.NewValue(deps.Store, storage.KeyOwnerChat, func() int64 { return 0 }),
		screen: ScreenHome,
	}
}

// Start consumes updates until ctx is done. Updates are handled one at a time.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) currentScreen() Screen {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen
}

// setScreen switches navigation state; unknown screens fall back to Home.
func (b *Bot) setScreen(s Screen) Screen {
	if !s.valid() {
		s = ScreenHome
	}
	b.mu.Lock()
	b.screen = s
	b.mu.Unlock()
	return s
}

// ownerChat is the configured chat, or the first chat that talked to the bot.
func (b *Bot) ownerChat(ctx context.Context) int64 {
	return b.owner.Load(ctx)
}

// acceptChat remembers the first chat and rejects any other.
func (b *Bot) acceptChat(ctx context.Context, chatID int64) bool {
	owner := b.ownerChat(ctx)
	if owner == 0 {
		if err := b.owner.Save(ctx, chatID); err != nil {
			b.log.Error().Err(err).Msg("failed to remember owner chat")
		}
		return true
	}
	return owner == chatID
}

// NotifyQueueResult delivers a drained queue item to the owner chat.
func (b *Bot) NotifyQueueResult(r queue.Result) {
	ctx := context.Background()
	chatID := b.ownerChat(ctx)
	if chatID == 0 {
		b.log.Warn().Str("file", r.Item.FileName).Msg("no owner chat for queue result")
		return
	}
	b.sendMessage(chatID, r.Message())
}

// Remind sends a scheduled reminder to the owner chat.
func (b *Bot) Remind(ctx context.Context, text string) error {
	chatID := b.ownerChat(ctx)
	if chatID == 0 {
		return errNoOwner
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		metrics.BotSendErrors.Inc()
		return err
	}
	return nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageLen) {
		if _, err := b.s.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			metrics.BotSendErrors.Inc()
			b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
			return
		}
	}
}

// sendScreen sends text with the navigation keyboard for s. Long texts go out
// as several messages; the keyboard rides on the last one.
func (b *Bot) sendScreen(chatID int64, s Screen, text string) {
	parts := splitMessage(text, maxMessageLen)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		if i == len(parts)-1 {
			msg.ReplyMarkup = navKeyboard(s)
		}
		if _, err := b.s.Send(msg); err != nil {
			metrics.BotSendErrors.Inc()
			b.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send screen")
			return
		}
	}
}

func (b *Bot) sendTyping(chatID int64) {
	r, ok := b.s.(requester)
	if !ok {
		return
	}
	if _, err := r.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug().Err(err).Msg("chat action failed")
	}
}
