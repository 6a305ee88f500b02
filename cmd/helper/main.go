package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"hensgen-helper/internal/coach"
	"hensgen-helper/internal/config"
	"hensgen-helper/internal/connectivity"
	"hensgen-helper/internal/feeds"
	"hensgen-helper/internal/health"
	"hensgen-helper/internal/history"
	"hensgen-helper/internal/httpserver"
	"hensgen-helper/internal/info"
	"hensgen-helper/internal/llm"
	"hensgen-helper/internal/logger"
	"hensgen-helper/internal/metrics"
	"hensgen-helper/internal/queue"
	"hensgen-helper/internal/scheduler"
	"hensgen-helper/internal/storage"
	"hensgen-helper/internal/telegram"
	"hensgen-helper/internal/valuation"
)

type status struct {
	obs *connectivity.Observer
	q   *queue.Queue
}

func (s status) Online() bool                     { return s.obs.Online() }
func (s status) QueueLen(ctx context.Context) int { return s.q.Len(ctx) }

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		l := zerolog.New(os.Stderr)
		l.Warn().Err(err).Msg(".env not loaded")
	}

	cfg := config.New()
	log := logger.New(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", string(cfg.StoreBackend)).Msg("failed to open store")
	}
	defer store.Close()

	clients, err := llm.NewClients(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create llm clients")
	}
	if !cfg.AIConfigured() {
		log.Warn().Str("provider", string(cfg.LLMProvider)).Msg("AI credentials missing, AI screens will show a notice")
	}

	sources, err := feeds.ParseSources(cfg.NewsFeeds)
	if err != nil {
		log.Fatal().Err(err).Msg("bad NEWS_FEEDS")
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	obs := connectivity.NewObserver(true)
	prober := connectivity.NewProber(obs, cfg.ProbeTarget(), cfg.ProbeInterval, cfg.HTTPTimeout, log)

	valuer := valuation.New(clients.Vision)

	// bot is assigned before any goroutine that notifies through it starts
	var bot *telegram.Bot
	q := queue.New(store, obs, valuer, func(r queue.Result) {
		if bot != nil {
			bot.NotifyQueueResult(r)
		}
	}, log)

	sched, err := scheduler.New(store, cfg.ReminderSpec, cfg.ReminderTimezone, func(ctx context.Context, text string) error {
		return bot.Remind(ctx, text)
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	bot, err = telegram.New(cfg.TelegramBotToken, cfg.OwnerChatID, telegram.Deps{
		Valuer:    valuer,
		Queue:     q,
		Coach:     coach.NewService(coach.NewClient(clients.Chat), history.NewManager(store)),
		Feeds:     feeds.New(httpClient, cfg.WeatherURL, sources, cfg.NewsLimit, log),
		Health:    health.NewLog(store),
		Reminders: sched,
		Legacy:    info.NewLegacy(store),
		Online:    obs,
		Store:     store,
	}, httpClient, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	go prober.Run(ctx)
	go q.Run(ctx)
	go func() {
		srv := httpserver.New(status{obs: obs, q: q}, prometheus.DefaultGatherer, log)
		if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	log.Info().Str("store", string(cfg.StoreBackend)).Int("queued", q.Len(ctx)).Msg("hensgen helper starting")
	bot.Start(ctx)
	log.Info().Msg("shutting down")
}
