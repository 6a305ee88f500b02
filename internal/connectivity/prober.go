package connectivity

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Prober turns periodic reachability checks into Observer events.
type Prober struct {
	obs      *Observer
	client   *http.Client
	url      string
	interval time.Duration
	log      zerolog.Logger
}

func NewProber(obs *Observer, url string, interval, timeout time.Duration, log zerolog.Logger) *Prober {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{
		obs:      obs,
		client:   &http.Client{Timeout: timeout},
		url:      url,
		interval: interval,
		log:      log,
	}
}

// Check performs one probe and records it. Any HTTP response counts as
// reachable; only transport errors mean offline.
func (p *Prober) Check(ctx context.Context) bool {
	online := p.reachable(ctx)
	if p.obs.Set(online) {
		p.log.Info().Bool("online", online).Str("url", p.url).Msg("connectivity changed")
	}
	return online
}

func (p *Prober) reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.log.Error().Err(err).Str("url", p.url).Msg("bad probe url")
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Debug().Err(err).Msg("probe failed")
		return false
	}
	_ = resp.Body.Close()
	return true
}

// Run probes immediately and then on every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.Check(ctx)
		}
	}
}
