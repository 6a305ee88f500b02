// Package queue holds photo valuation requests made while offline and sends
// them, oldest first, once connectivity returns.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/connectivity"
	"hensgen-helper/internal/metrics"
	"hensgen-helper/internal/storage"
	"hensgen-helper/internal/valuation"
)

const OfflineNotice = "No internet. Item queued and will be sent automatically when online."

// Item is one pending valuation request.
type Item struct {
	ID       string `json:"id"`
	DataURL  string `json:"dataUrl"`
	FileName string `json:"fileName"`
}

// Valuer sends a queued payload to the valuation backend.
type Valuer interface {
	ValueDataURL(ctx context.Context, dataURL string) (string, error)
}

// Result is emitted once per drain attempt.
type Result struct {
	Item      Item
	Valuation string
	Err       error
}

// Message renders the out-of-band notice for r.
func (r Result) Message() string {
	if r.Err != nil {
		return fmt.Sprintf("Failed to process queued item %q. It will be retried later.", r.Item.FileName)
	}
	return fmt.Sprintf("Valuation for queued item %q:\n\n%s", r.Item.FileName, r.Valuation)
}

type Queue struct {
	mu     sync.Mutex
	items  *storage.Value[[]Item]
	obs    *connectivity.Observer
	valuer Valuer
	notify func(Result)
	log    zerolog.Logger

	// inflight is a single-slot guard: holding the token means a drain is running.
	inflight chan struct{}
	trigger  chan struct{}
}

func New(store storage.Store, obs *connectivity.Observer, v Valuer, notify func(Result), log zerolog.Logger) *Queue {
	if notify == nil {
		notify = func(Result) {}
	}
	q := &Queue{
		items:    storage.NewValue(store, storage.KeyPhotoQueue, func() []Item { return []Item{} }),
		obs:      obs,
		valuer:   v,
		notify:   notify,
		log:      log.With().Str("component", "queue").Logger(),
		inflight: make(chan struct{}, 1),
		trigger:  make(chan struct{}, 1),
	}
	metrics.QueueDepth.Set(float64(len(q.Items(context.Background()))))
	return q
}

// Enqueue appends it to the tail. Payloads that cannot be decoded are
// rejected so they never block the head.
func (q *Queue) Enqueue(ctx context.Context, it Item) error {
	if _, err := valuation.ParseDataURL(it.DataURL); err != nil {
		return apperr.Invalid("Please pick a photo first.")
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}

	q.mu.Lock()
	next, err := q.items.Update(ctx, func(cur []Item) []Item { return append(cur, it) })
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", it.ID, err)
	}
	metrics.QueueDepth.Set(float64(len(next)))
	q.log.Info().Str("id", it.ID).Str("file", it.FileName).Int("len", len(next)).Msg("item queued")

	if q.obs.Online() {
		q.Trigger()
	}
	return nil
}

// Trigger asks Run to drain. Repeated triggers coalesce.
func (q *Queue) Trigger() {
	select {
	case q.trigger <- struct{}{}:
	default:
	}
}

// DrainOne sends the head item. The head is removed only on success. Offline,
// empty or already draining: no-op with processed=false.
func (q *Queue) DrainOne(ctx context.Context) (processed bool, err error) {
	select {
	case q.inflight <- struct{}{}:
	default:
		return false, nil
	}
	defer func() { <-q.inflight }()

	if !q.obs.Online() {
		return false, nil
	}
	items := q.Items(ctx)
	if len(items) == 0 {
		return false, nil
	}
	head := items[0]

	val, err := q.valuer.ValueDataURL(ctx, head.DataURL)
	if err != nil {
		metrics.QueueDrains.WithLabelValues("retry").Inc()
		q.log.Warn().Err(err).Str("id", head.ID).Msg("queued valuation failed")
		q.notify(Result{Item: head, Err: err})
		return false, err
	}

	q.mu.Lock()
	next, saveErr := q.items.Update(ctx, func(cur []Item) []Item {
		if len(cur) > 0 && cur[0].ID == head.ID {
			return cur[1:]
		}
		return cur
	})
	q.mu.Unlock()
	metrics.QueueDepth.Set(float64(len(next)))
	metrics.QueueDrains.WithLabelValues("success").Inc()
	q.log.Info().Str("id", head.ID).Int("remaining", len(next)).Msg("queued item valued")

	q.notify(Result{Item: head, Valuation: val})
	if saveErr != nil {
		return true, fmt.Errorf("remove %s: %w", head.ID, saveErr)
	}
	return true, nil
}

// Drain keeps sending items while they succeed. The first failure, or an
// empty queue, ends the pass.
func (q *Queue) Drain(ctx context.Context) int {
	n := 0
	for ctx.Err() == nil {
		ok, err := q.DrainOne(ctx)
		if err != nil || !ok {
			break
		}
		n++
	}
	return n
}

// Run drains on every transition to online and on every Trigger, until ctx
// is done.
func (q *Queue) Run(ctx context.Context) {
	ch, cancel := q.obs.Subscribe()
	defer cancel()

	if q.obs.Online() {
		q.Drain(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-ch:
			if !ok {
				return
			}
			if online {
				q.log.Debug().Msg("back online, draining")
				q.Drain(ctx)
			}
		case <-q.trigger:
			q.Drain(ctx)
		}
	}
}

// Items returns a copy of the pending items, head first.
func (q *Queue) Items(ctx context.Context) []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	cur := q.items.Load(ctx)
	out := make([]Item, len(cur))
	copy(out, cur)
	return out
}

func (q *Queue) Len(ctx context.Context) int {
	return len(q.Items(ctx))
}
