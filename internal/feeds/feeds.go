// Package feeds fetches the Melbourne weather forecast and the news
// headlines shown on the dashboard.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/metrics"
)

const (
	msgWeather = "Could not fetch the weather. Showing cached data if available."
	msgNews    = "Could not fetch the news. Showing cached data if available."

	maxBody = 5 << 20
)

// Day is one forecast day.
type Day struct {
	Date          time.Time `json:"date"`
	Code          int       `json:"weathercode"`
	MaxTemp       float64   `json:"temperature_2m_max"`
	MinTemp       float64   `json:"temperature_2m_min"`
	Precipitation float64   `json:"precipitation_sum"`
}

type Forecast struct {
	Days []Day `json:"days"`
}

// Item is one news headline.
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PubDate     time.Time `json:"pubDate"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
}

// Source is a labelled news feed.
type Source struct {
	Label string
	URL   string
}

// ParseSources reads "label|url" pairs. A bare URL is labelled with its host.
func ParseSources(specs []string) ([]Source, error) {
	out := make([]Source, 0, len(specs))
	for _, s := range specs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		label, raw, ok := strings.Cut(s, "|")
		if !ok {
			raw, label = label, ""
		}
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("feeds: bad news feed %q", s)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			label = u.Host
		}
		out = append(out, Source{Label: label, URL: u.String()})
	}
	return out, nil
}

// Snapshot is the joined result of one dashboard refresh. Either half may
// have failed independently; on failure the last good data is kept.
type Snapshot struct {
	Weather    *Forecast
	WeatherErr error
	News       []Item
	NewsErr    error
	FetchedAt  time.Time
}

type Service struct {
	http       *http.Client
	weatherURL string
	sources    []Source
	limit      int
	sanitizer  *bluemonday.Policy
	log        zerolog.Logger
	now        func() time.Time

	mu          sync.Mutex
	lastWeather *Forecast
	lastNews    []Item
}

func New(httpClient *http.Client, weatherURL string, sources []Source, limit int, log zerolog.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if limit <= 0 {
		limit = 30
	}
	return &Service{
		http:       httpClient,
		weatherURL: weatherURL,
		sources:    sources,
		limit:      limit,
		sanitizer:  bluemonday.StrictPolicy(),
		log:        log.With().Str("component", "feeds").Logger(),
		now:        time.Now,
	}
}

// Dashboard fetches weather and news concurrently and joins the results.
func (s *Service) Dashboard(ctx context.Context) Snapshot {
	var snap Snapshot
	var g errgroup.Group
	g.Go(func() error {
		f, err := s.Weather(ctx)
		snap.Weather, snap.WeatherErr = f, err
		return nil
	})
	g.Go(func() error {
		items, err := s.News(ctx)
		snap.News, snap.NewsErr = items, err
		return nil
	})
	_ = g.Wait()
	snap.FetchedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.WeatherErr == nil {
		s.lastWeather = snap.Weather
	} else {
		snap.Weather = s.lastWeather
	}
	if snap.NewsErr == nil {
		s.lastNews = snap.News
	} else {
		snap.News = s.lastNews
	}
	return snap
}

type openMeteo struct {
	Daily struct {
		Time          []string  `json:"time"`
		WeatherCode   []int     `json:"weathercode"`
		MaxTemp       []float64 `json:"temperature_2m_max"`
		MinTemp       []float64 `json:"temperature_2m_min"`
		Precipitation []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Weather fetches the 7-day forecast.
func (s *Service) Weather(ctx context.Context) (*Forecast, error) {
	start := time.Now()
	f, err := s.fetchWeather(ctx)
	metrics.ObserveNetworkRequest("feeds", "weather", start, err)
	if err != nil {
		s.log.Warn().Err(err).Msg("weather fetch failed")
		return nil, apperr.Unavailable(msgWeather, err)
	}
	return f, nil
}

func (s *Service) fetchWeather(ctx context.Context) (*Forecast, error) {
	body, err := s.get(ctx, s.weatherURL)
	if err != nil {
		return nil, err
	}
	var raw openMeteo
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	d := raw.Daily
	n := min(len(d.Time), len(d.WeatherCode), len(d.MaxTemp), len(d.MinTemp), len(d.Precipitation))
	if n == 0 {
		return nil, errors.New("forecast has no days")
	}
	f := &Forecast{Days: make([]Day, 0, n)}
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", d.Time[i])
		if err != nil {
			return nil, fmt.Errorf("forecast day %q: %w", d.Time[i], err)
		}
		f.Days = append(f.Days, Day{
			Date:          date,
			Code:          d.WeatherCode[i],
			MaxTemp:       d.MaxTemp[i],
			MinTemp:       d.MinTemp[i],
			Precipitation: d.Precipitation[i],
		})
	}
	return f, nil
}

// News fetches every source concurrently. Failing sources are skipped while
// at least one succeeds. Items are newest first, capped at the limit.
func (s *Service) News(ctx context.Context) ([]Item, error) {
	results := make([][]Item, len(s.sources))
	errs := make([]error, len(s.sources))

	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			start := time.Now()
			items, err := s.fetchSource(ctx, src)
			metrics.ObserveNetworkRequest("feeds", "news", start, err)
			if err != nil {
				s.log.Warn().Err(err).Str("source", src.Label).Msg("news feed failed")
			}
			results[i], errs[i] = items, err
			return nil
		})
	}
	_ = g.Wait()

	var merged []Item
	ok := 0
	for i := range s.sources {
		if errs[i] == nil {
			ok++
			merged = append(merged, results[i]...)
		}
	}
	if ok == 0 {
		err := errors.Join(errs...)
		if err == nil {
			err = errors.New("no news feeds configured")
		}
		return nil, apperr.Unavailable(msgNews, err)
	}

	sort.SliceStable(merged, func(a, b int) bool { return merged[a].PubDate.After(merged[b].PubDate) })
	if len(merged) > s.limit {
		merged = merged[:s.limit]
	}
	return merged, nil
}

func (s *Service) fetchSource(ctx context.Context, src Source) ([]Item, error) {
	body, err := s.get(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	entries, err := parseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Label, err)
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.Title == "" {
			continue
		}
		items = append(items, Item{
			Title:       s.clean(e.Title),
			Link:        e.Link,
			PubDate:     parseDate(e.Published),
			Source:      src.Label,
			Description: s.clean(e.Description),
		})
	}
	return items, nil
}

// clean strips markup and decodes entities.
func (s *Service) clean(text string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s.sanitizer.Sanitize(text))), " ")
}

func (s *Service) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "hensgen-helper/1.0")
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}
