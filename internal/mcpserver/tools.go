// Package mcpserver exposes the dashboard feeds and the INR log as MCP tools,
// so an assistant can read the weather or log a reading on the owner's behalf.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/feeds"
	"hensgen-helper/internal/health"
)

type feedSource interface {
	Weather(ctx context.Context) (*feeds.Forecast, error)
	News(ctx context.Context) ([]feeds.Item, error)
}

type inrLog interface {
	Add(ctx context.Context, value float64, notes string, now time.Time) (health.Entry, error)
	Recent(ctx context.Context, n int) []health.Entry
	Summarize(ctx context.Context, n int) health.Summary
}

type EmptyParams struct{}

type NewsParams struct {
	Limit int `json:"limit,omitempty" mcp:"Maximum number of headlines (default 10)"`
}

type ListINRParams struct {
	Limit int `json:"limit,omitempty" mcp:"Number of most recent readings (default 12)"`
}

type AddINRParams struct {
	Value float64 `json:"value" mcp:"INR reading, must be greater than 0"`
	Notes string  `json:"notes,omitempty" mcp:"Optional notes, e.g. 'after dinner'"`
}

type Tools struct {
	feeds feedSource
	inr   inrLog
	now   func() time.Time
}

func NewTools(f feedSource, inr inrLog) *Tools {
	return &Tools{feeds: f, inr: inr, now: time.Now}
}

// Register adds every tool to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_weather",
		Description: "Returns the 7-day Melbourne forecast with weather emoji, max/min temperature and rain",
	}, t.GetWeather)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_news",
		Description: "Returns the latest merged headlines from the configured news feeds, newest first",
	}, t.GetNews)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_inr_logs",
		Description: "Lists recent INR readings with the 2.0-3.0 target range summary",
	}, t.ListINRLogs)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_inr_log",
		Description: "Records a new INR reading taken now",
	}, t.AddINRLog)
}

type weatherDay struct {
	Date          string  `json:"date"`
	Emoji         string  `json:"emoji"`
	Code          int     `json:"weathercode"`
	MaxTemp       float64 `json:"max_temp"`
	MinTemp       float64 `json:"min_temp"`
	Precipitation float64 `json:"precipitation_mm"`
}

func (t *Tools) GetWeather(ctx context.Context, _ *mcp.ServerSession, _ *mcp.CallToolParamsFor[EmptyParams]) (*mcp.CallToolResultFor[any], error) {
	f, err := t.feeds.Weather(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	days := make([]weatherDay, 0, len(f.Days))
	for _, d := range f.Days {
		days = append(days, weatherDay{
			Date:          d.Date.Format("2006-01-02"),
			Emoji:         feeds.Emoji(d.Code),
			Code:          d.Code,
			MaxTemp:       d.MaxTemp,
			MinTemp:       d.MinTemp,
			Precipitation: d.Precipitation,
		})
	}
	return jsonResult(days)
}

type headline struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Link        string `json:"link"`
	Age         string `json:"age"`
	Description string `json:"description,omitempty"`
}

func (t *Tools) GetNews(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[NewsParams]) (*mcp.CallToolResultFor[any], error) {
	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = 10
	}
	items, err := t.feeds.News(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	if len(items) > limit {
		items = items[:limit]
	}
	now := t.now()
	out := make([]headline, 0, len(items))
	for _, it := range items {
		out = append(out, headline{
			Title:       it.Title,
			Source:      it.Source,
			Link:        it.Link,
			Age:         feeds.TimeAgo(now, it.PubDate),
			Description: it.Description,
		})
	}
	return jsonResult(out)
}

type inrList struct {
	Entries []health.Entry `json:"entries"`
	Count   int            `json:"count"`
	InRange int            `json:"in_range"`
	Min     float64        `json:"min"`
	Max     float64        `json:"max"`
}

func (t *Tools) ListINRLogs(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[ListINRParams]) (*mcp.CallToolResultFor[any], error) {
	n := params.Arguments.Limit
	if n <= 0 {
		n = health.ChartSize
	}
	sum := t.inr.Summarize(ctx, n)
	return jsonResult(inrList{
		Entries: t.inr.Recent(ctx, n),
		Count:   sum.Count,
		InRange: sum.InRange,
		Min:     sum.Min,
		Max:     sum.Max,
	})
}

func (t *Tools) AddINRLog(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[AddINRParams]) (*mcp.CallToolResultFor[any], error) {
	e, err := t.inr.Add(ctx, params.Arguments.Value, params.Arguments.Notes, t.now())
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(e)
}

func jsonResult(v any) (*mcp.CallToolResultFor[any], error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil
}

func errorResult(err error) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: apperr.UserMessage(err)}},
		IsError: true,
	}
}
