package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hensgen-helper/internal/apperr"
	"hensgen-helper/internal/feeds"
	"hensgen-helper/internal/health"
	"hensgen-helper/internal/storage"
)

type fakeFeeds struct {
	forecast *feeds.Forecast
	news     []feeds.Item
	err      error
}

func (f fakeFeeds) Weather(context.Context) (*feeds.Forecast, error) { return f.forecast, f.err }
func (f fakeFeeds) News(context.Context) ([]feeds.Item, error)       { return f.news, f.err }

func text(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestGetWeather(t *testing.T) {
	tools := NewTools(fakeFeeds{forecast: &feeds.Forecast{Days: []feeds.Day{
		{Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Code: 61, MaxTemp: 19, MinTemp: 11, Precipitation: 4.2},
	}}}, health.NewLog(storage.NewMemoryStore()))

	res, err := tools.GetWeather(context.Background(), nil, &mcp.CallToolParamsFor[EmptyParams]{})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var days []weatherDay
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &days))
	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-03", days[0].Date)
	assert.Equal(t, "🌧️", days[0].Emoji)
}

func TestGetNews_ErrorIsToolError(t *testing.T) {
	tools := NewTools(fakeFeeds{err: apperr.Unavailable("Could not fetch the news.", errors.New("x"))}, health.NewLog(storage.NewMemoryStore()))
	res, err := tools.GetNews(context.Background(), nil, &mcp.CallToolParamsFor[NewsParams]{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Could not fetch the news.", text(t, res))
}

func TestGetNews_Limit(t *testing.T) {
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	tools := NewTools(fakeFeeds{news: []feeds.Item{
		{Title: "a", PubDate: now},
		{Title: "b", PubDate: now.Add(-30 * time.Hour)},
	}}, health.NewLog(storage.NewMemoryStore()))
	tools.now = func() time.Time { return now }

	res, err := tools.GetNews(context.Background(), nil, &mcp.CallToolParamsFor[NewsParams]{Arguments: NewsParams{Limit: 1}})
	require.NoError(t, err)
	var out []headline
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Today", out[0].Age)
}

func TestAddAndListINR(t *testing.T) {
	log := health.NewLog(storage.NewMemoryStore())
	tools := NewTools(fakeFeeds{}, log)
	tools.now = func() time.Time { return time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	res, err := tools.AddINRLog(ctx, nil, &mcp.CallToolParamsFor[AddINRParams]{Arguments: AddINRParams{Value: 0}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Please enter a valid INR value.", text(t, res))

	res, err = tools.AddINRLog(ctx, nil, &mcp.CallToolParamsFor[AddINRParams]{Arguments: AddINRParams{Value: 2.4, Notes: "morning"}})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = tools.ListINRLogs(ctx, nil, &mcp.CallToolParamsFor[ListINRParams]{})
	require.NoError(t, err)
	var list inrList
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, 1, list.InRange)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "morning", list.Entries[0].Notes)
}
