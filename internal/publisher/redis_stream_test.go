package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/hoopsync/internal/publisher"
)

func TestPublishRefreshAppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)

	pub, err := publisher.NewRedisPublisher(t.Context(), "redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer pub.Close()

	finished := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	event := publisher.RefreshEvent{
		RunID:      "run-1",
		Job:        "stats",
		Status:     "success",
		Added:      7,
		Updated:    3,
		FinishedAt: finished,
	}
	require.NoError(t, pub.PublishRefresh(t.Context(), event))

	entries, err := mr.Stream(publisher.DefaultStream)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := map[string]string{}
	for i := 0; i+1 < len(entries[0].Values); i += 2 {
		values[entries[0].Values[i]] = entries[0].Values[i+1]
	}
	assert.Equal(t, "stats", values["job"])
	assert.Equal(t, "success", values["status"])
	assert.Equal(t, "1751630400", values["timestamp"])

	var decoded publisher.RefreshEvent
	require.NoError(t, json.Unmarshal([]byte(values["data"]), &decoded))
	assert.Equal(t, event, decoded)

	last, ok, err := pub.LastRefresh(t.Context(), "stats")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, event, last)
}

func TestLastRefreshTracksLatestEventPerJob(t *testing.T) {
	mr := miniredis.RunT(t)

	pub, err := publisher.NewRedisPublisher(t.Context(), "redis://"+mr.Addr(), "custom")
	require.NoError(t, err)
	defer pub.Close()
	require.NoError(t, pub.HealthCheck(t.Context()))

	_, ok, err := pub.LastRefresh(t.Context(), "injuries")
	require.NoError(t, err)
	assert.False(t, ok)

	first := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.PublishRefresh(t.Context(), publisher.RefreshEvent{RunID: "a", Job: "injuries", Status: "failed", Error: "timeout", FinishedAt: first}))
	require.NoError(t, pub.PublishRefresh(t.Context(), publisher.RefreshEvent{RunID: "b", Job: "injuries", Status: "success", Added: 12, FinishedAt: first.Add(time.Hour)}))

	last, ok, err := pub.LastRefresh(t.Context(), "injuries")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", last.RunID)
	assert.Equal(t, 12, last.Added)
	assert.Empty(t, last.Error)

	entries, err := mr.Stream("custom")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestNewRedisPublisherFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	_, err := publisher.NewRedisPublisher(ctx, "redis://"+addr, "custom")
	assert.Error(t, err)

	_, err = publisher.NewRedisPublisher(ctx, "not a url", "custom")
	assert.Error(t, err)
}
