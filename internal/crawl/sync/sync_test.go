// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncpkg "github.com/yomira-app/yomira/internal/crawl/sync"
)

func TestJob_JSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(syncpkg.Payload{SeriesSourceID: "series-source-1"})
	require.NoError(t, err)

	job := syncpkg.Job{
		ID:          "sync-series-source-1",
		Queue:       "sync-source",
		Priority:    1,
		Payload:     payload,
		Attempts:    0,
		MaxAttempts: syncpkg.DefaultMaxAttempts,
	}

	encoded, err := json.Marshal(job)
	require.NoError(t, err)

	var decoded syncpkg.Job
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	assert.Equal(t, job.ID, decoded.ID)
	assert.Equal(t, job.Priority, decoded.Priority)
	assert.Equal(t, job.MaxAttempts, decoded.MaxAttempts)
}

func TestAdapterRegistry_ResolveAndFallback(t *testing.T) {
	registry := syncpkg.NewAdapterRegistry()
	fake := &syncpkg.FakeAdapter{Chapters: []syncpkg.RemoteChapter{{ChapterNumber: "1"}}}
	registry.Register("mangaplex", fake)

	resolved, ok := registry.Resolve("mangaplex")
	assert.True(t, ok)
	assert.Same(t, fake, resolved)

	_, ok = registry.Resolve("unknown-source")
	assert.False(t, ok)
}

func TestFakeAdapter_ReturnsConfiguredError(t *testing.T) {
	wantErr := errors.New("upstream unreachable")
	adapter := &syncpkg.FakeAdapter{Err: wantErr}

	_, err := adapter.ListChapters(context.Background(), "series-source-1", "ext-1")
	assert.ErrorIs(t, err, wantErr)
}

func TestFakeAdapter_ReturnsConfiguredChapters(t *testing.T) {
	chapters := []syncpkg.RemoteChapter{{ChapterNumber: "1"}, {ChapterNumber: "2"}}
	adapter := &syncpkg.FakeAdapter{Chapters: chapters}

	got, err := adapter.ListChapters(context.Background(), "series-source-1", "ext-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
