// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira-app/yomira/internal/notify"
)

type fakeStore struct {
	catalogTier string
	subscribers []notify.Subscriber
	inserted    map[string]int
}

func (f *fakeStore) SeriesCatalogTier(context.Context, string) (string, error) {
	return f.catalogTier, nil
}

func (f *fakeStore) Subscribers(context.Context, string, string) ([]notify.Subscriber, error) {
	return f.subscribers, nil
}

func (f *fakeStore) InsertBatch(_ context.Context, _, _ string, userIDs []string) (int64, error) {
	if f.inserted == nil {
		f.inserted = map[string]int{}
	}
	for _, id := range userIDs {
		f.inserted[id]++
	}
	return int64(len(userIDs)), nil
}

type fakeHealth struct {
	state    notify.SystemHealth
	outcomes []bool
}

func (f *fakeHealth) Health() notify.SystemHealth { return f.state }
func (f *fakeHealth) RecordOutcome(succeeded bool) {
	f.outcomes = append(f.outcomes, succeeded)
}

type alwaysAllowThrottle struct{}

func (alwaysAllowThrottle) ShouldNotifyChapter(context.Context, string, string) (bool, error) {
	return true, nil
}
func (alwaysAllowThrottle) ShouldThrottleUser(context.Context, string) (bool, error) {
	return false, nil
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFanOut_NormalHealthDeliversToAll(t *testing.T) {
	store := &fakeStore{subscribers: []notify.Subscriber{
		{UserID: "u1", Tier: notify.SubscriberStandard},
		{UserID: "u2", Tier: notify.SubscriberPremium},
	}}
	health := &fakeHealth{state: notify.HealthNormal}
	deliverer := notify.NewDeliverer(store, health, alwaysAllowThrottle{}, silentLogger())

	err := deliverer.FanOut(context.Background(), "series-1", "chapter-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.inserted["u1"])
	assert.Equal(t, 1, store.inserted["u2"])
	assert.Equal(t, []bool{true}, health.outcomes)
}

func TestFanOut_RejectedDropsEntirely(t *testing.T) {
	store := &fakeStore{subscribers: []notify.Subscriber{{UserID: "u1", Tier: notify.SubscriberStandard}}}
	health := &fakeHealth{state: notify.HealthRejected}
	deliverer := notify.NewDeliverer(store, health, alwaysAllowThrottle{}, silentLogger())

	err := deliverer.FanOut(context.Background(), "series-1", "chapter-1")
	require.NoError(t, err)
	assert.Empty(t, store.inserted)
}

func TestFanOut_OverloadedDropsTierCOnly(t *testing.T) {
	store := &fakeStore{catalogTier: "C", subscribers: []notify.Subscriber{{UserID: "u1", Tier: notify.SubscriberStandard}}}
	health := &fakeHealth{state: notify.HealthOverloaded}
	deliverer := notify.NewDeliverer(store, health, alwaysAllowThrottle{}, silentLogger())

	err := deliverer.FanOut(context.Background(), "series-1", "chapter-1")
	require.NoError(t, err)
	assert.Empty(t, store.inserted, "tier C series should be dropped while overloaded")
}

func TestFanOut_OverloadedKeepsNonTierC(t *testing.T) {
	store := &fakeStore{catalogTier: "A", subscribers: []notify.Subscriber{{UserID: "u1", Tier: notify.SubscriberStandard}}}
	health := &fakeHealth{state: notify.HealthOverloaded}
	deliverer := notify.NewDeliverer(store, health, alwaysAllowThrottle{}, silentLogger())

	err := deliverer.FanOut(context.Background(), "series-1", "chapter-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.inserted["u1"])
}

func TestFanOut_CriticalKeepsOnlyPremium(t *testing.T) {
	store := &fakeStore{subscribers: []notify.Subscriber{
		{UserID: "u1", Tier: notify.SubscriberStandard},
		{UserID: "u2", Tier: notify.SubscriberPremium},
	}}
	health := &fakeHealth{state: notify.HealthCritical}
	deliverer := notify.NewDeliverer(store, health, alwaysAllowThrottle{}, silentLogger())

	err := deliverer.FanOut(context.Background(), "series-1", "chapter-1")
	require.NoError(t, err)
	assert.NotContains(t, store.inserted, "u1")
	assert.Equal(t, 1, store.inserted["u2"])
}
