// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outbox_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomira-app/yomira/internal/outbox"
	"github.com/yomira-app/yomira/internal/progress"
)

type fakeLibraryStore struct {
	added    map[string]string
	statuses map[string]string
	deleted  map[string]bool
	failAdd  error
}

func newFakeLibraryStore() *fakeLibraryStore {
	return &fakeLibraryStore{added: map[string]string{}, statuses: map[string]string{}, deleted: map[string]bool{}}
}

func (f *fakeLibraryStore) AddOrRestore(_ context.Context, clientEntryID, _, seriesID, status string, _ time.Time) (string, error) {
	if f.failAdd != nil {
		return "", f.failAdd
	}
	f.added[seriesID] = clientEntryID
	f.statuses[clientEntryID] = status
	return clientEntryID, nil
}

func (f *fakeLibraryStore) UpdateStatus(_ context.Context, entryID, _, incomingStatus string, _ int, _ time.Time) error {
	f.statuses[entryID] = incomingStatus
	return nil
}

func (f *fakeLibraryStore) SoftDelete(_ context.Context, entryID, _ string, _ time.Time) error {
	f.deleted[entryID] = true
	return nil
}

type fakeSettingsStore struct {
	values map[string]string
}

func (f *fakeSettingsStore) Upsert(_ context.Context, userID, key string, value []byte, _ time.Time) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[userID+":"+key] = string(value)
	return nil
}

type fakeProgressStore struct {
	applied int
}

func (f *fakeProgressStore) SetProgress(context.Context, string, string, int, time.Time) (*progress.Result, error) {
	return &progress.Result{}, nil
}

func (f *fakeProgressStore) ApplyChapterRead(context.Context, string, string, string, int, bool, time.Time) (*progress.Result, error) {
	f.applied++
	return &progress.Result{ChaptersMarkedRead: 1}, nil
}

func (f *fakeProgressStore) GrantMigrationBonus(context.Context, string, int) (bool, int, error) {
	return false, 0, nil
}

func (f *fakeProgressStore) RecordReadSignal(context.Context, string, string, int, int, time.Time) (*progress.ViolationType, error) {
	return nil, nil
}

func (f *fakeProgressStore) ReconcileChaptersRead(context.Context) (int64, error) {
	return 0, nil
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReconciler() (*outbox.Reconciler, *fakeLibraryStore, *fakeSettingsStore, *fakeProgressStore) {
	library := newFakeLibraryStore()
	settings := &fakeSettingsStore{}
	progressStore := &fakeProgressStore{}
	progressSvc := progress.NewService(progressStore, silentLogger())
	return outbox.NewReconciler(library, settings, progressSvc, silentLogger()), library, settings, progressStore
}

func TestReplay_OrdersByTimestampThenID(t *testing.T) {
	reconciler, library, _, _ := newTestReconciler()

	actions := []outbox.Action{
		{ID: "b", Type: outbox.ActionLibraryAdd, EntryID: "entry-2", SeriesID: "series-2", Timestamp: 100, Payload: []byte(`{"status":"reading"}`)},
		{ID: "a", Type: outbox.ActionLibraryAdd, EntryID: "entry-1", SeriesID: "series-1", Timestamp: 100, Payload: []byte(`{"status":"reading"}`)},
	}

	results, err := reconciler.Replay(context.Background(), "user-1", actions)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID, "same-timestamp actions tiebreak by id ascending")
	assert.Equal(t, "b", results[1].ID)
	assert.Equal(t, "reading", library.statuses["entry-2"])
}

func TestReplay_ChapterReadDispatchesToProgress(t *testing.T) {
	reconciler, _, _, progressStore := newTestReconciler()

	actions := []outbox.Action{
		{ID: "a", Type: outbox.ActionChapterRead, EntryID: "entry-1", ChapterID: "chapter-1", Timestamp: 100, Payload: []byte(`{"chapterNumber":5,"isRead":true}`)},
	}

	results, err := reconciler.Replay(context.Background(), "user-1", actions)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, outbox.StatusSuccess, results[0].Status)
	assert.Equal(t, 1, progressStore.applied)
}

func TestReplay_DeleteIsAlwaysSuccess(t *testing.T) {
	reconciler, library, _, _ := newTestReconciler()

	actions := []outbox.Action{
		{ID: "a", Type: outbox.ActionLibraryDelete, EntryID: "entry-1", Timestamp: 100, Payload: []byte(`{}`)},
	}

	results, err := reconciler.Replay(context.Background(), "user-1", actions)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusSuccess, results[0].Status)
	assert.True(t, library.deleted["entry-1"])
}

func TestReplay_SettingUpdateUpserts(t *testing.T) {
	reconciler, _, settings, _ := newTestReconciler()

	actions := []outbox.Action{
		{ID: "a", Type: outbox.ActionSettingUpdate, Timestamp: 100, Payload: []byte(`{"key":"theme","value":"dark"}`)},
	}

	results, err := reconciler.Replay(context.Background(), "user-1", actions)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusSuccess, results[0].Status)
	assert.Equal(t, `"dark"`, settings.values["user-1:theme"])
}

func TestReplay_MalformedPayloadIsPermanent(t *testing.T) {
	reconciler, _, _, _ := newTestReconciler()

	actions := []outbox.Action{
		{ID: "a", Type: outbox.ActionSettingUpdate, Timestamp: 100, Payload: []byte(`not json`)},
	}

	results, err := reconciler.Replay(context.Background(), "user-1", actions)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusPermanent, results[0].Status)
}

func TestReplay_UnknownActionTypeIsPermanent(t *testing.T) {
	reconciler, _, _, _ := newTestReconciler()

	actions := []outbox.Action{
		{ID: "a", Type: outbox.ActionType("NONSENSE"), Timestamp: 100, Payload: []byte(`{}`)},
	}

	results, err := reconciler.Replay(context.Background(), "user-1", actions)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusPermanent, results[0].Status)
}
