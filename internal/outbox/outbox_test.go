// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outbox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yomira-app/yomira/internal/outbox"
)

func action(id string, actionType outbox.ActionType, entryID, seriesID string, timestamp int64, payload string) outbox.Action {
	return outbox.Action{
		ID: id, Type: actionType, EntryID: entryID, SeriesID: seriesID,
		Timestamp: timestamp, Payload: []byte(payload), DeviceID: "device-1",
	}
}

func TestDedup_ChapterReadKeepsHighestChapter(t *testing.T) {
	actions := []outbox.Action{
		action("a1", outbox.ActionChapterRead, "entry-1", "", 100, `{"chapterNumber":5}`),
		action("a2", outbox.ActionChapterRead, "entry-1", "", 200, `{"chapterNumber":12}`),
		action("a3", outbox.ActionChapterRead, "entry-1", "", 150, `{"chapterNumber":8}`),
	}
	got := outbox.Dedup(actions)
	assert.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].ID)
}

func TestDedup_LibraryUpdateKeepsNewest(t *testing.T) {
	actions := []outbox.Action{
		action("a1", outbox.ActionLibraryUpdate, "entry-1", "", 100, `{}`),
		action("a2", outbox.ActionLibraryUpdate, "entry-1", "", 300, `{}`),
		action("a3", outbox.ActionLibraryUpdate, "entry-1", "", 200, `{}`),
	}
	got := outbox.Dedup(actions)
	assert.Len(t, got, 1)
	assert.Equal(t, "a2", got[0].ID)
}

func TestDedup_LibraryAddKeepsNewestPerSeries(t *testing.T) {
	actions := []outbox.Action{
		action("a1", outbox.ActionLibraryAdd, "", "series-1", 100, `{}`),
		action("a2", outbox.ActionLibraryAdd, "", "series-1", 300, `{}`),
		action("a3", outbox.ActionLibraryAdd, "", "series-2", 50, `{}`),
	}
	got := outbox.Dedup(actions)
	assert.Len(t, got, 2)
}

func TestDedup_DeletesAndSettingsAppendUnchanged(t *testing.T) {
	actions := []outbox.Action{
		action("a1", outbox.ActionLibraryDelete, "entry-1", "", 100, `{}`),
		action("a2", outbox.ActionLibraryDelete, "entry-1", "", 200, `{}`),
		action("a3", outbox.ActionSettingUpdate, "", "", 100, `{"key":"theme","value":"dark"}`),
	}
	got := outbox.Dedup(actions)
	assert.Len(t, got, 3, "LIBRARY_DELETE and SETTING_UPDATE are never collapsed")
}

func TestDedup_DifferentEntriesAreIndependent(t *testing.T) {
	actions := []outbox.Action{
		action("a1", outbox.ActionChapterRead, "entry-1", "", 100, `{"chapterNumber":5}`),
		action("a2", outbox.ActionChapterRead, "entry-2", "", 100, `{"chapterNumber":5}`),
	}
	got := outbox.Dedup(actions)
	assert.Len(t, got, 2)
}
