// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package outbox replays the client-side offline action log server-side, per
spec §4.4. The client FIFO itself (dedup-on-enqueue, the 5-attempt retry
cap, the single-flight replay trigger) lives in the browser; this package
is the server contract it replays against, plus a reusable dedup helper a
future client SDK could share.
*/
package outbox

import (
	"encoding/json"
	"time"
)

// ActionType is the closed set of outbox action kinds.
type ActionType string

const (
	ActionLibraryAdd    ActionType = "LIBRARY_ADD"
	ActionLibraryUpdate ActionType = "LIBRARY_UPDATE"
	ActionLibraryDelete ActionType = "LIBRARY_DELETE"
	ActionChapterRead   ActionType = "CHAPTER_READ"
	ActionSettingUpdate ActionType = "SETTING_UPDATE"
)

// Status is the closed set of per-action replay outcomes.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusRetryable Status = "retryable"
	StatusPermanent Status = "permanent"
)

// Action mirrors the client's outbox entry (spec §3).
type Action struct {
	ID         string          `json:"id"`
	Type       ActionType      `json:"type"`
	EntryID    string          `json:"entryId,omitempty"`
	SeriesID   string          `json:"seriesId,omitempty"`
	ChapterID  string          `json:"chapterId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Timestamp  int64           `json:"timestamp"`
	DeviceID   string          `json:"deviceId"`
	RetryCount int             `json:"retryCount"`
}

// Result is what the reconciler reports back for each replayed action.
type Result struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

// occurredAt converts the action's millisecond client timestamp to a
// time.Time for use in LWW comparisons.
func (a Action) occurredAt() time.Time {
	return time.UnixMilli(a.Timestamp).UTC()
}

// Dedup applies the server-side defensive re-dedup rules mirroring the
// client's enqueue-time dedup (§4.4): within a single replay batch, only
// the winning action per collision key survives. This is belt-and-braces
// against a buggy or stale client submitting a batch the FIFO should
// already have collapsed.
func Dedup(actions []Action) []Action {
	type key struct {
		kind    ActionType
		subject string
	}
	winners := make(map[key]Action, len(actions))
	order := make([]key, 0, len(actions))

	for _, a := range actions {
		var k key
		switch a.Type {
		case ActionChapterRead:
			k = key{kind: a.Type, subject: a.EntryID}
		case ActionLibraryUpdate:
			k = key{kind: a.Type, subject: a.EntryID}
		case ActionLibraryAdd:
			k = key{kind: a.Type, subject: a.SeriesID}
		default:
			// LIBRARY_DELETE and SETTING_UPDATE append unchanged: give
			// each its own unique key so nothing collapses.
			k = key{kind: a.Type, subject: a.ID}
		}

		existing, seen := winners[k]
		if !seen {
			winners[k] = a
			order = append(order, k)
			continue
		}

		if a.Type == ActionChapterRead {
			if chapterNumber(a) > chapterNumber(existing) {
				winners[k] = a
			}
			continue
		}
		// LIBRARY_UPDATE / LIBRARY_ADD: keep the newest.
		if a.Timestamp > existing.Timestamp {
			winners[k] = a
		}
	}

	result := make([]Action, 0, len(order))
	for _, k := range order {
		result = append(result, winners[k])
	}
	return result
}

// chapterNumber extracts the CHAPTER_READ payload's chapter number for the
// dedup comparison; a malformed payload loses the comparison rather than
// panicking.
func chapterNumber(a Action) int {
	var payload struct {
		ChapterNumber int `json:"chapterNumber"`
	}
	if err := json.Unmarshal(a.Payload, &payload); err != nil {
		return -1
	}
	return payload.ChapterNumber
}
