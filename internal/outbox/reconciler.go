// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/yomira-app/yomira/internal/platform/apperr"
	"github.com/yomira-app/yomira/internal/progress"
)

// Reconciler replays a batch of outbox actions server-side, per §4.4.
type Reconciler struct {
	library  LibraryStore
	settings SettingsStore
	progress *progress.Service
	logger   *slog.Logger
}

// NewReconciler constructs a [Reconciler].
func NewReconciler(library LibraryStore, settings SettingsStore, progressSvc *progress.Service, logger *slog.Logger) *Reconciler {
	return &Reconciler{library: library, settings: settings, progress: progressSvc, logger: logger}
}

// Replay applies actions in timestamp order (tiebreak by action id), after
// a defensive server-side [Dedup] pass, dispatching each to the store that
// owns its ActionType. One action failing never aborts the batch — every
// action gets its own [Result].
func (r *Reconciler) Replay(ctx context.Context, userID string, actions []Action) ([]Result, error) {
	deduped := Dedup(actions)

	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].Timestamp != deduped[j].Timestamp {
			return deduped[i].Timestamp < deduped[j].Timestamp
		}
		return deduped[i].ID < deduped[j].ID
	})

	results := make([]Result, 0, len(deduped))
	for _, action := range deduped {
		results = append(results, r.apply(ctx, userID, action))
	}
	return results, nil
}

func (r *Reconciler) apply(ctx context.Context, userID string, action Action) Result {
	var err error
	switch action.Type {
	case ActionChapterRead:
		err = r.applyChapterRead(ctx, userID, action)
	case ActionLibraryAdd:
		err = r.applyLibraryAdd(ctx, userID, action)
	case ActionLibraryUpdate:
		err = r.applyLibraryUpdate(ctx, userID, action)
	case ActionLibraryDelete:
		err = r.library.SoftDelete(ctx, action.EntryID, userID, action.occurredAt())
	case ActionSettingUpdate:
		err = r.applySettingUpdate(ctx, userID, action)
	default:
		r.logger.WarnContext(ctx, "outbox_unknown_action_type", slog.String("type", string(action.Type)))
		return Result{ID: action.ID, Status: StatusPermanent}
	}

	if err == nil {
		return Result{ID: action.ID, Status: StatusSuccess}
	}

	r.logger.WarnContext(ctx, "outbox_action_failed",
		slog.String("action_id", action.ID), slog.String("type", string(action.Type)), slog.String("error", err.Error()))
	return Result{ID: action.ID, Status: classify(err)}
}

// classify maps an error to the replay status the client acts on: a
// permanent failure (bad auth, validation) must never be retried, while
// anything else is worth another attempt.
func classify(err error) Status {
	appErr := apperr.As(err)
	if appErr == nil {
		return StatusRetryable
	}
	switch appErr.HTTPStatus {
	case 401, 403, 400, 422:
		return StatusPermanent
	case 404:
		// a 404 is folded into success by the individual handlers for
		// LIBRARY_DELETE; any 404 reaching here is a different action
		// type referencing a gone resource, which also can't ever
		// succeed on retry.
		return StatusPermanent
	default:
		return StatusRetryable
	}
}

func (r *Reconciler) applyChapterRead(ctx context.Context, userID string, action Action) error {
	var payload struct {
		ChapterNumber int  `json:"chapterNumber"`
		IsRead        bool `json:"isRead"`
	}
	if err := json.Unmarshal(action.Payload, &payload); err != nil {
		return apperr.BadRequest("invalid CHAPTER_READ payload")
	}
	_, err := r.progress.ApplyChapterRead(ctx, userID, action.EntryID, action.ChapterID, payload.ChapterNumber, payload.IsRead, action.occurredAt())
	return err
}

func (r *Reconciler) applyLibraryAdd(ctx context.Context, userID string, action Action) error {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(action.Payload, &payload); err != nil || payload.Status == "" {
		payload.Status = string(progress.StatusPlanning)
	}
	_, err := r.library.AddOrRestore(ctx, action.EntryID, userID, action.SeriesID, payload.Status, action.occurredAt())
	return err
}

func (r *Reconciler) applyLibraryUpdate(ctx context.Context, userID string, action Action) error {
	var payload struct {
		Status   string `json:"status"`
		Progress int    `json:"progress"`
	}
	if err := json.Unmarshal(action.Payload, &payload); err != nil {
		return apperr.BadRequest("invalid LIBRARY_UPDATE payload")
	}
	return r.library.UpdateStatus(ctx, action.EntryID, userID, payload.Status, payload.Progress, action.occurredAt())
}

func (r *Reconciler) applySettingUpdate(ctx context.Context, userID string, action Action) error {
	var payload struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(action.Payload, &payload); err != nil || payload.Key == "" {
		return apperr.BadRequest("invalid SETTING_UPDATE payload")
	}
	return r.settings.Upsert(ctx, userID, payload.Key, payload.Value, action.occurredAt())
}
