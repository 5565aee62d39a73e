// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sync

import (
	"context"
	"encoding/json"

	"github.com/yomira-app/yomira/internal/crawl/gatekeeper"
)

// QueueDepth implements [gatekeeper.QueueDepthReader] by delegating to Depth.
func (q *Queue) QueueDepth(ctx context.Context) (int, error) {
	return q.Depth(ctx)
}

// EnqueueSync implements [gatekeeper.SyncJobEnqueuer]: it builds a Job from
// the gatekeeper's decision and pushes it onto the priority band matching
// the assigned priority.
func (q *Queue) EnqueueSync(ctx context.Context, jobID string, priority gatekeeper.Priority, payload map[string]any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return q.Enqueue(ctx, Job{
		ID:       jobID,
		Queue:    "sync-source",
		Priority: int(priority),
		Payload:  encoded,
	})
}
