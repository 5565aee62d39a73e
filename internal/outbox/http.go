// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outbox

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yomira-app/yomira/internal/platform/apperr"
	requestutil "github.com/yomira-app/yomira/internal/platform/request"
	"github.com/yomira-app/yomira/internal/platform/respond"
)

// maxReplayBodyBytes caps a /sync/replay request body at 1 MB.
const maxReplayBodyBytes = 1 << 20

// Handler implements the HTTP delivery layer for outbox replay.
type Handler struct {
	reconciler *Reconciler
}

// NewHandler constructs an outbox [Handler].
func NewHandler(reconciler *Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

// Routes returns a [chi.Router] configured with the outbox domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/sync/replay", handler.replay)
	return router
}

/*
POST /api/v1/sync/replay.

Description: Replays a batch of offline outbox actions, sorted by
timestamp ascending, and reports a per-action outcome.

Request:
  - body: []Action

Response:
  - 200: []Result
  - 400: ErrInvalidJSON: Malformed body or payload
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) replay(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if request.Header.Get("Content-Type") != "application/json" {
		respond.Error(writer, request, apperr.BadRequest("Content-Type must be application/json"))
		return
	}
	request.Body = http.MaxBytesReader(writer, request.Body, maxReplayBodyBytes)

	var actions []Action
	if err := requestutil.DecodeJSON(request, &actions); err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, err := handler.reconciler.Replay(request.Context(), userID, actions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, results)
}
