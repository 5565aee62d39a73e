// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package progress

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yomira-app/yomira/internal/platform/apperr"
	requestutil "github.com/yomira-app/yomira/internal/platform/request"
	"github.com/yomira-app/yomira/internal/platform/respond"
	"github.com/yomira-app/yomira/internal/platform/validate"
)

// Handler implements the HTTP delivery layer for chapter progression.
type Handler struct {
	service *Service
}

// NewHandler constructs a progress [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the progress domain's
// endpoints. It is mounted under /library so the entry ID URL param
// reads naturally as /library/{entryId}/progress.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Patch("/{entryId}/progress", handler.setProgress)
	return router
}

type setProgressRequest struct {
	ChapterNumber int     `json:"chapterNumber"`
	SourceID      *string `json:"sourceId"`
	Timestamp     int64   `json:"timestamp"`
	DeviceID      string  `json:"deviceId"`
}

/*
PATCH /api/v1/library/{entryId}/progress.

Description: Marks every chapter 1..chapterNumber of the entry's series as
read for the authenticated user, awarding XP at most once regardless of
jump size.

Request:
  - entryId: string (UUID)
  - body: setProgressRequest

Response:
  - 200: Result: The updated entry state plus XP/level delta
  - 400: ErrValidation: Invalid chapterNumber or malformed body
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Library entry not found
*/
func (handler *Handler) setProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entryID := requestutil.ID(request, "entryId")
	if entryID == "" {
		respond.Error(writer, request, apperr.BadRequest("entryId is required"))
		return
	}

	var input setProgressRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Custom("chapterNumber", input.ChapterNumber < 0, "Must be non-negative")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ts := time.Now().UTC()
	if input.Timestamp > 0 {
		ts = time.UnixMilli(input.Timestamp).UTC()
	}

	result, err := handler.service.SetProgress(request.Context(), entryID, userID, input.ChapterNumber, ts)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
