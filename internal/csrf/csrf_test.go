// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package csrf_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yomira-app/yomira/internal/csrf"
)

func TestGuard_AllowsSameOriginMutations(t *testing.T) {
	cfg := csrf.Config{CanonicalURL: "https://yomira.app"}
	handler := csrf.Guard(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodPost, "https://yomira.app/library/entry", nil)
	request.Host = "yomira.app"
	request.Header.Set("Origin", "https://yomira.app")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGuard_RejectsForeignOrigin(t *testing.T) {
	cfg := csrf.Config{CanonicalURL: "https://yomira.app"}
	handler := csrf.Guard(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodPost, "https://yomira.app/library/entry", nil)
	request.Host = "yomira.app"
	request.Header.Set("Origin", "https://evil.example")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestGuard_ExemptsGet(t *testing.T) {
	cfg := csrf.Config{CanonicalURL: "https://yomira.app"}
	handler := csrf.Guard(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "https://yomira.app/library", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGuard_BypassesInDevelopment(t *testing.T) {
	cfg := csrf.Config{CanonicalURL: "https://yomira.app", Development: true}
	handler := csrf.Guard(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodPost, "https://yomira.app/library/entry", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSafeTarget(t *testing.T) {
	cfg := csrf.Config{CanonicalURL: "https://yomira.app", AllowList: []string{"cdn.yomira.app"}}

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"path_absolute", "/library/42", "/library/42"},
		{"empty", "", csrf.DefaultSafeTarget},
		{"protocol_relative", "//evil.example/phish", csrf.DefaultSafeTarget},
		{"canonical_host", "https://yomira.app/settings", "https://yomira.app/settings"},
		{"allow_listed_host", "https://cdn.yomira.app/asset.png", "https://cdn.yomira.app/asset.png"},
		{"foreign_host", "https://evil.example/phish", csrf.DefaultSafeTarget},
		{"javascript_uri", "javascript:alert(1)", csrf.DefaultSafeTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, csrf.SafeTarget(tt.target, cfg))
		})
	}
}
