// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package csrf implements the Origin/Referer mutating-request guard and the
// open-redirect target guard. Both are pure net/url string comparisons, so
// this package intentionally carries no third-party dependency.
package csrf

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/yomira-app/yomira/internal/platform/apperr"
	"github.com/yomira-app/yomira/internal/platform/respond"
)

// Config is the set of trusted hosts the guard compares requests against.
type Config struct {
	// CanonicalURL is the public site origin, e.g. "https://yomira.app".
	CanonicalURL string
	// AllowList is additional trusted hosts (bare host, no scheme).
	AllowList []string
	// Development bypasses the guard entirely when true.
	Development bool
}

// Guard returns middleware enforcing the CSRF contract: every mutating
// request's Origin (or Referer when Origin is absent) must equal Host,
// X-Forwarded-Host, the canonical URL's host, or a member of AllowList.
func Guard(cfg Config) func(http.Handler) http.Handler {
	canonicalHost := hostOf(cfg.CanonicalURL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Development || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = r.Header.Get("Referer")
			}

			if origin == "" || !hostMatches(hostOf(origin), r, canonicalHost, cfg.AllowList) {
				respond.Error(w, r, apperr.Forbidden("Cross-origin request rejected"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hostMatches(candidate string, r *http.Request, canonicalHost string, allowList []string) bool {
	if candidate == "" {
		return false
	}
	if candidate == r.Host {
		return true
	}
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" && candidate == forwarded {
		return true
	}
	if canonicalHost != "" && candidate == canonicalHost {
		return true
	}
	for _, allowed := range allowList {
		if candidate == strings.TrimSpace(allowed) {
			return true
		}
	}
	return false
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Host
}
