// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package csrf

import (
	"net/url"
	"strings"
)

// DefaultSafeTarget is returned whenever a requested redirect target fails
// every same-origin / canonical / allow-list check.
const DefaultSafeTarget = "/"

// SafeTarget collapses target into a safe redirect destination: a same-
// origin path-absolute target, a target whose host matches cfg's canonical
// URL, or a target whose host is in cfg's AllowList. Anything else
// (protocol-relative URLs, foreign hosts, javascript: URIs) collapses to
// [DefaultSafeTarget].
func SafeTarget(target string, cfg Config) string {
	if target == "" {
		return DefaultSafeTarget
	}

	// A bare path (no scheme, no host, starts with exactly one slash) is
	// always same-origin safe. Reject protocol-relative "//host" forms,
	// which browsers treat as absolute.
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return DefaultSafeTarget
	}

	canonicalHost := hostOf(cfg.CanonicalURL)
	if canonicalHost != "" && parsed.Host == canonicalHost {
		return target
	}

	for _, allowed := range cfg.AllowList {
		if parsed.Host == strings.TrimSpace(allowed) {
			return target
		}
	}

	return DefaultSafeTarget
}
