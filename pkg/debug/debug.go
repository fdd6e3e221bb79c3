// Package debug provides category-based debug logging for slipstream.
//
// Categories select WHAT is logged; the slog level still decides whether
// debug records are written at all. Enable them with SLIPSTREAM_DEBUG or
// logging.debug, e.g. "providers,streaming" or "all".
//
//	debug.Log(ctx, debug.Providers, "invoking backend", "url", url)
//	if debug.Enabled(debug.Streaming) { /* expensive formatting */ }
package debug

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// Categories understood by slipstream.
const (
	Providers = "providers" // backend request bodies and stream setup
	Streaming = "streaming" // every relayed chunk
	All       = "all"
)

var categories atomic.Pointer[map[string]bool]

func init() {
	Configure("")
}

// Configure replaces the enabled categories with the comma-separated list
// in spec. Names are case-insensitive.
func Configure(spec string) {
	m := parseCategories(spec)
	categories.Store(&m)
}

// Enabled reports whether debug output is active for category.
func Enabled(category string) bool {
	m := *categories.Load()
	return m[All] || m[category]
}

// Log emits a debug record tagged with category. It is a no-op unless the
// category is enabled.
func Log(ctx context.Context, category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.DebugContext(ctx, msg, append([]any{slog.String("debug", category)}, args...)...)
}

// Categories returns the enabled categories in sorted order.
func Categories() []string {
	m := *categories.Load()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Truncate shortens s to at most maxLen bytes without splitting a UTF-8
// sequence, appending "..." when it cut anything.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
