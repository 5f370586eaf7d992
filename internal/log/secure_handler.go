package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always masked. The
// scanner's per-site configuration carries cookies and custom headers,
// and both flow close to request logging.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"api_key":             true,
	"api-key":             true,
	"apikey":              true,
}

// sensitiveKeywords mask any key containing them, catching variants like
// "site_token" or "auth_header" without enumerating every spelling. The
// bare "key" keyword is deliberately absent; it false-positives on
// attribute names like "hostkey counts" and "keyboard".
var sensitiveKeywords = []string{
	"password", "secret", "token", "auth", "credential",
}

// credentialValue matches Authorization-style header values. Site header
// maps are user-supplied, so a credential can arrive under any key name.
var credentialValue = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`)

// SecureHandler wraps an slog.Handler and masks site credentials before
// records reach the underlying handler. Cookie attributes keep their
// cookie names with masked values, so debug output still shows which
// cookies were sent without exposing session tokens.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components taking *slog.Logger get masking for free
type SecureHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewSecureHandler creates a SecureHandler wrapping the given handler.
// A nil handler falls back to slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added, masked.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(maskedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursing into groups and into
// header maps logged as a single attribute.
func (h *SecureHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)

	if keyLower == "cookie" && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, maskCookie(a.Value.String()))
	}

	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if credentialValue.MatchString(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
	case slog.KindAny:
		if headers, ok := a.Value.Any().(map[string]string); ok {
			return slog.Any(a.Key, maskHeaders(headers))
		}
	}

	return a
}

// maskCookie keeps cookie names and masks their values, so
// "session=abc123; theme=dark" logs as "session=***; theme=***".
func maskCookie(cookie string) string {
	parts := strings.Split(cookie, ";")
	for i, part := range parts {
		name, _, ok := strings.Cut(part, "=")
		if !ok {
			parts[i] = strings.TrimSpace(part)
			continue
		}
		parts[i] = strings.TrimSpace(name) + "=***"
	}
	return strings.Join(parts, "; ")
}

// maskHeaders copies a site header map with sensitive entries masked.
// Benign headers like Accept-Language survive so debug output stays
// useful for diagnosing per-site request behavior.
func maskHeaders(headers map[string]string) map[string]string {
	masked := make(map[string]string, len(headers))
	for k, v := range headers {
		keyLower := strings.ToLower(k)
		switch {
		case keyLower == "cookie":
			masked[k] = maskCookie(v)
		case sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower):
			masked[k] = MaskValue
		case credentialValue.MatchString(v):
			masked[k] = MaskValue
		default:
			masked[k] = v
		}
	}
	return masked
}

// containsSensitiveKeyword checks if the key contains a sensitive keyword.
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// NewSecureLogger creates a slog.Logger that masks site credentials in
// all output. Verbose lowers the level to Debug; the default level is
// Warn so scan output stays clean.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(NewSecureHandler(slog.NewTextHandler(w, opts)))
}
