package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_MasksSensitiveKeys tests that sensitive keys are masked.
func TestSecureHandler_MasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{
			name:     "authorization key is masked",
			key:      "authorization",
			value:    "Bearer token123",
			wantMask: true,
		},
		{
			name:     "Authorization key (mixed case) is masked",
			key:      "Authorization",
			value:    "Bearer token123",
			wantMask: true,
		},
		{
			name:     "password key is masked",
			key:      "password",
			value:    "secretpassword",
			wantMask: true,
		},
		{
			name:     "api_key key is masked",
			key:      "api_key",
			value:    "sk_live_123456789",
			wantMask: true,
		},
		{
			name:     "site_token key is masked by keyword",
			key:      "site_token",
			value:    "tok_987654",
			wantMask: true,
		},
		{
			name:     "url key is not masked",
			key:      "url",
			value:    "https://example.com/about",
			wantMask: false,
		},
		{
			name:     "pages key is not masked",
			key:      "pages",
			value:    "12",
			wantMask: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := NewSecureHandler(slog.NewTextHandler(&buf, nil))
			logger := slog.New(handler)

			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value %q to be masked, output: %s", tt.value, output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value in output: %s", output)
				}
			} else {
				if !strings.Contains(output, tt.value) {
					t.Errorf("expected value %q in output: %s", tt.value, output)
				}
			}
		})
	}
}

// TestSecureHandler_MasksCookieValues tests that cookie attributes keep
// their names with masked values.
func TestSecureHandler_MasksCookieValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSecureHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("request sent", "cookie", "session=abc123; theme=dark")

	output := buf.String()
	if strings.Contains(output, "abc123") {
		t.Errorf("expected cookie value to be masked, output: %s", output)
	}
	if !strings.Contains(output, "session=***") {
		t.Errorf("expected cookie name to survive, output: %s", output)
	}
	if !strings.Contains(output, "theme=***") {
		t.Errorf("expected second cookie name to survive, output: %s", output)
	}
}

// TestSecureHandler_MasksCredentialValues tests value-pattern masking
// under neutral key names.
func TestSecureHandler_MasksCredentialValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{
			name:  "bearer value is masked",
			value: "Bearer abc123def456",
		},
		{
			name:  "basic value is masked",
			value: "Basic dXNlcjpwYXNzd29yZA==",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := NewSecureHandler(slog.NewTextHandler(&buf, nil))
			logger := slog.New(handler)

			// Use a neutral key so masking must come from the value pattern.
			logger.Info("test message", "header_value", tt.value)

			output := buf.String()
			if strings.Contains(output, tt.value) {
				t.Errorf("expected value to be masked, output: %s", output)
			}
		})
	}
}

// TestSecureHandler_MasksHeaderMaps tests that a site header map logged
// as one attribute keeps benign entries and masks credentials.
func TestSecureHandler_MasksHeaderMaps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSecureHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("site configuration applied", "headers", map[string]string{
		"Authorization":   "Bearer site-secret",
		"Accept-Language": "en-US",
	})

	output := buf.String()
	if strings.Contains(output, "site-secret") {
		t.Errorf("expected header credential to be masked, output: %s", output)
	}
	if !strings.Contains(output, "en-US") {
		t.Errorf("expected benign header to survive, output: %s", output)
	}
}

// TestSecureHandler_MasksGroups tests that grouped attributes are masked.
func TestSecureHandler_MasksGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSecureHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("request",
		slog.Group("headers",
			slog.String("cookie", "session=secret123"),
			slog.String("accept", "text/html"),
		),
	)

	output := buf.String()
	if strings.Contains(output, "secret123") {
		t.Errorf("expected grouped cookie to be masked, output: %s", output)
	}
	if !strings.Contains(output, "text/html") {
		t.Errorf("expected non-sensitive grouped value to survive, output: %s", output)
	}
}

// TestSecureHandler_WithAttrs tests that attributes added via With are masked.
func TestSecureHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSecureHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler).With("token", "supersecrettoken")

	logger.Info("scan started")

	output := buf.String()
	if strings.Contains(output, "supersecrettoken") {
		t.Errorf("expected With attribute to be masked, output: %s", output)
	}
}

// TestMaskCookie tests cookie string masking directly.
func TestMaskCookie(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"single cookie", "session=abc123", "session=***"},
		{"multiple cookies", "a=1; b=2", "a=***; b=***"},
		{"no value part", "flag", "flag"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := maskCookie(tt.cookie); got != tt.want {
				t.Errorf("maskCookie(%q) = %q, want %q", tt.cookie, got, tt.want)
			}
		})
	}
}

// TestNewSecureLogger tests logger construction and level behavior.
func TestNewSecureLogger(t *testing.T) {
	t.Parallel()

	t.Run("verbose logger emits debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, true)

		logger.Debug("debug message")
		if !strings.Contains(buf.String(), "debug message") {
			t.Error("expected debug message in verbose mode")
		}
	})

	t.Run("non-verbose logger suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)

		logger.Info("info message")
		if buf.Len() != 0 {
			t.Errorf("expected info to be suppressed, got: %s", buf.String())
		}
	})

	t.Run("non-verbose logger emits warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewSecureLogger(&buf, false)

		logger.Warn("warn message")
		if !strings.Contains(buf.String(), "warn message") {
			t.Error("expected warning to be emitted")
		}
	})
}

// TestNewSecureHandler_NilHandler verifies nil falls back to the default handler.
func TestNewSecureHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewSecureHandler(nil)
	if handler.handler == nil {
		t.Error("expected non-nil underlying handler")
	}
}
