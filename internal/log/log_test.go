package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func newJSONLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{Component: component, Handler: NewHandler(buf, "json", slog.LevelDebug)})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogger_ComponentTagged(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, ComponentApp)

	logger.Info("hello", "k", "v")
	logger.WithComponent(ComponentLedger).Warn("careful")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if lines[0][FieldComponent] != ComponentApp || lines[0]["k"] != "v" {
		t.Errorf("first line = %v", lines[0])
	}
	if lines[1][FieldComponent] != ComponentLedger || lines[1]["level"] != "WARN" {
		t.Errorf("second line = %v", lines[1])
	}
}

func TestNewHandler_TextByDefault(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Component: "x", Handler: NewHandler(&buf, "text", slog.LevelInfo)}).Debug("hidden")
	New(Config{Component: "x", Handler: NewHandler(&buf, "", slog.LevelInfo)}).Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") {
		t.Errorf("text output missing message: %q", out)
	}
}

func TestMiddleware_LogsStatusLevel(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := newJSONLogger(&buf, ComponentApp)

			var fromCtx *Logger
			h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = FromContext(r.Context())
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/report?window=all", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			h.ServeHTTP(httptest.NewRecorder(), req)

			if fromCtx != logger {
				t.Error("logger not placed in request context")
			}
			lines := decodeLines(t, &buf)
			if len(lines) != 1 {
				t.Fatalf("got %d log lines, want 1", len(lines))
			}
			line := lines[0]
			if line["level"] != tt.level {
				t.Errorf("level = %v, want %v", line["level"], tt.level)
			}
			if line[FieldStatusCode] != float64(tt.status) {
				t.Errorf("status = %v, want %d", line[FieldStatusCode], tt.status)
			}
			if line[FieldPath] != "/api/report" || line[FieldQuery] != "window=all" {
				t.Errorf("request fields = %v", line)
			}
			if line[FieldClientIP] != "10.0.0.1" {
				t.Errorf("client ip = %v", line[FieldClientIP])
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	h := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("request id not generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc" {
		t.Errorf("request id = %q, want abc", got)
	}
}

func TestRequestIDMiddleware_TagsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	h := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	req = req.WithContext(context.WithValue(req.Context(), LoggerContextKey, newJSONLogger(&buf, ComponentHTTP)))
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1", len(lines))
	}
	if lines[0][FieldRequestID] != "abc" {
		t.Errorf("request id field = %v, want abc", lines[0][FieldRequestID])
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.168.1.5:5555", "192.168.1.5"},
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.1:1", "198.51.100.2"},
		{"garbage forwarded", map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.1:1", "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuredLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newJSONLogger(&buf, ComponentApp))

	sl.LogError(context.Background(), "sync failed", errors.New("boom"), ComponentSheets, OpSync, nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1", len(lines))
	}
	if lines[0][FieldError] != "boom" || lines[0][FieldOperation] != OpSync || lines[0][FieldComponent] != ComponentSheets {
		t.Errorf("error line = %v", lines[0])
	}
}
