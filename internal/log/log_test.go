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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestNew_JSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Component: ComponentLedger, Output: &buf})

	l.Info("hello", FieldTxID, 7)
	l.Debug("filtered out")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, ComponentLedger, rec[FieldComponent])
	assert.EqualValues(t, 7, rec[FieldTxID])
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: FormatText, Component: ComponentApp, Output: &buf})

	sub := l.WithComponent(ComponentStorage)
	assert.Equal(t, ComponentStorage, sub.Component())
	assert.Equal(t, ComponentApp, l.Component())

	sub.Warn("slow query")
	assert.Contains(t, buf.String(), "component=storage")
}

func TestMiddlewareAndFromContext(t *testing.T) {
	l := New(Config{Component: ComponentHTTP, Output: &bytes.Buffer{}})

	var got *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Same(t, l, got)
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestLogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(New(Config{Format: FormatJSON, Output: &buf}))
		r := httptest.NewRequest(http.MethodGet, "/transactions/1", nil)

		sl.LogHTTPEnd(context.Background(), r, tt.status, 3, "10.0.0.1")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, tt.level, rec["level"])
		assert.EqualValues(t, tt.status, rec[FieldStatusCode])
		assert.Equal(t, tt.status < 400, rec[FieldSuccess])
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithRequestID("abc").
		WithError(nil).
		WithTransaction(3, "income", "salary", "1000")

	assert.Equal(t, "abc", f[FieldRequestID])
	assert.NotContains(t, f, FieldError)
	assert.Len(t, f.ToSlice(), 2*len(f))

	f.WithError(errors.New("boom"))
	assert.Equal(t, "boom", f[FieldError])
}
