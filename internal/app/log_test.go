package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLineHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name       string
		instanceID string
		level      slog.Level
		message    string
		attrs      []slog.Attr
		want       string
	}{
		{
			name:       "basic info message",
			instanceID: "inst-123",
			level:      slog.LevelInfo,
			message:    "bug created",
			want:       "2024-06-15T14:30:45Z\tINFO\tinst-123\tbug created\n",
		},
		{
			name:       "error level",
			instanceID: "inst-456",
			level:      slog.LevelError,
			message:    "request failed",
			want:       "2024-06-15T14:30:45Z\tERROR\tinst-456\trequest failed\n",
		},
		{
			name:       "with record attrs",
			instanceID: "inst-789",
			level:      slog.LevelInfo,
			message:    "request",
			attrs:      []slog.Attr{slog.String("path", "/bugs/1"), slog.Int("status", 404)},
			want:       "2024-06-15T14:30:45Z\tINFO\tinst-789\trequest\tpath=/bugs/1\tstatus=404\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newLineHandler(&buf, tt.instanceID, slog.LevelDebug)

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLineHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newLineHandler(&buf, "inst-1", slog.LevelDebug)

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "api")})

	r := slog.NewRecord(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), slog.LevelInfo, "request", 0)
	r.AddAttrs(slog.String("method", "GET"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=api") {
		t.Errorf("expected pre-set attr component=api, got: %q", got)
	}
	if !strings.Contains(got, "method=GET") {
		t.Errorf("expected record attr method=GET, got: %q", got)
	}
	if len(h.attrs) != 0 {
		t.Errorf("WithAttrs() modified original handler: %d attrs", len(h.attrs))
	}
}

func TestLineHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLineHandler(&buf, "inst-1", slog.LevelDebug))

	logger.WithGroup("http").Info("request", "status", 200)

	if got := buf.String(); !strings.Contains(got, "\thttp.status=200") {
		t.Errorf("expected grouped key http.status, got: %q", got)
	}
}

func TestLineHandler_Enabled(t *testing.T) {
	h := newLineHandler(&bytes.Buffer{}, "", slog.LevelWarn)

	tests := map[slog.Level]bool{
		slog.LevelDebug: false,
		slog.LevelInfo:  false,
		slog.LevelWarn:  true,
		slog.LevelError: true,
	}
	for level, want := range tests {
		if got := h.Enabled(context.Background(), level); got != want {
			t.Errorf("Enabled(%v) = %v, want %v", level, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLevel(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("with log dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "log")

		logger, f, err := newLogger(dir, "test-instance", slog.LevelInfo)
		if err != nil {
			t.Fatalf("newLogger() error = %v", err)
		}
		if f == nil {
			t.Fatal("newLogger() returned nil file")
		}
		defer f.Close()

		logger.Info("hello", "k", "v")

		data, err := os.ReadFile(filepath.Join(dir, "bugtracker.log"))
		if err != nil {
			t.Fatalf("reading log file: %v", err)
		}
		if !strings.Contains(string(data), "\ttest-instance\thello\tk=v") {
			t.Errorf("log file = %q, want hello line", data)
		}
	})

	t.Run("without log dir", func(t *testing.T) {
		logger, f, err := newLogger("", "test-instance", slog.LevelInfo)
		if err != nil {
			t.Fatalf("newLogger() error = %v", err)
		}
		if logger == nil {
			t.Fatal("newLogger() returned nil logger")
		}
		if f != nil {
			t.Errorf("newLogger() returned file %s, want nil", f.Name())
		}
	})
}
