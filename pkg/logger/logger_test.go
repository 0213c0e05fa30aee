package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorCarriesChannelAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithOrderID(context.Background(), 42)
	ctx = logg.WithLeadID(ctx, 777)
	logg.Error(ctx, "relation save failed", errors.New("boom"))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["channel"] != Channel {
		t.Fatalf("unexpected channel %v", entry["channel"])
	}
	if entry["level"] != "error" {
		t.Fatalf("unexpected level %v", entry["level"])
	}
	if entry["radicalmart_order_id"] != float64(42) || entry["amocrm_lead_id"] != float64(777) {
		t.Fatalf("context fields missing: %v", entry)
	}
	if entry["error"] != "boom" {
		t.Fatalf("unexpected error field %v", entry["error"])
	}
	if _, ok := entry["stack"]; !ok {
		t.Fatalf("expected stack on error entries")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf, Level: zerolog.ErrorLevel})

	logg.Info(context.Background(), "hidden")
	logg.Debug(context.Background(), "hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below error level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"unknown": zerolog.InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNopDiscards(t *testing.T) {
	logg := Nop()
	logg.Error(context.Background(), "ignored", errors.New("x"))
	if !strings.Contains(Channel, "wtamocrm") {
		t.Fatalf("unexpected channel constant %q", Channel)
	}
}
