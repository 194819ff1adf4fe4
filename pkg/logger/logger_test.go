package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf, Service: "client-portal", Env: "test"})

	log.Debug().Msg("hidden")
	log.Info().Str("user_id", "u1").Msg("user registered")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "user registered" || entry["service"] != "client-portal" || entry["env"] != "test" || entry["user_id"] != "u1" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestInitGetReset(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	defer func() {
		if recover() == nil {
			t.Fatalf("Get before Init should panic")
		}
		var buf bytes.Buffer
		Init(Options{Output: &buf})
		l := Get()
		l.Info().Msg("ready")
		if buf.Len() == 0 {
			t.Fatalf("expected output after Init")
		}
	}()
	Get()
}
