package session_test

import (
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/cco/internal/session"
)

func generateRecord(t *rapid.T) session.Record {
	return session.Record{
		Command:   rapid.String().Draw(t, "command"),
		Output:    rapid.String().Draw(t, "output"),
		Timestamp: rapid.Uint64().Draw(t, "timestamp"),
		SessionID: rapid.StringMatching(`session_[a-z0-9_]{0,20}`).Draw(t, "session_id"),
	}
}

// Feature: cco, Property: record round-trip
func TestRecordRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		original := generateRecord(t)

		data, err := session.MarshalRecord(original)
		if err != nil {
			t.Fatalf("MarshalRecord: %v", err)
		}
		parsed, err := session.ParseRecord(data)
		if err != nil {
			t.Fatalf("ParseRecord: %v", err)
		}
		if parsed != original {
			t.Fatalf("round-trip mismatch: got %+v, want %+v", parsed, original)
		}
	})
}

func TestRecordFieldNames(t *testing.T) {
	data, err := session.MarshalRecord(session.Record{Command: "ls", Output: "a\n", Timestamp: 7, SessionID: "s"})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"command"`, `"output"`, `"timestamp": 7`, `"session_id"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}
}

func TestParseRecordToleratesUnknownFields(t *testing.T) {
	rec, err := session.ParseRecord([]byte(`{"command":"ls","output":"x","timestamp":3,"session_id":"s","exit_code":0}`))
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if rec.Command != "ls" || rec.Timestamp != 3 {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestParseRecordRejectsForeignDocuments(t *testing.T) {
	cases := map[string]string{
		"empty object":  `{}`,
		"null":          `null`,
		"missing field": `{"command":"ls","output":"x","timestamp":3}`,
		"wrong type":    `{"command":1,"output":"x","timestamp":3,"session_id":"s"}`,
		"not json":      `command: ls`,
		"null field":    `{"command":null,"output":"x","timestamp":3,"session_id":"s"}`,
		"cased keys":    `{"COMMAND":"ls","Output":"x","TimeStamp":5,"Session_ID":"s"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := session.ParseRecord([]byte(body)); err == nil {
				t.Errorf("expected error for %s", body)
			}
		})
	}
}

func TestParseErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := error(&session.ParseError{Path: "/x.json", Err: cause})
	if !errors.Is(err, cause) {
		t.Error("ParseError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "/x.json") {
		t.Errorf("error should name the path: %v", err)
	}
}
