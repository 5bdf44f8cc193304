package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{name: "minted when absent", inbound: "", reuse: false},
		{name: "reused when present", inbound: "abc-123", reuse: true},
		{name: "oversized replaced", inbound: strings.Repeat("x", maxRequestIDLen+1), reuse: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header.Set(HeaderRequestID, tc.inbound)
			}
			var seen string
			rec := httptest.NewRecorder()
			RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			})).ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("request id missing from context")
			}
			if got := rec.Header().Get(HeaderRequestID); got != seen {
				t.Fatalf("response header = %q, context = %q", got, seen)
			}
			if (seen == tc.inbound) != tc.reuse {
				t.Fatalf("reuse = %v, want %v (id %q)", seen == tc.inbound, tc.reuse, seen)
			}
		})
	}
}

func TestLoggerRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if line["request_id"] != "rid-1" || line["path"] != "/generate" || line["method"] != http.MethodPost {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["status"] != float64(http.StatusAccepted) || line["bytes"] != float64(2) {
		t.Fatalf("unexpected status/bytes: %v", line)
	}
}
