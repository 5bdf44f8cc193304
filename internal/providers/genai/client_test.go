package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"fittingroom/internal/fitting"
	"fittingroom/internal/imagefile"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func inputs() (imagefile.ImageFile, imagefile.ImageFile, imagefile.ImageFile) {
	return imagefile.New([]byte("person"), imagefile.TypeJPEG),
		imagefile.New([]byte("shirt"), imagefile.TypePNG),
		imagefile.New([]byte("trousers"), imagefile.TypeWEBP)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Options{APIKey: "test-key", BaseURL: ts.URL, Logger: zerolog.Nop()})
}

func TestGenerateSendsThreeInlineImages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/models/"+DefaultModel+":generateContent" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Fatalf("unexpected key: %s", got)
		}
		var payload geminiGenerateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Contents) != 1 || len(payload.Contents[0].Parts) != 4 {
			t.Fatalf("unexpected contents: %+v", payload.Contents)
		}
		parts := payload.Contents[0].Parts
		if !strings.Contains(parts[0].Text, "virtual fitting room") {
			t.Fatalf("first part should be the instruction, got %+v", parts[0])
		}
		wantMimes := []string{imagefile.TypeJPEG, imagefile.TypePNG, imagefile.TypeWEBP}
		for i, want := range wantMimes {
			inline := parts[i+1].InlineData
			if inline == nil || inline.MimeType != want || inline.Data == "" {
				t.Fatalf("part %d inline data mismatch: %+v", i+1, inline)
			}
		}
		if payload.GenerationConfig == nil || len(payload.GenerationConfig.ResponseModalities) == 0 {
			t.Fatalf("response modalities missing")
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"here you go"},{"inlineData":{"mimeType":"image/png","data":"QUJD"}}]},"finishReason":"STOP"}]}`))
	})

	model, top, bottom := inputs()
	got, err := client.Generate(context.Background(), model, top, bottom)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "data:image/png;base64,QUJD" {
		t.Fatalf("unexpected image ref: %s", got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "api error message", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"Image too large"}}`, want: "gemini status 400: Image too large"},
		{name: "plain error body", status: http.StatusBadGateway, body: "upstream down", want: "gemini status 502: upstream down"},
		{name: "empty error body", status: http.StatusInternalServerError, want: "gemini status 500"},
		{name: "text only reply", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":"I cannot do that."}]}}]}`, want: "no image returned: I cannot do that."},
		{name: "blocked", status: http.StatusOK, body: `{"promptFeedback":{"blockReason":"SAFETY"}}`, want: "request blocked: SAFETY"},
		{name: "finish reason", status: http.StatusOK, body: `{"candidates":[{"content":{},"finishReason":"IMAGE_SAFETY"}]}`, want: "finish reason IMAGE_SAFETY"},
		{name: "no candidates", status: http.StatusOK, body: `{}`, want: "no image returned"},
		{name: "malformed json", status: http.StatusOK, body: `{"candidates":`, want: "decode gemini response"},
		{name: "bad base64", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"***"}}]}}]}`, want: "decode inline image"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			model, top, bottom := inputs()
			_, err := client.Generate(context.Background(), model, top, bottom)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want substring %q", err, tc.want)
			}
		})
	}
}

func TestGenerateTransportError(t *testing.T) {
	boom := errors.New("boom")
	client := NewClient(Options{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, boom
		})},
	})
	model, top, bottom := inputs()
	if _, err := client.Generate(context.Background(), model, top, bottom); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
}

func TestGenerateRequiresKeyAndInputs(t *testing.T) {
	model, top, bottom := inputs()
	if _, err := NewClient(Options{}).Generate(context.Background(), model, top, bottom); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
	called := false
	client := NewClient(Options{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			called = true
			return nil, errors.New("unexpected call")
		})},
	})
	if _, err := client.Generate(context.Background(), model, imagefile.ImageFile{}, bottom); !errors.Is(err, fitting.ErrIncomplete) {
		t.Fatalf("error = %v, want ErrIncomplete", err)
	}
	if called {
		t.Fatal("remote service must not be called with missing inputs")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{Model: "  ", BaseURL: "https://example.com/v1/"})
	if c.Model() != DefaultModel {
		t.Fatalf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
	if c.baseURL != "https://example.com/v1" {
		t.Fatalf("baseURL = %q", c.baseURL)
	}
	if c.httpClient == nil || c.httpClient.Timeout <= 0 {
		t.Fatal("expected default http client with timeout")
	}
}
