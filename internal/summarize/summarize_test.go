package summarize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNoopReturnsChunkUnchanged(t *testing.T) {
	chunk := "original chunk text"
	got, err := (Noop{}).Summarize(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Noop errored: %v", err)
	}
	if got != chunk {
		t.Errorf("Noop changed the chunk: %q", got)
	}
}

const chatCompletionResponse = `{
  "id": "chatcmpl-test",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [
    {
      "index": 0,
      "message": {"role": "assistant", "content": "A condensed summary."},
      "finish_reason": "stop"
    }
  ]
}`

func newTestClient(t *testing.T, handler http.Handler) (*OpenAIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		HTTPClient: srv.Client(),
	})
	return client, srv
}

func TestOpenAISummarize(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionResponse))
	}))

	got, err := client.Summarize(context.Background(), "some long chunk of document text")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "A condensed summary." {
		t.Errorf("summary: got %q", got)
	}
}

func TestOpenAISummarizeRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "upstream hiccup"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionResponse))
	}))

	got, err := client.Summarize(context.Background(), "some long chunk of document text")
	if err != nil {
		t.Fatalf("Summarize failed after retries: %v", err)
	}
	if got != "A condensed summary." {
		t.Errorf("summary: got %q", got)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("request count: got %d, want 3", n)
	}
}

func TestOpenAISummarizeDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request"}}`))
	}))

	if _, err := client.Summarize(context.Background(), "chunk text"); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("request count: got %d, want 1 (client errors must not retry)", n)
	}
}

func TestOpenAISummarizeRejectsEmptyChunk(t *testing.T) {
	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key"})
	if _, err := client.Summarize(context.Background(), "   "); err == nil {
		t.Error("expected error for empty chunk")
	}
}
