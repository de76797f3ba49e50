package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kwieczorek/cvchat/internal/domain"
)

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hi there!"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		Model:       "gpt-4o",
		MaxTokens:   300,
		Temperature: 0.3,
	})

	reply, err := c.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "You are a CV bot."},
		{Role: domain.RoleUser, Content: "Hello"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if reply != "Hi there!" {
		t.Errorf("Expected reply from first choice, got %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o" || gotBody.MaxTokens != 300 {
		t.Errorf("Request body not forwarded faithfully: %+v", gotBody)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != domain.RoleSystem {
		t.Errorf("Expected system message first, got %+v", gotBody.Messages)
	}
}

func TestCompleteSendsZeroTemperature(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotBody, err = io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Model: "gpt-4o", Temperature: 0})
	if _, err := c.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(string(gotBody), `"temperature":0`) {
		t.Errorf("Expected explicit temperature 0 in request body, got %s", gotBody)
	}
}

func TestCompleteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("Expected error on non-200 status")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Expected provider detail in error for logging, got %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	if _, err := c.Complete(context.Background(), nil); err == nil {
		t.Error("Expected error when provider returns no choices")
	}
}

func TestCompleteContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.Complete(ctx, []domain.Message{{Role: domain.RoleUser, Content: "hi"}}); err == nil {
		t.Error("Expected error when context deadline expires")
	}
}
