// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestOpenAICompleteRequest(t *testing.T) {
	var captured chatRequest
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices": [{"message": {"content": "hello"}}]}`)
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL, APIKey: "ok", ModelID: "gpt-4o", Client: ts.Client(), Logger: zap.NewNop()}
	got, err := c.Complete(context.Background(), "say hello", 0.7, 500)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello" {
		t.Errorf("Complete() = %q, want hello", got)
	}

	if auth != "Bearer ok" {
		t.Errorf("Authorization = %q", auth)
	}
	if captured.Model != "gpt-4o" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.Temperature != 0.7 {
		t.Errorf("temperature = %v", captured.Temperature)
	}
	if captured.MaxTokens != 500 {
		t.Errorf("max_tokens = %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" || captured.Messages[0].Content != "say hello" {
		t.Errorf("messages = %+v", captured.Messages)
	}
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL, APIKey: "ok", ModelID: "gpt-4o", Client: ts.Client(), Logger: zap.NewNop()}
	if _, err := c.Complete(context.Background(), "p", 0.5, 100); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOpenAICompleteHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "bad key"}}`)
	}))
	defer ts.Close()

	c := &OpenAIClient{BaseURL: ts.URL, APIKey: "bad", ModelID: "gpt-4o", Client: ts.Client(), Logger: zap.NewNop()}
	if _, err := c.Complete(context.Background(), "p", 0.5, 100); err == nil {
		t.Fatal("expected error for HTTP 401")
	}
}
