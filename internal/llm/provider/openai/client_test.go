package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/datasight/datasight-ai/internal/llm/types"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient("sk-test", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if client.Model() != DefaultModel {
		t.Errorf("model = %q, want %q", client.Model(), DefaultModel)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", client.baseURL)
	}
}

func TestComplete(t *testing.T) {
	var captured chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("auth header = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "INSIGHTS:\n- ok"}},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17},
		})
	}))
	defer ts.Close()

	client, err := NewClient("sk-test", "gpt-4o-mini", "")
	if err != nil {
		t.Fatal(err)
	}
	client.SetBaseURL(ts.URL)

	resp, err := client.Complete(context.Background(), types.CompletionRequest{
		Messages: []types.Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hello"},
		},
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Content != "INSIGHTS:\n- ok" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 17 {
		t.Errorf("total tokens = %d", resp.Usage.TotalTokens)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q", captured.Model)
	}
	if captured.Temperature != 0.7 {
		t.Errorf("request temperature = %v", captured.Temperature)
	}
	if captured.MaxTokens != DefaultMaxTokens {
		t.Errorf("request max_tokens = %d, want default %d", captured.MaxTokens, DefaultMaxTokens)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("request messages = %+v", captured.Messages)
	}
}

func TestComplete_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client, _ := NewClient("sk-test", "", "")
	client.SetBaseURL(ts.URL)

	_, err := client.Complete(context.Background(), types.CompletionRequest{
		Messages: []types.Message{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestComplete_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client, _ := NewClient("sk-test", "", "")
	client.SetBaseURL(ts.URL)

	_, err := client.Complete(context.Background(), types.CompletionRequest{
		Messages: []types.Message{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}
