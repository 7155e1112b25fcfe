package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/datasight/datasight-ai/internal/llm/types"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", "")
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", client.baseURL)
	}
	if client.Model() != DefaultModel {
		t.Errorf("model = %q", client.Model())
	}
}

func TestComplete(t *testing.T) {
	var captured chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":             "llama3",
			"message":           map[string]string{"role": "assistant", "content": "EDA"},
			"done":              true,
			"prompt_eval_count": 20,
			"eval_count":        2,
		})
	}))
	defer ts.Close()

	client := NewClient("", "llama3")
	client.SetBaseURL(ts.URL)

	resp, err := client.Complete(context.Background(), types.CompletionRequest{
		Messages:    []types.Message{{Role: "user", Content: "route this"}},
		Temperature: 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	if resp.Content != "EDA" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 22 {
		t.Errorf("total tokens = %d, want 22", resp.Usage.TotalTokens)
	}
	if captured.Stream {
		t.Error("stream must be false")
	}
	if captured.Model != "llama3" {
		t.Errorf("request model = %q", captured.Model)
	}
	if captured.Options.Temperature != 0 {
		t.Errorf("request temperature = %v", captured.Options.Temperature)
	}
}

func TestComplete_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient("", "missing-model")
	client.SetBaseURL(ts.URL)

	_, err := client.Complete(context.Background(), types.CompletionRequest{
		Messages: []types.Message{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
