package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/pkg/metrics"
	"go.uber.org/zap"
)

func init() {
	metrics.Init()
}

const modelOutput = `
original: http://paypal.com/login
variation1: http://paypa1-secure.com/login
variation2: http://login.paypal.com.verify-account.net/signin

original: http://example.org
skipped: No valid variations generated.
`

func TestGenerate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: modelOutput},
		})
	}))
	defer srv.Close()

	g := NewGenerator(Options{
		BaseURL:     srv.URL + "/",
		Model:       "llama3.1:8b",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}, zap.NewNop())

	variants, text, err := g.Generate(context.Background(), []string{"http://paypal.com/login", "http://example.org"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got.Model != "llama3.1:8b" || got.Stream {
		t.Errorf("unexpected request model=%q stream=%v", got.Model, got.Stream)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
	if want := "Input URLs:\nhttp://paypal.com/login\nhttp://example.org"; got.Messages[1].Content != want {
		t.Errorf("user prompt = %q, want %q", got.Messages[1].Content, want)
	}
	if temp, ok := got.Options["temperature"].(float64); !ok || temp != 0.7 {
		t.Errorf("temperature = %v, want 0.7", got.Options["temperature"])
	}

	if text != strings.TrimSpace(modelOutput) {
		t.Errorf("text was not trimmed: %q", text)
	}
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}
	if len(variants[0].Variations) != 2 || !variants[1].Skipped {
		t.Errorf("unexpected variants %+v", variants)
	}
}

func TestGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	g := NewGenerator(Options{BaseURL: srv.URL, Model: "nope", Timeout: time.Second}, zap.NewNop())
	_, _, err := g.Generate(context.Background(), []string{"http://a.com"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGenerateEmptyBatch(t *testing.T) {
	g := NewGenerator(Options{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	variants, text, err := g.Generate(context.Background(), nil)
	if err != nil || variants != nil || text != "" {
		t.Fatalf("Generate(nil) = %v, %q, %v", variants, text, err)
	}
}

func TestParseVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []entity.URLVariant
	}{
		{
			name: "two urls",
			text: modelOutput,
			want: []entity.URLVariant{
				{
					Original:   "http://paypal.com/login",
					Variations: []string{"http://paypa1-secure.com/login", "http://login.paypal.com.verify-account.net/signin"},
				},
				{
					Original: "http://example.org",
					Skipped:  true,
					Reason:   "No valid variations generated.",
				},
			},
		},
		{
			name: "markdown bullets",
			text: "- **original**: a.com\n- **variation1**: a0.com",
			want: []entity.URLVariant{{Original: "a.com", Variations: []string{"a0.com"}}},
		},
		{
			name: "variation before original ignored",
			text: "variation1: x.com\nSure, here you go",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVariants(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVariants() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
