package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"issuelens/internal/errs"
)

func TestDetectProvider(t *testing.T) {
	if p := DetectProvider("https://api.siliconflow.cn/v1"); p.Name != "siliconflow" {
		t.Fatalf("expected siliconflow, got %s", p.Name)
	}
	if p := DetectProvider("https://api.deepseek.com/v1"); p.Name != "deepseek" {
		t.Fatalf("expected deepseek, got %s", p.Name)
	}
	if p := DetectProvider(""); p.Name != "deepseek" {
		t.Fatalf("expected deepseek default, got %s", p.Name)
	}
}

func TestCallMissingKeyIsConfigError(t *testing.T) {
	os.Unsetenv("DS_KEY")
	c := New(time.Second)
	_, err := c.Call(context.Background(), "hi", CallOptions{Endpoint: "https://api.deepseek.com/v1"})
	ce, ok := errs.As(err)
	if !ok || ce.Kind != errs.KindConfigError {
		t.Fatalf("expected KindConfigError, got %v", err)
	}
}

func TestCallSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "hello back"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	c := New(5 * time.Second)
	out, err := c.Call(context.Background(), "hi", CallOptions{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out != "hello back" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCallReasoningContentFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "", "reasoning_content": "thinking out loud"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	c := New(5 * time.Second)
	out, err := c.Call(context.Background(), "hi", CallOptions{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out != "thinking out loud" {
		t.Fatalf("expected fallback to reasoning_content, got %q", out)
	}
}

func TestCallClassifiesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer srv.Close()

	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	c := New(5 * time.Second)
	_, err := c.Call(context.Background(), "hi", CallOptions{Endpoint: srv.URL})
	ce, ok := errs.As(err)
	if !ok || ce.Kind != errs.KindAPIPermanent {
		t.Fatalf("expected KindAPIPermanent, got %v", err)
	}
}

func TestCallCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	os.Setenv("DS_KEY", "test-key")
	defer os.Unsetenv("DS_KEY")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(5 * time.Second)
	_, err := c.Call(ctx, "hi", CallOptions{Endpoint: srv.URL})
	ce, ok := errs.As(err)
	if !ok || ce.Kind != errs.KindCancelled {
		t.Fatalf("expected KindCancelled, got %v", err)
	}
}
