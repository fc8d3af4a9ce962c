package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KaramelBytes/dsvalidate-cli/internal/config"
)

type fakeRuntime struct {
	got  GenerateRequest
	resp *GenerateResponse
	err  error
}

func (f *fakeRuntime) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestNarratorSummarize(t *testing.T) {
	rt := &fakeRuntime{resp: &GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "  two issues found \n"}}}}}
	n := NewNarrator(rt, NarratorConfig{Model: "openai/gpt-4o-mini", MaxTokens: 600, System: "be brief"}, nil)

	out, err := n.Summarize(context.Background(), "context text")
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if out != "two issues found" {
		t.Fatalf("unexpected narrative %q", out)
	}
	if len(rt.got.Messages) != 2 || rt.got.Messages[0].Role != "system" || rt.got.Messages[1].Content != "context text" {
		t.Fatalf("unexpected messages: %+v", rt.got.Messages)
	}
	if rt.got.Temperature != 0 || rt.got.MaxTokens != 600 || rt.got.Model != "openai/gpt-4o-mini" {
		t.Fatalf("unexpected request settings: %+v", rt.got)
	}
}

func TestNarratorPropagatesErrors(t *testing.T) {
	boom := &ServerError{APIError: &APIError{StatusCode: 502}}
	n := NewNarrator(&fakeRuntime{err: boom}, NarratorConfig{Model: "m"}, nil)
	_, err := n.Summarize(context.Background(), "x")
	var sErr *ServerError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}

	n = NewNarrator(&fakeRuntime{resp: &GenerateResponse{}}, NarratorConfig{Model: "m"}, nil)
	if _, err := n.Summarize(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestNarratorRejectsOversizedPrompt(t *testing.T) {
	rt := &fakeRuntime{}
	n := NewNarrator(rt, NarratorConfig{Model: "phi3:mini-4k-instruct", MaxTokens: 600}, nil)
	_, err := n.Summarize(context.Background(), strings.Repeat("abcd", 5000))
	if err == nil || !strings.Contains(err.Error(), "token context") {
		t.Fatalf("expected context overflow error, got %v", err)
	}
	if rt.got.Model != "" {
		t.Fatalf("runtime must not be called")
	}
}

func TestCheckContextUnknownModel(t *testing.T) {
	if err := CheckContext("someone/custom", 1<<30, 1); err != nil {
		t.Fatalf("unknown models should pass: %v", err)
	}
}

func TestNarratorDefaultConfigCallsUpstreamOnce(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	conf, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down"}}`))
	}))
	defer srv.Close()

	rt, err := NewRuntime(ProviderOpenRouter, RuntimeConfig{
		HTTPTimeout: 2 * time.Second,
		RetryMax:    conf.RetryMaxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		APIKey:      "test",
		BaseURL:     srv.URL,
	})
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	n := NewNarrator(rt, NarratorConfig{Model: "openai/gpt-4o-mini", MaxTokens: 100}, nil)
	_, err = n.Summarize(context.Background(), "context text")
	var sErr *ServerError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", got)
	}

	// zero RetryMax is single-shot as well
	atomic.StoreInt32(&calls, 0)
	c := NewClientWithBaseURL("test", 2*time.Second, 0, 0, 0, srv.URL)
	_, _ = c.Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: "user", Content: "x"}}})
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one call for zero RetryMax, got %d", got)
	}
}
