package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/metarh/vagas/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleJob(id, title string) model.NormalizedJob {
	return model.NormalizedJob{
		ID:           id,
		Title:        title,
		Summary:      "Build stuff",
		City:         "Curitiba",
		State:        "PR",
		Department:   "TI",
		ContractType: "CLT",
		PublishedAt:  "2024-03-01T10:00:00Z",
		URLApply:     "https://example.com/apply",
	}
}

func newTestNotifier(srv *httptest.Server) *SlackNotifier {
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	n.gap = 0
	return n
}

func TestSlackNotifier_EmptyJobs(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv)
	if err := n.Notify(context.Background(), nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if c := calls.Load(); c != 0 {
		t.Errorf("expected 0 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_SingleJob(t *testing.T) {
	var body []byte
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := newTestNotifier(srv).Notify(context.Background(), []model.NormalizedJob{sampleJob("1", "Dev")}); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got := payload.Blocks[0].Text.Text; got != "Nova vaga: Dev" {
		t.Errorf("header text = %q", got)
	}
	if got := payload.Blocks[1].Fields[0].Text; got != "*Local:*\nCuritiba - PR" {
		t.Errorf("location field = %q", got)
	}
	if got := payload.Blocks[2].Fields[1].Text; got != "*Publicada:*\n01/03/2024" {
		t.Errorf("published field = %q", got)
	}
	if got := payload.Blocks[4].Elements[0].URL; got != "https://example.com/apply" {
		t.Errorf("action URL = %q", got)
	}
}

func TestSlackNotifier_MultipleJobs(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	jobs := []model.NormalizedJob{sampleJob("1", "A"), sampleJob("2", "B"), sampleJob("3", "C")}
	if err := newTestNotifier(srv).Notify(context.Background(), jobs); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 3 {
		t.Errorf("expected 3 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_AllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	jobs := []model.NormalizedJob{sampleJob("1", "A"), sampleJob("2", "B")}
	if err := newTestNotifier(srv).Notify(context.Background(), jobs); err == nil {
		t.Error("expected error when all messages fail, got nil")
	}
}

func TestSlackNotifier_PartialFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	jobs := []model.NormalizedJob{sampleJob("1", "Fails"), sampleJob("2", "Succeeds")}
	if err := newTestNotifier(srv).Notify(context.Background(), jobs); err != nil {
		t.Errorf("expected nil (partial success), got %v", err)
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := newTestNotifier(srv).Notify(context.Background(), []model.NormalizedJob{sampleJob("1", "Dev")}); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestSlackNotifier_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newTestNotifier(srv).Notify(ctx, []model.NormalizedJob{sampleJob("1", "Dev")}); err == nil {
		t.Error("expected error with cancelled context")
	}
}

func TestBuildPayload_MinimalJob(t *testing.T) {
	p := buildPayload(model.NormalizedJob{ID: "x", Title: "Dev", City: "Remoto", Remote: true})

	if got := p.Blocks[1].Fields[0].Text; got != "*Local:*\nRemoto (remoto)" {
		t.Errorf("location field = %q", got)
	}
	if got := p.Blocks[2].Fields[1].Text; got != "*Publicada:*\nSem data" {
		t.Errorf("published field = %q", got)
	}
	// header, two field sections, divider: no summary and no apply button.
	if len(p.Blocks) != 4 {
		t.Errorf("blocks = %d, want 4", len(p.Blocks))
	}
	if p.Blocks[len(p.Blocks)-1].Type != "divider" {
		t.Errorf("last block = %q, want divider", p.Blocks[len(p.Blocks)-1].Type)
	}
}
