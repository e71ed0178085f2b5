package solver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		APIKey:   apiKey,
		Model:    "test-model",
		Endpoint: server.URL,
		Timeout:  time.Second,
	}, log.New(io.Discard, "", 0))
	return client, &calls
}

func answer(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				}},
			},
		})
	}
}

func TestSolve(t *testing.T) {
	var got generateRequest
	client, calls := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if key := r.Header.Get("x-goog-api-key"); key != "secret" {
			t.Errorf("api key header = %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		answer("  1,200 \n")(w, r)
	})

	if res := client.Solve(context.Background(), "50 * 24"); res != "1,200" {
		t.Fatalf("Solve = %q, want %q", res, "1,200")
	}
	if calls.Load() != 1 {
		t.Fatalf("server called %d times, want 1", calls.Load())
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request body: %+v", got)
	}
	if prompt := got.Contents[0].Parts[0].Text; !strings.Contains(prompt, `"50 * 24"`) {
		t.Fatalf("prompt does not carry the problem: %q", prompt)
	}
}

func TestSolveKeepsProblemVerbatim(t *testing.T) {
	var got generateRequest
	client, _ := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		answer("5")(w, r)
	})

	problem := "what is \"2 + 3\"\nin words"
	client.Solve(context.Background(), problem)

	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request body: %+v", got)
	}
	prompt := got.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "User input: \""+problem+"\"\n") {
		t.Fatalf("prompt altered the problem: %q", prompt)
	}
	if strings.Contains(prompt, `\"`) {
		t.Fatalf("prompt escaped quotes: %q", prompt)
	}
}

func TestSolveMissingKey(t *testing.T) {
	client, calls := newTestClient(t, "", answer("42"))

	if res := client.Solve(context.Background(), "6 * 7"); res != AnswerMissingKey {
		t.Fatalf("Solve = %q, want %q", res, AnswerMissingKey)
	}
	if calls.Load() != 0 {
		t.Fatalf("server called %d times without a key", calls.Load())
	}
}

func TestSolveFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: AnswerFailed,
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "{not json")
			},
			want: AnswerFailed,
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"candidates":[]}`)
			},
			want: AnswerEmpty,
		},
		{
			name:    "blank answer",
			handler: answer("   "),
			want:    AnswerEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, "secret", tt.handler)
			if res := client.Solve(context.Background(), "1 + 1"); res != tt.want {
				t.Fatalf("Solve = %q, want %q", res, tt.want)
			}
		})
	}
}

func TestSolveUnreachable(t *testing.T) {
	client := NewClient(Config{
		APIKey:   "secret",
		Endpoint: "http://127.0.0.1:1",
		Timeout:  time.Second,
	}, log.New(io.Discard, "", 0))

	if res := client.Solve(context.Background(), "1 + 1"); res != AnswerFailed {
		t.Fatalf("Solve = %q, want %q", res, AnswerFailed)
	}
}

type blockingSolver struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSolver) Solve(ctx context.Context, problem string) string {
	close(s.started)
	<-s.release
	return "answer to " + problem
}

func TestDeskSingleFlight(t *testing.T) {
	solver := &blockingSolver{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	desk := NewDesk(solver)

	var wg sync.WaitGroup
	var first Exchange
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = desk.Ask(context.Background(), "2 + 2")
	}()

	<-solver.started
	if !desk.Busy() {
		t.Fatal("desk not busy while a request is in flight")
	}
	if _, err := desk.Ask(context.Background(), "3 + 3"); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Ask error = %v, want ErrBusy", err)
	}
	if ex := desk.Exchange(); ex.Prompt != "2 + 2" || ex.Response != "" {
		t.Fatalf("in-flight exchange = %+v", ex)
	}

	close(solver.release)
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("first Ask error: %v", firstErr)
	}
	want := Exchange{Prompt: "2 + 2", Response: "answer to 2 + 2"}
	if first != want || desk.Exchange() != want {
		t.Fatalf("exchange = %+v, stored %+v, want %+v", first, desk.Exchange(), want)
	}
	if desk.Busy() {
		t.Fatal("desk still busy after the answer arrived")
	}

	desk.Reset()
	if desk.Exchange() != (Exchange{}) {
		t.Fatalf("Reset left %+v", desk.Exchange())
	}
}

func TestDeskEmptyPrompt(t *testing.T) {
	desk := NewDesk(&blockingSolver{})
	if _, err := desk.Ask(context.Background(), "  "); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("Ask error = %v, want ErrEmptyPrompt", err)
	}
}
