package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Start(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST for the first turn, got %s", r.Method)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}

		if body["message"] == "" {
			t.Error("expected a message in the first turn")
		}

		w.Header().Set("X-Run-Id", "run-42")
		io.WriteString(w, "Consider cancelling ")
		io.WriteString(w, "the gym membership.")
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	runID, stream, err := client.Start(context.Background(), "I pay for three streaming services.")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	if runID != "run-42" {
		t.Errorf("expected run id run-42, got %q", runID)
	}

	reply, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}

	if string(reply) != "Consider cancelling the gym membership." {
		t.Errorf("unexpected concatenated reply: %q", reply)
	}
}

func TestClient_Start_MissingRunID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello")
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	_, _, err := client.Start(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected an error when the run id header is missing")
	}
}

func TestClient_Send(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT for a follow-up turn, got %s", r.Method)
		}

		if r.URL.Path != "/run-42" {
			t.Errorf("expected path /run-42, got %s", r.URL.Path)
		}

		io.WriteString(w, "It renews on the 4th.")
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	stream, err := client.Send(context.Background(), "run-42", "When does Netflix renew?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	defer stream.Close()

	reply, _ := io.ReadAll(stream)
	if string(reply) != "It renews on the 4th." {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestClient_Send_AgentFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	_, err := client.Send(context.Background(), "run-42", "hi")
	if err == nil {
		t.Fatal("expected an error for an unavailable agent")
	}
}
