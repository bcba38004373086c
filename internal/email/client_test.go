package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Send(t *testing.T) {
	var gotAuth string

	var gotBody map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "queued"})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "secret-key", "reminders@subslayer.app")

	err := client.Send(context.Background(), "user@example.com", "Upcoming renewal", "<p>Netflix renews in 3 day(s)</p>")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}

	if gotBody["to"] != "user@example.com" {
		t.Errorf("expected recipient user@example.com, got %q", gotBody["to"])
	}

	if gotBody["htmlContent"] == "" {
		t.Errorf("expected htmlContent to be set")
	}

	if gotBody["from"] != "reminders@subslayer.app" {
		t.Errorf("expected configured sender, got %q", gotBody["from"])
	}
}

func TestClient_Send_RelayError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "upstream unavailable", "details": "smtp timeout"})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "secret-key", "reminders@subslayer.app")

	err := client.Send(context.Background(), "user@example.com", "Upcoming renewal", "<p>hi</p>")
	if err == nil {
		t.Fatal("expected an error for a rejected message")
	}
}

func TestClient_Send_NonJSONErrorResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "", "reminders@subslayer.app")

	err := client.Send(context.Background(), "user@example.com", "subject", "<p>body</p>")
	if err == nil {
		t.Fatal("expected an error for a non-JSON failure response")
	}
}
