package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/subslayer/subslayer/internal/notification"
)

func TestClient_Display(t *testing.T) {
	var gotBody map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	note := notification.PushNote{
		Title: "Upcoming renewal",
		Body:  "Netflix renews in 3 day(s) ($15.99)",
		Icon:  "/icons/renewal.png",
		Tag:   "renewal-abc-3",
	}

	if err := client.Display(context.Background(), "user-1", note); err != nil {
		t.Fatalf("Display failed: %v", err)
	}

	if gotBody["userId"] != "user-1" {
		t.Errorf("expected userId user-1, got %q", gotBody["userId"])
	}

	if gotBody["tag"] != "renewal-abc-3" {
		t.Errorf("expected tag renewal-abc-3, got %q", gotBody["tag"])
	}
}

func TestClient_Display_GatewayFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)

	err := client.Display(context.Background(), "user-1", notification.PushNote{Tag: "overdue-abc"})
	if err == nil {
		t.Fatal("expected an error for a gateway failure")
	}
}
