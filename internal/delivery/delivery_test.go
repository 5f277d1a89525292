package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestDeliverPostsMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	n := New(zerolog.Nop())
	if err := n.Deliver(context.Background(), srv.URL, "the answer"); err != nil {
		t.Fatal(err)
	}
	if got["message"] != "the answer" {
		t.Fatalf("expected message %q, got %+v", "the answer", got)
	}
}

func TestDeliverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := New(zerolog.Nop())
	if err := n.Deliver(context.Background(), srv.URL, "x"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestDeliverUnreachable(t *testing.T) {
	n := New(zerolog.Nop())
	if err := n.Deliver(context.Background(), "http://127.0.0.1:1/", "x"); err == nil {
		t.Fatal("expected error for unreachable callback")
	}
}
