package neolink

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/messages" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"user_key":"tester","reply":"⛽ gas is 15 gwei"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	reply, err := c.SendMessage(context.Background(), "tester", "current gas fees")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if reply != "⛽ gas is 15 gwei" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestListMessagesBuildsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id":"abc","user_key":"tester","body":"hi","intent":"greeting","reply":"👋","created_at":1700000000}]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	messages, err := c.ListMessages(context.Background(), "tester", 5)
	if err != nil {
		t.Fatalf("ListMessages returned error: %v", err)
	}
	if gotQuery != "limit=5&user_key=tester" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if len(messages) != 1 || messages[0].Intent != "greeting" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
}

func TestAPIErrorSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "user_key 不能为空", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.SendMessage(context.Background(), "", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}
