package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"NeoLink/internal/agent"
	"NeoLink/internal/history"
	"NeoLink/internal/intent"
	"NeoLink/internal/market"
	"NeoLink/internal/session"
	"NeoLink/internal/web3"
	"NeoLink/internal/web3/gasoracle"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	classifier := intent.NewClassifier(intent.DefaultDefinitions())
	gas := gasoracle.NewOracle(gasoracle.Config{}, nil)
	repo, err := history.NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRepository returned error: %v", err)
	}
	ag := agent.New(classifier, session.NewMemoryStore(), web3.NewMockBalanceProvider(), market.NewMockProvider(), gas,
		agent.WithHistoryRepository(repo))
	return NewServer(cfg, ag, repo)
}

func postWebhook(router http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookReturnsTwiML(t *testing.T) {
	srv := newTestServer(t, Config{})
	rec := postWebhook(srv.Router(), url.Values{
		"From": {"whatsapp:+15551234567"},
		"Body": {"ETH price"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<Response><Message>") {
		t.Fatalf("expected TwiML envelope, got %q", body)
	}
	if !strings.Contains(body, "$2,420.85") {
		t.Fatalf("expected price in reply, got %q", body)
	}
}

func TestWebhookRequiresFrom(t *testing.T) {
	srv := newTestServer(t, Config{})
	rec := postWebhook(srv.Router(), url.Values{"Body": {"hello"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebhookSignatureValidation(t *testing.T) {
	srv := newTestServer(t, Config{TwilioAuthToken: "secret", PublicURL: "https://bot.example.com/webhook"})
	router := srv.Router()

	form := url.Values{
		"From": {"whatsapp:+15551234567"},
		"Body": {"help"},
	}

	rec := postWebhook(router, form)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without signature, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", twilioSignature("secret", "https://bot.example.com/webhook", form))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid signature, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var payload struct {
		Status   string   `json:"status"`
		Features []string `json:"features"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode health payload: %v", err)
	}
	if payload.Status != "healthy" {
		t.Fatalf("unexpected status field: %s", payload.Status)
	}
	if len(payload.Features) == 0 {
		t.Fatal("expected feature list")
	}
}

func TestCreateAndListMessages(t *testing.T) {
	srv := newTestServer(t, Config{})
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages",
		strings.NewReader(`{"user_key":"tester","body":"current gas fees"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var created createMessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !strings.Contains(created.Reply, "Current Gas Fees") {
		t.Fatalf("unexpected reply: %q", created.Reply)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/messages?user_key=tester&limit=5", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var records []history.Record
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Intent != "gas_fees" {
		t.Fatalf("unexpected intent: %s", records[0].Intent)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "neolink_http_requests_total") {
		t.Fatalf("expected exposition format, got %q", rec.Body.String())
	}
}
