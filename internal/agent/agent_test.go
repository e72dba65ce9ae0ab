package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	xerrors "NeoLink/internal/errors"
	"NeoLink/internal/event"
	"NeoLink/internal/history"
	"NeoLink/internal/intent"
	"NeoLink/internal/llm"
	"NeoLink/internal/market"
	"NeoLink/internal/session"
	"NeoLink/internal/web3"
)

const testWallet = "0x742d35Cc6634C0532925a3b844Bc9e7595f8d8e8"

type stubGasProvider struct {
	tiers web3.GasTiers
	err   error
}

func (s *stubGasProvider) GasTiers(_ context.Context) (web3.GasTiers, error) {
	return s.tiers, s.err
}

type stubLLM struct {
	reply string
	err   error
	seen  llm.Request
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	s.seen = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Text: s.reply}, nil
}

func newTestAgent(opts ...Option) *Agent {
	classifier := intent.NewClassifier(intent.DefaultDefinitions())
	gas := &stubGasProvider{tiers: web3.GasTiers{Safe: 12, Standard: 15, Fast: 20, Source: "static"}}
	return New(classifier, session.NewMemoryStore(), web3.NewMockBalanceProvider(), market.NewMockProvider(), gas, opts...)
}

func TestHandleMessageSavesWalletThenChecksBalance(t *testing.T) {
	a := newTestAgent()
	ctx := context.Background()

	reply := a.HandleMessage(ctx, "whatsapp:+15551234567", testWallet)
	if !strings.Contains(reply, "Wallet address saved successfully") {
		t.Fatalf("unexpected save reply: %q", reply)
	}

	reply = a.HandleMessage(ctx, "whatsapp:+15551234567", "what's my ETH balance?")
	if !strings.Contains(reply, "ETH Balance") {
		t.Fatalf("expected balance reply, got %q", reply)
	}
	if !strings.Contains(reply, "2.8473 ETH") {
		t.Fatalf("expected formatted amount, got %q", reply)
	}
	if !strings.Contains(reply, "0x742d35Cc...d8e8") {
		t.Fatalf("expected shortened wallet, got %q", reply)
	}
}

func TestHandleMessageBalanceWithoutWallet(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleMessage(context.Background(), "whatsapp:+15550000000", "my balance")
	if !strings.Contains(reply, "I don't have your wallet address yet") {
		t.Fatalf("expected wallet guidance, got %q", reply)
	}
}

func TestHandleMessagePriceCheck(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleMessage(context.Background(), "user", "ETH price")
	if !strings.Contains(reply, "ETH Price") {
		t.Fatalf("expected price reply, got %q", reply)
	}
	if !strings.Contains(reply, "$2,420.85") {
		t.Fatalf("expected formatted price, got %q", reply)
	}
	if !strings.Contains(reply, "+2.40%") {
		t.Fatalf("expected signed change, got %q", reply)
	}
}

func TestHandleMessageUnknownTokenPrice(t *testing.T) {
	a := newTestAgent()
	reply := a.handlePrice(context.Background(), "user", "PEPE")
	if !strings.Contains(reply, "Price data not available for PEPE") {
		t.Fatalf("expected unknown token reply, got %q", reply)
	}
}

func TestHandleMessageTransferPreview(t *testing.T) {
	a := newTestAgent()
	ctx := context.Background()
	a.HandleMessage(ctx, "user", testWallet)

	reply := a.HandleMessage(ctx, "user", "send 0.5 ETH to 0x1234567890123456789012345678901234567890")
	if !strings.Contains(reply, "Transfer Preparation") {
		t.Fatalf("expected transfer preview, got %q", reply)
	}
	if !strings.Contains(reply, "Amount: 0.5 ETH") {
		t.Fatalf("expected extracted amount, got %q", reply)
	}
	if !strings.Contains(reply, "0x12345678...7890") {
		t.Fatalf("expected shortened recipient, got %q", reply)
	}
	if !strings.Contains(reply, "~15 Gwei") {
		t.Fatalf("expected fee estimate, got %q", reply)
	}
	if !strings.Contains(reply, "I only help prepare transfers") {
		t.Fatalf("expected security note, got %q", reply)
	}
}

func TestHandleMessageTransferWithoutWallet(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleMessage(context.Background(), "fresh-user", "transfer 1 eth")
	if !strings.Contains(reply, "I only help prepare transfers - you execute them safely") {
		t.Fatalf("expected wallet guidance, got %q", reply)
	}
}

func TestHandleMessageGasFees(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleMessage(context.Background(), "user", "current gas fees")
	if !strings.Contains(reply, "Current Gas Fees") {
		t.Fatalf("expected gas reply, got %q", reply)
	}
	if !strings.Contains(reply, "~12 Gwei") || !strings.Contains(reply, "~15 Gwei") || !strings.Contains(reply, "~20 Gwei") {
		t.Fatalf("expected all three tiers, got %q", reply)
	}
}

func TestHandleMessageDefiInfo(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleMessage(context.Background(), "user", "what is uniswap")
	if !strings.Contains(reply, "Uniswap") {
		t.Fatalf("expected Uniswap card, got %q", reply)
	}
}

func TestHandleMessageGreetingReflectsWallet(t *testing.T) {
	a := newTestAgent()
	ctx := context.Background()

	reply := a.HandleMessage(ctx, "new-user", "hi there")
	if !strings.Contains(reply, "Send me your wallet address to get started") {
		t.Fatalf("expected onboarding greeting, got %q", reply)
	}

	a.HandleMessage(ctx, "old-user", testWallet)
	reply = a.HandleMessage(ctx, "old-user", "hi there")
	if !strings.Contains(reply, "0x742d35Cc...d8e8") {
		t.Fatalf("expected wallet in greeting, got %q", reply)
	}
}

func TestHandleMessageHelpShowsWalletStatus(t *testing.T) {
	a := newTestAgent()
	ctx := context.Background()

	reply := a.HandleMessage(ctx, "user", "help me")
	if !strings.Contains(reply, "❌ Not connected") {
		t.Fatalf("expected disconnected status, got %q", reply)
	}

	a.HandleMessage(ctx, "user", testWallet)
	reply = a.HandleMessage(ctx, "user", "help me")
	if !strings.Contains(reply, "✅ Connected") {
		t.Fatalf("expected connected status, got %q", reply)
	}
}

func TestHandleMessageThanks(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleMessage(context.Background(), "user", "thanks!")
	if !strings.Contains(reply, "You're welcome") {
		t.Fatalf("expected thanks reply, got %q", reply)
	}
}

func TestHandleMessageGeneralUsesLLM(t *testing.T) {
	client := &stubLLM{reply: "Timing the market is risky! Consider dollar-cost averaging instead. 📊"}
	a := newTestAgent(WithLLMClient(client))

	reply := a.HandleMessage(context.Background(), "user", "is it a good time to buy?")
	if reply != client.reply {
		t.Fatalf("expected llm reply, got %q", reply)
	}
	if !strings.Contains(client.seen.SystemPrompt, "DeFi assistant") {
		t.Fatalf("expected system prompt, got %q", client.seen.SystemPrompt)
	}
	if !strings.Contains(client.seen.SystemPrompt, "No wallet saved") {
		t.Fatalf("expected wallet context, got %q", client.seen.SystemPrompt)
	}
}

func TestHandleMessageGeneralWithoutLLM(t *testing.T) {
	a := newTestAgent()
	reply := a.HandleMessage(context.Background(), "user", "is it a good time to buy?")
	if reply != fallbackReply {
		t.Fatalf("expected fallback reply, got %q", reply)
	}
}

func TestHandleMessageGeneralLLMFailure(t *testing.T) {
	client := &stubLLM{err: xerrors.New(xerrors.CodeProviderUnavailable, "api down")}
	a := newTestAgent(WithLLMClient(client))

	reply := a.HandleMessage(context.Background(), "user", "is it a good time to buy?")
	if reply != errorReply {
		t.Fatalf("expected error reply, got %q", reply)
	}
}

func TestHandleMessageBalanceProviderFailure(t *testing.T) {
	classifier := intent.NewClassifier(intent.DefaultDefinitions())
	gas := &stubGasProvider{tiers: web3.GasTiers{Safe: 12, Standard: 15, Fast: 20}}
	a := New(classifier, session.NewMemoryStore(), failingBalances{}, market.NewMockProvider(), gas)
	ctx := context.Background()
	a.HandleMessage(ctx, "user", testWallet)

	reply := a.HandleMessage(ctx, "user", "my ETH balance")
	if !strings.Contains(reply, "couldn't fetch your ETH balance") {
		t.Fatalf("expected provider apology, got %q", reply)
	}
}

type failingBalances struct{}

func (failingBalances) Balance(_ context.Context, _, _ string) (float64, error) {
	return 0, errors.New("rpc unreachable")
}

func TestHandleMessageRecordsHistoryAndEvents(t *testing.T) {
	repo, err := history.NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRepository returned error: %v", err)
	}
	events := event.NewMemoryPublisher(0)
	a := newTestAgent(WithHistoryRepository(repo), WithEventPublisher(events))
	ctx := context.Background()

	a.HandleMessage(ctx, "user", "ETH price")

	records, err := repo.ListRecent(ctx, "user", 10)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	if records[0].Intent != string(intent.IntentPriceCheck) {
		t.Fatalf("unexpected recorded intent: %s", records[0].Intent)
	}

	published := events.Recent()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	if published[0].Intent != string(intent.IntentPriceCheck) {
		t.Fatalf("unexpected event intent: %s", published[0].Intent)
	}
}
