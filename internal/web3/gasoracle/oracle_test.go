package gasoracle

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubEstimator struct {
	price *big.Int
	err   error
}

func (s *stubEstimator) GasPrice(_ context.Context) (*big.Int, error) {
	return s.price, s.err
}

func TestOracleUsesAPIResponse(t *testing.T) {
	var sawKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawKey = r.URL.Query().Get("apikey")
		w.Write([]byte(`{"status":"1","result":{"SafeGasPrice":"9","ProposeGasPrice":"14","FastGasPrice":"22"}}`))
	}))
	defer srv.Close()

	o := NewOracle(Config{URL: srv.URL, APIKey: "demo"}, nil)
	tiers, err := o.GasTiers(context.Background())
	if err != nil {
		t.Fatalf("GasTiers returned error: %v", err)
	}
	if sawKey != "demo" {
		t.Fatalf("expected apikey to be forwarded, saw %q", sawKey)
	}
	if tiers.Safe != 9 || tiers.Standard != 14 || tiers.Fast != 22 {
		t.Fatalf("unexpected tiers: %+v", tiers)
	}
	if tiers.Source != "oracle" {
		t.Fatalf("expected oracle source, got %s", tiers.Source)
	}
}

func TestOracleRetriesWithoutKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("apikey") != "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`{"status":"1","result":{"SafeGasPrice":"10","ProposeGasPrice":"13","FastGasPrice":"18"}}`))
	}))
	defer srv.Close()

	o := NewOracle(Config{URL: srv.URL, APIKey: "expired"}, nil)
	tiers, err := o.GasTiers(context.Background())
	if err != nil {
		t.Fatalf("GasTiers returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected keyed then unkeyed request, saw %d calls", calls)
	}
	if tiers.Standard != 13 {
		t.Fatalf("unexpected standard tier: %d", tiers.Standard)
	}
}

func TestOracleFallsBackToChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	// 20 gwei suggestion scales to 16/20/24.
	chain := &stubEstimator{price: big.NewInt(20_000_000_000)}
	o := NewOracle(Config{URL: srv.URL}, chain)
	tiers, err := o.GasTiers(context.Background())
	if err != nil {
		t.Fatalf("GasTiers returned error: %v", err)
	}
	if tiers.Safe != 16 || tiers.Standard != 20 || tiers.Fast != 24 {
		t.Fatalf("unexpected tiers: %+v", tiers)
	}
	if tiers.Source != "chain" {
		t.Fatalf("expected chain source, got %s", tiers.Source)
	}
}

func TestOracleStaticFallback(t *testing.T) {
	chain := &stubEstimator{err: errors.New("rpc unreachable")}
	o := NewOracle(Config{}, chain)
	tiers, err := o.GasTiers(context.Background())
	if err != nil {
		t.Fatalf("GasTiers returned error: %v", err)
	}
	if tiers.Safe != 12 || tiers.Standard != 15 || tiers.Fast != 20 {
		t.Fatalf("unexpected static tiers: %+v", tiers)
	}
	if tiers.Source != "static" {
		t.Fatalf("expected static source, got %s", tiers.Source)
	}
}
