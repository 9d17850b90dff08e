package explorer_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinkr/clinkr-api/internal/explorer"
)

const testTimeout = 5 * time.Second

func TestTronAdapterConvertsMinorUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transactions/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"raw_data":{"contract":[{"parameter":{"value":{"amount":10500000}}}]}}]}`))
	}))
	defer srv.Close()

	a := explorer.NewTronAdapter(srv.URL, testTimeout)
	tr, err := a.FetchTransaction(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tr.Amount.String(); got != "10.5" {
		t.Fatalf("expected 10.5 USDT, got %s", got)
	}
	if tr.Asset != explorer.AssetUSDT {
		t.Fatalf("expected USDT, got %s", tr.Asset)
	}
}

func TestTronAdapterEmptyDataIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	a := explorer.NewTronAdapter(srv.URL, testTimeout)
	_, err := a.FetchTransaction(context.Background(), "deadbeef")
	if !errors.Is(err, explorer.ErrTxNotFound) {
		t.Fatalf("expected ErrTxNotFound, got %v", err)
	}
}

func TestEVMAdapterParsesWei(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "eth_getTransactionByHash" {
			t.Errorf("unexpected action %s", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Errorf("api key not forwarded")
		}
		// 100 BNB = 100e18 wei = 0x56bc75e2d63100000
		w.Write([]byte(`{"result":{"value":"0x56bc75e2d63100000"}}`))
	}))
	defer srv.Close()

	a := explorer.NewBscScanAdapter(srv.URL, "test-key", testTimeout)
	tr, err := a.FetchTransaction(context.Background(), "0x"+hex64("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tr.Amount.String(); got != "100" {
		t.Fatalf("expected 100 BNB, got %s", got)
	}
}

func TestEVMAdapterNullResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	a := explorer.NewEtherscanAdapter(srv.URL, "k", testTimeout)
	_, err := a.FetchTransaction(context.Background(), "0x"+hex64("2"))
	if !errors.Is(err, explorer.ErrTxNotFound) {
		t.Fatalf("expected ErrTxNotFound, got %v", err)
	}
}

func TestEVMAdapterStringResultIsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"Max rate limit reached"}`))
	}))
	defer srv.Close()

	a := explorer.NewEtherscanAdapter(srv.URL, "k", testTimeout)
	_, err := a.FetchTransaction(context.Background(), "0x"+hex64("3"))
	if !errors.Is(err, explorer.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestBitcoinAdapterSumsOutputs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"out":[{"value":50000000},{"value":25000000}]}`))
	}))
	defer srv.Close()

	a := explorer.NewBitcoinAdapter(srv.URL, testTimeout)
	tr, err := a.FetchTransaction(context.Background(), "sometxid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tr.Amount.String(); got != "0.75" {
		t.Fatalf("expected 0.75 BTC, got %s", got)
	}
}

func TestSolanaAdapterLargestCredit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"result":{"meta":{"preBalances":[2000000000,500000000],"postBalances":[1499990000,1000000000]}}}`))
	}))
	defer srv.Close()

	a := explorer.NewSolanaAdapter(srv.URL, testTimeout)
	tr, err := a.FetchTransaction(context.Background(), "sig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tr.Amount.String(); got != "0.5" {
		t.Fatalf("expected 0.5 SOL, got %s", got)
	}
}

func TestSolanaAdapterNullResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	a := explorer.NewSolanaAdapter(srv.URL, testTimeout)
	_, err := a.FetchTransaction(context.Background(), "sig")
	if !errors.Is(err, explorer.ErrTxNotFound) {
		t.Fatalf("expected ErrTxNotFound, got %v", err)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"throttled", http.StatusTooManyRequests, explorer.ErrRateLimited},
		{"missing", http.StatusNotFound, explorer.ErrTxNotFound},
		{"upstream down", http.StatusBadGateway, explorer.ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			a := explorer.NewTronAdapter(srv.URL, testTimeout)
			_, err := a.FetchTransaction(context.Background(), "abc")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	a := explorer.NewBitcoinAdapter(srv.URL, testTimeout)
	_, err := a.FetchTransaction(context.Background(), "abc")
	if !errors.Is(err, explorer.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := explorer.NewRegistry(
		explorer.NewTronAdapter("http://tron", testTimeout),
		explorer.NewBitcoinAdapter("http://btc", testTimeout),
	)

	if a, ok := reg.Lookup(explorer.AssetUSDT); !ok || a.Asset() != explorer.AssetUSDT {
		t.Fatal("expected USDT adapter")
	}
	if _, ok := reg.Lookup(explorer.AssetETH); ok {
		t.Fatal("did not register ETH, lookup should miss")
	}
}

func hex64(seed string) string {
	s := ""
	for len(s) < 64 {
		s += seed + "abcdef0123456789"
	}
	return s[:64]
}
