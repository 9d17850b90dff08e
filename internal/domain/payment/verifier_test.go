package payment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/clinkr/clinkr-api/internal/domain/payment"
	"github.com/clinkr/clinkr-api/internal/explorer"
)

// adapterStub lets tests script one adapter and count its calls
type adapterStub struct {
	asset  explorer.Asset
	amount decimal.Decimal
	err    error
	calls  int
}

func (a *adapterStub) Asset() explorer.Asset { return a.asset }

func (a *adapterStub) FetchTransaction(_ context.Context, txid string) (*explorer.Transfer, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &explorer.Transfer{TxID: txid, Asset: a.asset, Amount: a.amount}, nil
}

const (
	evmTxID  = "0x4e3a3754410177e6937ef1f84bba68ea139e8d1a2258c5f85db9f1cd715a1bdd"
	tronTxID = "a3c52bf1e0bd2a8e9f7c41d2b05e6f7a1c9d"
)

func TestVerifyMalformedIDSkipsNetwork(t *testing.T) {
	stub := &adapterStub{asset: explorer.AssetUSDT, amount: decimal.NewFromInt(10)}
	v := payment.NewVerifier(explorer.NewRegistry(stub))

	malformed := []string{
		"",
		"short",
		"0x4e3a3754410177e6937ef1f84bba68ea139e8d1a2258c5f85db9f1cd715a1bdd", // EVM shape, not Tron
		"contains spaces and such!",
	}

	for _, txid := range malformed {
		res, err := v.Verify(context.Background(), txid, decimal.NewFromInt(10), explorer.AssetUSDT)
		if err != nil {
			t.Fatalf("txid %q: unexpected error: %v", txid, err)
		}
		if res.Valid {
			t.Fatalf("txid %q: malformed id accepted", txid)
		}
		if res.Reason != payment.ReasonMalformedID {
			t.Fatalf("txid %q: expected malformed_id, got %s", txid, res.Reason)
		}
	}

	if stub.calls != 0 {
		t.Fatalf("malformed ids caused %d network calls, want 0", stub.calls)
	}
}

func TestVerifyUnsupportedAsset(t *testing.T) {
	v := payment.NewVerifier(explorer.NewRegistry()) // nothing registered

	res, err := v.Verify(context.Background(), evmTxID, decimal.NewFromInt(1), explorer.AssetETH)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid || res.Reason != payment.ReasonUnsupportedAsset {
		t.Fatalf("expected unsupported_asset, got valid=%v reason=%s", res.Valid, res.Reason)
	}
}

func TestVerifyAmountBoundary(t *testing.T) {
	cases := []struct {
		name     string
		observed string
		valid    bool
	}{
		{"under pays", "9.999999", false},
		{"exact boundary", "10", true},
		{"over pays", "10.5", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &adapterStub{asset: explorer.AssetUSDT, amount: decimal.RequireFromString(tc.observed)}
			v := payment.NewVerifier(explorer.NewRegistry(stub))

			res, err := v.Verify(context.Background(), tronTxID, decimal.NewFromInt(10), explorer.AssetUSDT)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Valid != tc.valid {
				t.Fatalf("observed %s: expected valid=%v, got %v (reason=%s)", tc.observed, tc.valid, res.Valid, res.Reason)
			}
			if !res.ObservedAmount.Equal(stub.amount) {
				t.Fatalf("observed amount %s not surfaced, got %s", stub.amount, res.ObservedAmount)
			}
			if stub.calls != 1 {
				t.Fatalf("expected exactly one fetch, got %d", stub.calls)
			}
		})
	}
}

func TestVerifyNotFoundIsInvalidNotError(t *testing.T) {
	stub := &adapterStub{asset: explorer.AssetUSDT, err: explorer.ErrTxNotFound}
	v := payment.NewVerifier(explorer.NewRegistry(stub))

	res, err := v.Verify(context.Background(), tronTxID, decimal.NewFromInt(10), explorer.AssetUSDT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid || res.Reason != payment.ReasonNotFound {
		t.Fatalf("expected not_found, got valid=%v reason=%s", res.Valid, res.Reason)
	}
}

func TestVerifyUpstreamFailurePropagates(t *testing.T) {
	for _, upstream := range []error{explorer.ErrUnavailable, explorer.ErrRateLimited} {
		stub := &adapterStub{asset: explorer.AssetUSDT, err: upstream}
		v := payment.NewVerifier(explorer.NewRegistry(stub))

		_, err := v.Verify(context.Background(), tronTxID, decimal.NewFromInt(10), explorer.AssetUSDT)
		if !errors.Is(err, payment.ErrUpstreamUnavailable) {
			t.Fatalf("upstream %v: expected ErrUpstreamUnavailable, got %v", upstream, err)
		}
	}
}
