// Package explorer queries public chain-explorer APIs and normalizes
// transactions into major-unit amounts. Adapters perform exactly one
// outbound call per invocation and never retry; retry policy belongs
// to the caller.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Asset identifies a supported crypto asset
type Asset string

const (
	AssetUSDT Asset = "USDT" // TRC20 on Tron
	AssetBNB  Asset = "BNB"  // BEP20 on BNB Smart Chain
	AssetBTC  Asset = "BTC"
	AssetETH  Asset = "ETH"
	AssetSOL  Asset = "SOL"
)

var (
	// ErrTxNotFound means the explorer has no record of the transaction
	ErrTxNotFound = fmt.Errorf("transaction not found on chain")
	// ErrRateLimited means the upstream throttled the request
	ErrRateLimited = fmt.Errorf("explorer rate limited")
	// ErrUnavailable means the explorer could not be reached or answered
	// with a transport-level failure; distinct from an invalid payment
	ErrUnavailable = fmt.Errorf("explorer unavailable")
)

// Transfer is one settled chain transaction normalized to the asset's
// major unit (USDT, BNB, BTC, ETH, SOL — never wei/satoshi/lamports).
type Transfer struct {
	TxID   string
	Asset  Asset
	Amount decimal.Decimal
}

// Adapter fetches one transaction from a network's public explorer
type Adapter interface {
	Asset() Asset
	FetchTransaction(ctx context.Context, txid string) (*Transfer, error)
}

// Registry holds the adapters keyed by asset
type Registry struct {
	adapters map[Asset]Adapter
}

// NewRegistry creates a registry from the given adapters
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[Asset]Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Asset()] = a
	}
	return &Registry{adapters: m}
}

// Lookup returns the adapter for an asset
func (r *Registry) Lookup(asset Asset) (Adapter, bool) {
	a, ok := r.adapters[asset]
	return a, ok
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// doJSON performs one HTTP round trip and decodes the body into out.
// Transport failures map to ErrUnavailable, 429 to ErrRateLimited and
// 404 to ErrTxNotFound so callers only ever see the package sentinels.
func doJSON(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return ErrTxNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: malformed explorer response: %v", ErrUnavailable, err)
	}

	return nil
}
