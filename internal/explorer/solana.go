package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// lamportDecimals is the minor-unit scale of SOL (1e9)
const lamportDecimals = 9

// SolanaAdapter fetches transactions from a Solana JSON-RPC node
type SolanaAdapter struct {
	rpcURL     string
	httpClient *http.Client
}

// NewSolanaAdapter creates a Solana RPC adapter
func NewSolanaAdapter(rpcURL string, timeout time.Duration) *SolanaAdapter {
	return &SolanaAdapter{
		rpcURL:     rpcURL,
		httpClient: newHTTPClient(timeout),
	}
}

// Asset returns the asset this adapter serves
func (a *SolanaAdapter) Asset() Asset { return AssetSOL }

// FetchTransaction fetches one confirmed transaction by signature.
// The settled amount is the largest lamport credit across the
// transaction's accounts (post minus pre balance), which is the
// received amount for a plain system transfer.
func (a *SolanaAdapter) FetchTransaction(ctx context.Context, txid string) (*Transfer, error) {
	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getTransaction",
		"params":  []interface{}{txid, map[string]string{"encoding": "json"}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		Result *struct {
			Meta struct {
				PreBalances  []int64 `json:"preBalances"`
				PostBalances []int64 `json:"postBalances"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := doJSON(a.httpClient, req, &payload); err != nil {
		return nil, err
	}

	if payload.Error != nil {
		return nil, fmt.Errorf("%w: rpc error %d: %s", ErrUnavailable, payload.Error.Code, payload.Error.Message)
	}
	if payload.Result == nil {
		return nil, ErrTxNotFound
	}

	pre, post := payload.Result.Meta.PreBalances, payload.Result.Meta.PostBalances
	if len(pre) == 0 || len(pre) != len(post) {
		return nil, fmt.Errorf("%w: unbalanced account metadata", ErrUnavailable)
	}

	var lamports int64
	for i := range pre {
		if delta := post[i] - pre[i]; delta > lamports {
			lamports = delta
		}
	}

	return &Transfer{
		TxID:   txid,
		Asset:  AssetSOL,
		Amount: decimal.New(lamports, -lamportDecimals),
	}, nil
}
