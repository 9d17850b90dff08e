package explorer

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// satoshiDecimals is the minor-unit scale of BTC (1e8)
const satoshiDecimals = 8

// BitcoinAdapter fetches BTC transactions from a blockchain.info-style API
type BitcoinAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewBitcoinAdapter creates a blockchain.info adapter
func NewBitcoinAdapter(baseURL string, timeout time.Duration) *BitcoinAdapter {
	return &BitcoinAdapter{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// Asset returns the asset this adapter serves
func (a *BitcoinAdapter) Asset() Asset { return AssetBTC }

// FetchTransaction fetches one raw transaction by id. The settled
// amount is the sum of all outputs, converted from satoshi.
func (a *BitcoinAdapter) FetchTransaction(ctx context.Context, txid string) (*Transfer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/rawtx/"+txid, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Out []struct {
			Value int64 `json:"value"`
		} `json:"out"`
	}
	if err := doJSON(a.httpClient, req, &payload); err != nil {
		return nil, err
	}

	if len(payload.Out) == 0 {
		return nil, ErrTxNotFound
	}

	var satoshi int64
	for _, out := range payload.Out {
		satoshi += out.Value
	}

	return &Transfer{
		TxID:   txid,
		Asset:  AssetBTC,
		Amount: decimal.New(satoshi, -satoshiDecimals),
	}, nil
}
