package explorer

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// trc20Decimals is the minor-unit scale of TRC20 USDT (1e6)
const trc20Decimals = 6

// TronAdapter fetches TRC20 USDT transactions from a TronGrid-style API
type TronAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewTronAdapter creates a TronGrid adapter
func NewTronAdapter(baseURL string, timeout time.Duration) *TronAdapter {
	return &TronAdapter{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

// Asset returns the asset this adapter serves
func (a *TronAdapter) Asset() Asset { return AssetUSDT }

// FetchTransaction fetches one transaction by id
func (a *TronAdapter) FetchTransaction(ctx context.Context, txid string) (*Transfer, error) {
	url := a.baseURL + "/v1/transactions/" + txid

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			RawData struct {
				Contract []struct {
					Parameter struct {
						Value struct {
							Amount int64 `json:"amount"`
						} `json:"value"`
					} `json:"parameter"`
				} `json:"contract"`
			} `json:"raw_data"`
		} `json:"data"`
	}
	if err := doJSON(a.httpClient, req, &payload); err != nil {
		return nil, err
	}

	// TronGrid answers 200 with an empty data array for unknown ids
	if len(payload.Data) == 0 || len(payload.Data[0].RawData.Contract) == 0 {
		return nil, ErrTxNotFound
	}

	raw := payload.Data[0].RawData.Contract[0].Parameter.Value.Amount
	return &Transfer{
		TxID:   txid,
		Asset:  AssetUSDT,
		Amount: decimal.New(raw, -trc20Decimals),
	}, nil
}
