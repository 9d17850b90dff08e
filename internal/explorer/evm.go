package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// weiDecimals is the minor-unit scale of native EVM assets (1e18)
const weiDecimals = 18

// evmAdapter serves Etherscan-family explorers (Etherscan, BscScan).
// Both expose the same eth_getTransactionByHash proxy endpoint and
// require an API key supplied out-of-band.
type evmAdapter struct {
	asset      Asset
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewEtherscanAdapter creates an ETH adapter backed by Etherscan
func NewEtherscanAdapter(baseURL, apiKey string, timeout time.Duration) Adapter {
	return &evmAdapter{
		asset:      AssetETH,
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(timeout),
	}
}

// NewBscScanAdapter creates a BNB adapter backed by BscScan
func NewBscScanAdapter(baseURL, apiKey string, timeout time.Duration) Adapter {
	return &evmAdapter{
		asset:      AssetBNB,
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient(timeout),
	}
}

func (a *evmAdapter) Asset() Asset { return a.asset }

func (a *evmAdapter) FetchTransaction(ctx context.Context, txid string) (*Transfer, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getTransactionByHash")
	params.Set("txhash", txid)
	params.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Result json.RawMessage `json:"result"`
	}
	if err := doJSON(a.httpClient, req, &payload); err != nil {
		return nil, err
	}

	result := strings.TrimSpace(string(payload.Result))
	if result == "" || result == "null" {
		return nil, ErrTxNotFound
	}

	// Throttled requests come back as 200 with a string result
	if strings.HasPrefix(result, `"`) {
		var msg string
		_ = json.Unmarshal(payload.Result, &msg)
		if strings.Contains(strings.ToLower(msg), "rate limit") {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("%w: unexpected result %q", ErrUnavailable, msg)
	}

	var tx struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(payload.Result, &tx); err != nil {
		return nil, fmt.Errorf("%w: malformed transaction payload: %v", ErrUnavailable, err)
	}

	wei, err := parseHexQuantity(tx.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Transfer{
		TxID:   txid,
		Asset:  a.asset,
		Amount: decimal.NewFromBigInt(wei, -weiDecimals),
	}, nil
}

// parseHexQuantity parses an 0x-prefixed hex quantity into a big.Int
func parseHexQuantity(s string) (*big.Int, error) {
	hexStr := strings.TrimPrefix(s, "0x")
	if hexStr == "" {
		return nil, fmt.Errorf("empty hex quantity %q", s)
	}
	v, ok := new(big.Int).SetString(hexStr, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return v, nil
}
