package payment

import (
	"regexp"

	"github.com/clinkr/clinkr-api/internal/explorer"
)

// Canonical txid shapes per asset family. Malformed ids are rejected
// here, before any explorer call is made.
var (
	// EVM chains: 32-byte hash, optional 0x prefix
	evmTxIDPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)
	// UTXO/Tron-style ids
	alnumTxIDPattern = regexp.MustCompile(`^[0-9a-zA-Z]{26,40}$`)
	// Solana signatures: base58-encoded ed25519 signature
	solanaSigPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{43,88}$`)
)

// ValidTxID reports whether txid matches the claimed asset's id shape
func ValidTxID(asset explorer.Asset, txid string) bool {
	switch asset {
	case explorer.AssetETH, explorer.AssetBNB:
		return evmTxIDPattern.MatchString(txid)
	case explorer.AssetBTC, explorer.AssetUSDT:
		return alnumTxIDPattern.MatchString(txid)
	case explorer.AssetSOL:
		return solanaSigPattern.MatchString(txid)
	default:
		return false
	}
}
