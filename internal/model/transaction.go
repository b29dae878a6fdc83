package model

import "strings"

// BroadcastResponse is the backend reply to POST /broadcast/. Depending on
// the node version the hash comes back under one of several names.
type BroadcastResponse struct {
	TxID            string `json:"txid,omitempty"`
	Hash            string `json:"hash,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Output          string `json:"output,omitempty"`
}

// TxHash returns the first non-empty of txid, hash and transactionHash, or
// "unknown".
func (r *BroadcastResponse) TxHash() string {
	for _, h := range []string{r.TxID, r.Hash, r.TransactionHash} {
		if h != "" {
			return h
		}
	}
	return "unknown"
}

// Failed reports whether the backend output mentions an error.
func (r *BroadcastResponse) Failed() bool {
	return strings.Contains(r.Output, "error")
}

// TransactionDetails is the backend reply to GET /txs/{hash}, kept as is.
type TransactionDetails map[string]any

// VerifyTransactionResult represents response for GET /qcc/transactions/{hash}
type VerifyTransactionResult struct {
	Exists  bool               `json:"exists"`
	Details TransactionDetails `json:"details,omitempty"`
	Error   string             `json:"error,omitempty"`
}
