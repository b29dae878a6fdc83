package qcc

import (
	"context"

	"github.com/AlexZinkM/qcc-wallet/internal/model"
)

// TransactionVerifier looks transactions up on the backend.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, hash string) *model.VerifyTransactionResult
}

// VerifyTransaction reports whether the backend knows the transaction hash.
func VerifyTransaction(ctx context.Context, verifier TransactionVerifier, hash string) *model.VerifyTransactionResult {
	if hash == "" || hash == "unknown" {
		return &model.VerifyTransactionResult{Exists: false, Error: "transaction hash is required"}
	}
	return verifier.VerifyTransaction(ctx, hash)
}
