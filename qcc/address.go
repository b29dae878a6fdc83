package qcc

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexZinkM/qcc-wallet/internal/common"
	"github.com/AlexZinkM/qcc-wallet/internal/crypto"
	"github.com/AlexZinkM/qcc-wallet/internal/logger"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
)

// balanceDecimals is how many QCC decimals a balance is shown with.
const balanceDecimals = 6

// BalanceSource looks up the balance of an address in base units.
type BalanceSource interface {
	GetBalance(ctx context.Context, address string) (string, error)
}

// GetAddress returns the public part of the wallet (without decryption).
func GetAddress(filePath string) (*model.AddressResponse, error) {
	cwt, err := crypto.ReadWalletFile(filePath)
	if err != nil {
		return nil, err
	}
	return &model.AddressResponse{
		Address:   cwt.Address,
		PublicKey: cwt.PublicKey,
		QR:        cwt.QR,
	}, nil
}

// GetBalance gets wallet balance
func GetBalance(ctx context.Context, balances BalanceSource, filePath string) (*model.BalanceResponse, error) {
	address, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}

	units, err := balances.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := common.FromBaseUnitsFixed(units, balanceDecimals)
	if err != nil {
		return nil, fmt.Errorf("failed to convert balance: %w", err)
	}

	return &model.BalanceResponse{
		Address:   address,
		Balance:   balance,
		BaseUnits: units,
	}, nil
}

// GetWalletState builds the persisted wallet state for filePath. Private
// key and mnemonic are always null. balances may be nil; a failed balance
// lookup leaves the balance null.
func GetWalletState(ctx context.Context, balances BalanceSource, filePath string) (*model.WalletState, error) {
	state := &model.WalletState{IsHydrated: true}

	address, err := crypto.ReadWalletAddress(filePath)
	if errors.Is(err, ErrWalletNotFound) {
		return state, nil
	}
	if err != nil {
		return nil, err
	}
	state.IsConnected = true
	state.Address = &address

	if balances == nil {
		return state, nil
	}
	resp, err := GetBalance(ctx, balances, filePath)
	if err != nil {
		logger.Warn("balance unavailable", "address", address, "error", err)
		return state, nil
	}
	state.Balance = &resp.Balance
	return state, nil
}
