// Package qcc implements the wallet operations: creating and restoring
// identities, paying, requesting payments and checking transactions.
package qcc

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/AlexZinkM/qcc-wallet/internal/crypto"
	"github.com/AlexZinkM/qcc-wallet/internal/identity"
	"github.com/AlexZinkM/qcc-wallet/internal/logger"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
	"github.com/AlexZinkM/qcc-wallet/internal/qrpay"
)

const walletExt = ".cwt"

// ErrWalletExists is returned when the target file already holds a wallet.
var ErrWalletExists = crypto.ErrWalletExists

// ErrWalletNotFound is returned when the wallet file is missing or empty.
var ErrWalletNotFound = crypto.ErrWalletNotFound

// GenerateWallet creates a wallet from a new 12-word mnemonic and saves it
// to a .cwt file. The mnemonic is returned once and never written to disk.
// password must be []byte for security (caller should zero it after use)
func GenerateWallet(filePath string, password []byte) (*model.GenerateResponse, error) {
	w, err := identity.NewWallet()
	if err != nil {
		return nil, fmt.Errorf("failed to generate wallet: %w", err)
	}
	defer w.Clear()

	mnemonic := w.Mnemonic
	if err := saveWallet(filePath, w, password); err != nil {
		return nil, err
	}
	logger.Info("wallet generated", "address", w.Address)

	return &model.GenerateResponse{
		Success:  true,
		Message:  "wallet created, write down the mnemonic: it is shown only once",
		Address:  w.Address,
		Mnemonic: mnemonic,
	}, nil
}

// RestoreWallet recreates the wallet for mnemonic and saves it to a .cwt file.
func RestoreWallet(filePath, mnemonic string, password []byte) (*model.GenerateResponse, error) {
	w, err := identity.DeriveWallet(mnemonic)
	if err != nil {
		return nil, err
	}
	defer w.Clear()

	if err := saveWallet(filePath, w, password); err != nil {
		return nil, err
	}
	logger.Info("wallet restored", "address", w.Address)

	return &model.GenerateResponse{
		Success: true,
		Message: "wallet restored",
		Address: w.Address,
	}, nil
}

// ImportKeyFile decrypts a legacy .qcc key file and saves its wallet to a
// .cwt file. An empty passphrase means crypto.DefaultKeyFilePassphrase.
func ImportKeyFile(filePath, keyFile, passphrase string, password []byte) (*model.GenerateResponse, error) {
	rec, err := crypto.DecryptKeyFile(keyFile, passphrase)
	if err != nil {
		return nil, err
	}

	key := []byte(rec.Wallet.PrivateKey)
	defer clear(key)

	w, err := identity.FromPrivateKey(key)
	if err != nil {
		return nil, err
	}
	defer w.Clear()

	if err := saveWallet(filePath, w, password); err != nil {
		return nil, err
	}
	logger.Info("key file imported", "address", w.Address, "recipients", len(rec.Recipients))

	return &model.GenerateResponse{
		Success: true,
		Message: "key file imported",
		Address: w.Address,
	}, nil
}

func saveWallet(filePath string, w *identity.Wallet, password []byte) error {
	if filepath.Ext(filePath) != walletExt {
		return fmt.Errorf("file must have %s extension", walletExt)
	}

	qrCode, err := qrpay.PNGBase64(w.Address)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	if err := crypto.SaveWallet(filePath, w, qrCode, password); err != nil {
		if errors.Is(err, ErrWalletExists) {
			return err
		}
		return fmt.Errorf("failed to encrypt wallet: %w", err)
	}
	return nil
}
