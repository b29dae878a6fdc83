package crypto

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/AlexZinkM/qcc-wallet/internal/identity"
	"github.com/AlexZinkM/qcc-wallet/internal/keyring"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
)

// FileKeySource loads keys from .cwt files. The slot id is the file path
// and the credential is the file password.
type FileKeySource struct{}

var _ keyring.KeySource = FileKeySource{}

// LoadKey decrypts the file at id and returns the hex private key. The key
// must derive the address recorded in the file.
func (FileKeySource) LoadKey(ctx context.Context, id string, credential []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cwtFile, walletData, err := DecryptWallet(id, credential)
	if err != nil {
		return nil, err
	}
	defer clear(walletData.PrivateKey)

	if len(walletData.PrivateKey) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: stored key has %d bytes", keyring.ErrDecryptionFailed, len(walletData.PrivateKey))
	}

	key := make([]byte, hex.EncodedLen(ed25519.SeedSize))
	hex.Encode(key, walletData.PrivateKey)

	pub, err := identity.PublicKey(key)
	if err != nil {
		clear(key)
		return nil, fmt.Errorf("%w: %w", keyring.ErrDecryptionFailed, err)
	}
	if identity.Address(pub) != cwtFile.Address {
		clear(key)
		return nil, fmt.Errorf("%w: key does not match wallet address %s", keyring.ErrDecryptionFailed, cwtFile.Address)
	}
	return key, nil
}

// SaveWallet writes w to a new .cwt file at filePath.
func SaveWallet(filePath string, w *identity.Wallet, qrCode string, password []byte) error {
	if !identity.ValidKey(w.PrivateKey) {
		return identity.ErrInvalidKeyFormat
	}
	seed := make([]byte, ed25519.SeedSize)
	defer clear(seed)
	if _, err := hex.Decode(seed, w.PrivateKey); err != nil {
		return identity.ErrInvalidKeyFormat
	}

	walletData := &model.WalletData{
		PrivateKey: seed,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	return EncryptWallet(filePath, w.Address, w.PublicKey, qrCode, walletData, password)
}
