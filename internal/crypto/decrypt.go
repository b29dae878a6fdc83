package crypto

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/qcc-wallet/internal/keyring"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
)

// ErrWalletNotFound is returned when the .cwt file does not exist.
var ErrWalletNotFound = errors.New("wallet file does not exist")

// DecryptWallet reads and decrypts .cwt file
// password must be []byte for security (caller should zero it after use)
//
// A wrong password fails with keyring.ErrAuthenticationFailed; a damaged
// file fails with keyring.ErrDecryptionFailed.
func DecryptWallet(filePath string, password []byte) (*model.CWTFile, *model.WalletData, error) {
	cwtFile, err := readCWTFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(cwtFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to decode salt: %v", keyring.ErrDecryptionFailed, err)
	}

	nonce, err := base64.StdEncoding.DecodeString(cwtFile.Nonce)
	if err != nil || len(nonce) != nonceLen {
		return nil, nil, fmt.Errorf("%w: bad nonce", keyring.ErrDecryptionFailed)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(cwtFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to decode ciphertext: %v", keyring.ErrDecryptionFailed, err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", keyring.ErrDecryptionFailed, err)
	}

	// GCM cannot tell a wrong password from a tampered ciphertext; the
	// password is by far the likelier cause.
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid password", keyring.ErrAuthenticationFailed)
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var walletData model.WalletData
	if err := json.Unmarshal(plaintext, &walletData); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to unmarshal wallet data: %v", keyring.ErrDecryptionFailed, err)
	}

	return cwtFile, &walletData, nil
}

// ReadWalletAddress reads only the address from .cwt file (without decryption)
func ReadWalletAddress(filePath string) (string, error) {
	cwtFile, err := readCWTFile(filePath)
	if err != nil {
		return "", err
	}
	return cwtFile.Address, nil
}

// ReadWalletFile reads the public part of a .cwt file (without decryption)
func ReadWalletFile(filePath string) (*model.CWTFile, error) {
	return readCWTFile(filePath)
}

func readCWTFile(filePath string) (*model.CWTFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, ErrWalletNotFound
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	fileData = bytes.TrimPrefix(fileData, utf8BOM)

	var cwtFile model.CWTFile
	if err := json.Unmarshal(fileData, &cwtFile); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal cwt file: %v", keyring.ErrDecryptionFailed, err)
	}
	if cwtFile.Network != Network {
		return nil, fmt.Errorf("%w: not a %s wallet (network %q)", keyring.ErrDecryptionFailed, Network, cwtFile.Network)
	}

	return &cwtFile, nil
}
