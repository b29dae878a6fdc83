package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5" //nolint:gosec // required by the OpenSSL key derivation of legacy key files
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AlexZinkM/qcc-wallet/internal/identity"
	"github.com/AlexZinkM/qcc-wallet/internal/keyring"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
)

// DefaultKeyFilePassphrase is the passphrase every .qcc key file has been
// exported with.
const DefaultKeyFilePassphrase = "secret_key"

// Legacy .qcc key files are base64 OpenSSL "Salted__" blobs: 8-byte salt,
// EVP_BytesToKey(MD5) key and IV, AES-256-CBC with PKCS#7 padding.
const (
	legacySaltLen = 8
	legacyKeyLen  = 32
)

var legacyMagic = []byte("Salted__")

var (
	// ErrUnknownKeyFile means the decrypted content is not a wallet record.
	ErrUnknownKeyFile = errors.New("unrecognized key file format")
	// ErrKeyFileMismatch means the key file's address does not belong to its key.
	ErrKeyFileMismatch = errors.New("key file address does not match its private key")
)

// DecryptKeyFile decrypts a legacy .qcc key file and returns its wallet
// record. An empty passphrase means DefaultKeyFilePassphrase. Every failure
// matches keyring.ErrDecryptionFailed.
func DecryptKeyFile(blob, passphrase string) (*model.WalletRecord, error) {
	if passphrase == "" {
		passphrase = DefaultKeyFilePassphrase
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: key file is not base64: %v", keyring.ErrDecryptionFailed, err)
	}
	if len(raw) < len(legacyMagic)+legacySaltLen+aes.BlockSize || !bytes.HasPrefix(raw, legacyMagic) {
		return nil, fmt.Errorf("%w: missing salted header", keyring.ErrDecryptionFailed)
	}
	salt := raw[len(legacyMagic) : len(legacyMagic)+legacySaltLen]
	ciphertext := raw[len(legacyMagic)+legacySaltLen:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: truncated ciphertext", keyring.ErrDecryptionFailed)
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", keyring.ErrDecryptionFailed, err)
	}
	plaintext := make([]byte, len(ciphertext))
	defer clear(plaintext)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", keyring.ErrDecryptionFailed, err)
	}

	rec, err := parseRecord(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", keyring.ErrDecryptionFailed, err)
	}
	out := rec.normalize(time.Now)
	if err := validateKeyFileWallet(&out.Wallet); err != nil {
		return nil, fmt.Errorf("%w: %w", keyring.ErrDecryptionFailed, err)
	}
	return out, nil
}

// EncryptKeyFile exports a wallet record in the legacy .qcc format.
func EncryptKeyFile(rec *model.WalletRecord, passphrase string) (string, error) {
	if passphrase == "" {
		passphrase = DefaultKeyFilePassphrase
	}

	plaintext, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal key file: %w", err)
	}
	defer clear(plaintext)

	salt := make([]byte, legacySaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt)
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	padded := pkcs7Pad(plaintext)
	defer clear(padded)

	out := make([]byte, len(legacyMagic)+legacySaltLen+len(padded))
	copy(out, legacyMagic)
	copy(out[len(legacyMagic):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[len(legacyMagic)+legacySaltLen:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// evpBytesToKey is OpenSSL's EVP_BytesToKey with MD5 and one iteration.
func evpBytesToKey(passphrase, salt []byte) (key, iv []byte) {
	var (
		derived []byte
		prev    []byte
	)
	for len(derived) < legacyKeyLen+aes.BlockSize {
		h := md5.New() //nolint:gosec
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:legacyKeyLen], derived[legacyKeyLen : legacyKeyLen+aes.BlockSize]
}

func pkcs7Pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errors.New("bad padding (wrong passphrase?)")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.New("bad padding (wrong passphrase?)")
		}
	}
	return b[:len(b)-n], nil
}

// keyFileRecord is one of the shapes key files have been written in.
type keyFileRecord interface {
	normalize(now func() time.Time) *model.WalletRecord
}

// qccRecord is the current shape: wallet, address book and export time.
type qccRecord struct {
	Wallet     model.KeyFileWallet `json:"wallet"`
	Recipients []model.Recipient   `json:"recipients"`
	Timestamp  int64               `json:"timestamp"`
}

// shortRecord carries only the wallet.
type shortRecord struct {
	Wallet    model.KeyFileWallet `json:"wallet"`
	Timestamp int64               `json:"timestamp"`
}

// flatRecord is the oldest shape: the wallet object itself.
type flatRecord model.KeyFileWallet

func (r *qccRecord) normalize(now func() time.Time) *model.WalletRecord {
	out := &model.WalletRecord{Wallet: r.Wallet, Recipients: r.Recipients, Timestamp: r.Timestamp}
	if out.Recipients == nil {
		out.Recipients = []model.Recipient{}
	}
	if out.Timestamp == 0 {
		out.Timestamp = now().UnixMilli()
	}
	return out
}

func (r *shortRecord) normalize(now func() time.Time) *model.WalletRecord {
	ts := r.Timestamp
	if ts == 0 {
		ts = now().UnixMilli()
	}
	return &model.WalletRecord{Wallet: r.Wallet, Recipients: []model.Recipient{}, Timestamp: ts}
}

func (r *flatRecord) normalize(now func() time.Time) *model.WalletRecord {
	return &model.WalletRecord{
		Wallet:     model.KeyFileWallet(*r),
		Recipients: []model.Recipient{},
		Timestamp:  now().UnixMilli(),
	}
}

// parseRecord picks the record shape by the keys present.
func parseRecord(plaintext []byte) (keyFileRecord, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(plaintext, &probe); err != nil {
		return nil, ErrUnknownKeyFile
	}

	var rec keyFileRecord
	_, hasWallet := probe["wallet"]
	_, hasRecipients := probe["recipients"]
	_, hasKey := probe["private_key"]
	switch {
	case hasWallet && hasRecipients:
		rec = &qccRecord{}
	case hasWallet:
		rec = &shortRecord{}
	case hasKey:
		rec = &flatRecord{}
	default:
		return nil, ErrUnknownKeyFile
	}
	if err := json.Unmarshal(plaintext, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownKeyFile, err)
	}
	return rec, nil
}

// validateKeyFileWallet checks the key format and, when present, that the
// public key and address belong to it.
func validateKeyFileWallet(w *model.KeyFileWallet) error {
	key := []byte(w.PrivateKey)
	defer clear(key)

	pub, err := identity.PublicKey(key)
	if err != nil {
		return err
	}
	if w.PublicKey != "" && !strings.EqualFold(w.PublicKey, pub) {
		return ErrKeyFileMismatch
	}
	if w.Address == "" {
		return fmt.Errorf("%w: missing address", ErrUnknownKeyFile)
	}
	if w.Address != identity.Address(pub) {
		return ErrKeyFileMismatch
	}
	return nil
}
