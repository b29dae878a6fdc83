// Package identity derives QCC wallet identities: mnemonic → private key →
// public key → address.
package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"

	"github.com/AlexZinkM/qcc-wallet/internal/canonical"
)

// PrivateKeySize is the length of a hex-encoded private key.
const PrivateKeySize = 2 * ed25519.SeedSize

// AddressSize is the length of an address: a RIPEMD160 hex digest plus checksum.
const AddressSize = 40 + canonical.ChecksumSize

var (
	// ErrInvalidMnemonic is returned when a phrase fails BIP-39 validation.
	ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")
	// ErrInvalidKeyFormat is returned when a private key is not 64 hex characters.
	ErrInvalidKeyFormat = errors.New("invalid private key format")
)

var keyPattern = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

// KeyValidity reports whether key is exactly 64 hexadecimal characters.
func KeyValidity(key string) bool {
	return keyPattern.MatchString(key)
}

// ValidKey is KeyValidity for a key held in a byte slice.
func ValidKey(key []byte) bool {
	return keyPattern.Match(key)
}

// ValidAddress reports whether addr is 44 lower-case hex characters whose
// last four are the checksum of the first forty.
func ValidAddress(addr string) bool {
	if len(addr) != AddressSize {
		return false
	}
	for i := 0; i < len(addr); i++ {
		c := addr[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	short := addr[:AddressSize-canonical.ChecksumSize]
	return canonical.Checksum(short) == addr[len(short):]
}

// SigningKey expands a hex private key into the 64-byte ed25519 key
// (seed followed by public key). The caller must clear the result.
func SigningKey(privateKey []byte) (ed25519.PrivateKey, error) {
	if !ValidKey(privateKey) {
		return nil, ErrInvalidKeyFormat
	}
	seed := make([]byte, ed25519.SeedSize)
	defer clear(seed)
	if _, err := hex.Decode(seed, privateKey); err != nil {
		return nil, ErrInvalidKeyFormat
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// PublicKey returns the lower-case hex ed25519 public key for privateKey.
func PublicKey(privateKey []byte) (string, error) {
	sk, err := SigningKey(privateKey)
	if err != nil {
		return "", err
	}
	defer clear(sk)
	return hex.EncodeToString(sk.Public().(ed25519.PublicKey)), nil
}

// Address derives the wallet address from a hex public key.
func Address(publicKey string) string {
	// Canonicalizing a string cannot fail.
	addr, _ := canonical.IDHash(publicKey)
	return addr
}

// privateKeyFromSeed hashes a BIP-39 seed into a hex private key.
func privateKeyFromSeed(seed []byte) []byte {
	sum := sha256.Sum256(seed)
	defer clear(sum[:])
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}
