package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // address scheme is fixed by the protocol
)

// HexTimeSize is the width of the time prefix of a transaction hash.
const HexTimeSize = 14

// ChecksumSize is the number of hex characters appended to an address.
const ChecksumSize = 4

// ErrMissingTimestamp is returned when a payload has no integer timestamp.
var ErrMissingTimestamp = errors.New("payload has no integer timestamp")

// Hash returns the lower-case hex SHA256 of the canonical form of v.
func Hash(v any) (string, error) {
	s, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	return sha256Hex(s), nil
}

// HashString is Hash for a plain string.
func HashString(s string) string {
	return sha256Hex(CanonicalizeString(s))
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HexTime renders t as lower-case hex, left padded with zeros and cut to
// exactly HexTimeSize characters. Values wider than that lose their low
// digits.
func HexTime(t int64) string {
	s := strconv.FormatInt(t, 16)
	if len(s) < HexTimeSize {
		s = strings.Repeat("0", HexTimeSize-len(s)) + s
	}
	return s[:HexTimeSize]
}

// TxHash returns HexTime(timestamp) followed by the hash of the payload hash.
func TxHash(p *Payload) (string, error) {
	ts, ok := p.Int64("timestamp")
	if !ok {
		return "", ErrMissingTimestamp
	}
	h, err := Hash(p)
	if err != nil {
		return "", err
	}
	return HexTime(ts) + HashString(h), nil
}

// ShortHash returns RIPEMD160 over the hex string Hash(v).
func ShortHash(v any) (string, error) {
	h, err := Hash(v)
	if err != nil {
		return "", err
	}
	r := ripemd160.New()
	r.Write([]byte(h))
	return hex.EncodeToString(r.Sum(nil)), nil
}

// Checksum returns the first ChecksumSize hex characters of the double hash of h.
func Checksum(h string) string {
	return HashString(HashString(h))[:ChecksumSize]
}

// IDHash returns ShortHash(v) followed by its checksum.
func IDHash(v any) (string, error) {
	short, err := ShortHash(v)
	if err != nil {
		return "", err
	}
	return short + Checksum(short), nil
}
