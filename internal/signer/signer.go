// Package signer builds signed QCC requests.
//
// The signed message is TxHash(payload): the hex time prefix followed by the
// hash of the payload hash. Only that message goes through canonicalization;
// the envelope itself is ordinary JSON.
package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/qcc-wallet/internal/canonical"
	"github.com/AlexZinkM/qcc-wallet/internal/identity"
)

// PayloadKeyTransaction is the envelope key for transfer requests.
const PayloadKeyTransaction = "transaction"

// TimestampSkew is added to the local clock when a transaction carries no
// server timestamp.
const TimestampSkew = 2 * time.Second

// TxTypeSend is the payload type of a transfer.
const TxTypeSend = "Send"

var (
	ErrMalformedEnvelope = errors.New("malformed signed envelope")
	ErrAddressMismatch   = errors.New("sender address does not match public key")
	ErrBadSignature      = errors.New("signature verification failed")
)

// Signer signs payloads. Now is the clock used for default timestamps.
type Signer struct {
	Now func() time.Time
}

// New returns a Signer using the system clock.
func New() *Signer {
	return &Signer{Now: time.Now}
}

var defaultSigner = New()

// utime is microseconds since the epoch at millisecond resolution, the
// resolution the wallet has always used.
func (s *Signer) utime() int64 {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UnixMilli() * 1000
}

// SignedData sets payload's "from" field, fills in a missing timestamp and
// signs it with privateKey (64 hex characters). payload is modified in place.
// An invalid key fails with identity.ErrInvalidKeyFormat before any
// cryptographic work is done.
func (s *Signer) SignedData(payload *canonical.Payload, privateKey []byte, payloadKey string) (*Envelope, error) {
	sk, err := identity.SigningKey(privateKey)
	if err != nil {
		return nil, err
	}
	defer clear(sk)

	publicKey := hex.EncodeToString(sk.Public().(ed25519.PublicKey))
	payload.Set("from", identity.Address(publicKey))

	if _, ok := payload.Int64("timestamp"); !ok {
		ts := s.utime()
		if payloadKey == PayloadKeyTransaction {
			ts += TimestampSkew.Microseconds()
		}
		payload.Set("timestamp", ts)
	}

	txHash, err := canonical.TxHash(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to hash payload: %w", err)
	}
	sig := ed25519.Sign(sk, canonical.SigningBytes(canonical.CanonicalizeString(txHash)))

	return &Envelope{
		PayloadKey: payloadKey,
		Payload:    payload,
		PublicKey:  publicKey,
		Signature:  hex.EncodeToString(sig),
	}, nil
}

// BuildSendRequestData returns the wire string of a signed transfer of amount
// (already in base units) to address to. A zero timestamp means the caller
// has no server time and the local clock plus TimestampSkew is used.
func (s *Signer) BuildSendRequestData(privateKey []byte, to, amount string, timestamp int64) (string, error) {
	var ts any
	if timestamp != 0 {
		ts = timestamp
	}
	payload := canonical.NewPayload().
		Set("type", TxTypeSend).
		Set("to", to).
		Set("amount", amount).
		Set("timestamp", ts)

	env, err := s.SignedData(payload, privateKey, PayloadKeyTransaction)
	if err != nil {
		return "", err
	}
	return env.Wire()
}

// SignSend is BuildSendRequestData for a key held in a string, using the
// system clock.
func SignSend(privateKey, to, amount string, timestamp int64) (string, error) {
	key := []byte(privateKey)
	defer clear(key)
	return defaultSigner.BuildSendRequestData(key, to, amount, timestamp)
}

// Verify parses a wire envelope and checks it the way the backend does:
// the sender address must belong to the public key and the signature must
// cover TxHash(payload).
func Verify(wire string) (*Envelope, error) {
	var env Envelope
	if err := env.UnmarshalJSON([]byte(wire)); err != nil {
		return nil, err
	}

	pub, err := hex.DecodeString(env.PublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: bad public key", ErrMalformedEnvelope)
	}
	sig, err := hex.DecodeString(env.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: bad signature", ErrMalformedEnvelope)
	}

	from, _ := env.Payload.String("from")
	if from != identity.Address(env.PublicKey) {
		return nil, ErrAddressMismatch
	}

	txHash, err := canonical.TxHash(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if !ed25519.Verify(pub, canonical.SigningBytes(canonical.CanonicalizeString(txHash)), sig) {
		return nil, ErrBadSignature
	}
	return &env, nil
}
