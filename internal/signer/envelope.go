package signer

import (
	"encoding/json"
	"fmt"

	"github.com/AlexZinkM/qcc-wallet/internal/canonical"
)

const (
	fieldPublicKey = "public_key"
	fieldSignature = "signature"
)

// Envelope is the wire object sent to the backend:
// {"public_key": ..., "signature": ..., <PayloadKey>: <Payload>}.
type Envelope struct {
	PayloadKey string
	Payload    *canonical.Payload
	PublicKey  string
	Signature  string
}

// MarshalJSON writes public_key, signature and the payload in that order,
// without HTML escaping.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return canonical.NewPayload().
		Set(fieldPublicKey, e.PublicKey).
		Set(fieldSignature, e.Signature).
		Set(e.PayloadKey, e.Payload).
		MarshalJSON()
}

// UnmarshalJSON reads an envelope; the one key besides public_key and
// signature names the payload.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw canonical.Payload
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	var out Envelope
	for _, k := range raw.Keys() {
		switch k {
		case fieldPublicKey:
			out.PublicKey, _ = raw.String(k)
		case fieldSignature:
			out.Signature, _ = raw.String(k)
		default:
			if out.PayloadKey != "" {
				return fmt.Errorf("%w: more than one payload", ErrMalformedEnvelope)
			}
			v, _ := raw.Get(k)
			p, ok := v.(*canonical.Payload)
			if !ok {
				return fmt.Errorf("%w: %s is not an object", ErrMalformedEnvelope, k)
			}
			out.PayloadKey = k
			out.Payload = p
		}
	}
	if out.PayloadKey == "" {
		return fmt.Errorf("%w: no payload", ErrMalformedEnvelope)
	}

	*e = out
	return nil
}

// Wire returns the envelope as the JSON string the backend expects.
func (e *Envelope) Wire() (string, error) {
	b, err := e.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
