// Package qrpay encodes and decodes short-lived payment requests exchanged
// through QR codes.
package qrpay

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"
)

const (
	Version     = "1.0"
	PaymentType = "QCC_PAYMENT"

	// Lifetime is how long a payment request stays valid.
	Lifetime = 30 * time.Minute

	// DefaultImageSize is the PNG width and height in pixels.
	DefaultImageSize = 256
)

var (
	// ErrUnrecognizedPayload means the content is not a QCC payment request.
	// Scanners pick up unrelated codes, so callers usually ignore it.
	ErrUnrecognizedPayload = errors.New("unrecognized QR payload")
	// ErrExpiredPaymentDescriptor means the request is ours but stale.
	ErrExpiredPaymentDescriptor = errors.New("payment request has expired")
)

// Descriptor is a payment request. Timestamp and Expiry are milliseconds since the epoch.
type Descriptor struct {
	Version   string `json:"version"`
	Type      string `json:"type"`
	Address   string `json:"address"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Expiry    int64  `json:"expiry,omitempty"`
}

// ExpiresAt returns the expiry as a time; zero if the request never expires.
func (d *Descriptor) ExpiresAt() time.Time {
	if d.Expiry == 0 {
		return time.Time{}
	}
	return time.UnixMilli(d.Expiry)
}

// Marshal returns the QR content for d.
func (d *Descriptor) Marshal() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment request: %w", err)
	}
	return string(b), nil
}

// Codec encodes and decodes descriptors. Now is the clock used for
// timestamps and expiry checks.
type Codec struct {
	Now func() time.Time
}

// NewCodec returns a Codec using the system clock.
func NewCodec() *Codec {
	return &Codec{Now: time.Now}
}

func (c *Codec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Encode builds a descriptor for address and amount and returns its JSON.
func (c *Codec) Encode(address, amount string) (string, error) {
	return c.NewDescriptor(address, amount).Marshal()
}

// NewDescriptor returns a descriptor that expires Lifetime from now.
func (c *Codec) NewDescriptor(address, amount string) *Descriptor {
	now := c.now().UnixMilli()
	return &Descriptor{
		Version:   Version,
		Type:      PaymentType,
		Address:   address,
		Amount:    amount,
		Timestamp: now,
		Expiry:    now + Lifetime.Milliseconds(),
	}
}

// Decode parses raw QR content. Content that is not JSON or carries the
// wrong version or type yields ErrUnrecognizedPayload; a valid request past
// its expiry yields ErrExpiredPaymentDescriptor. A request without an
// expiry never expires.
func (c *Codec) Decode(raw string) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, ErrUnrecognizedPayload
	}
	if d.Version != Version || d.Type != PaymentType {
		return nil, ErrUnrecognizedPayload
	}
	if d.Expiry != 0 && c.now().UnixMilli() > d.Expiry {
		return nil, ErrExpiredPaymentDescriptor
	}
	return &d, nil
}

// Encode uses the system clock.
func Encode(address, amount string) (string, error) {
	return NewCodec().Encode(address, amount)
}

// Decode uses the system clock.
func Decode(raw string) (*Descriptor, error) {
	return NewCodec().Decode(raw)
}

// PNG renders content as a QR code image.
func PNG(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

// PNGBase64 renders content as a base64 PNG of DefaultImageSize.
func PNGBase64(content string) (string, error) {
	png, err := PNG(content, DefaultImageSize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
