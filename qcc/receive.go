package qcc

import (
	"fmt"

	"github.com/AlexZinkM/qcc-wallet/internal/common"
	"github.com/AlexZinkM/qcc-wallet/internal/crypto"
	"github.com/AlexZinkM/qcc-wallet/internal/identity"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
	"github.com/AlexZinkM/qcc-wallet/internal/qrpay"
)

// paymentCodec is replaced in tests to control the clock.
var paymentCodec = qrpay.NewCodec()

// RequestPayment creates a payment request for amount QCC to the wallet at
// filePath, as QR content and a PNG image.
func RequestPayment(filePath, amount string) (*model.ReceiveResponse, error) {
	if err := common.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}

	address, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}

	d := paymentCodec.NewDescriptor(address, amount)
	payload, err := d.Marshal()
	if err != nil {
		return nil, err
	}
	png, err := qrpay.PNGBase64(payload)
	if err != nil {
		return nil, err
	}

	return &model.ReceiveResponse{
		Payload:   payload,
		QR:        png,
		ExpiresAt: d.Expiry,
	}, nil
}

// ScanPayment decodes scanned QR content into a payment request. Content
// that is not a payment request yields qrpay.ErrUnrecognizedPayload; a
// stale one yields qrpay.ErrExpiredPaymentDescriptor.
func ScanPayment(content string) (*model.ScanResponse, error) {
	d, err := paymentCodec.Decode(content)
	if err != nil {
		return nil, err
	}
	if !identity.ValidAddress(d.Address) {
		return nil, ErrInvalidAddress
	}
	if err := common.ValidatePositiveAmount(d.Amount); err != nil {
		return nil, err
	}

	return &model.ScanResponse{
		Address:   d.Address,
		Amount:    d.Amount,
		Timestamp: d.Timestamp,
		Expiry:    d.Expiry,
	}, nil
}
