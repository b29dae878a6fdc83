package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/AlexZinkM/qcc-wallet/internal/client"
	"github.com/AlexZinkM/qcc-wallet/internal/common"
	"github.com/AlexZinkM/qcc-wallet/internal/crypto"
	"github.com/AlexZinkM/qcc-wallet/internal/identity"
	"github.com/AlexZinkM/qcc-wallet/internal/keyring"
	"github.com/AlexZinkM/qcc-wallet/internal/logger"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
	"github.com/AlexZinkM/qcc-wallet/internal/qrpay"
	"github.com/AlexZinkM/qcc-wallet/internal/signer"
	"github.com/AlexZinkM/qcc-wallet/qcc"
)

// apiError is how one kind of failure is shown to API users. An empty
// message means the error text itself is shown.
type apiError struct {
	target  error
	status  int
	code    string
	message string
}

// apiErrors is checked in order; the first match wins.
var apiErrors = []apiError{
	{os.ErrExist, http.StatusConflict, "wallet_exists", "a wallet already exists at the configured path"},
	{crypto.ErrWalletNotFound, http.StatusNotFound, "wallet_not_found", "no wallet found, generate or restore one first"},
	{identity.ErrInvalidMnemonic, http.StatusBadRequest, "invalid_mnemonic", "the recovery phrase is not valid"},
	{identity.ErrInvalidKeyFormat, http.StatusBadRequest, "invalid_key_format", "the private key must be 64 hexadecimal characters"},
	{common.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount", ""},
	{qcc.ErrInvalidAddress, http.StatusBadRequest, "invalid_address", "the recipient is not a valid QCC address"},
	{qcc.ErrCooldown, http.StatusTooManyRequests, "cooldown", ""},
	{keyring.ErrAuthenticationFailed, http.StatusUnauthorized, "authentication_failed", "wrong wallet password"},
	{keyring.ErrDecryptionFailed, http.StatusUnprocessableEntity, "decryption_failed", "the key file could not be decrypted"},
	{keyring.ErrSlotBusy, http.StatusConflict, "key_busy", "another operation is using the wallet key, try again"},
	{keyring.ErrKeyErased, http.StatusConflict, "key_erased", "the wallet was locked during the operation, try again"},
	{qrpay.ErrExpiredPaymentDescriptor, http.StatusGone, "payment_request_expired", "the payment request has expired"},
	{qrpay.ErrUnrecognizedPayload, http.StatusUnprocessableEntity, "unrecognized_qr", "the QR code is not a QCC payment request"},
	{client.ErrRemoteTransaction, http.StatusBadGateway, "transaction_rejected", ""},
	{client.ErrNetwork, http.StatusBadGateway, "network_error", "the QCC network could not be reached"},
	{signer.ErrMalformedEnvelope, http.StatusInternalServerError, "signing_failed", "the transaction could not be signed"},
	{signer.ErrBadSignature, http.StatusInternalServerError, "signing_failed", "the transaction could not be signed"},
	{signer.ErrAddressMismatch, http.StatusInternalServerError, "signing_failed", "the transaction could not be signed"},
}

func classify(err error) (int, model.ErrorResponse) {
	for _, e := range apiErrors {
		if errors.Is(err, e.target) {
			msg := e.message
			if msg == "" {
				msg = err.Error()
			}
			return e.status, model.ErrorResponse{Error: msg, Code: e.code}
		}
	}
	return http.StatusInternalServerError, model.ErrorResponse{Error: err.Error(), Code: "internal"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "code", resp.Code, "error", err)
	} else {
		logger.Info("request rejected", "path", r.URL.Path, "code", resp.Code, "error", err)
	}
	writeJSON(w, status, resp)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: msg, Code: "bad_request"})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{
			Error: "method not allowed, should be " + method,
			Code:  "method_not_allowed",
		})
		return false
	}
	return true
}
