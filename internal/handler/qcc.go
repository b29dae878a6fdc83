package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AlexZinkM/qcc-wallet/internal/config"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
	"github.com/AlexZinkM/qcc-wallet/qcc"
)

const maxRequestBody = 64 << 10

// Backend is what the read-only endpoints need from the QCC network.
type Backend interface {
	qcc.BalanceSource
	qcc.TransactionVerifier
}

// PasswordFunc returns a copy of the wallet password; the caller clears it.
type PasswordFunc func() ([]byte, error)

// QCCHandler holds configuration for QCC wallet operations
type QCCHandler struct {
	filePath string
	payer    *qcc.Payer
	backend  Backend
	password PasswordFunc
}

// NewQCCHandler creates a new QCCHandler with config values
func NewQCCHandler(payer *qcc.Payer, backend Backend) (*QCCHandler, error) {
	filePath := config.GetWalletFilePath()
	if filePath == "" {
		return nil, errors.New("QCC_FILE_PATH not set")
	}
	return NewQCCHandlerFor(filePath, payer, backend, config.GetWalletPasswordBytes), nil
}

// NewQCCHandlerFor creates a QCCHandler for an explicit wallet file and password source.
func NewQCCHandlerFor(filePath string, payer *qcc.Payer, backend Backend, password PasswordFunc) *QCCHandler {
	return &QCCHandler{
		filePath: filePath,
		payer:    payer,
		backend:  backend,
		password: password,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// withPassword runs fn with the wallet password and clears it afterwards.
func (h *QCCHandler) withPassword(w http.ResponseWriter, fn func(password []byte)) {
	passwordBytes, err := h.password()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	defer clear(passwordBytes) // Always clear password from memory
	fn(passwordBytes)
}

// Generate handles POST /qcc/generate
// @Summary      Generate new wallet
// @Description  Generates a new QCC wallet from a fresh 12-word mnemonic and saves it to the .cwt file. The mnemonic is returned once.
// @Tags         qcc
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /qcc/generate [post]
func (h *QCCHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	h.withPassword(w, func(password []byte) {
		resp, err := qcc.GenerateWallet(h.filePath, password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// Restore handles POST /qcc/restore
// @Summary      Restore wallet from mnemonic
// @Description  Derives the wallet for a BIP-39 mnemonic and saves it to the .cwt file
// @Tags         qcc
// @Accept       json
// @Produce      json
// @Param        request  body      model.RestoreRequest  true  "Recovery phrase"
// @Success      200      {object}  model.GenerateResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /qcc/restore [post]
func (h *QCCHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.RestoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h.withPassword(w, func(password []byte) {
		resp, err := qcc.RestoreWallet(h.filePath, req.Mnemonic, password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// Import handles POST /qcc/import
// @Summary      Import legacy key file
// @Description  Decrypts a .qcc key file and saves its wallet to the .cwt file
// @Tags         qcc
// @Accept       json
// @Produce      json
// @Param        request  body      model.ImportRequest  true  "Key file"
// @Success      200      {object}  model.GenerateResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /qcc/import [post]
func (h *QCCHandler) Import(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ImportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.KeyFile) == "" {
		writeBadRequest(w, "keyFile is required")
		return
	}

	h.withPassword(w, func(password []byte) {
		resp, err := qcc.ImportKeyFile(h.filePath, req.KeyFile, req.Passphrase, password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// Address handles GET /qcc/address
// @Summary      Get wallet address
// @Description  Returns the wallet address, public key and address QR code
// @Tags         qcc
// @Produce      json
// @Success      200  {object}  model.AddressResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /qcc/address [get]
func (h *QCCHandler) Address(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := qcc.GetAddress(h.filePath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// State handles GET /qcc/state
// @Summary      Get wallet state
// @Description  Returns the persisted wallet state shape; private key and mnemonic are always null
// @Tags         qcc
// @Produce      json
// @Success      200  {object}  model.WalletState
// @Router       /qcc/state [get]
func (h *QCCHandler) State(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	state, err := qcc.GetWalletState(r.Context(), h.backend, h.filePath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// GetBalance handles GET /qcc/balance
// @Summary      Get wallet balance
// @Description  Gets the QCC balance of the wallet address from the backend
// @Tags         qcc
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /qcc/balance [get]
func (h *QCCHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	balance, err := qcc.GetBalance(r.Context(), h.backend, h.filePath)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Pay handles POST /qcc/pay
// @Summary      Send QCC
// @Description  Signs a transfer with the wallet key and broadcasts it
// @Tags         qcc
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /qcc/pay [post]
func (h *QCCHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.PayRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h.withPassword(w, func(password []byte) {
		payResp, err := h.payer.Pay(r.Context(), h.filePath, password, req.ToAddress, req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, payResp)
	})
}

// Receive handles POST /qcc/receive
// @Summary      Request a payment
// @Description  Creates a payment request QR code for the wallet address, valid for 30 minutes
// @Tags         qcc
// @Accept       json
// @Produce      json
// @Param        request  body      model.ReceiveRequest  true  "Requested amount"
// @Success      200      {object}  model.ReceiveResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /qcc/receive [post]
func (h *QCCHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ReceiveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := qcc.RequestPayment(h.filePath, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Scan handles POST /qcc/scan
// @Summary      Decode a scanned QR code
// @Description  Decodes scanned QR content into a payment request
// @Tags         qcc
// @Accept       json
// @Produce      json
// @Param        request  body      model.ScanRequest  true  "QR content"
// @Success      200      {object}  model.ScanResponse
// @Failure      410      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /qcc/scan [post]
func (h *QCCHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ScanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := qcc.ScanPayment(req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Transaction handles GET /qcc/transactions/{hash}
// @Summary      Verify a transaction
// @Description  Checks whether the backend knows a transaction hash
// @Tags         qcc
// @Produce      json
// @Param        hash  path      string  true  "Transaction hash"
// @Success      200   {object}  model.VerifyTransactionResult
// @Router       /qcc/transactions/{hash} [get]
func (h *QCCHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, qcc.VerifyTransaction(r.Context(), h.backend, r.PathValue("hash")))
}
