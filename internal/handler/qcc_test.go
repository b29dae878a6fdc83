package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/qcc-wallet/internal/client"
	"github.com/AlexZinkM/qcc-wallet/internal/crypto"
	"github.com/AlexZinkM/qcc-wallet/internal/keyring"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
	"github.com/AlexZinkM/qcc-wallet/qcc"
)

const (
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonAddress  = "d872925d1be79413139a6ede7db28481c7ab434c6269"
	otherAddress    = "6c2213da9bdd2cbceb5f3f5478ddbdfee63bf604acff"
)

func TestMain(m *testing.M) {
	restore := crypto.UseScryptCost(10)
	code := m.Run()
	restore()
	os.Exit(code)
}

type fakeBackend struct {
	broadcastErr error
	wires        []string
}

func (b *fakeBackend) FetchServerTimestamp(context.Context) (int64, error) {
	return time.Now().UnixMilli() * 1000, nil
}

func (b *fakeBackend) Broadcast(_ context.Context, wire string) (*model.BroadcastResponse, error) {
	if b.broadcastErr != nil {
		return nil, b.broadcastErr
	}
	b.wires = append(b.wires, wire)
	return &model.BroadcastResponse{TxID: "tx-1"}, nil
}

func (b *fakeBackend) GetBalance(context.Context, string) (string, error) {
	return "2500000000000000000", nil
}

func (b *fakeBackend) VerifyTransaction(_ context.Context, hash string) *model.VerifyTransactionResult {
	return &model.VerifyTransactionResult{Exists: hash == "known"}
}

func newTestHandler(t *testing.T, password string) (*QCCHandler, *fakeBackend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	backend := &fakeBackend{}
	payer := qcc.NewPayer(keyring.NewManager(crypto.FileKeySource{}), backend, time.Minute)
	h := NewQCCHandlerFor(path, payer, backend, func() ([]byte, error) {
		return []byte(password), nil
	})
	return h, backend, path
}

func do(t *testing.T, fn http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	fn(rec, httptest.NewRequest(method, "/", strings.NewReader(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGenerateThenConflict(t *testing.T) {
	h, _, _ := newTestHandler(t, "pw")

	rec := do(t, h.Generate, http.MethodPost, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, strings.Fields(resp.Mnemonic), 12)

	rec = do(t, h.Generate, http.MethodPost, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "wallet_exists", decodeError(t, rec).Code)
}

func TestRestoreAndAddress(t *testing.T) {
	h, _, _ := newTestHandler(t, "pw")

	rec := do(t, h.Address, http.MethodGet, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h.Restore, http.MethodPost, `{"mnemonic":"`+abandonMnemonic+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h.Address, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var addr model.AddressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &addr))
	assert.Equal(t, abandonAddress, addr.Address)
	assert.NotEmpty(t, addr.QR)
}

func TestRestoreRejectsBadInput(t *testing.T) {
	h, _, _ := newTestHandler(t, "pw")

	tests := []struct {
		name string
		body string
		code string
	}{
		{"bad phrase", `{"mnemonic":"abandon abandon"}`, "invalid_mnemonic"},
		{"unknown field", `{"mnemonic":"x","extra":1}`, "bad_request"},
		{"not json", `mnemonic`, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h.Restore, http.MethodPost, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h, _, _ := newTestHandler(t, "pw")

	rec := do(t, h.Pay, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestPay(t *testing.T) {
	h, backend, _ := newTestHandler(t, "pw")
	require.Equal(t, http.StatusOK, do(t, h.Restore, http.MethodPost, `{"mnemonic":"`+abandonMnemonic+`"}`).Code)

	rec := do(t, h.Pay, http.MethodPost, `{"toAddress":"`+otherAddress+`","amount":"1.5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp model.PayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tx-1", resp.TxID)
	require.Len(t, backend.wires, 1)
	assert.Contains(t, backend.wires[0], otherAddress)

	rec = do(t, h.Pay, http.MethodPost, `{"toAddress":"`+otherAddress+`","amount":"1.5"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "cooldown", decodeError(t, rec).Code)
}

func TestPayErrors(t *testing.T) {
	tests := []struct {
		name         string
		password     string
		body         string
		broadcastErr error
		status       int
		code         string
	}{
		{"bad address", "pw", `{"toAddress":"nope","amount":"1"}`, nil, http.StatusBadRequest, "invalid_address"},
		{"bad amount", "pw", `{"toAddress":"` + otherAddress + `","amount":"-1"}`, nil, http.StatusBadRequest, "invalid_amount"},
		{"wrong password", "nope", `{"toAddress":"` + otherAddress + `","amount":"1"}`, nil, http.StatusUnauthorized, "authentication_failed"},
		{"rejected", "pw", `{"toAddress":"` + otherAddress + `","amount":"1"}`,
			&client.RemoteTransactionError{Output: "error: insufficient funds"}, http.StatusBadGateway, "transaction_rejected"},
		{"offline", "pw", `{"toAddress":"` + otherAddress + `","amount":"1"}`,
			&client.NetworkError{Op: "broadcast", Err: errors.New("refused")}, http.StatusBadGateway, "network_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wallet.cwt")
			_, err := qcc.RestoreWallet(path, abandonMnemonic, []byte("pw"))
			require.NoError(t, err)

			backend := &fakeBackend{broadcastErr: tt.broadcastErr}
			payer := qcc.NewPayer(keyring.NewManager(crypto.FileKeySource{}), backend, time.Minute)
			h := NewQCCHandlerFor(path, payer, backend, func() ([]byte, error) {
				return []byte(tt.password), nil
			})

			rec := do(t, h.Pay, http.MethodPost, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestPasswordUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	h := NewQCCHandlerFor(path, nil, &fakeBackend{}, func() ([]byte, error) {
		return nil, errors.New("password not set")
	})

	rec := do(t, h.Generate, http.MethodPost, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReceiveAndScan(t *testing.T) {
	h, _, _ := newTestHandler(t, "pw")
	require.Equal(t, http.StatusOK, do(t, h.Restore, http.MethodPost, `{"mnemonic":"`+abandonMnemonic+`"}`).Code)

	rec := do(t, h.Receive, http.MethodPost, `{"amount":"2.5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var recv model.ReceiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recv))
	assert.NotEmpty(t, recv.QR)

	body, err := json.Marshal(model.ScanRequest{Content: recv.Payload})
	require.NoError(t, err)
	rec = do(t, h.Scan, http.MethodPost, string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	var scan model.ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scan))
	assert.Equal(t, abandonAddress, scan.Address)
	assert.Equal(t, "2.5", scan.Amount)

	rec = do(t, h.Scan, http.MethodPost, `{"content":"bitcoin:abc"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unrecognized_qr", decodeError(t, rec).Code)
}

func TestStateAndBalance(t *testing.T) {
	h, _, _ := newTestHandler(t, "pw")
	require.Equal(t, http.StatusOK, do(t, h.Restore, http.MethodPost, `{"mnemonic":"`+abandonMnemonic+`"}`).Code)

	rec := do(t, h.GetBalance, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bal model.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bal))
	assert.Equal(t, "2.500000", bal.Balance)

	rec = do(t, h.State, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var state map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, abandonAddress, state["address"])
	assert.Nil(t, state["privateKey"])
	assert.Nil(t, state["mnemonic"])
}

func TestTransaction(t *testing.T) {
	h, _, _ := newTestHandler(t, "pw")

	for hash, exists := range map[string]bool{"known": true, "other": false} {
		req := httptest.NewRequest(http.MethodGet, "/qcc/transactions/"+hash, nil)
		req.SetPathValue("hash", hash)
		rec := httptest.NewRecorder()
		h.Transaction(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var res model.VerifyTransactionResult
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&res))
		assert.Equal(t, exists, res.Exists, hash)
	}
}

func TestClassifyUnknownError(t *testing.T) {
	status, resp := classify(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", resp.Code)
	assert.Equal(t, "boom", resp.Error)
}
