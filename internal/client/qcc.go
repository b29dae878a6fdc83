package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlexZinkM/qcc-wallet/internal/config"
	"github.com/AlexZinkM/qcc-wallet/internal/logger"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
)

const (
	timestampPath = "/api/ts"
	broadcastPath = "/broadcast/"
	txPath        = "/txs/"
	rawPath       = "/rawrequest/"

	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20
)

// QCCClient is a client for the QCC backend: timestamp oracle, broadcast
// and transaction lookup.
type QCCClient struct {
	baseURL string
	client  *http.Client
}

// NewQCCClient creates a client for baseURL. A non-positive timeout means 30s.
func NewQCCClient(baseURL string, timeout time.Duration) *QCCClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &QCCClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewQCCClientFromConfig creates a client from the loaded configuration.
func NewQCCClientFromConfig() *QCCClient {
	return NewQCCClient(config.GetQCCAPIURL(), config.GetRequestTimeout())
}

// FetchServerTimestamp returns the backend clock in microseconds. The
// backend answers with a bare number, sometimes quoted.
func (c *QCCClient) FetchServerTimestamp(ctx context.Context) (int64, error) {
	const op = "fetch server timestamp"

	body, err := c.do(ctx, op, http.MethodGet, timestampPath, nil)
	if err != nil {
		return 0, err
	}

	raw := strings.Trim(strings.TrimSpace(string(body)), `"`)
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ts <= 0 {
		return 0, &NetworkError{Op: op, Err: fmt.Errorf("invalid timestamp %q", truncate(raw))}
	}
	return ts, nil
}

// Broadcast submits a signed wire string. A reply whose output mentions an
// error fails with *RemoteTransactionError.
func (c *QCCClient) Broadcast(ctx context.Context, wire string) (*model.BroadcastResponse, error) {
	const op = "broadcast transaction"

	body, err := c.do(ctx, op, http.MethodPost, broadcastPath, strings.NewReader(wire))
	if err != nil {
		return nil, err
	}

	var resp model.BroadcastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// some nodes answer with plain text
		var s string
		if json.Unmarshal(body, &s) != nil {
			s = string(body)
		}
		resp = model.BroadcastResponse{Output: strings.TrimSpace(s)}
	}

	if resp.Failed() {
		logger.Warn("broadcast rejected", "output", resp.Output)
		return nil, &RemoteTransactionError{Output: resp.Output}
	}
	logger.Info("transaction broadcast", "txid", resp.TxHash())
	return &resp, nil
}

// GetTransactionDetails looks a transaction up by hash.
func (c *QCCClient) GetTransactionDetails(ctx context.Context, hash string) (model.TransactionDetails, error) {
	const op = "get transaction details"

	body, err := c.do(ctx, op, http.MethodGet, txPath+url.PathEscape(hash), nil)
	if err != nil {
		return nil, err
	}

	var details model.TransactionDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("failed to decode details: %w", err)}
	}
	if details == nil {
		details = model.TransactionDetails{}
	}
	return details, nil
}

// VerifyTransaction reports whether the backend knows hash. Lookup errors
// are reported in the result, not returned.
func (c *QCCClient) VerifyTransaction(ctx context.Context, hash string) *model.VerifyTransactionResult {
	details, err := c.GetTransactionDetails(ctx, hash)
	if err != nil {
		return &model.VerifyTransactionResult{Exists: false, Error: err.Error()}
	}
	return &model.VerifyTransactionResult{Exists: true, Details: details}
}

// GetBalance returns the balance of address in base units.
func (c *QCCClient) GetBalance(ctx context.Context, address string) (string, error) {
	const op = "get balance"

	req, err := json.Marshal(map[string]string{"type": "GetBalance", "address": address})
	if err != nil {
		return "", fmt.Errorf("failed to marshal balance request: %w", err)
	}
	body, err := c.do(ctx, op, http.MethodPost, rawPath, bytes.NewReader(req))
	if err != nil {
		return "", err
	}

	raw := strings.Trim(strings.TrimSpace(string(body)), `"`)
	units, err := decimal.NewFromString(raw)
	if err != nil || units.IsNegative() {
		return "", &NetworkError{Op: op, Err: fmt.Errorf("invalid balance %q", truncate(raw))}
	}
	return units.String(), nil
}

func (c *QCCClient) do(ctx context.Context, op, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("backend request failed", "op", op, "error", err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	logger.Debug("backend request", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(string(data)))}
	}
	return data, nil
}

func truncate(s string) string {
	const limit = 200
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
