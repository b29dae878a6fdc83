package model

// PayRequest represents request for POST /qcc/pay
type PayRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"` // QCC, decimal string
}

// PayResponse represents response for POST /qcc/pay
type PayResponse struct {
	TxID string `json:"txId"`
}

// ReceiveRequest represents request for POST /qcc/receive
type ReceiveRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// ReceiveResponse carries a payment request and its QR image.
type ReceiveResponse struct {
	Payload   string `json:"payload"`
	QR        string `json:"QR"` // base64 PNG
	ExpiresAt int64  `json:"expiresAt"`
}

// ScanRequest represents request for POST /qcc/scan
type ScanRequest struct {
	Content string `json:"content" binding:"required"`
}

// ScanResponse is a decoded payment request.
type ScanResponse struct {
	Address   string `json:"address"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Expiry    int64  `json:"expiry,omitempty"`
}
