package model

// GenerateResponse represents response for POST /qcc/generate
type GenerateResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Address  string `json:"address,omitempty"`
	Mnemonic string `json:"mnemonic,omitempty"` // shown once, never stored in plain text
}

// RestoreRequest represents request for POST /qcc/restore
type RestoreRequest struct {
	Mnemonic string `json:"mnemonic" binding:"required"`
}

// ImportRequest represents request for POST /qcc/import
type ImportRequest struct {
	KeyFile    string `json:"keyFile" binding:"required"` // CryptoJS base64 blob
	Passphrase string `json:"passphrase,omitempty"`       // defaults to the wallet's built-in passphrase
}

// AddressResponse represents response for GET /qcc/address
type AddressResponse struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey,omitempty"`
	QR        string `json:"QR,omitempty"`
}
