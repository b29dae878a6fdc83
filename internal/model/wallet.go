package model

// CWTFile represents .cwt file structure
type CWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted wallet data
type WalletData struct {
	PrivateKey []byte `json:"privateKey"` // 32-byte ed25519 seed (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}

// KeyFileWallet is the wallet object inside a legacy .qcc key file.
type KeyFileWallet struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	Address    string `json:"address"`
	Mnemonic   string `json:"mnemonic,omitempty"`
	Symbol     string `json:"symbol,omitempty"`
}

// Recipient is an address book entry carried by key files.
type Recipient struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// WalletRecord is a decrypted key file. Timestamp is milliseconds since the
// epoch, zero when the file did not carry one.
type WalletRecord struct {
	Wallet     KeyFileWallet `json:"wallet"`
	Recipients []Recipient   `json:"recipients"`
	Timestamp  int64         `json:"timestamp"`
}

// WalletState is the persisted wallet session shape. Private key and
// mnemonic are never filled from disk.
type WalletState struct {
	IsConnected bool    `json:"isConnected"`
	Address     *string `json:"address"`
	Balance     *string `json:"balance"`
	PrivateKey  *string `json:"privateKey"`
	Mnemonic    *string `json:"mnemonic"`
	IsLoading   bool    `json:"isLoading"`
	IsHydrated  bool    `json:"isHydrated"`
}
