package identity

import (
	"bytes"
	"fmt"
)

// Wallet is one QCC identity. PrivateKey holds 64 hex characters.
type Wallet struct {
	PrivateKey []byte
	PublicKey  string
	Address    string
	Mnemonic   string
}

// NewWallet generates a fresh mnemonic and derives a wallet from it.
func NewWallet() (*Wallet, error) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		return nil, err
	}
	return DeriveWallet(mnemonic)
}

// DeriveWallet restores the wallet for mnemonic. The same phrase always
// yields the same private key, public key and address.
func DeriveWallet(mnemonic string) (*Wallet, error) {
	seed, err := ParseMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	privateKey := privateKeyFromSeed(seed)
	defer clear(privateKey)

	w, err := FromPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	w.Mnemonic = mnemonic
	return w, nil
}

// FromPrivateKey builds the wallet for a hex private key. The wallet holds
// its own lower-case copy of the key.
func FromPrivateKey(privateKey []byte) (*Wallet, error) {
	pub, err := PublicKey(privateKey)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		PrivateKey: bytes.ToLower(privateKey),
		PublicKey:  pub,
		Address:    Address(pub),
	}, nil
}

// PrivateKeyHex returns a string copy of the private key.
// Strings cannot be wiped, so prefer PrivateKey where possible.
func (w *Wallet) PrivateKeyHex() string {
	return string(w.PrivateKey)
}

// Clear overwrites the private key with zero digits and drops the mnemonic.
func (w *Wallet) Clear() {
	if w == nil {
		return
	}
	for i := range w.PrivateKey {
		w.PrivateKey[i] = '0'
	}
	w.PrivateKey = nil
	w.Mnemonic = ""
}

// String never prints key material.
func (w *Wallet) String() string {
	return fmt.Sprintf("Wallet{Address: %s}", w.Address)
}
