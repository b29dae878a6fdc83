package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	abandonSeed     = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
	abandonKey      = "62a772f85e4be6226108b56c0b1cf935c2490e434adec864fe47b189f1ed517d"
	abandonPub      = "58032e75cd5ee0bbcacbed1e38c3da4bf0f162aba2d7513d2d2fba2184327bd3"
	abandonAddress  = "d872925d1be79413139a6ede7db28481c7ab434c6269"
)

func TestParseMnemonicGoldenSeed(t *testing.T) {
	seed, err := ParseMnemonic(abandonMnemonic)
	require.NoError(t, err)
	assert.Equal(t, abandonSeed, hex.EncodeToString(seed))
}

func TestParseMnemonicInvalid(t *testing.T) {
	for _, m := range []string{
		"",
		"   ",
		"invalid words here",
		// valid words, bad checksum
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
	} {
		_, err := ParseMnemonic(m)
		require.ErrorIs(t, err, ErrInvalidMnemonic, "mnemonic %q", m)
	}
}

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m), 12)

	_, err = ParseMnemonic(m)
	require.NoError(t, err)
}

func TestDeriveWalletGoldenVector(t *testing.T) {
	w, err := DeriveWallet(abandonMnemonic)
	require.NoError(t, err)

	assert.Equal(t, abandonKey, string(w.PrivateKey))
	assert.Equal(t, abandonPub, w.PublicKey)
	assert.Equal(t, abandonAddress, w.Address)
	assert.Equal(t, abandonMnemonic, w.Mnemonic)

	seed, _ := hex.DecodeString(abandonSeed)
	sum := sha256.Sum256(seed)
	assert.Equal(t, hex.EncodeToString(sum[:]), abandonKey)
}

func TestDeriveWalletDeterministic(t *testing.T) {
	w1, err := NewWallet()
	require.NoError(t, err)

	w2, err := DeriveWallet(w1.Mnemonic)
	require.NoError(t, err)

	assert.Equal(t, w1.PrivateKey, w2.PrivateKey)
	assert.Equal(t, w1.PublicKey, w2.PublicKey)
	assert.Equal(t, w1.Address, w2.Address)
}

func TestDeriveWalletInvalid(t *testing.T) {
	_, err := DeriveWallet("not a mnemonic")
	require.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestPublicKeyAndAddress(t *testing.T) {
	key := strings.Repeat("01", 32)

	pub, err := PublicKey([]byte(key))
	require.NoError(t, err)
	assert.Equal(t, "8a88e3dd7409f195fd52db2d3cba5d72ca6709bf1d94121bf3748801b40f6f5c", pub)
	assert.Equal(t, "6c2213da9bdd2cbceb5f3f5478ddbdfee63bf604acff", Address(pub))

	upper, err := PublicKey([]byte(strings.ToUpper(abandonKey)))
	require.NoError(t, err)
	assert.Equal(t, abandonPub, upper)
}

func TestKeyValidity(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{abandonKey, true},
		{strings.ToUpper(abandonKey), true},
		{abandonKey[:63], false},
		{abandonKey + "0", false},
		{"0x" + abandonKey[:62], false},
		{strings.Repeat("g", 64), false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyValidity(tt.key), "key %q", tt.key)
		assert.Equal(t, tt.want, ValidKey([]byte(tt.key)), "key %q", tt.key)
	}
}

func TestInvalidKeyFailsFast(t *testing.T) {
	_, err := PublicKey([]byte("nothex"))
	require.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = SigningKey([]byte(strings.Repeat("z", 64)))
	require.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = FromPrivateKey([]byte("short"))
	require.ErrorIs(t, err, ErrInvalidKeyFormat)
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress(abandonAddress))
	assert.False(t, ValidAddress(abandonAddress[:43]+"0"))
	assert.False(t, ValidAddress(strings.ToUpper(abandonAddress)))
	assert.False(t, ValidAddress("addrX"))
}

func TestWalletClear(t *testing.T) {
	w, err := DeriveWallet(abandonMnemonic)
	require.NoError(t, err)

	key := w.PrivateKey
	w.Clear()

	assert.Equal(t, strings.Repeat("0", PrivateKeySize), string(key))
	assert.Nil(t, w.PrivateKey)
	assert.Empty(t, w.Mnemonic)
	assert.NotContains(t, w.String(), abandonKey)
}

func TestAddressProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("address of a valid key is stable and well formed", prop.ForAll(
		func(raw []byte) bool {
			key := []byte(hex.EncodeToString(raw))
			pub1, err1 := PublicKey(key)
			pub2, err2 := PublicKey(key)
			if err1 != nil || err2 != nil || pub1 != pub2 {
				return false
			}
			addr := Address(pub1)
			return addr == Address(pub2) && len(addr) == AddressSize && ValidAddress(addr)
		},
		gen.SliceOfN(32, gen.UInt8()),
	))

	properties.Property("keys that are not 64 hex characters are rejected", prop.ForAll(
		func(s string) bool {
			if KeyValidity(s) {
				return true
			}
			_, err := PublicKey([]byte(s))
			return err == ErrInvalidKeyFormat
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
