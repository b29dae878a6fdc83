package qrpay

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "d872925d1be79413139a6ede7db28481c7ab434c6269"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(1700000000000)}
	codec := &Codec{Now: clock.Now}

	raw, err := codec.Encode(testAddress, "12.5")
	require.NoError(t, err)
	assert.Equal(t,
		`{"version":"1.0","type":"QCC_PAYMENT","address":"`+testAddress+`","amount":"12.5","timestamp":1700000000000,"expiry":1700001800000}`,
		raw)

	d, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, testAddress, d.Address)
	assert.Equal(t, "12.5", d.Amount)
	assert.Equal(t, d.Timestamp+Lifetime.Milliseconds(), d.Expiry)
	assert.Equal(t, time.UnixMilli(1700001800000), d.ExpiresAt())
}

func TestDecodeExpired(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(1700000000000)}
	codec := &Codec{Now: clock.Now}

	raw, err := codec.Encode(testAddress, "1")
	require.NoError(t, err)

	clock.Advance(Lifetime)
	_, err = codec.Decode(raw)
	require.NoError(t, err, "still valid exactly at expiry")

	clock.Advance(time.Millisecond)
	d, err := codec.Decode(raw)
	require.ErrorIs(t, err, ErrExpiredPaymentDescriptor)
	assert.Nil(t, d)
}

func TestDecodeWithoutExpiryNeverExpires(t *testing.T) {
	raw := `{"version":"1.0","type":"QCC_PAYMENT","address":"a","amount":"1","timestamp":1}`
	d, err := Decode(raw)
	require.NoError(t, err)
	assert.True(t, d.ExpiresAt().IsZero())
}

func TestDecodeUnrecognized(t *testing.T) {
	for _, raw := range []string{
		"{}",
		"not json",
		"",
		"null",
		"[1,2]",
		"https://example.com/pay",
		`{"version":"2.0","type":"QCC_PAYMENT","address":"a","amount":"1"}`,
		`{"version":"1.0","type":"OTHER","address":"a","amount":"1"}`,
		`{"version":"1.0","type":"QCC_PAYMENT","timestamp":"yesterday"}`,
	} {
		d, err := Decode(raw)
		require.ErrorIs(t, err, ErrUnrecognizedPayload, "raw %q", raw)
		assert.Nil(t, d)
	}
}

func TestDescriptorJSONKeys(t *testing.T) {
	raw, err := Encode(testAddress, "3")
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	for _, k := range []string{"version", "type", "address", "amount", "timestamp", "expiry"} {
		assert.Contains(t, m, k)
	}
}

func TestPNGBase64(t *testing.T) {
	raw, err := Encode(testAddress, "3")
	require.NoError(t, err)

	encoded, err := PNGBase64(raw)
	require.NoError(t, err)

	png, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
