package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	t.Setenv("QCC_FILE_PATH", "/tmp/wallet.cwt")
	t.Cleanup(func() { cfg = nil })

	require.NoError(t, Init())
	assert.Equal(t, "8080", GetPort())
	assert.Equal(t, 4*time.Minute, GetPayCooldown())
	assert.Equal(t, "/tmp/wallet.cwt", GetWalletFilePath())
	assert.Equal(t, "https://qcc-backend.com", GetQCCAPIURL())
	assert.Equal(t, 30*time.Second, GetRequestTimeout())
	assert.Equal(t, "info", GetLogLevel())
	assert.Equal(t, 600*time.Millisecond, Get().RateLimitInterval)
	assert.Equal(t, 10, Get().RateLimitBurst)
}

func TestInitOverrides(t *testing.T) {
	t.Setenv("QCC_FILE_PATH", "w.cwt")
	t.Setenv("PAY_COOLDOWN_MINUTES", "0")
	t.Setenv("QCC_API_URL", "http://localhost:3001")
	t.Setenv("QCC_REQUEST_TIMEOUT", "5s")
	t.Cleanup(func() { cfg = nil })

	require.NoError(t, Init())
	assert.Equal(t, time.Duration(0), GetPayCooldown())
	assert.Equal(t, "http://localhost:3001", GetQCCAPIURL())
	assert.Equal(t, 5*time.Second, GetRequestTimeout())
}

func TestInitRequiresWalletPath(t *testing.T) {
	t.Setenv("QCC_FILE_PATH", "")
	t.Cleanup(func() { cfg = nil })

	require.Error(t, Init(), "empty path")

	require.NoError(t, os.Unsetenv("QCC_FILE_PATH"))
	require.Error(t, Init(), "unset path")
	assert.Panics(t, func() { Get() })
}

func TestInitRejectsBadValues(t *testing.T) {
	t.Setenv("QCC_FILE_PATH", "w.cwt")
	t.Setenv("QCC_REQUEST_TIMEOUT", "0s")
	t.Cleanup(func() { cfg = nil })

	require.Error(t, Init())
}

func TestPasswordStore(t *testing.T) {
	t.Cleanup(ClearPassword)

	_, err := GetWalletPasswordBytes()
	require.Error(t, err)

	passwordBytes = []byte("pw")
	got, err := GetWalletPasswordBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("pw"), got)

	got[0] = 'x'
	again, err := GetWalletPasswordBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("pw"), again, "callers get a copy")

	ClearPassword()
	_, err = GetWalletPasswordBytes()
	require.Error(t, err)
}
