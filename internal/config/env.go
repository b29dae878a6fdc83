package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and stored in memory - use GetWalletPasswordBytes()
type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	PayCooldown       int           `envconfig:"PAY_COOLDOWN_MINUTES" default:"4"`
	QCCFilePath       string        `envconfig:"QCC_FILE_PATH" required:"true"`
	QCCAPIURL         string        `envconfig:"QCC_API_URL" default:"https://qcc-backend.com"`
	RequestTimeout    time.Duration `envconfig:"QCC_REQUEST_TIMEOUT" default:"30s"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	RateLimitInterval time.Duration `envconfig:"RATE_LIMIT_INTERVAL" default:"600ms"`
	RateLimitBurst    int           `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func (c *Config) validate() error {
	if c.QCCFilePath == "" {
		return errors.New("QCC_FILE_PATH must not be empty")
	}
	if c.PayCooldown < 0 {
		return errors.New("PAY_COOLDOWN_MINUTES must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("QCC_REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitInterval <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_INTERVAL and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetPayCooldown returns the minimum time between payments
func GetPayCooldown() time.Duration {
	return time.Duration(Get().PayCooldown) * time.Minute
}

// GetWalletFilePath returns path to .cwt file from configuration
func GetWalletFilePath() string {
	return Get().QCCFilePath
}

// GetQCCAPIURL returns the QCC backend base URL
func GetQCCAPIURL() string {
	return Get().QCCAPIURL
}

// GetRequestTimeout returns the backend request timeout
func GetRequestTimeout() time.Duration {
	return Get().RequestTimeout
}

// GetLogLevel returns the log level name
func GetLogLevel() string {
	return Get().LogLevel
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter wallet password: ")
	if err != nil {
		return err
	}
	passwordBytes = raw
	return nil
}

// ReadPassword reads one hidden line from the terminal. The caller owns the
// result and should clear it.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	defer clear(raw)
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// GetWalletPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ClearPassword wipes the stored password. Called on shutdown.
func ClearPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
