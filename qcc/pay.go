package qcc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/qcc-wallet/internal/common"
	"github.com/AlexZinkM/qcc-wallet/internal/crypto"
	"github.com/AlexZinkM/qcc-wallet/internal/identity"
	"github.com/AlexZinkM/qcc-wallet/internal/keyring"
	"github.com/AlexZinkM/qcc-wallet/internal/logger"
	"github.com/AlexZinkM/qcc-wallet/internal/model"
	"github.com/AlexZinkM/qcc-wallet/internal/signer"
)

var (
	// ErrInvalidAddress is returned for a recipient that is not a QCC address.
	ErrInvalidAddress = errors.New("invalid QCC address")
	// ErrCooldown is returned when a payment comes too soon after the last one.
	ErrCooldown = errors.New("cooldown active")
)

// Backend is what a payment needs from the network: the server clock and
// a way to submit a signed request.
type Backend interface {
	FetchServerTimestamp(ctx context.Context) (int64, error)
	Broadcast(ctx context.Context, wire string) (*model.BroadcastResponse, error)
}

// Payer sends payments from wallet files. Payments run one at a time and
// at least cooldown apart.
type Payer struct {
	keys     *keyring.Manager
	backend  Backend
	signer   *signer.Signer
	cooldown time.Duration
	now      func() time.Time

	payMutex    sync.Mutex
	lastPayTime time.Time
}

// NewPayer returns a Payer unlocking keys through keys.
func NewPayer(keys *keyring.Manager, backend Backend, cooldown time.Duration) *Payer {
	return &Payer{
		keys:     keys,
		backend:  backend,
		signer:   signer.New(),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Pay sends amount QCC to toAddress from the wallet at filePath.
// The key is unlocked with password, used for one signature and erased
// before the request leaves the process.
// password must be []byte for security (caller should zero it after use)
func (p *Payer) Pay(ctx context.Context, filePath string, password []byte, toAddress, amount string) (*model.PayResponse, error) {
	if !identity.ValidAddress(toAddress) {
		return nil, ErrInvalidAddress
	}
	if err := common.ValidatePositiveAmount(amount); err != nil {
		return nil, err
	}
	units, err := common.ToBaseUnits(amount)
	if err != nil {
		return nil, err
	}
	if strings.Contains(units, ".") {
		return nil, fmt.Errorf("%w: more than %d decimal places", common.ErrInvalidAmount, common.QCCDecimals)
	}

	p.payMutex.Lock()
	defer p.payMutex.Unlock()

	if !p.lastPayTime.IsZero() {
		if elapsed := p.now().Sub(p.lastPayTime); elapsed < p.cooldown {
			remaining := p.cooldown - elapsed
			return nil, fmt.Errorf("%w, please wait %v", ErrCooldown, remaining.Round(time.Second))
		}
	}

	from, err := crypto.ReadWalletAddress(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet address: %w", err)
	}

	wire, err := keyring.WithUnlockedKey(ctx, p.keys, filePath, password,
		func(ctx context.Context, key *keyring.SecretKey) (string, error) {
			ts, err := p.backend.FetchServerTimestamp(ctx)
			if err != nil {
				return "", fmt.Errorf("failed to fetch server timestamp: %w", err)
			}

			var wire string
			err = key.Use(func(k []byte) error {
				var err error
				wire, err = p.signer.BuildSendRequestData(k, toAddress, units, ts)
				return err
			})
			return wire, err
		})
	if err != nil {
		return nil, err
	}

	// the backend rejects anything that fails this, so fail before sending
	env, err := signer.Verify(wire)
	if err != nil {
		return nil, fmt.Errorf("signed request failed verification: %w", err)
	}
	if signedFrom, _ := env.Payload.String("from"); signedFrom != from {
		return nil, fmt.Errorf("signed request is from %s, wallet is %s: %w", signedFrom, from, signer.ErrAddressMismatch)
	}

	resp, err := p.backend.Broadcast(ctx, wire)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	p.lastPayTime = p.now()
	logger.Info("payment sent", "from", from, "to", toAddress, "amount", amount, "txid", resp.TxHash())

	return &model.PayResponse{
		TxID: resp.TxHash(),
	}, nil
}
