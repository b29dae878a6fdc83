// Package keyring hands out private keys for exactly one signing operation.
//
// A key slot moves Locked → Unlocking → Unlocked → Erased. Unlocking needs a
// successful authentication and a successful key load; erasing overwrites
// the key bytes with '0' digits. Go's garbage collector may already have
// copied the bytes elsewhere, so erasing limits exposure but cannot prove it
// gone; callers should avoid converting keys to strings.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/AlexZinkM/qcc-wallet/internal/identity"
)

var (
	// ErrAuthenticationFailed means the credential was rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrDecryptionFailed means the stored key could not be read or decrypted.
	ErrDecryptionFailed = errors.New("key decryption failed")
	// ErrKeyErased is returned when an erased key is used.
	ErrKeyErased = errors.New("key has been erased")
	// ErrSlotBusy is returned when a slot is already being unlocked or used.
	ErrSlotBusy = errors.New("key slot is in use")
)

// State is the lifecycle state of a key slot.
type State int

const (
	Locked State = iota
	Unlocking
	Unlocked
	Erased
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocking:
		return "unlocking"
	case Unlocked:
		return "unlocked"
	case Erased:
		return "erased"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Authenticator gates access to a slot (biometrics, OS keychain, password check).
type Authenticator interface {
	Authenticate(ctx context.Context, id string, credential []byte) error
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, id string, credential []byte) error

func (f AuthenticatorFunc) Authenticate(ctx context.Context, id string, credential []byte) error {
	return f(ctx, id, credential)
}

// KeySource loads the hex private key stored for a slot. Ownership of the
// returned slice passes to the keyring.
type KeySource interface {
	LoadKey(ctx context.Context, id string, credential []byte) ([]byte, error)
}

// KeySourceFunc adapts a function to KeySource.
type KeySourceFunc func(ctx context.Context, id string, credential []byte) ([]byte, error)

func (f KeySourceFunc) LoadKey(ctx context.Context, id string, credential []byte) ([]byte, error) {
	return f(ctx, id, credential)
}

// RequireCredential rejects an empty credential.
var RequireCredential = AuthenticatorFunc(func(_ context.Context, _ string, credential []byte) error {
	if len(credential) == 0 {
		return ErrAuthenticationFailed
	}
	return nil
})

// SecretKey is an unlocked private key. It stops working once erased.
type SecretKey struct {
	mu  sync.Mutex
	key []byte
}

// Use calls fn with the hex key. fn must not retain the slice.
func (k *SecretKey) Use(fn func(key []byte) error) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.key == nil {
		return ErrKeyErased
	}
	return fn(k.key)
}

// Erased reports whether the key has been wiped.
func (k *SecretKey) Erased() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.key == nil
}

func (k *SecretKey) erase() {
	k.mu.Lock()
	defer k.mu.Unlock()
	wipe(k.key)
	k.key = nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = '0'
	}
}

type slot struct {
	op    sync.Mutex // held across a whole WithUnlockedKey sequence
	state State
	key   *SecretKey
	epoch uint64 // bumped when a slot is cleared while unlocking
}

// Manager owns the key slots. The zero value is not usable; call NewManager.
type Manager struct {
	auth   Authenticator
	source KeySource
	log    *zap.Logger

	mu    sync.Mutex
	slots map[string]*slot
}

// Option configures a Manager.
type Option func(*Manager)

// WithAuthenticator replaces the default RequireCredential gate.
func WithAuthenticator(a Authenticator) Option {
	return func(m *Manager) { m.auth = a }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager returns a Manager loading keys from source.
func NewManager(source KeySource, opts ...Option) *Manager {
	m := &Manager{
		auth:   RequireCredential,
		source: source,
		log:    zap.NewNop(),
		slots:  make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) slotLocked(id string) *slot {
	s, ok := m.slots[id]
	if !ok {
		s = &slot{state: Locked}
		m.slots[id] = s
	}
	return s
}

func (m *Manager) slotFor(id string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotLocked(id)
}

// State returns the state of slot id; unknown slots are Locked.
func (m *Manager) State(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[id]; ok {
		return s.state
	}
	return Locked
}

// GetKeyForTransaction authenticates, loads the key for slot id and moves the
// slot to Unlocked. On failure the slot returns to Locked and the error
// matches ErrAuthenticationFailed or ErrDecryptionFailed (or the context
// error). The caller must call ClearKeyAfterUse; prefer WithUnlockedKey.
func (m *Manager) GetKeyForTransaction(ctx context.Context, id string, credential []byte) (*SecretKey, error) {
	m.mu.Lock()
	s := m.slotLocked(id)
	if s.state == Unlocking || s.state == Unlocked {
		m.mu.Unlock()
		return nil, ErrSlotBusy
	}
	s.state = Unlocking
	epoch := s.epoch
	m.mu.Unlock()

	key, err := m.unlock(ctx, id, credential)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		s.state = Locked
		m.log.Warn("key unlock failed", zap.String("slot", id), zap.Error(err))
		return nil, err
	}
	if s.epoch != epoch {
		wipe(key)
		s.state = Erased
		m.log.Info("key erased on arrival", zap.String("slot", id))
		return nil, ErrKeyErased
	}

	s.key = &SecretKey{key: key}
	s.state = Unlocked
	m.log.Debug("key unlocked", zap.String("slot", id))
	return s.key, nil
}

func (m *Manager) unlock(ctx context.Context, id string, credential []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := m.auth.Authenticate(ctx, id, credential); err != nil {
		if errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	key, err := m.source.LoadKey(ctx, id, credential)
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, ErrDecryptionFailed) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	if !identity.ValidKey(key) {
		wipe(key)
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, identity.ErrInvalidKeyFormat)
	}
	return key, nil
}

// ClearKeyAfterUse erases the key of slot id. It is safe to call on any
// slot in any state; once it returns, the SecretKey handed out for the slot
// fails with ErrKeyErased.
func (m *Manager) ClearKeyAfterUse(id string) {
	m.mu.Lock()
	s, ok := m.slots[id]
	var key *SecretKey
	if ok {
		key = m.detachLocked(s)
	}
	m.mu.Unlock()

	if key != nil {
		key.erase()
		m.log.Debug("key erased", zap.String("slot", id))
	}
}

// ClearAllKeys erases every unlocked key, including keys still being loaded.
func (m *Manager) ClearAllKeys() {
	m.mu.Lock()
	var keys []*SecretKey
	for _, s := range m.slots {
		if key := m.detachLocked(s); key != nil {
			keys = append(keys, key)
		}
	}
	m.mu.Unlock()

	for _, key := range keys {
		key.erase()
	}
	if len(keys) > 0 {
		m.log.Info("erased all unlocked keys", zap.Int("count", len(keys)))
	}
}

// detachLocked moves s towards Erased and returns the key to wipe. A slot
// still unlocking keeps its state; the pending load erases its key when it
// arrives.
func (m *Manager) detachLocked(s *slot) *SecretKey {
	if s.state == Unlocking {
		s.epoch++
		return nil
	}
	key := s.key
	s.key = nil
	if s.state == Unlocked {
		s.state = Erased
	}
	return key
}

// OnSuspend is called by the host when the app goes to the background.
func (m *Manager) OnSuspend() {
	m.log.Debug("suspend: clearing keys")
	m.ClearAllKeys()
}

// OnTeardown is called by the host when the session or process ends.
func (m *Manager) OnTeardown() {
	m.log.Debug("teardown: clearing keys")
	m.ClearAllKeys()
}

// WithUnlockedKey unlocks slot id, runs fn with the key and erases the key
// when fn returns, fails, panics or its context is cancelled. Sequences on
// the same slot run one at a time.
func WithUnlockedKey[T any](ctx context.Context, m *Manager, id string, credential []byte,
	fn func(ctx context.Context, key *SecretKey) (T, error)) (T, error) {
	var zero T

	s := m.slotFor(id)
	s.op.Lock()
	defer s.op.Unlock()

	key, err := m.GetKeyForTransaction(ctx, id, credential)
	if err != nil {
		return zero, err
	}
	defer m.ClearKeyAfterUse(id)

	return fn(ctx, key)
}
