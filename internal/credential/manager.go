// Package credential owns the remote-service secret and the live client
// handle derived from it.
package credential

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/common"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/storage"
)

// RemoteModel is the authenticated channel to the remote multimodal service.
// Exactly one implementation talks to the real service; tests inject fakes.
type RemoteModel interface {
	// GenerateAnalysis issues one content-generation round trip with an
	// inline image part and an instruction part, returning the raw reply
	// text.
	GenerateAnalysis(ctx context.Context, mediaType string, data []byte, prompt string) (string, error)

	// Close releases the underlying transport.
	Close() error
}

// Connector constructs a RemoteModel from a secret. Construction may fail
// synchronously on a malformed secret; the remote service remains the
// ultimate validator.
type Connector func(ctx context.Context, secret string) (RemoteModel, error)

// Manager holds the single live credential and its derived client handle.
// Only Manager methods write the handle; everything else reads it through
// Client and IsReady.
type Manager struct {
	store   storage.SecretStore
	connect Connector
	logger  *slog.Logger

	mu     sync.Mutex
	client RemoteModel
}

// NewManager creates a credential manager backed by the given secret store
// and client constructor.
func NewManager(store storage.SecretStore, connect Connector, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   store,
		connect: connect,
		logger:  logger,
	}
}

// SetCredential validates and installs a new secret. On success the secret is
// persisted and a fresh client handle replaces any previous one. An empty
// secret fails with ErrInvalidInput and drops the current handle; a secret
// the constructor rejects fails with ErrClientConstruction, drops the handle,
// and leaves the previously persisted value in place so the user can retry
// without retyping.
func (m *Manager) SetCredential(ctx context.Context, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		m.dropClient()
		if err := m.store.Remove(ctx, storage.KeyGeminiAPIKey); err != nil {
			m.logger.Warn("failed to remove persisted credential", "error", err)
		}
		return common.ErrInvalidInput
	}

	client, err := m.connect(ctx, secret)
	if err != nil {
		m.dropClient()
		return fmt.Errorf("%w: %v", common.ErrClientConstruction, err)
	}

	if err := m.store.Set(ctx, storage.KeyGeminiAPIKey, secret); err != nil {
		client.Close()
		m.dropClient()
		return fmt.Errorf("%w: persisting secret: %v", common.ErrClientConstruction, err)
	}

	m.installClient(client)
	m.logger.Info("credential installed")
	return nil
}

// LoadFromStorage restores the persisted secret, if any, and attempts to
// rebuild the client handle from it. The secret is always returned when
// present so the caller can pre-fill it, even if construction fails; in that
// case the persisted value is kept (a transient outage should not force
// re-entry of a valid key) and the returned error wraps
// ErrClientConstruction. Returns "" when nothing was ever persisted.
func (m *Manager) LoadFromStorage(ctx context.Context) (string, error) {
	secret, err := m.store.Get(ctx, storage.KeyGeminiAPIKey)
	if err != nil {
		return "", fmt.Errorf("reading persisted credential: %w", err)
	}
	if secret == "" {
		return "", nil
	}

	client, err := m.connect(ctx, secret)
	if err != nil {
		m.logger.Warn("stored credential did not yield a client", "error", err)
		return secret, fmt.Errorf("%w: %v", common.ErrClientConstruction, err)
	}

	m.installClient(client)
	m.logger.Debug("credential restored from storage")
	return secret, nil
}

// IsReady reports whether a live client handle exists.
func (m *Manager) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

// Client returns the live handle, or nil when not ready.
func (m *Manager) Client() RemoteModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// PersistedCredential reads the stored secret without touching the live
// handle.
func (m *Manager) PersistedCredential(ctx context.Context) (string, error) {
	return m.store.Get(ctx, storage.KeyGeminiAPIKey)
}

// ClearCredential drops the live handle and deletes the persisted secret.
// It is idempotent and never fails; storage removal problems are logged.
func (m *Manager) ClearCredential(ctx context.Context) {
	m.dropClient()
	if err := m.store.Remove(ctx, storage.KeyGeminiAPIKey); err != nil {
		m.logger.Warn("failed to remove persisted credential", "error", err)
	}
}

// Invalidate tears down the live handle without touching persisted storage.
// The orchestrator calls this when the remote service reports the key itself
// is invalid, forcing the caller back into credential entry.
func (m *Manager) Invalidate() {
	m.dropClient()
	m.logger.Info("client handle invalidated")
}

func (m *Manager) installClient(client RemoteModel) {
	m.mu.Lock()
	old := m.client
	m.client = client
	m.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
}

func (m *Manager) dropClient() {
	m.mu.Lock()
	old := m.client
	m.client = nil
	m.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
}
