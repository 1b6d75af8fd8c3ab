package policy

import (
	"context"
	"maps"
	"sync"
)

// Provider reads a single policy setting. found is false when the key is not configured.
type Provider interface {
	GetSetting(ctx context.Context, key string) (value string, found bool, err error)
}

// BulkProvider is an optional extension of Provider that reads all settings at once.
// Store prefers it, so one decision costs one round trip.
type BulkProvider interface {
	Provider
	GetSettings(ctx context.Context) (map[string]string, error)
}

// StaticProvider keeps the settings in memory. It is safe for concurrent use.
type StaticProvider struct {
	mu       sync.RWMutex
	settings map[string]string
}

// NewStaticProvider creates a StaticProvider with a copy of settings (which may be nil).
func NewStaticProvider(settings map[string]string) *StaticProvider {
	p := &StaticProvider{settings: make(map[string]string, len(settings))}
	maps.Copy(p.settings, settings)

	return p
}

func (p *StaticProvider) GetSetting(_ context.Context, key string) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value, found := p.settings[key]

	return value, found, nil
}

func (p *StaticProvider) GetSettings(_ context.Context) (map[string]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return maps.Clone(p.settings), nil
}

// Set changes a setting. The next decision sees the new value.
func (p *StaticProvider) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings[key] = value
}

// Delete removes a setting, so its default applies again.
func (p *StaticProvider) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.settings, key)
}
