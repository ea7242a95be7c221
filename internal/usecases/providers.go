package usecases

import (
	"token-vault.backend/internal/config"
)

// ProviderInfo is the public description of a configured OAuth provider.
// Client secrets never leave the registry.
type ProviderInfo struct {
	Name     string `json:"name"`
	TokenURL string `json:"tokenUrl"`
}

// ProviderRegistry resolves provider names to their OAuth client
// configuration. Tokens may be stored for any provider name; refresh only
// works for providers present here.
type ProviderRegistry struct {
	providers map[string]config.ProviderConfig
}

// NewProviderRegistry creates a registry from the loaded configuration
func NewProviderRegistry(providers map[string]config.ProviderConfig) *ProviderRegistry {
	if providers == nil {
		providers = map[string]config.ProviderConfig{}
	}
	return &ProviderRegistry{providers: providers}
}

// Lookup returns the configuration for the named provider
func (r *ProviderRegistry) Lookup(name string) (config.ProviderConfig, bool) {
	cfg, ok := r.providers[name]
	return cfg, ok
}

// List returns the configured providers sorted by nothing in particular;
// callers that need stable order sort the result.
func (r *ProviderRegistry) List() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(r.providers))
	for name, cfg := range r.providers {
		infos = append(infos, ProviderInfo{Name: name, TokenURL: cfg.TokenURL})
	}
	return infos
}
