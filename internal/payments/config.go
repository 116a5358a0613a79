package payments

import (
	"fmt"
	"strings"
)

// Config holds the integration credentials for one currency.
type Config struct {
	IntegrationID  string
	IntegrationKey string
	Currency       string

	// Optional per-currency overrides of the client's default callback URLs.
	ReturnURL string
	ResultURL string
}

// registry maps an uppercased currency code to its Config.
// It is never written after construction, so it is safe for concurrent reads.
type registry struct {
	configs map[string]Config
}

func newRegistry(configs []Config) (*registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("at least one integration config is required")
	}
	r := &registry{configs: make(map[string]Config, len(configs))}
	for _, c := range configs {
		key := normalizeCurrency(c.Currency)
		if key == "" {
			return nil, fmt.Errorf("integration config %q has no currency", c.IntegrationID)
		}
		if _, dup := r.configs[key]; dup {
			return nil, fmt.Errorf("duplicate integration config for currency %s", key)
		}
		r.configs[key] = c
	}
	return r, nil
}

func (r *registry) resolve(currency string) (Config, error) {
	key := normalizeCurrency(currency)
	conf, ok := r.configs[key]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, key)
	}
	return conf, nil
}

func (r *registry) currencies() []string {
	out := make([]string, 0, len(r.configs))
	for k := range r.configs {
		out = append(out, k)
	}
	return out
}

func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
