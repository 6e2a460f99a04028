package passgen

import (
	"context"
	"time"

	"github.com/hashicorp/errwrap"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

func (b *Backend) passwordGenerator(ctx context.Context, s logical.Storage) (*password.Generator, error) {
	b.generatorMutex.RLock()
	if b.generator != nil {
		b.generatorMutex.RUnlock()
		return b.generator, nil
	}

	// Upgrade the lock for writing
	b.generatorMutex.RUnlock()
	b.generatorMutex.Lock()
	defer b.generatorMutex.Unlock()

	// check generator again, in the event that one was being created while we
	// waited for Lock()
	if b.generator != nil {
		return b.generator, nil
	}

	cfg, err := getConfig(ctx, s)
	if err != nil {
		return nil, err
	}

	b.generator = password.NewGenerator(newSource(cfg))
	b.logger.Debug("created password generator", "random_source", cfg.RandomSource)

	return b.generator, nil
}

func (b *Backend) resetGenerator() {
	b.generatorMutex.Lock()
	defer b.generatorMutex.Unlock()
	b.generator = nil
}

func newSource(cfg *config) password.Source {
	if cfg.RandomSource == randomSourceMath {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return password.NewSource(seed)
	}
	return password.NewCryptoSource()
}

// getConfig returns the stored configuration, or the defaults when none has
// been written.
func getConfig(ctx context.Context, s logical.Storage) (*config, error) {
	entry, err := s.Get(ctx, "config")
	if err != nil {
		return nil, errwrap.Wrapf("error reading configuration: {{err}}", err)
	}

	cfg := defaultConfig()
	if entry != nil {
		if err := entry.DecodeJSON(cfg); err != nil {
			return nil, errwrap.Wrapf("error decoding configuration: {{err}}", err)
		}
	}

	return cfg, nil
}
