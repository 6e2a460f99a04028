package passgen

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

// Factory ...
func Factory(ctx context.Context, conf *logical.BackendConfig) (logical.Backend, error) {
	b := NewBackend()
	if err := b.Setup(ctx, conf); err != nil {
		return nil, err
	}
	return b, nil
}

// NewBackend ...
func NewBackend() *Backend {
	var b Backend
	b.Backend = &framework.Backend{
		Help: strings.TrimSpace(backendHelp),

		PathsSpecial: &logical.Paths{
			SealWrapStorage: []string{
				"config",
			},
		},

		Paths: []*framework.Path{
			pathListRoles(&b),
			pathRoles(&b),
			pathConfig(&b),
			pathCredentials(&b),
			pathGenerate(&b),
		},

		BackendType: logical.TypeLogical,
	}

	return &b
}

// Backend ...
type Backend struct {
	*framework.Backend

	// Mutex to protect access to generator and roles
	generatorMutex sync.RWMutex
	roleMutex      sync.RWMutex

	generator *password.Generator

	logger hclog.Logger
	system logical.SystemView
}

// Setup ...
func (b *Backend) Setup(ctx context.Context, config *logical.BackendConfig) error {
	b.logger = config.Logger
	if b.logger == nil {
		b.logger = hclog.NewNullLogger()
	}
	b.system = config.System
	return b.Backend.Setup(ctx, config)
}

const backendHelp = `
The passgen backend generates random passwords from stored password
policies. A policy controls the password length, whether a symbol and an
uppercase letter must be present, and which characters may be used.

Roles are written with the "roles/" endpoints. Passwords are generated by
reading "creds/<role>", or ad hoc by writing to "generate". Generated
passwords are never stored.
`
