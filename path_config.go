package passgen

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/helper/strutil"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

const (
	randomSourceCrypto = "crypto"
	randomSourceMath   = "math"

	defaultPasswordLength = 20
)

func pathConfig(b *Backend) *framework.Path {
	return &framework.Path{
		Pattern: "config",
		Fields: map[string]*framework.FieldSchema{
			"default_length": &framework.FieldSchema{
				Type:        framework.TypeInt,
				Description: "Password length used by roles that do not set one",
				Default:     defaultPasswordLength,
			},
			"random_source": &framework.FieldSchema{
				Type:        framework.TypeString,
				Description: fmt.Sprintf("Random source for generated passwords. Must be one of %s or %s", randomSourceCrypto, randomSourceMath),
				Default:     randomSourceCrypto,
			},
			"seed": &framework.FieldSchema{
				Type:        framework.TypeInt,
				Description: fmt.Sprintf("Seed for the %s random source. Zero seeds from the clock", randomSourceMath),
			},
		},
		Callbacks: map[logical.Operation]framework.OperationFunc{
			logical.ReadOperation:   b.pathConfigRead,
			logical.UpdateOperation: b.pathConfigWrite,
			logical.DeleteOperation: b.pathConfigDelete,
		},
		HelpSynopsis:    pathConfigHelpSyn,
		HelpDescription: pathConfigHelpDesc,
	}
}

func (b *Backend) pathConfigRead(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	cfg, err := getConfig(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"default_length": cfg.DefaultLength,
			"random_source":  cfg.RandomSource,
		},
	}, nil
}

func (b *Backend) pathConfigWrite(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	cfg, err := getConfig(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	if lengthRaw, ok := data.GetOk("default_length"); ok {
		cfg.DefaultLength = lengthRaw.(int)
	}
	if err := (password.Options{Length: cfg.DefaultLength}).Validate(); err != nil {
		return logical.ErrorResponse(fmt.Sprintf("invalid default_length: %s", err)), nil
	}

	if sourceRaw, ok := data.GetOk("random_source"); ok {
		source := sourceRaw.(string)
		allowedSources := []string{randomSourceCrypto, randomSourceMath}
		if !strutil.StrListContains(allowedSources, source) {
			return logical.ErrorResponse(fmt.Sprintf("unrecognized random_source %q, not one of %#v", source, allowedSources)), nil
		}
		cfg.RandomSource = source
	}

	if seedRaw, ok := data.GetOk("seed"); ok {
		seed := seedRaw.(int)
		if seed < 0 {
			return logical.ErrorResponse("seed must not be negative"), nil
		}
		cfg.Seed = uint64(seed)
	}

	var resp logical.Response
	if cfg.Seed != 0 && cfg.RandomSource != randomSourceMath {
		resp.AddWarning(fmt.Sprintf("seed is ignored unless random_source is %s", randomSourceMath))
	}
	if cfg.RandomSource == randomSourceMath {
		resp.AddWarning(fmt.Sprintf("the %s random source is predictable, use %s for production passwords", randomSourceMath, randomSourceCrypto))
	}

	entry, err := logical.StorageEntryJSON("config", cfg)
	if err != nil {
		return nil, err
	}

	if err := req.Storage.Put(ctx, entry); err != nil {
		return nil, err
	}

	// Clean cached generator (if any)
	b.resetGenerator()

	if len(resp.Warnings) == 0 {
		return nil, nil
	}
	return &resp, nil
}

func (b *Backend) pathConfigDelete(ctx context.Context, req *logical.Request, data *framework.FieldData) (*logical.Response, error) {
	if err := req.Storage.Delete(ctx, "config"); err != nil {
		return nil, err
	}
	b.resetGenerator()
	return nil, nil
}

type config struct {
	DefaultLength int    `json:"default_length"`
	RandomSource  string `json:"random_source"`
	Seed          uint64 `json:"seed,omitempty"`
}

func defaultConfig() *config {
	return &config{
		DefaultLength: defaultPasswordLength,
		RandomSource:  randomSourceCrypto,
	}
}

const pathConfigHelpSyn = `
Configure the defaults used to generate passwords.
`

const pathConfigHelpDesc = `
This endpoint sets the password length used by roles that do not set
one, and the random source passwords are drawn from. The "crypto" source
is backed by the operating system's secure random number generator and
is the default. The "math" source is a seeded pseudorandom generator,
useful when reproducible output is needed for testing.
`
