package passgen

import (
	"context"
	"fmt"

	"github.com/hashicorp/errwrap"
	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

func pathCredentials(b *Backend) *framework.Path {
	return &framework.Path{
		Pattern: "creds/" + framework.GenericNameRegex("name"),
		Fields: map[string]*framework.FieldSchema{
			"name": {
				Type:        framework.TypeLowerCaseString,
				Description: "Name of the role",
			},
		},
		Callbacks: map[logical.Operation]framework.OperationFunc{
			logical.ReadOperation:   b.pathCredentialsRead,
			logical.UpdateOperation: b.pathCredentialsRead,
		},

		HelpSynopsis:    pathCredentialsHelpSyn,
		HelpDescription: pathCredentialsHelpDesc,
	}
}

func (b *Backend) pathCredentialsRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	roleName := d.Get("name").(string)

	role, err := b.roleRead(ctx, req.Storage, roleName, true)
	if err != nil {
		return nil, errwrap.Wrapf("error retrieving role: {{err}}", err)
	}
	if role == nil {
		return logical.ErrorResponse(fmt.Sprintf("unknown role: %s", roleName)), nil
	}

	cfg, err := getConfig(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	return b.generate(ctx, req.Storage, role.options(cfg.DefaultLength), "role", roleName)
}

// generate produces one password for opts. Generator errors are caller input
// errors and become error responses.
func (b *Backend) generate(ctx context.Context, s logical.Storage, opts password.Options, logArgs ...interface{}) (*logical.Response, error) {
	gen, err := b.passwordGenerator(ctx, s)
	if err != nil {
		return nil, err
	}

	pw, err := gen.Generate(opts)
	if err != nil {
		b.logger.Warn("password generation rejected", append(logArgs, "error", err)...)
		return logical.ErrorResponse(err.Error()), nil
	}
	b.logger.Debug("generated password", append(logArgs, "length", opts.Length)...)

	return &logical.Response{
		Data: map[string]interface{}{
			"password": pw,
		},
	}, nil
}

const pathCredentialsHelpSyn = `
Generate a password from a specific role.
`
const pathCredentialsHelpDesc = `
This path generates a password that satisfies the policy of the named
role. A new password is generated on every read and nothing is stored,
so the caller is responsible for keeping it.
`
