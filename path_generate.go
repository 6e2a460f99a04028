package passgen

import (
	"context"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathGenerate(b *Backend) *framework.Path {
	return &framework.Path{
		Pattern: "generate",
		Fields:  policyFields(),
		Callbacks: map[logical.Operation]framework.OperationFunc{
			logical.UpdateOperation: b.pathGenerateWrite,
		},

		HelpSynopsis:    pathGenerateHelpSyn,
		HelpDescription: pathGenerateHelpDesc,
	}
}

func (b *Backend) pathGenerateWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	cfg, err := getConfig(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	var policy passwordRoleEntry
	policy.update(d)

	return b.generate(ctx, req.Storage, policy.options(cfg.DefaultLength), "path", "generate")
}

const pathGenerateHelpSyn = `
Generate a password from a policy given in the request.
`
const pathGenerateHelpDesc = `
This path accepts the same fields as a role and generates a single
password from them without storing the policy.
`
