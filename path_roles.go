package passgen

import (
	"context"
	"fmt"

	"github.com/hashicorp/errwrap"
	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

// policyFields are shared by roles and ad hoc generation.
func policyFields() map[string]*framework.FieldSchema {
	return map[string]*framework.FieldSchema{
		"length": &framework.FieldSchema{
			Type:        framework.TypeInt,
			Description: fmt.Sprintf("Password length, between 1 and %d. Zero uses default_length from config", password.MaxLength),
		},
		"require_symbol": &framework.FieldSchema{
			Type:        framework.TypeBool,
			Description: "Whether passwords must contain at least one symbol",
		},
		"require_uppercase": &framework.FieldSchema{
			Type:        framework.TypeBool,
			Description: "Whether passwords must contain at least one uppercase letter",
		},
		"ignored_chars": &framework.FieldSchema{
			Type:        framework.TypeString,
			Description: "Characters that must never appear in passwords. Cannot be combined with allowed_chars",
		},
		"allowed_chars": &framework.FieldSchema{
			Type:        framework.TypeString,
			Description: "The only characters passwords may contain. Cannot be combined with ignored_chars",
		},
	}
}

func pathRoles(b *Backend) *framework.Path {
	fields := policyFields()
	fields["name"] = &framework.FieldSchema{
		Type:         framework.TypeLowerCaseString,
		Description:  "Name of the role",
		DisplayAttrs: &framework.DisplayAttributes{Name: "Role Name"},
	}

	return &framework.Path{
		Pattern: "roles/" + framework.GenericNameRegex("name"),
		Fields:  fields,
		Callbacks: map[logical.Operation]framework.OperationFunc{
			logical.DeleteOperation: b.pathRolesDelete,
			logical.ReadOperation:   b.pathRolesRead,
			logical.UpdateOperation: b.pathRolesWrite,
		},

		HelpSynopsis:    pathRolesHelpSyn,
		HelpDescription: pathRolesHelpDesc,
	}
}

func pathListRoles(b *Backend) *framework.Path {
	return &framework.Path{
		Pattern: "roles/?$",
		Callbacks: map[logical.Operation]framework.OperationFunc{
			logical.ListOperation: b.pathRoleList,
		},
		HelpSynopsis:    "List the configured password roles.",
		HelpDescription: "Lists role names only; read roles/<name> for a role's policy.",
	}
}

func (b *Backend) pathRoleList(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	b.roleMutex.RLock()
	defer b.roleMutex.RUnlock()

	roles, err := req.Storage.List(ctx, "roles/")
	if err != nil {
		return nil, errwrap.Wrapf("error listing roles: {{err}}", err)
	}
	return logical.ListResponse(roles), nil
}

func (b *Backend) pathRolesDelete(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	b.roleMutex.Lock()
	defer b.roleMutex.Unlock()
	err := req.Storage.Delete(ctx, "roles/"+d.Get("name").(string))
	return nil, err
}

func (b *Backend) pathRolesRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	entry, err := b.roleRead(ctx, req.Storage, d.Get("name").(string), true)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return &logical.Response{
		Data: entry.toResponseData(),
	}, nil
}

func (b *Backend) pathRolesWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	roleName := d.Get("name").(string)
	if roleName == "" {
		return logical.ErrorResponse("missing role name"), nil
	}

	b.roleMutex.Lock()
	defer b.roleMutex.Unlock()
	roleEntry, err := b.roleRead(ctx, req.Storage, roleName, false)
	if err != nil {
		return nil, err
	}

	if roleEntry == nil {
		roleEntry = &passwordRoleEntry{}
	}
	roleEntry.update(d)

	cfg, err := getConfig(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	if err := roleEntry.options(cfg.DefaultLength).Check(); err != nil {
		return logical.ErrorResponse(fmt.Sprintf("invalid role %q: %s", roleName, err)), nil
	}

	if err := setPasswordRole(ctx, req.Storage, roleName, roleEntry); err != nil {
		return nil, err
	}

	return nil, nil
}

func setPasswordRole(ctx context.Context, s logical.Storage, roleName string, roleEntry *passwordRoleEntry) error {
	if roleName == "" {
		return fmt.Errorf("empty role name")
	}
	if roleEntry == nil {
		return fmt.Errorf("empty roleEntry")
	}
	entry, err := logical.StorageEntryJSON("roles/"+roleName, roleEntry)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("nil result when writing to storage")
	}
	return s.Put(ctx, entry)
}

// roleRead returns the stored role, or nil when it does not exist.
func (b *Backend) roleRead(ctx context.Context, s logical.Storage, roleName string, shouldLock bool) (*passwordRoleEntry, error) {
	if roleName == "" {
		return nil, fmt.Errorf("missing role name")
	}
	if shouldLock {
		b.roleMutex.RLock()
		defer b.roleMutex.RUnlock()
	}

	entry, err := s.Get(ctx, "roles/"+roleName)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	var roleEntry passwordRoleEntry
	if err := entry.DecodeJSON(&roleEntry); err != nil {
		return nil, err
	}
	return &roleEntry, nil
}

type passwordRoleEntry struct {
	Length           int    `json:"length"`
	RequireSymbol    bool   `json:"require_symbol"`
	RequireUppercase bool   `json:"require_uppercase"`
	IgnoredChars     string `json:"ignored_chars"`
	AllowedChars     string `json:"allowed_chars"`
}

// update applies the fields present in d.
func (r *passwordRoleEntry) update(d *framework.FieldData) {
	if lengthRaw, ok := d.GetOk("length"); ok {
		r.Length = lengthRaw.(int)
	}
	if symbolRaw, ok := d.GetOk("require_symbol"); ok {
		r.RequireSymbol = symbolRaw.(bool)
	}
	if upperRaw, ok := d.GetOk("require_uppercase"); ok {
		r.RequireUppercase = upperRaw.(bool)
	}
	if ignoredRaw, ok := d.GetOk("ignored_chars"); ok {
		r.IgnoredChars = ignoredRaw.(string)
	}
	if allowedRaw, ok := d.GetOk("allowed_chars"); ok {
		r.AllowedChars = allowedRaw.(string)
	}
}

// options resolves the role into generator options. A zero length falls
// back to defaultLength.
func (r passwordRoleEntry) options(defaultLength int) password.Options {
	length := r.Length
	if length == 0 {
		length = defaultLength
	}
	return password.Options{
		Length:           length,
		RequireSymbol:    r.RequireSymbol,
		RequireUppercase: r.RequireUppercase,
		IgnoredChars:     r.IgnoredChars,
		AllowedChars:     r.AllowedChars,
	}
}

func (r passwordRoleEntry) toResponseData() map[string]interface{} {
	return map[string]interface{}{
		"length":            r.Length,
		"require_symbol":    r.RequireSymbol,
		"require_uppercase": r.RequireUppercase,
		"ignored_chars":     r.IgnoredChars,
		"allowed_chars":     r.AllowedChars,
	}
}

const pathRolesHelpSyn = `Manage the password policies passwords are generated from.`
const pathRolesHelpDesc = `
This path lets you manage the roles of the passgen backend. A role is a
password policy: the length, whether a symbol and an uppercase letter are
required, and either a set of ignored characters or a set of allowed
characters. A role is rejected when no password could satisfy it.
`
