package passgen

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/vault/sdk/logical"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

func writeTestRole(t *testing.T, b *Backend, s logical.Storage, name string, data map[string]interface{}) {
	t.Helper()
	resp, err := b.HandleRequest(context.Background(), &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "roles/" + name,
		Data:      data,
		Storage:   s,
	})
	if err != nil || (resp != nil && resp.IsError()) {
		t.Fatalf("bad: role creation failed. resp:%#v err:%v", resp, err)
	}
}

func readTestPassword(t *testing.T, b *Backend, s logical.Storage, path string, data map[string]interface{}) string {
	t.Helper()
	var op logical.Operation = logical.ReadOperation
	if data != nil {
		op = logical.UpdateOperation
	}
	resp, err := b.HandleRequest(context.Background(), &logical.Request{
		Operation: op,
		Path:      path,
		Data:      data,
		Storage:   s,
	})
	if err != nil || (resp != nil && resp.IsError()) {
		t.Fatalf("bad: password generation failed. resp:%#v err:%v", resp, err)
	}
	return resp.Data["password"].(string)
}

func TestBackend_PathCredentials(t *testing.T) {
	b, storage := getTestBackend(t)

	writeTestRole(t, b, storage, "web", map[string]interface{}{
		"length":            24,
		"require_symbol":    true,
		"require_uppercase": true,
		"ignored_chars":     "0O1lI",
	})

	for i := 0; i < 20; i++ {
		pw := readTestPassword(t, b, storage, "creds/web", nil)
		if len(pw) != 24 {
			t.Fatalf("expected 24 characters, got %q", pw)
		}
		if !strings.ContainsAny(pw, password.Symbols) {
			t.Fatalf("expected a symbol in %q", pw)
		}
		if !strings.ContainsAny(pw, password.Uppercase) {
			t.Fatalf("expected an uppercase letter in %q", pw)
		}
		if strings.ContainsAny(pw, "0O1lI") {
			t.Fatalf("ignored character in %q", pw)
		}
	}
}

func TestBackend_PathCredentialsDefaultLength(t *testing.T) {
	b, storage := getTestBackend(t)

	writeTestRole(t, b, storage, "pin", map[string]interface{}{
		"allowed_chars": password.Digits,
	})

	pw := readTestPassword(t, b, storage, "creds/pin", nil)
	if len(pw) != defaultPasswordLength {
		t.Fatalf("expected %d characters, got %q", defaultPasswordLength, pw)
	}
	if strings.Trim(pw, password.Digits) != "" {
		t.Fatalf("expected only digits, got %q", pw)
	}

	resp, err := b.HandleRequest(context.Background(), &logical.Request{
		Operation: logical.UpdateOperation,
		Path:      "config",
		Data:      map[string]interface{}{"default_length": 6},
		Storage:   storage,
	})
	if err != nil || (resp != nil && resp.IsError()) {
		t.Fatalf("config write failed: resp:%#v err:%v", resp, err)
	}

	pw = readTestPassword(t, b, storage, "creds/pin", nil)
	if len(pw) != 6 {
		t.Fatalf("expected 6 characters, got %q", pw)
	}
}

func TestBackend_PathCredentialsSeeded(t *testing.T) {
	generate := func() []string {
		b, storage := getTestBackend(t)
		resp, err := b.HandleRequest(context.Background(), &logical.Request{
			Operation: logical.UpdateOperation,
			Path:      "config",
			Data:      map[string]interface{}{"random_source": "math", "seed": 1234},
			Storage:   storage,
		})
		if err != nil || (resp != nil && resp.IsError()) {
			t.Fatalf("config write failed: resp:%#v err:%v", resp, err)
		}
		writeTestRole(t, b, storage, "seeded", map[string]interface{}{"length": 16})

		return []string{
			readTestPassword(t, b, storage, "creds/seeded", nil),
			readTestPassword(t, b, storage, "creds/seeded", nil),
		}
	}

	first, second := generate(), generate()
	if first[0] != second[0] || first[1] != second[1] {
		t.Fatalf("seeded backends diverged: %v vs %v", first, second)
	}
	if first[0] == first[1] {
		t.Fatalf("consecutive passwords are identical: %q", first[0])
	}
}

func TestBackend_PathCredentialsUnknownRole(t *testing.T) {
	b, storage := getTestBackend(t)

	resp, err := b.HandleRequest(context.Background(), &logical.Request{
		Operation: logical.ReadOperation,
		Path:      "creds/missing",
		Storage:   storage,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp == nil || !resp.IsError() {
		t.Fatalf("expected error response, got: %#v", resp)
	}
}

func TestBackend_PathGenerate(t *testing.T) {
	b, storage := getTestBackend(t)

	pw := readTestPassword(t, b, storage, "generate", map[string]interface{}{
		"length":         10,
		"require_symbol": true,
		"allowed_chars":  "ab#",
	})
	if len(pw) != 10 {
		t.Fatalf("expected 10 characters, got %q", pw)
	}
	if strings.Trim(pw, "ab#") != "" || !strings.Contains(pw, "#") {
		t.Fatalf("unexpected password %q", pw)
	}

	pw = readTestPassword(t, b, storage, "generate", map[string]interface{}{})
	if len(pw) != defaultPasswordLength {
		t.Fatalf("expected %d characters, got %q", defaultPasswordLength, pw)
	}

	entries, err := storage.List(context.Background(), "roles/")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("generate stored a role: %v", entries)
	}

	for name, data := range map[string]map[string]interface{}{
		"conflicting filters": {"ignored_chars": "a", "allowed_chars": "b"},
		"too long":            {"length": 1000000},
		"no uppercase":        {"allowed_chars": "abc", "require_uppercase": true},
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := b.HandleRequest(context.Background(), &logical.Request{
				Operation: logical.UpdateOperation,
				Path:      "generate",
				Data:      data,
				Storage:   storage,
			})
			if err != nil {
				t.Fatal(err)
			}
			if resp == nil || !resp.IsError() {
				t.Fatalf("expected error response, got: %#v", resp)
			}
		})
	}
}
