package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.hujson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseFlags(newFlagSet(), nil)
		require.NoError(t, err)
		assert.Equal(t, password.Options{Length: defaultLength}, cfg.Options)
	})

	t.Run("all flags", func(t *testing.T) {
		cfg, err := ParseFlags(newFlagSet(), []string{"-length", "10", "-symbol", "-uppercase", "-ignore", "0O", "-seed", "9"})
		require.NoError(t, err)
		assert.Equal(t, password.Options{Length: 10, RequireSymbol: true, RequireUppercase: true, IgnoredChars: "0O"}, cfg.Options)
		assert.Equal(t, uint64(9), cfg.Seed)
	})

	t.Run("policy file with overrides", func(t *testing.T) {
		path := writePolicy(t, `{
			// from the file
			"length": 30,
			"require_symbol": true,
			"allowed_chars": "abc#",
		}`)
		cfg, err := ParseFlags(newFlagSet(), []string{"-policy", path, "-length", "12"})
		require.NoError(t, err)
		assert.Equal(t, password.Options{Length: 12, RequireSymbol: true, AllowedChars: "abc#"}, cfg.Options)
	})

	t.Run("policy file without length", func(t *testing.T) {
		path := writePolicy(t, `{"require_uppercase": true}`)
		cfg, err := ParseFlags(newFlagSet(), []string{"-policy", path})
		require.NoError(t, err)
		assert.Equal(t, password.Options{Length: defaultLength, RequireUppercase: true}, cfg.Options)
	})

	t.Run("seed and crypto", func(t *testing.T) {
		_, err := ParseFlags(newFlagSet(), []string{"-seed", "1", "-crypto"})
		require.Error(t, err)
	})

	t.Run("extra arguments", func(t *testing.T) {
		_, err := ParseFlags(newFlagSet(), []string{"extra"})
		require.Error(t, err)
	})

	t.Run("missing policy file", func(t *testing.T) {
		_, err := ParseFlags(newFlagSet(), []string{"-policy", filepath.Join(t.TempDir(), "nope")})
		require.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	err := Run(Config{Options: password.Options{Length: 10, RequireSymbol: true, RequireUppercase: true}, Seed: 5}, &out)
	require.NoError(t, err)

	pw := strings.TrimSuffix(out.String(), "\n")
	assert.Len(t, pw, 10)
	assert.True(t, strings.ContainsAny(pw, password.Symbols))
	assert.True(t, strings.ContainsAny(pw, password.Uppercase))

	var again bytes.Buffer
	require.NoError(t, Run(Config{Options: password.Options{Length: 10, RequireSymbol: true, RequireUppercase: true}, Seed: 5}, &again))
	assert.Equal(t, out.String(), again.String())
}

func TestRun_Crypto(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(Config{Options: password.Options{Length: 40, AllowedChars: "xyz"}, Crypto: true}, &out))
	assert.Empty(t, strings.Trim(strings.TrimSpace(out.String()), "xyz"))
}

func TestRun_Error(t *testing.T) {
	var out bytes.Buffer
	err := Run(Config{Options: password.Options{Length: 8, RequireSymbol: true, AllowedChars: "abc"}}, &out)
	require.ErrorIs(t, err, password.ErrNoSymbolsAvailable)
	assert.Empty(t, out.String())
}
