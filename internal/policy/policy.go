// Package policy reads password policies from HuJSON files.
//
// A policy file looks like:
//
//	{
//		// 24 characters, no look-alikes
//		"length": 24,
//		"require_uppercase": true,
//		"ignored_chars": ["0", "O", "1", "l", "I"],
//	}
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/tailscale/hujson"

	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

type policy struct {
	Length           int    `mapstructure:"length"`
	RequireSymbol    bool   `mapstructure:"require_symbol"`
	RequireUppercase bool   `mapstructure:"require_uppercase"`
	IgnoredChars     string `mapstructure:"ignored_chars"`
	AllowedChars     string `mapstructure:"allowed_chars"`
}

// Load reads and parses the policy file at path.
func Load(path string) (password.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return password.Options{}, fmt.Errorf("failed to read policy file: %v", err)
	}
	return Parse(data)
}

// Parse parses a JSON or HuJSON policy document. The returned options are
// not validated.
func Parse(data []byte) (password.Options, error) {
	ast, err := hujson.Parse(data)
	if err != nil {
		return password.Options{}, fmt.Errorf("failed to parse policy: %v", err)
	}
	ast.Standardize()

	var raw map[string]interface{}
	if err := json.Unmarshal(ast.Pack(), &raw); err != nil {
		return password.Options{}, fmt.Errorf("failed to unmarshal policy: %v", err)
	}

	var p policy
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       charListHook,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return password.Options{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return password.Options{}, fmt.Errorf("invalid policy: %v", err)
	}

	return password.Options{
		Length:           p.Length,
		RequireSymbol:    p.RequireSymbol,
		RequireUppercase: p.RequireUppercase,
		IgnoredChars:     p.IgnoredChars,
		AllowedChars:     p.AllowedChars,
	}, nil
}

// charListHook turns a list of single characters into a string.
func charListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	items, ok := data.([]interface{})
	if !ok || from.Kind() != reflect.Slice || to.Kind() != reflect.String {
		return data, nil
	}

	var sb strings.Builder
	for _, item := range items {
		s, ok := item.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return nil, fmt.Errorf("expected a single character, got %v", item)
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}
