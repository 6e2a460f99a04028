// Command passgen prints a random password.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/hashicorp/vault-plugin-secrets-passgen/internal/policy"
	"github.com/hashicorp/vault-plugin-secrets-passgen/password"
)

const defaultLength = 16

// Config holds the parsed command line.
type Config struct {
	Options    password.Options
	PolicyFile string
	Seed       uint64
	Crypto     bool
}

// ParseFlags parses args into a Config. Values from a policy file are
// overridden by flags given explicitly.
func ParseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	var opts password.Options

	fs.IntVar(&opts.Length, "length", defaultLength, "Password length")
	fs.BoolVar(&opts.RequireSymbol, "symbol", false, "Require at least one symbol")
	fs.BoolVar(&opts.RequireUppercase, "uppercase", false, "Require at least one uppercase letter")
	fs.StringVar(&opts.IgnoredChars, "ignore", "", "Characters to never use")
	fs.StringVar(&opts.AllowedChars, "allow", "", "The only characters to use")
	fs.StringVar(&cfg.PolicyFile, "policy", "", "HuJSON policy file")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Seed for a reproducible pseudorandom source")
	fs.BoolVar(&cfg.Crypto, "crypto", false, "Use the operating system's secure random source")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if cfg.Crypto && cfg.Seed != 0 {
		return cfg, errors.New("-seed cannot be combined with -crypto")
	}

	cfg.Options = opts
	if cfg.PolicyFile == "" {
		return cfg, nil
	}

	fileOpts, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return cfg, err
	}
	if fileOpts.Length == 0 {
		fileOpts.Length = defaultLength
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "length":
			fileOpts.Length = opts.Length
		case "symbol":
			fileOpts.RequireSymbol = opts.RequireSymbol
		case "uppercase":
			fileOpts.RequireUppercase = opts.RequireUppercase
		case "ignore":
			fileOpts.IgnoredChars = opts.IgnoredChars
		case "allow":
			fileOpts.AllowedChars = opts.AllowedChars
		}
	})
	cfg.Options = fileOpts

	return cfg, nil
}

func (c Config) source() password.Source {
	switch {
	case c.Crypto:
		return password.NewCryptoSource()
	case c.Seed != 0:
		return password.NewSource(c.Seed)
	default:
		return password.NewSource(uint64(time.Now().UnixNano()))
	}
}

// Run generates a password and writes it to w.
func Run(cfg Config, w io.Writer) error {
	pw, err := password.NewGenerator(cfg.source()).Generate(cfg.Options)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, pw)
	return err
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "passgen",
		Output: os.Stderr,
	})

	cfg, err := ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(1)
	}

	if err := Run(cfg, os.Stdout); err != nil {
		logger.Error("failed to generate password", "error", err)
		os.Exit(1)
	}
}
