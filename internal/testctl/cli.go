package testctl

import (
	"flag"
	"fmt"
	"os"
)

type Config struct {
	LogLvl string
}

func usage() {
	fmt.Println("Usage: docexctl [--log-level info] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  install go|llama")
	fmt.Println("  test go")
	fmt.Println("  test blackbox")
	fmt.Println("  smoke")
}

// Run dispatches the CLI command. It returns an error instead of exiting,
// enabling reuse from other packages or tests.
func Run(args []string, cfg *Config) error {
	switch args[0] {
	case "install":
		if len(args) < 2 {
			return fmt.Errorf("install requires a subcommand: go|llama")
		}
		switch args[1] {
		case "go":
			return fnInstallGo()
		case "llama":
			return fnInstallLlama()
		default:
			return fmt.Errorf("unknown install subcommand: %s", args[1])
		}
	case "test":
		if len(args) < 2 {
			return fmt.Errorf("test requires a subcommand: go|blackbox")
		}
		switch args[1] {
		case "go":
			return fnRunGoTests()
		case "blackbox":
			return fnRunBlackboxTests()
		default:
			return fmt.Errorf("unknown test subcommand: %s", args[1])
		}
	case "smoke":
		return fnSmoke()
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// ParseConfigWith parses flags using the provided FlagSet and args slice.
// This enables tests to inject their own FlagSet and arguments without
// mutating global state.
func ParseConfigWith(fs *flag.FlagSet, args []string) (*Config, []string) {
	cfg := &Config{}
	if fs.Lookup("log-level") == nil {
		fs.String("log-level", envStr("DOCEXCTL_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	}
	_ = fs.Parse(args)
	ll := envStr("DOCEXCTL_LOG_LEVEL", "info")
	if f := fs.Lookup("log-level"); f != nil {
		if v := f.Value.String(); v != "" {
			ll = v
		}
	}
	cfg.LogLvl = ll
	return cfg, fs.Args()
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(args []string) int {
	for _, a := range args {
		if a == "-h" || a == "--help" || a == "help" {
			usage()
			return 0
		}
	}
	fs := flag.NewFlagSet("docexctl", flag.ContinueOnError)
	cfg, rest := ParseConfigWith(fs, args)
	SetLogLevel(cfg.LogLvl)
	if len(rest) == 0 {
		usage()
		return 2
	}
	if err := Run(rest, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/docexctl.
func Main() int { return MainWithArgs(os.Args[1:]) }
