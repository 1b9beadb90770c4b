package main

import (
	"os"
	"strings"

	"smeta/internal/cli"
	"smeta/internal/model"
)

func rewriteDirectNodeLookupArgs(argv []string) []string {
	// Convenience: `smeta work:10` works like `smeta show work:10`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `smeta --db-name x.db work:10`), so we look for
	// the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--db-type":   true,
		"--host":      true,
		"--port":      true,
		"--user":      true,
		"--password":  true,
		"--db-name":   true,
		"--format":    true,
		"--lang":      true,
		"--orphans":   true,
		"--log-file":  true,
		"--log-level": true,
	}

	insertShow := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && model.LooksLikeNodeRef(argv[i+1]) {
				return insertShow(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			// Unknown flags are skipped without consuming a value.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if model.LooksLikeNodeRef(a) {
			return insertShow(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectNodeLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
