package main

import (
	"os"
	"strings"

	"meeting-board/internal/cli"
)

// rewriteQuickAddArgs turns `board <text...>` into `board add <text...>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (e.g. `board --store file note`),
// so the first positional token is searched for, not just argv[1].
func rewriteQuickAddArgs(argv []string, commands map[string]bool) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--data-dir":  true,
		"--store":     true,
		"--log-level": true,
		"--format":    true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) {
				return insertAt(argv, i, "add")
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if commands[a] {
			return argv
		}
		return insertAt(argv, i, "add")
	}
	return argv
}

func insertAt(argv []string, i int, tok string) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:i]...)
	out = append(out, tok)
	out = append(out, argv[i:]...)
	return out
}

func main() {
	cmd := cli.NewRootCmd()

	commands := map[string]bool{"help": true, "completion": true}
	for _, c := range cmd.Commands() {
		commands[c.Name()] = true
		for _, a := range c.Aliases {
			commands[a] = true
		}
	}
	cmd.SetArgs(rewriteQuickAddArgs(os.Args, commands)[1:])

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
