package main

import (
	"os"
	"strings"

	"ticklist/internal/cli"
)

func isChecklistID(s string) bool {
	s = strings.TrimSpace(s)
	// Keep it permissive; IDs are generated but users may paste variants.
	return strings.HasPrefix(s, "chk-") && len(s) > len("chk-")
}

// rewriteDirectLookupArgs makes `ticklist <checklist-id>` behave like
// `ticklist lists show <checklist-id>`. Cobra treats the first non-flag token
// as a subcommand, so argv is rewritten before parsing. Persistent flags may
// come first, so the first positional token is located instead of assuming
// argv[1].
func rewriteDirectLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	valueFlags := map[string]bool{"--dir": true}
	boolFlags := map[string]bool{"--pretty": true, "--local": true}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isChecklistID(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "lists", "show")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
				continue
			}
			continue
		}
		if isChecklistID(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "lists", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
