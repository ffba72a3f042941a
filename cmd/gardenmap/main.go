package main

import (
	"os"
	"strings"

	"gardenmap/internal/cli"
)

func isPlantID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "plant-") && len(s) > len("plant-")
}

// rewriteDirectPlantLookupArgs makes `gardenmap <plant-id>` work like `gardenmap plants show <plant-id>`.
// Cobra treats the first positional token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first, so the first positional token is searched for.
func rewriteDirectPlantLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":     true,
		"--store":      true,
		"--store-path": true,
		"--store-url":  true,
		"--format":     true,
		"--log-level":  true,
	}

	rewrite := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "plants", "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isPlantID(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isPlantID(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectPlantLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
