// Package flagx holds command-line helpers shared by the server and the CLI.
// Several independent flag sets read from the same os.Args, so each one
// first narrows the arguments down to the flags it owns.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags,
// keeping values that follow a flag as a separate argument.
//
// Both "-e .env" and "-env-file=.env" forms are recognised. A token that
// starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// EnvFileFlag extracts the dotenv file path given via -e or -env-file.
// The last occurrence wins; an empty string means the flag was not set.
func EnvFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("env-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "env-file", "", "path to a dotenv file")
	fs.StringVar(&path, "e", "", "path to a dotenv file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-e", "-env-file", "--env-file"}))

	return path
}
