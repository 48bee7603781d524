// Package flagx lets independent parts of a program each parse only the
// command-line flags they own.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Filter returns the arguments that belong to the named flags, together with
// their values. Names are given without dashes; both "-name" and "--name"
// spellings match, as they do for the flag package.
//
// A value is either joined with '=' ("-c=conf.json") or the next argument,
// unless that argument starts with a dash. Everything else is dropped. The
// result is never nil.
func Filter(args []string, names ...string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, hasValue, ok := flagName(args[i])
		if !ok {
			continue
		}
		if _, keep := allowed[name]; !keep {
			continue
		}
		out = append(out, args[i])
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// flagName extracts the flag name of a "-name", "--name" or "-name=value"
// argument.
func flagName(arg string) (name string, hasValue, ok bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false, false
	}
	name = strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	if name == "" {
		return "", false, false
	}
	if before, _, found := strings.Cut(name, "="); found {
		return before, true, true
	}
	return name, false, true
}

// NewFlagSet returns a silent ContinueOnError flag set, suitable for parsing
// a filtered argument list.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// ConfigPath returns the configuration file named by -c or -config, or "" if
// neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := NewFlagSet("config")
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Filter(args, "c", "config"))

	return path
}
