package expr

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

var builtins = map[string]Func{
	"exists":           exists,
	"hastrailingslash": hasTrailingSlash,
}

func arity(name string, args []Value, n int) error {
	if len(args) != n {
		return &TypeError{Pos: -1, Op: name, Msg: fmt.Sprintf("expects %d argument(s), got %d", n, len(args))}
	}
	return nil
}

// exists reports whether every ";"-separated path in its argument is
// present in the configured file system.
func exists(ec *EvalContext, args []Value) (Value, error) {
	if err := arity("exists", args, 1); err != nil {
		return Value{}, err
	}
	if ec.FS == nil {
		return BoolValue(false), nil
	}

	found := false
	for _, p := range strings.Split(args[0].String(), ";") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := fs.Stat(ec.FS, fsPath(p)); err != nil {
			return BoolValue(false), nil
		}
		found = true
	}
	return BoolValue(found), nil
}

// fsPath turns a host-style path into an fs.FS path: forward slashes,
// cleaned, no leading slash.
func fsPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "."
	}
	return p
}

func hasTrailingSlash(_ *EvalContext, args []Value) (Value, error) {
	if err := arity("hasTrailingSlash", args, 1); err != nil {
		return Value{}, err
	}
	s := args[0].String()
	return BoolValue(strings.HasSuffix(s, "/") || strings.HasSuffix(s, `\`)), nil
}
