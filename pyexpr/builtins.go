package pyexpr

import (
	"math"

	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// universeNames is the closed set of interpreter builtins admitted into the
// execution namespace. Everything capability-bearing or reflective (getattr,
// hasattr, dir, print, fail, ...) is deliberately absent: the namespace holds
// pure values only, so even a validator gap cannot reach the outside world.
var universeNames = []string{
	"None", "True", "False",
	"abs", "all", "any", "bool", "dict", "enumerate", "float", "int",
	"len", "list", "max", "min", "range", "reversed", "set", "sorted",
	"str", "tuple", "zip",
}

var nativeNames = []string{
	"sum", "map", "filter", "round",
}

var builtinNames = func() map[string]bool {
	names := make(map[string]bool, len(universeNames)+len(nativeNames))
	for _, name := range universeNames {
		names[name] = true
	}
	for _, name := range nativeNames {
		names[name] = true
	}
	return names
}()

// methodWhitelist is the closed set of attribute names callable on values.
// All entries are pure methods of the interpreter's string, list, dict and
// set types; a whitelisted name missing on the receiver's type still fails
// at evaluation time with a type fault.
var methodWhitelist = map[string]bool{
	// string
	"capitalize": true, "count": true, "endswith": true, "find": true,
	"format": true, "index": true, "isalnum": true, "isalpha": true,
	"isdigit": true, "islower": true, "isspace": true, "istitle": true,
	"isupper": true, "join": true, "lower": true, "lstrip": true,
	"partition": true, "removeprefix": true, "removesuffix": true,
	"replace": true, "rfind": true, "rindex": true, "rpartition": true,
	"rsplit": true, "rstrip": true, "split": true, "splitlines": true,
	"startswith": true, "strip": true, "title": true, "upper": true,
	// list
	"append": true, "clear": true, "extend": true, "insert": true,
	"pop": true, "remove": true,
	// dict
	"get": true, "items": true, "keys": true, "values": true,
	"setdefault": true, "update": true,
	// set
	"union": true,
}

// Builtins returns a fresh namespace holding the whitelisted operations.
// The caller may add context bindings; a fresh map per call keeps
// evaluations isolated from each other.
func Builtins() starlark.StringDict {
	env := make(starlark.StringDict, len(universeNames)+len(nativeNames))
	for _, name := range universeNames {
		if value, ok := starlark.Universe[name]; ok {
			env[name] = value
		}
	}
	env["sum"] = sumBuiltin
	env["map"] = mapBuiltin
	env["filter"] = filterBuiltin
	env["round"] = roundBuiltin
	return env
}

var sumBuiltin = starlark.NewBuiltin("sum", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var iterable starlark.Iterable
	var start starlark.Value
	if err := starlark.UnpackPositionalArgs("sum", args, kwargs, 1, &iterable, &start); err != nil {
		return nil, err
	}
	total := start
	if total == nil {
		total = starlark.MakeInt(0)
	}
	iter := iterable.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		var err error
		total, err = starlark.Binary(syntax.PLUS, total, x)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
})

var mapBuiltin = starlark.NewBuiltin("map", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Value
	var iterable starlark.Iterable
	if err := starlark.UnpackPositionalArgs("map", args, kwargs, 2, &fn, &iterable); err != nil {
		return nil, err
	}
	iter := iterable.Iterate()
	defer iter.Done()
	var elems []starlark.Value
	var x starlark.Value
	for iter.Next(&x) {
		y, err := starlark.Call(thread, fn, starlark.Tuple{x}, nil)
		if err != nil {
			return nil, err
		}
		elems = append(elems, y)
	}
	return starlark.NewList(elems), nil
})

var filterBuiltin = starlark.NewBuiltin("filter", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Value
	var iterable starlark.Iterable
	if err := starlark.UnpackPositionalArgs("filter", args, kwargs, 2, &fn, &iterable); err != nil {
		return nil, err
	}
	iter := iterable.Iterate()
	defer iter.Done()
	var elems []starlark.Value
	var x starlark.Value
	for iter.Next(&x) {
		keep := false
		if fn == starlark.None {
			keep = bool(x.Truth())
		} else {
			y, err := starlark.Call(thread, fn, starlark.Tuple{x}, nil)
			if err != nil {
				return nil, err
			}
			keep = bool(y.Truth())
		}
		if keep {
			elems = append(elems, x)
		}
	}
	return starlark.NewList(elems), nil
})

// round uses banker's rounding, matching the reference semantics.
var roundBuiltin = starlarkutil.MakeFunc("round", func(x float64) int64 {
	return int64(math.RoundToEven(x))
})
