package evaluator

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
	"golang.org/x/text/number"

	perrors "github.com/sambeau/lox/pkg/lox/errors"
)

// registerBuiltins defines the native functions in the global environment.
func registerBuiltins(in *Interpreter) {
	in.DefineNative("clock", 0, builtinClock)
	in.DefineNative("parseDate", 1, builtinParseDate)
	in.DefineNative("formatNumber", 1, builtinFormatNumber)
	in.DefineNative("formatDate", 2, builtinFormatDate)
}

// Builtins returns the names of the native functions every interpreter defines.
func Builtins() []string {
	return []string{"clock", "formatDate", "formatNumber", "parseDate"}
}

func nativeError(function, detail string) *perrors.LoxError {
	return perrors.New(perrors.NativeFailure, map[string]any{
		"Function": function,
		"Detail":   detail,
	})
}

// clock() returns seconds since the Unix epoch.
func builtinClock(in *Interpreter, args []Object) (Object, error) {
	return &Number{Value: float64(in.now().UnixNano()) / float64(time.Second)}, nil
}

// parseDate(text) parses a date or date-time in almost any common layout
// and returns Unix seconds. Dates without a zone are taken as UTC.
func builtinParseDate(in *Interpreter, args []Object) (Object, error) {
	s, ok := args[0].(*String)
	if !ok {
		return nil, nativeError("parseDate", "expected a string, got "+typeName(args[0]))
	}

	t, err := dateparse.ParseIn(s.Value, time.UTC)
	if err != nil {
		return nil, nativeError("parseDate", err.Error())
	}
	return &Number{Value: float64(t.Unix())}, nil
}

// formatNumber(n) formats n with digit grouping for the interpreter's locale.
func builtinFormatNumber(in *Interpreter, args []Object) (Object, error) {
	n, ok := args[0].(*Number)
	if !ok {
		return nil, nativeError("formatNumber", "expected a number, got "+typeName(args[0]))
	}
	return &String{Value: in.printer.Sprintf("%v", number.Decimal(n.Value))}, nil
}

// formatDate(seconds, layout) formats Unix seconds in UTC using a Go
// reference layout, with month and day names in the interpreter's locale.
func builtinFormatDate(in *Interpreter, args []Object) (Object, error) {
	n, ok := args[0].(*Number)
	if !ok {
		return nil, nativeError("formatDate", "expected a number, got "+typeName(args[0]))
	}
	layout, ok := args[1].(*String)
	if !ok {
		return nil, nativeError("formatDate", "expected a layout string, got "+typeName(args[1]))
	}

	sec := int64(n.Value)
	nsec := int64((n.Value - float64(sec)) * float64(time.Second))
	t := time.Unix(sec, nsec).UTC()
	return &String{Value: monday.Format(t, layout.Value, in.dateLocale)}, nil
}
