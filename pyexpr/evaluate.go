package pyexpr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
)

// Mode tags the caller's declared intent. It does not change execution
// semantics; validation mode only configures a tighter output ceiling, since
// validation proofs are expected to be terse.
type Mode string

const (
	ModeAnalytics  Mode = "analytics"
	ModeValidation Mode = "validation"
)

type Limits struct {
	TimeBudget          time.Duration
	MaxSteps            uint64
	MaxOutput           int
	ValidationMaxOutput int
	AllowAssign         bool
}

func DefaultLimits() Limits {
	return Limits{
		TimeBudget:          200 * time.Millisecond,
		MaxSteps:            200_000,
		MaxOutput:           1024,
		ValidationMaxOutput: 256,
		AllowAssign:         true,
	}
}

// Result is the discriminated outcome of one evaluation. Exactly one of
// Value (OK) or Kind/Err (not OK) is meaningful; no error ever crosses the
// component boundary unconverted.
type Result struct {
	OK    bool
	Value string
	Kind  Kind
	Err   string
}

func fail(err *Error) Result {
	return Result{Kind: err.Kind, Err: err.Msg}
}

const timeoutReason = "time budget exceeded"

// Evaluate validates code, executes it against the whitelist namespace plus
// the current context bindings, and returns a typed result. The context is
// updated only after a value has been fully produced and has passed the
// output ceiling, so any failure or abandonment leaves it untouched.
func Evaluate(ctx context.Context, code string, ec Context, mode Mode, limits Limits) Result {
	bind, expr, err := parse(code, ec.Known(), Policy{AllowAssign: limits.AllowAssign})
	if err != nil {
		var verr *Error
		if errors.As(err, &verr) {
			return fail(verr)
		}
		return Result{Kind: KindUnknown, Err: err.Error()}
	}

	env := Builtins()
	for name, value := range ec {
		env[name] = starlark.String(value)
	}

	thread := &starlark.Thread{Name: "pyexpr"}
	if limits.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(limits.MaxSteps)
	}

	budget := limits.TimeBudget
	if budget <= 0 {
		budget = DefaultLimits().TimeBudget
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(timeoutReason)
	})
	defer stop()

	value, err := starlark.EvalExprOptions(fileOptions, thread, expr, env)
	if err != nil {
		return classify(err)
	}

	text := stringify(value)
	ceiling := limits.MaxOutput
	if mode == ModeValidation && limits.ValidationMaxOutput > 0 {
		ceiling = limits.ValidationMaxOutput
	}
	if ceiling > 0 && len(text) > ceiling {
		return Result{
			Kind: KindOutputTooLong,
			Err:  fmt.Sprintf("result length %d exceeds max %d", len(text), ceiling),
		}
	}

	if bind != "" {
		ec[bind] = text
	}
	ec[LastResult] = text

	return Result{
		OK:    true,
		Value: text,
	}
}

// stringify renders a value the way the model expects to read it back: raw
// text for strings, interpreter repr for everything else.
func stringify(value starlark.Value) string {
	if s, ok := starlark.AsString(value); ok {
		return s
	}
	return value.String()
}

// classify converts every execution fault into a typed Result. Resolution
// failures are name errors (the validator admits context names and
// last_result without knowing whether they are bound); cancellations are
// timeouts whether they came from the wall clock or the step budget.
func classify(err error) Result {
	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		msg := resolveErrs[0].Msg
		if strings.Contains(msg, "undefined:") {
			return Result{Kind: KindNameError, Err: msg}
		}
		return Result{Kind: KindDisallowedConstruct, Err: msg}
	}

	msg := err.Error()
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		msg = evalErr.Msg
	}

	switch {
	case strings.Contains(msg, "cancelled") || strings.Contains(msg, "too many steps"):
		return Result{Kind: KindTimeout, Err: msg}
	case strings.Contains(msg, "undefined:"):
		return Result{Kind: KindNameError, Err: msg}
	}

	for _, marker := range typeFaultMarkers {
		if strings.Contains(msg, marker) {
			return Result{Kind: KindTypeMismatch, Err: msg}
		}
	}

	return Result{Kind: KindUnknown, Err: msg}
}

// typeFaultMarkers match the interpreter's operand and value fault
// phrasings. Anything else stays Unknown rather than being absorbed here.
var typeFaultMarkers = []string{
	"unknown binary op",
	"unknown unary op",
	"invalid literal",
	"invalid call",
	"invalid slice",
	"not iterable",
	"want iterable",
	"out of range",
	"has no",
	"unhashable",
	"division by zero",
	"argument",
}
