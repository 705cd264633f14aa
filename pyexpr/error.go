package pyexpr

import "fmt"

// Kind classifies every way a submitted expression can fail. It is stable
// machine-checkable data; the message is for the controlling model.
type Kind string

const (
	KindSyntaxError         Kind = "SyntaxError"
	KindDisallowedConstruct Kind = "DisallowedConstruct"
	KindDisallowedName      Kind = "DisallowedName"
	KindNameError           Kind = "NameError"
	KindTypeMismatch        Kind = "TypeMismatch"
	KindOutputTooLong       Kind = "OutputTooLong"
	KindTimeout             Kind = "Timeout"
	KindUnknown             Kind = "Unknown"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Msg
}

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}
