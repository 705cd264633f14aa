package pyexpr

// LastResult is the context binding updated after every successful
// evaluation.
const LastResult = "last_result"

// Context carries stringified values across sequential evaluations within a
// single task. It is owned by the calling loop and passed by reference; the
// evaluator reads it and updates it in place on success only, and never
// retains it between calls. One task, one Context.
type Context map[string]string

// Known returns the set of identifiers currently bound in the context, for
// validation.
func (c Context) Known() map[string]bool {
	known := make(map[string]bool, len(c))
	for name := range c {
		known[name] = true
	}
	return known
}
