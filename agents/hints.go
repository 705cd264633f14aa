package agents

import (
	"strings"

	"taskbot/pyexpr"
)

// hintFor turns a sandbox failure into a corrective nudge for the next
// model turn.
func hintFor(result pyexpr.Result) string {
	switch result.Kind {
	case pyexpr.KindNameError:
		if strings.Contains(result.Err, pyexpr.LastResult) {
			return "no prior result available yet"
		}
		return "only whitelisted builtins and context bindings are available"
	case pyexpr.KindDisallowedConstruct:
		return "a single expression is expected, no statements or multi-line code"
	case pyexpr.KindDisallowedName:
		return "use whitelisted names only, try last_result for the previous value"
	case pyexpr.KindOutputTooLong:
		return "produce a shorter value, the full text stays in last_result only if it fits"
	case pyexpr.KindTimeout:
		return "simplify the expression, the compute budget is small"
	}
	return ""
}
