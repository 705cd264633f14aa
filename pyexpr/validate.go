package pyexpr

import (
	"strings"

	"go.starlark.net/syntax"
)

// statement forms are parsed, then rejected structurally, so that a loop or
// definition reports DisallowedConstruct rather than a bare syntax error
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Policy controls the narrow statement exception the validator grants on top
// of the expression-only grammar.
type Policy struct {
	// AllowAssign permits a single top-level `name = expr` form that binds
	// the stringified result into the execution context.
	AllowAssign bool
}

// Validate checks that code parses as a single expression (or the permitted
// assignment form) and references only whitelisted or known names. It never
// executes anything and never mutates its inputs.
func Validate(code string, known map[string]bool, policy Policy) error {
	_, _, err := parse(code, known, policy)
	return err
}

// parse returns the name bound by the permitted assignment form ("" for a
// bare expression) and the value-producing expression to evaluate.
func parse(code string, known map[string]bool, policy Policy) (string, syntax.Expr, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil, errf(KindSyntaxError, "empty expression")
	}

	file, err := fileOptions.Parse("<expr>", code, 0)
	if err != nil {
		return "", nil, errf(KindSyntaxError, "%s", err)
	}
	if len(file.Stmts) == 0 {
		return "", nil, errf(KindSyntaxError, "empty expression")
	}
	if len(file.Stmts) > 1 {
		return "", nil, errf(KindDisallowedConstruct, "a single expression is expected, got %d statements", len(file.Stmts))
	}

	var bind string
	var expr syntax.Expr
	switch stmt := file.Stmts[0].(type) {

	case *syntax.ExprStmt:
		expr = stmt.X

	case *syntax.AssignStmt:
		if !policy.AllowAssign || stmt.Op != syntax.EQ {
			return "", nil, errf(KindDisallowedConstruct, "assignment is not allowed, write a single expression")
		}
		ident, ok := stmt.LHS.(*syntax.Ident)
		if !ok {
			return "", nil, errf(KindDisallowedConstruct, "assignment target must be a plain name")
		}
		if strings.HasPrefix(ident.Name, "_") {
			return "", nil, errf(KindDisallowedName, "cannot bind name %q", ident.Name)
		}
		bind = ident.Name
		expr = stmt.RHS

	default:
		return "", nil, errf(KindDisallowedConstruct, "statements are not allowed: %s", stmtName(stmt))
	}

	v := &validator{known: known}
	if err := v.checkExpr(expr); err != nil {
		return "", nil, err
	}
	return bind, expr, nil
}

func stmtName(stmt syntax.Stmt) string {
	switch s := stmt.(type) {
	case *syntax.DefStmt:
		return "def"
	case *syntax.IfStmt:
		return "if"
	case *syntax.ForStmt:
		return "for"
	case *syntax.WhileStmt:
		return "while"
	case *syntax.LoadStmt:
		return "load"
	case *syntax.ReturnStmt:
		return "return"
	case *syntax.BranchStmt:
		return s.Token.String()
	default:
		return "statement"
	}
}

// validator walks a parsed expression the same way the evaluator will,
// rejecting names outside the whitelist before anything runs. Scopes track
// names bound locally by lambda parameters and comprehension clauses.
type validator struct {
	known  map[string]bool
	scopes []map[string]bool
}

func (v *validator) pushScope() {
	v.scopes = append(v.scopes, make(map[string]bool))
}

func (v *validator) popScope() {
	v.scopes = v.scopes[:len(v.scopes)-1]
}

func (v *validator) bind(name string) {
	v.scopes[len(v.scopes)-1][name] = true
}

func (v *validator) checkIdent(name string) error {
	if strings.HasPrefix(name, "_") {
		return errf(KindDisallowedName, "underscore names are not allowed: %q", name)
	}
	if builtinNames[name] {
		return nil
	}
	// always considered known at validation time; an unbound reference
	// surfaces as a NameError at evaluation time instead
	if name == LastResult {
		return nil
	}
	if v.known[name] {
		return nil
	}
	for i := len(v.scopes) - 1; i >= 0; i-- {
		if v.scopes[i][name] {
			return nil
		}
	}
	return errf(KindDisallowedName, "name %q is not in the whitelist", name)
}

// bindTargets collects the names bound by a comprehension for-clause or a
// lambda parameter target.
func (v *validator) bindTargets(expr syntax.Expr) error {
	switch e := expr.(type) {
	case *syntax.Ident:
		if strings.HasPrefix(e.Name, "_") {
			return errf(KindDisallowedName, "cannot bind name %q", e.Name)
		}
		v.bind(e.Name)
		return nil
	case *syntax.ParenExpr:
		return v.bindTargets(e.X)
	case *syntax.TupleExpr:
		for _, elem := range e.List {
			if err := v.bindTargets(elem); err != nil {
				return err
			}
		}
		return nil
	case *syntax.ListExpr:
		for _, elem := range e.List {
			if err := v.bindTargets(elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return errf(KindDisallowedConstruct, "unsupported binding target: %T", expr)
	}
}

func (v *validator) checkExpr(expr syntax.Expr) error {
	switch e := expr.(type) {

	case *syntax.Literal:
		return nil

	case *syntax.Ident:
		return v.checkIdent(e.Name)

	case *syntax.ParenExpr:
		return v.checkExpr(e.X)

	case *syntax.UnaryExpr:
		return v.checkExpr(e.X)

	case *syntax.BinaryExpr:
		if err := v.checkExpr(e.X); err != nil {
			return err
		}
		return v.checkExpr(e.Y)

	case *syntax.DotExpr:
		return v.checkDotExpr(e)

	case *syntax.CallExpr:
		return v.checkCallExpr(e)

	case *syntax.IndexExpr:
		if err := v.checkExpr(e.X); err != nil {
			return err
		}
		return v.checkExpr(e.Y)

	case *syntax.SliceExpr:
		if err := v.checkExpr(e.X); err != nil {
			return err
		}
		for _, part := range []syntax.Expr{e.Lo, e.Hi, e.Step} {
			if part == nil {
				continue
			}
			if err := v.checkExpr(part); err != nil {
				return err
			}
		}
		return nil

	case *syntax.ListExpr:
		for _, elem := range e.List {
			if err := v.checkExpr(elem); err != nil {
				return err
			}
		}
		return nil

	case *syntax.TupleExpr:
		for _, elem := range e.List {
			if err := v.checkExpr(elem); err != nil {
				return err
			}
		}
		return nil

	case *syntax.DictExpr:
		for _, entry := range e.List {
			if err := v.checkExpr(entry); err != nil {
				return err
			}
		}
		return nil

	case *syntax.DictEntry:
		if err := v.checkExpr(e.Key); err != nil {
			return err
		}
		return v.checkExpr(e.Value)

	case *syntax.CondExpr:
		if err := v.checkExpr(e.Cond); err != nil {
			return err
		}
		if err := v.checkExpr(e.True); err != nil {
			return err
		}
		return v.checkExpr(e.False)

	case *syntax.LambdaExpr:
		return v.checkLambdaExpr(e)

	case *syntax.Comprehension:
		return v.checkComprehension(e)

	default:
		return errf(KindDisallowedConstruct, "unsupported expression: %T", expr)
	}
}

func (v *validator) checkDotExpr(e *syntax.DotExpr) error {
	attr := e.Name.Name
	// hard rule independent of the whitelist: no reflective or dunder
	// attribute access, ever
	if strings.HasPrefix(attr, "_") {
		return errf(KindDisallowedName, "attribute %q is not allowed", attr)
	}
	if !methodWhitelist[attr] {
		return errf(KindDisallowedName, "attribute %q is not in the whitelist", attr)
	}
	return v.checkExpr(e.X)
}

func (v *validator) checkCallExpr(e *syntax.CallExpr) error {
	if err := v.checkExpr(e.Fn); err != nil {
		return err
	}
	for _, arg := range e.Args {
		// keyword argument: the left side is an argument name, not a
		// variable reference
		if bin, ok := arg.(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
			if _, ok := bin.X.(*syntax.Ident); ok {
				if err := v.checkExpr(bin.Y); err != nil {
					return err
				}
				continue
			}
		}
		if u, ok := arg.(*syntax.UnaryExpr); ok && (u.Op == syntax.STAR || u.Op == syntax.STARSTAR) {
			if err := v.checkExpr(u.X); err != nil {
				return err
			}
			continue
		}
		if err := v.checkExpr(arg); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) checkLambdaExpr(e *syntax.LambdaExpr) error {
	v.pushScope()
	defer v.popScope()
	for _, param := range e.Params {
		switch p := param.(type) {
		case *syntax.Ident:
			v.bind(p.Name)
		case *syntax.BinaryExpr:
			if p.Op != syntax.EQ {
				return errf(KindDisallowedConstruct, "unsupported lambda parameter")
			}
			ident, ok := p.X.(*syntax.Ident)
			if !ok {
				return errf(KindDisallowedConstruct, "unsupported lambda parameter")
			}
			if err := v.checkExpr(p.Y); err != nil {
				return err
			}
			v.bind(ident.Name)
		case *syntax.UnaryExpr:
			if p.Op != syntax.STAR && p.Op != syntax.STARSTAR {
				return errf(KindDisallowedConstruct, "unsupported lambda parameter")
			}
			ident, ok := p.X.(*syntax.Ident)
			if !ok {
				return errf(KindDisallowedConstruct, "unsupported lambda parameter")
			}
			v.bind(ident.Name)
		default:
			return errf(KindDisallowedConstruct, "unsupported lambda parameter: %T", param)
		}
	}
	return v.checkExpr(e.Body)
}

func (v *validator) checkComprehension(e *syntax.Comprehension) error {
	v.pushScope()
	defer v.popScope()
	for _, clause := range e.Clauses {
		switch cl := clause.(type) {
		case *syntax.ForClause:
			if err := v.checkExpr(cl.X); err != nil {
				return err
			}
			if err := v.bindTargets(cl.Vars); err != nil {
				return err
			}
		case *syntax.IfClause:
			if err := v.checkExpr(cl.Cond); err != nil {
				return err
			}
		default:
			return errf(KindDisallowedConstruct, "unsupported comprehension clause: %T", clause)
		}
	}
	return v.checkExpr(e.Body)
}
