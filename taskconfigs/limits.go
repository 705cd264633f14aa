package taskconfigs

import (
	"time"

	"taskbot/cmds"
	"taskbot/configs"
	"taskbot/pyexpr"
	"taskbot/vars"
)

var (
	timeBudgetFlag = cmds.Var[int]("-time-budget-ms")
	maxStepsFlag   = cmds.Var[int]("-eval-max-steps")
	maxOutputFlag  = cmds.Var[int]("-max-output")
	noAssignFlag   = cmds.Switch("-no-assign")
)

func (Module) EvalLimits(
	loader configs.Loader,
) pyexpr.Limits {
	limits := pyexpr.DefaultLimits()

	if ms := vars.FirstNonZero(
		*timeBudgetFlag,
		configs.First[int](loader, "eval.time_budget_ms"),
	); ms > 0 {
		limits.TimeBudget = time.Duration(ms) * time.Millisecond
	}

	if n := vars.FirstNonZero(
		*maxStepsFlag,
		configs.First[int](loader, "eval.max_steps"),
	); n > 0 {
		limits.MaxSteps = uint64(n)
	}

	if n := vars.FirstNonZero(
		*maxOutputFlag,
		configs.First[int](loader, "eval.max_output"),
	); n > 0 {
		limits.MaxOutput = n
	}

	if n := configs.First[int](loader, "eval.validation_max_output"); n > 0 {
		limits.ValidationMaxOutput = n
	}

	var allow bool
	if err := loader.AssignFirst("eval.allow_assign", &allow); err == nil {
		limits.AllowAssign = allow
	}
	if *noAssignFlag {
		limits.AllowAssign = false
	}

	return limits
}
