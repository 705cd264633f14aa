package taskconfigs

import (
	"taskbot/cmds"
	"taskbot/configs"
	"taskbot/vars"
)

// MaxAgentSteps caps the number of decision rounds per task.
type MaxAgentSteps int

var maxAgentStepsFlag = cmds.Var[int]("-max-agent-steps")

func (Module) MaxAgentSteps(
	loader configs.Loader,
) MaxAgentSteps {
	n := vars.FirstNonZero(
		*maxAgentStepsFlag,
		configs.First[int](loader, "agent.max_steps"),
	)
	if n <= 0 {
		n = 20
	}
	return MaxAgentSteps(n)
}
