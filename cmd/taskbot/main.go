package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"

	"taskbot/agents"
	"taskbot/cmds"
	"taskbot/logs"
	"taskbot/modes"
	"taskbot/vars"
)

var taskFlag = cmds.Var[string]("task")

func main() {
	cmds.Execute(os.Args[1:])

	dscope.New(
		new(agents.Module),
		modes.ForProduction(),
	).Call(func(
		runTask agents.RunTask,
		logger logs.Logger,
	) {
		text := vars.DerefOrZero(taskFlag)
		if text == "" {
			text = demoTaskText
		}

		report, err := runTask(
			context.Background(),
			agents.Task{
				ID:   "demo",
				Text: text,
			},
			newDemoGenerator(),
			newDemoStore(),
		)
		if err != nil {
			logger.Error("task failed", "error", err)
			os.Exit(1)
		}

		fmt.Printf("task %s: %s in %d steps\n",
			report.TaskID, report.Code, report.Steps)
		for _, step := range report.CompletedSteps {
			fmt.Printf("  - %s\n", step)
		}
		if !report.Completed {
			os.Exit(1)
		}
	})
}
