package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"taskbot/dettools"
	"taskbot/logs"
	"taskbot/procs"
	"taskbot/pyexpr"
	"taskbot/schemas"
	"taskbot/taskconfigs"
)

type RunTask func(
	ctx context.Context,
	task Task,
	generator Generator,
	dispatcher Dispatcher,
) (*Report, error)

func (Module) RunTask(
	limits pyexpr.Limits,
	maxSteps taskconfigs.MaxAgentSteps,
	logger logs.Logger,
	newSpan logs.NewSpan,
) RunTask {
	return func(
		ctx context.Context,
		task Task,
		generator Generator,
		dispatcher Dispatcher,
	) (*Report, error) {

		ctx, _ = newSpan(ctx, "")

		report := &Report{
			TaskID: task.ID,
			RunID:  uuid.NewString(),
		}
		logger.InfoContext(ctx, "task start",
			"task", task.ID,
			"run", report.RunID,
		)

		loop := &taskLoop{
			generator:  generator,
			dispatcher: dispatcher,
			limits:     limits,
			maxSteps:   int(maxSteps),
			logger:     logger,
			report:     report,
			// one fresh context per task, never shared
			ec: pyexpr.Context{},
			transcript: []Message{
				{Role: RoleSystem, Content: systemPrompt},
				{Role: RoleUser, Content: task.Text},
			},
		}

		var proc procs.Proc[context.Context] = procs.Procs[context.Context]{
			loop,
			procFunc(func(ctx context.Context) (procs.Proc[context.Context], error) {
				logger.InfoContext(ctx, "task end",
					"task", task.ID,
					"steps", report.Steps,
					"code", report.Code,
				)
				return nil, nil
			}),
		}
		for proc != nil {
			next, err := proc.Run(ctx)
			if err != nil {
				return report, err
			}
			proc = next
		}

		return report, nil
	}
}

type procFunc func(ctx context.Context) (procs.Proc[context.Context], error)

func (f procFunc) Run(ctx context.Context) (procs.Proc[context.Context], error) {
	return f(ctx)
}

// taskLoop is the per-task step machine. Each Run is one decision round;
// returning nil ends the task.
type taskLoop struct {
	generator  Generator
	dispatcher Dispatcher
	limits     pyexpr.Limits
	maxSteps   int
	logger     logs.Logger
	report     *Report
	ec         pyexpr.Context
	transcript []Message
}

var _ procs.Proc[context.Context] = new(taskLoop)

func (l *taskLoop) Run(ctx context.Context) (procs.Proc[context.Context], error) {
	if l.report.Steps >= l.maxSteps {
		l.logger.WarnContext(ctx, "step budget exhausted",
			"steps", l.report.Steps,
		)
		l.report.Code = CodeAbandoned
		return nil, nil
	}

	decision, usage, err := l.generator.Decide(ctx, l.transcript)
	if err != nil {
		return nil, logs.WrapSpan(ctx, wrap(err))
	}
	l.report.Steps++
	l.report.Usage.Add(usage)
	if err := decision.Validate(); err != nil {
		return nil, wrap(err)
	}

	l.logger.InfoContext(ctx, "decision",
		"step", l.report.Steps,
		"tool", decision.Function.ToolName(),
		"state", decision.CurrentState,
	)

	if content, err := json.Marshal(decision); err == nil {
		l.transcript = append(l.transcript, Message{
			Role:    RoleAssistant,
			Content: string(content),
		})
	}

	result := l.dispatch(ctx, decision.Function)
	l.transcript = append(l.transcript, Message{
		Role:    RoleTool,
		Content: result.Render(),
	})

	if completion, ok := decision.Function.(*schemas.ReportCompletion); ok {
		l.report.Code = completion.Code
		l.report.CompletedSteps = completion.CompletedSteps
		l.report.Completed = decision.TaskCompleted && completion.Code == CodeCompleted
		return nil, nil
	}

	return l, nil
}

func (l *taskLoop) dispatch(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult {
	switch request := request.(type) {

	case *schemas.ComputeExpr:
		return l.compute(ctx, request)

	case *schemas.ParseStructured:
		result := dettools.ParseStructured(
			request.Data,
			request.Format,
			request.Delimiter,
			request.ColumnNames,
			request.Required,
		)
		return schemas.Wrap(schemas.ToolParseStructured, result, "")

	case *schemas.ReportCompletion:
		return schemas.Wrap(schemas.ToolReportCompletion, map[string]any{
			"status": request.Code,
		}, "")

	default:
		return l.dispatcher.Dispatch(ctx, request)
	}
}

func (l *taskLoop) compute(ctx context.Context, request *schemas.ComputeExpr) schemas.ToolResult {
	mode := pyexpr.Mode(request.Mode)
	if mode != pyexpr.ModeValidation {
		mode = pyexpr.ModeAnalytics
	}
	l.logger.InfoContext(ctx, "compute",
		"description", request.Description,
		"mode", mode,
		"intent", request.Intent,
	)

	result := pyexpr.Evaluate(ctx, request.Code, l.ec, mode, l.limits)
	if result.OK {
		return schemas.Wrap(schemas.ToolComputeExpr, result.Value, "")
	}

	message := fmt.Sprintf("%s: %s", result.Kind, result.Err)
	if hint := hintFor(result); hint != "" {
		message += ". " + hint
	}
	return schemas.Wrap(schemas.ToolComputeExpr, nil, message)
}
