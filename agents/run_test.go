package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/reusee/dscope"

	"taskbot/modes"
	"taskbot/schemas"
)

func lastToolMessage(transcript []Message) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == RoleTool {
			return transcript[i].Content
		}
	}
	return ""
}

func step(function schemas.ToolRequest, completed bool) *schemas.NextStep {
	return &schemas.NextStep{
		CurrentState:  "working",
		Plan:          []string{"next"},
		TaskCompleted: completed,
		Function:      function,
	}
}

func TestRunTaskComputeChain(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Call(func(
		runTask RunTask,
	) {
		calls := 0
		generator := GeneratorFunc(func(ctx context.Context, transcript []Message) (*schemas.NextStep, Usage, error) {
			calls++
			usage := Usage{InputTokens: 10, OutputTokens: 5}
			switch calls {
			case 1:
				if transcript[0].Role != RoleSystem || transcript[1].Role != RoleUser {
					t.Fatalf("got %v", transcript)
				}
				return step(&schemas.ComputeExpr{
					Code:        `'NcS9euQa'[::-1]`,
					Description: "reverse the secret",
				}, false), usage, nil
			case 2:
				if !strings.Contains(lastToolMessage(transcript), "aQue9ScN") {
					t.Fatalf("got %s", lastToolMessage(transcript))
				}
				return step(&schemas.ComputeExpr{
					Code:        `last_result.upper()`,
					Description: "uppercase it",
					Mode:        "validation",
				}, false), usage, nil
			default:
				if !strings.Contains(lastToolMessage(transcript), "AQUE9SCN") {
					t.Fatalf("got %s", lastToolMessage(transcript))
				}
				return step(&schemas.ReportCompletion{
					CompletedSteps: []string{"reversed", "uppercased"},
					Code:           CodeCompleted,
				}, true), usage, nil
			}
		})
		dispatcher := DispatcherFunc(func(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult {
			t.Fatalf("dispatched %s", request.ToolName())
			return schemas.ToolResult{}
		})

		report, err := runTask(context.Background(), Task{ID: "t1", Text: "reverse NcS9euQa"}, generator, dispatcher)
		if err != nil {
			t.Fatal(err)
		}
		if !report.Completed || report.Code != CodeCompleted {
			t.Fatalf("got %+v", report)
		}
		if report.Steps != 3 {
			t.Fatalf("got %d steps", report.Steps)
		}
		if report.RunID == "" {
			t.Fatal("no run id")
		}
		if report.Usage.InputTokens != 30 || report.Usage.OutputTokens != 15 {
			t.Fatalf("got %+v", report.Usage)
		}
	})
}

func TestRunTaskHintOnNameError(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Call(func(
		runTask RunTask,
	) {
		calls := 0
		generator := GeneratorFunc(func(ctx context.Context, transcript []Message) (*schemas.NextStep, Usage, error) {
			calls++
			switch calls {
			case 1:
				return step(&schemas.ComputeExpr{
					Code:        `last_result + '!'`,
					Description: "use the previous value",
				}, false), Usage{}, nil
			default:
				message := lastToolMessage(transcript)
				if !strings.Contains(message, "NameError") {
					t.Fatalf("got %s", message)
				}
				if !strings.Contains(message, "no prior result available yet") {
					t.Fatalf("got %s", message)
				}
				return step(&schemas.ReportCompletion{
					CompletedSteps: []string{"gave up"},
					Code:           CodeFailed,
				}, false), Usage{}, nil
			}
		})
		dispatcher := DispatcherFunc(func(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult {
			return schemas.Wrap(request.ToolName(), nil, "unexpected")
		})

		report, err := runTask(context.Background(), Task{ID: "t2", Text: "impossible"}, generator, dispatcher)
		if err != nil {
			t.Fatal(err)
		}
		if report.Completed || report.Code != CodeFailed {
			t.Fatalf("got %+v", report)
		}
	})
}

func TestRunTaskStepBudget(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Call(func(
		runTask RunTask,
	) {
		dispatched := 0
		generator := GeneratorFunc(func(ctx context.Context, transcript []Message) (*schemas.NextStep, Usage, error) {
			return step(&schemas.ViewBasket{}, false), Usage{}, nil
		})
		dispatcher := DispatcherFunc(func(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult {
			dispatched++
			return schemas.Wrap(request.ToolName(), map[string]any{"items": []any{}}, "")
		})

		report, err := runTask(context.Background(), Task{ID: "t3", Text: "loop forever"}, generator, dispatcher)
		if err != nil {
			t.Fatal(err)
		}
		if report.Completed || report.Code != CodeAbandoned {
			t.Fatalf("got %+v", report)
		}
		if report.Steps == 0 || dispatched != report.Steps {
			t.Fatalf("steps %d, dispatched %d", report.Steps, dispatched)
		}
	})
}

func TestRunAll(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Call(func(
		runAll RunAll,
	) {
		generator := GeneratorFunc(func(ctx context.Context, transcript []Message) (*schemas.NextStep, Usage, error) {
			return step(&schemas.ReportCompletion{
				CompletedSteps: []string{"done"},
				Code:           CodeCompleted,
			}, true), Usage{}, nil
		})
		dispatcher := DispatcherFunc(func(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult {
			return schemas.Wrap(request.ToolName(), nil, "")
		})

		tasks := []Task{
			{ID: "a", Text: "a"},
			{ID: "b", Text: "b"},
			{ID: "c", Text: "c"},
		}
		reports, err := runAll(context.Background(), tasks, generator, dispatcher, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(reports) != 3 {
			t.Fatalf("got %d reports", len(reports))
		}
		for i, report := range reports {
			if report.TaskID != tasks[i].ID {
				t.Fatalf("got %+v", report)
			}
			if !report.Completed {
				t.Fatalf("got %+v", report)
			}
		}
	})
}
