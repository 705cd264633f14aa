package schemas

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNextStepDecode(t *testing.T) {
	src := `{
		"current_state": "need the reversed code",
		"plan": ["reverse the string", "report completion"],
		"task_completed": false,
		"function": {
			"tool": "compute_expr",
			"code": "'NcS9euQa'[::-1]",
			"description": "reverse the secret",
			"mode": "analytics"
		}
	}`
	var step NextStep
	if err := json.Unmarshal([]byte(src), &step); err != nil {
		t.Fatal(err)
	}
	want := NextStep{
		CurrentState:  "need the reversed code",
		Plan:          []string{"reverse the string", "report completion"},
		TaskCompleted: false,
		Function: &ComputeExpr{
			Tool:        "compute_expr",
			Code:        "'NcS9euQa'[::-1]",
			Description: "reverse the secret",
			Mode:        "analytics",
		},
	}
	if diff := cmp.Diff(want, step); diff != "" {
		t.Fatal(diff)
	}
}

func TestNextStepRoundTrip(t *testing.T) {
	step := NextStep{
		CurrentState:  "basket ready",
		Plan:          []string{"checkout"},
		TaskCompleted: false,
		Function:      &AddProductToBasket{SKU: "SKU-1", Quantity: 2},
	}
	data, err := json.Marshal(step)
	if err != nil {
		t.Fatal(err)
	}
	var decoded NextStep
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	got, ok := decoded.Function.(*AddProductToBasket)
	if !ok {
		t.Fatalf("got %T", decoded.Function)
	}
	if got.SKU != "SKU-1" || got.Quantity != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestNextStepUnknownTool(t *testing.T) {
	src := `{
		"current_state": "",
		"plan": ["x"],
		"task_completed": false,
		"function": {"tool": "rm_rf"}
	}`
	var step NextStep
	err := json.Unmarshal([]byte(src), &step)
	if err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Fatalf("got %v", err)
	}
}

func TestNextStepValidate(t *testing.T) {
	step := NextStep{
		Function: &ViewBasket{},
	}
	if err := step.Validate(); err == nil {
		t.Fatal("empty plan should not validate")
	}
	step.Plan = []string{"a", "b", "c", "d", "e", "f"}
	if err := step.Validate(); err == nil {
		t.Fatal("oversized plan should not validate")
	}
	step.Plan = step.Plan[:5]
	if err := step.Validate(); err != nil {
		t.Fatal(err)
	}
	step.Function = nil
	if err := step.Validate(); err == nil {
		t.Fatal("missing function should not validate")
	}
}

func TestWrap(t *testing.T) {
	ok := Wrap(ToolComputeExpr, "42", "")
	if !ok.OK || ok.Result != "42" || ok.Error != "" {
		t.Fatalf("got %+v", ok)
	}

	// an error discards any payload
	failed := Wrap(ToolComputeExpr, "ignored", "TypeMismatch: unknown binary op")
	if failed.OK || failed.Result != nil || failed.Error == "" {
		t.Fatalf("got %+v", failed)
	}

	rendered := failed.Render()
	if !strings.Contains(rendered, "TypeMismatch") {
		t.Fatalf("got %s", rendered)
	}
}
