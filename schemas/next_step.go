package schemas

import (
	"encoding/json"
	"fmt"
)

// NextStep is one model decision: a state summary, a short plan, a
// completion flag, and exactly one tool request selected by its tool tag.
type NextStep struct {
	CurrentState  string
	Plan          []string
	TaskCompleted bool
	Function      ToolRequest
}

type nextStepJSON struct {
	CurrentState  string          `json:"current_state"`
	Plan          []string        `json:"plan"`
	TaskCompleted bool            `json:"task_completed"`
	Function      json.RawMessage `json:"function"`
}

func (n *NextStep) UnmarshalJSON(data []byte) error {
	var raw nextStepJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode next step: %w", err)
	}
	if len(raw.Function) == 0 {
		return fmt.Errorf("next step has no function")
	}
	function, err := decodeToolRequest(raw.Function)
	if err != nil {
		return err
	}
	n.CurrentState = raw.CurrentState
	n.Plan = raw.Plan
	n.TaskCompleted = raw.TaskCompleted
	n.Function = function
	return n.Validate()
}

func (n NextStep) MarshalJSON() ([]byte, error) {
	function, err := json.Marshal(n.Function)
	if err != nil {
		return nil, err
	}
	// the discriminator must be present even when the request struct was
	// built in code with a zero Tool field
	var fields map[string]any
	if err := json.Unmarshal(function, &fields); err != nil {
		return nil, err
	}
	if tool, _ := fields["tool"].(string); tool == "" {
		fields["tool"] = n.Function.ToolName()
		if function, err = json.Marshal(fields); err != nil {
			return nil, err
		}
	}
	return json.Marshal(nextStepJSON{
		CurrentState:  n.CurrentState,
		Plan:          n.Plan,
		TaskCompleted: n.TaskCompleted,
		Function:      function,
	})
}

func (n NextStep) Validate() error {
	if len(n.Plan) < 1 || len(n.Plan) > 5 {
		return fmt.Errorf("plan must have 1 to 5 steps, got %d", len(n.Plan))
	}
	if n.Function == nil {
		return fmt.Errorf("next step has no function")
	}
	return nil
}
