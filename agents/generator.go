package agents

import (
	"context"

	"taskbot/schemas"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one transcript entry. Assistant entries hold the decision JSON,
// tool entries hold rendered ToolResult envelopes.
type Message struct {
	Role    Role
	Content string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Generator turns the conversation state into the next decision. The hosted
// model client implements this; tests and the offline demo script it.
type Generator interface {
	Decide(ctx context.Context, transcript []Message) (*schemas.NextStep, Usage, error)
}

type GeneratorFunc func(ctx context.Context, transcript []Message) (*schemas.NextStep, Usage, error)

func (f GeneratorFunc) Decide(ctx context.Context, transcript []Message) (*schemas.NextStep, Usage, error) {
	return f(ctx, transcript)
}

// Dispatcher executes the store tools. The platform client implements this;
// compute and parse requests never reach it.
type Dispatcher interface {
	Dispatch(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult
}

type DispatcherFunc func(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult

func (f DispatcherFunc) Dispatch(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult {
	return f(ctx, request)
}
