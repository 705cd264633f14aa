package agents

type Task struct {
	ID   string
	Text string
}

const (
	CodeCompleted = "completed"
	CodeFailed    = "failed"
	CodeAbandoned = "abandoned"
)

type Report struct {
	TaskID         string
	RunID          string
	Steps          int
	Completed      bool
	Code           string
	CompletedSteps []string
	Usage          Usage
}
