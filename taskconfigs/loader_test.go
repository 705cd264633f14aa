package taskconfigs

import (
	"testing"
	"time"

	"github.com/reusee/dscope"

	"taskbot/modes"
	"taskbot/pyexpr"
)

func TestDefaults(t *testing.T) {
	dscope.New(new(Module), modes.ForTest(t)).Call(func(
		limits pyexpr.Limits,
		maxSteps MaxAgentSteps,
	) {
		if limits.TimeBudget < time.Millisecond {
			t.Fatalf("got %v", limits.TimeBudget)
		}
		if limits.MaxSteps == 0 {
			t.Fatal()
		}
		if limits.MaxOutput <= limits.ValidationMaxOutput {
			t.Fatalf("got %d, %d", limits.MaxOutput, limits.ValidationMaxOutput)
		}
		if maxSteps <= 0 {
			t.Fatalf("got %d", maxSteps)
		}
	})
}
