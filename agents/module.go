package agents

import (
	"github.com/reusee/dscope"

	"taskbot/logs"
	"taskbot/taskconfigs"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs taskconfigs.Module
}
