package taskconfigs

import (
	"github.com/reusee/dscope"

	"taskbot/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
