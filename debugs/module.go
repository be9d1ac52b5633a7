package debugs

import (
	"github.com/reusee/bfr/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
