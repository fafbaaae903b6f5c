package execution

import (
	"github.com/flowsplit/flowsplit/common/util"
)

var logger = util.GetLoggerForModule("execution")
