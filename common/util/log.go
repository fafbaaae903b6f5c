package util

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/flowsplit/flowsplit/common"
)

func init() {
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)

	if viper.GetBool(common.CfgLogDebug) {
		log.SetLevel(log.DebugLevel)
	}
}

// InitLog applies the logging configuration once viper has been populated
// from the config file, since package init runs before the file is read.
func InitLog() {
	if viper.GetBool(common.CfgLogDebug) {
		log.SetLevel(log.DebugLevel)
	}
}

// GetLoggerForModule returns a logger entry tagged with the module name. The
// level is taken from the log.levels config key, a comma separated list of
// module:level pairs where the module "*" sets the default, e.g.
// "*:info,ledger:debug".
func GetLoggerForModule(module string) *log.Entry {
	entry := log.WithFields(log.Fields{"prefix": module})

	levels := viper.GetString(common.CfgLogLevels)
	if levels == "" {
		return entry
	}

	var levelStr string
	for _, pair := range strings.Split(levels, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			continue
		}
		if parts[0] == module {
			levelStr = parts[1]
			break
		}
		if parts[0] == "*" {
			levelStr = parts[1]
		}
	}
	if levelStr == "" {
		return entry
	}

	level, err := log.ParseLevel(levelStr)
	if err != nil {
		entry.Warnf("Unknown log level %q for module %v", levelStr, module)
		return entry
	}

	logger := log.New()
	logger.Formatter = log.StandardLogger().Formatter
	logger.SetLevel(level)
	return logger.WithFields(log.Fields{"prefix": module})
}
