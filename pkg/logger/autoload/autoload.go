// Package autoload configures the global logger from LOG_* environment
// variables as an import side effect.
package autoload

import (
	configx "github.com/shristirwt/ten-days-of-voice-agents-2025/pkg/config"
	logx "github.com/shristirwt/ten-days-of-voice-agents-2025/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
