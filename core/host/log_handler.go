package host

import (
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/logging/handler"
	"github.com/mogud/snowdi/core/logging/handler/console"
	"github.com/mogud/snowdi/core/logging/slog"
)

// NewLogHandler builds the process log pipeline from "Log:Console" and binds it
// to the global logger. More handlers can be added to the returned handler.
func NewLogHandler(cfg configuration.IConfiguration, formatters *logging.LogFormatterContainer) *handler.CompoundHandler {
	ch := console.NewHandler()
	ch.Construct(cfg, "Log:Console", formatters)

	compound := handler.NewCompoundHandler(ch)
	slog.BindGlobalHandler(compound)
	return compound
}
