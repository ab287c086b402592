// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks is the handbook's WAFFLE lifecycle. app.Run calls them top to
// bottom and Shutdown once the server has drained.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "stratahandbook",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig, // domain, admin list, timezone, limits
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema, // validators, indexes, catalog seed
	Startup:        Startup,      // templates, timeouts, cleanup jobs
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
