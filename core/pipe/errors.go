// core/pipe/errors.go
package pipe

import (
	"errors"
	"fmt"
)

// ErrBrokenTray signals an upstream contract violation: a stage received
// a tray without the record slot it requires. Fatal for the run.
var ErrBrokenTray = errors.New("tray missing input record")

// ConfigError reports an invalid stage configuration. It is produced at
// option parsing or stage construction, never mid-stream.
type ConfigError struct {
	Stage string
	Msg   string
}

func (e *ConfigError) Error() string { return e.Stage + ": " + e.Msg }

// Configf builds a ConfigError for stage.
func Configf(stage, format string, a ...any) error {
	return &ConfigError{Stage: stage, Msg: fmt.Sprintf(format, a...)}
}
