package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotStarted           = errors.New("game has not started")
	ErrAlreadyStarted       = errors.New("game has already started")
	ErrGameOver             = errors.New("game is over")
)

// ConfigError reports the params that failed validation and why.
type ConfigError struct {
	Params GameParams
	Reason string
}

// [ConfigError] implements [error]
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidConfiguration, e.Params, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}
