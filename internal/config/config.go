package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
)

type GlobalConfig struct {
	Server    Server    `mapstructure:",squash"`
	LabAPI    LabAPI    `mapstructure:",squash"`
	Redis     Redis     `mapstructure:",squash"`
	Session   Session   `mapstructure:",squash"`
	Directory Directory `mapstructure:",squash"`
	Intake    Intake    `mapstructure:",squash"`
	Log       Log       `mapstructure:",squash"`
	Trace     Trace     `mapstructure:",squash"`
}

// DefaultSessionSecret signs cookies when SESSION_SECRET is unset. Only the
// dev environment may run with it.
const DefaultSessionSecret = "labinv-dev-secret"

var config = &GlobalConfig{}

func init() {
	if err := defaults.Set(config); err != nil {
		fmt.Printf("set default err: %+v", err)
		os.Exit(1)
	}
}

func Global() *GlobalConfig {
	return config
}

// Validate rejects settings that must not reach a shared deployment.
func (c *GlobalConfig) Validate() error {
	if c.Server.Env != "dev" && c.Session.Secret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be set outside the dev environment")
	}
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET is empty")
	}
	return nil
}
