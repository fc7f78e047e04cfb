package config

import (
	"testing"

	"github.com/creasty/defaults"
	qt "github.com/frankban/quicktest"
)

func TestValidateSessionSecret(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name   string
		env    string
		secret string
		ok     bool
	}{{
		name:   "dev keeps the default secret",
		env:    "dev",
		secret: DefaultSessionSecret,
		ok:     true,
	}, {
		name:   "prod with the default secret",
		env:    "prod",
		secret: DefaultSessionSecret,
	}, {
		name:   "prod with its own secret",
		env:    "prod",
		secret: "0f9c2d7e-rotating",
		ok:     true,
	}, {
		name:   "empty secret",
		env:    "dev",
		secret: "",
	}}

	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			conf := &GlobalConfig{}
			c.Assert(defaults.Set(conf), qt.IsNil)
			conf.Server.Env = test.env
			conf.Session.Secret = test.secret
			err := conf.Validate()
			if test.ok {
				c.Assert(err, qt.IsNil)
				return
			}
			c.Assert(err, qt.IsNotNil)
		})
	}
}

func TestDefaultSecretMatchesTag(t *testing.T) {
	c := qt.New(t)
	conf := &GlobalConfig{}
	c.Assert(defaults.Set(conf), qt.IsNil)
	c.Assert(conf.Session.Secret, qt.Equals, DefaultSessionSecret)
}
