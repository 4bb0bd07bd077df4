package config

import (
	"io"
	"os"
)

const (
	ShowSelector = "show-config"
	InitSelector = "init-config"
	forceFlag    = "force"
)

type ConfigCommandFactory struct {
	out io.Writer
}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{out: os.Stdout}
}

// Show returns the factory for --show-config.
func (c *ConfigCommandFactory) Show() *ShowFactory {
	return &ShowFactory{out: c.out}
}

// Init returns the factory for --init-config.
func (c *ConfigCommandFactory) Init() *InitFactory {
	return &InitFactory{out: c.out}
}
