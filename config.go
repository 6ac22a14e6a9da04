package main

import (
	"os"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/datascribe/schemaviz/render"
)

const defaultOutputDir = "out"

type FileConfig struct {
	// Directory derived artifact names are written into.
	Output string        `yaml:"output"`
	Render render.Config `yaml:"render"`
}

type AppConfig struct {
	Output string
	Render render.Config
}

func DefaultConfig() *AppConfig {
	return &AppConfig{Output: defaultOutputDir}
}

func (fc FileConfig) Build() (*AppConfig, error) {
	if err := fc.Render.Validate(); err != nil {
		return nil, xerrors.Errorf("validate render config: %w", err)
	}

	out := fc.Output
	if out == "" {
		out = defaultOutputDir
	}
	return &AppConfig{
		Output: out,
		Render: fc.Render,
	}, nil
}

func ReadConfig(confPath string) (*AppConfig, error) {
	var fc FileConfig
	file, err := os.ReadFile(confPath)
	if err != nil {
		return nil, xerrors.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &fc); err != nil {
		return nil, xerrors.Errorf("parse config: %w", err)
	}

	c, err := fc.Build()
	if err != nil {
		return nil, xerrors.Errorf("process config data: %w", err)
	}
	return c, nil
}
