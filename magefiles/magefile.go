//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func Lint() error {
	return sh.RunV("golangci-lint", "run")
}

func Build() error {
	return sh.RunV("go", "build", "-o", "bin/schemaviz", ".")
}

func Update() error {
	if err := sh.RunV("go", "get", "-u", "-v"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy", "-v")
}

type Test mg.Namespace

func (Test) All() error {
	return sh.RunV("go", "test", "-v", "./...")
}

func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}
