//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	jetOutput          = "gen"
	sqliteFileLocation = "heatbracket.sqlite"
	bin                = "./bin/heatbracket"
)

const (
	jetTool  = "github.com/go-jet/jet/v2/cmd/jet@v2.9.0"
	lintTool = "github.com/golangci/golangci-lint/cmd/golangci-lint@v1.64.8"
)

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds the heatbracket binary
func Build() error {
	mg.Deps(goModDownload)
	return sh.Run("go", "build", "-o", bin, "./cmd/heatbracket")
}

// Test runs every package test
func Test() error {
	mg.Deps(goModDownload)
	return sh.RunV("go", "test", "-race", "./...")
}

// GenJet regenerates gen/ from a migrated database. Run any command of the
// binary first so that heatbracket.sqlite exists.
func GenJet() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "run", jetTool,
		"-source", "sqlite",
		"-dsn", sqliteFileLocation,
		"-path", jetOutput,
		"-ignore-tables", "schema_migrations",
	)
}

func Lint() error {
	return sh.Run("go", "run", lintTool, "run", "./...")
}
