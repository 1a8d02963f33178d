package main

import (
	"github.com/remexre/g1/internal/config"

	g1 "github.com/remexre/g1"
)

// Engine and Result alias the root facade's types so the subcommand
// files don't each need their own import of the root package.
type (
	Engine = g1.Engine
	Result = g1.Result
)

func openEngine(cfg config.Config) (*Engine, error) {
	return g1.Open(cfg)
}
