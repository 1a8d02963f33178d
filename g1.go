// Package g1 is the root facade: it wires the lexer/parser, lowering,
// validation, and solver packages together against either a durable
// SQLite-backed store or a bare in-memory fact source.
package g1

import (
	"context"

	"github.com/remexre/g1/internal/config"
	"github.com/remexre/g1/internal/embed"
	"github.com/remexre/g1/internal/facts"
	"github.com/remexre/g1/internal/ir"
	"github.com/remexre/g1/internal/lang"
	"github.com/remexre/g1/internal/solver"
	"github.com/remexre/g1/internal/storage"
	"github.com/remexre/g1/internal/validate"
)

type (
	Answer = solver.Answer
	Result = solver.Result
)

// Engine bundles a durable store and blob directory with the default
// answer limit used by queries that don't specify their own.
type Engine struct {
	store        *storage.Store
	blobs        *storage.BlobDir
	defaultLimit int
}

// Open opens (creating and migrating if necessary) a durable engine
// backed by cfg's database path and blob directory.
func Open(cfg config.Config) (*Engine, error) {
	store, err := storage.Open(cfg.DBPath, nil)
	if err != nil {
		return nil, err
	}
	blobs, err := storage.NewBlobDir(cfg.BlobDir)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &Engine{store: store, blobs: blobs, defaultLimit: cfg.DefaultLimit}, nil
}

// Close releases the engine's durable store.
func (e *Engine) Close() error { return e.store.Close() }

// Store exposes the engine's durable store for direct mutation (loading
// atoms, edges, names, tags, and blobs outside of a query).
func (e *Engine) Store() *storage.Store { return e.store }

// Blobs exposes the engine's content-addressed blob directory.
func (e *Engine) Blobs() *storage.BlobDir { return e.blobs }

// Compile parses, lowers, and validates program without running it.
func Compile(program string) (*ir.Query, error) {
	q, err := lang.Parse(program)
	if err != nil {
		return nil, err
	}
	nq, err := ir.Lower(q)
	if err != nil {
		return nil, err
	}
	if err := validate.Validate(nq); err != nil {
		return nil, err
	}
	return nq, nil
}

// Embed builds a query from a template and a set of metavariable
// bindings, reusing the same lowering and validation pipeline as Compile.
func Embed(src string, bindings map[string]string) (*ir.Query, error) {
	return embed.Build(src, bindings)
}

// Query compiles and solves program against a fresh snapshot of the
// engine's store. A limit of 0 uses the engine's configured default.
func (e *Engine) Query(ctx context.Context, program string, limit int) (*Result, error) {
	nq, err := Compile(program)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = e.defaultLimit
	}
	src, closeSnap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSnap()
	return solver.Solve(ctx, nq, src, limit)
}

// QueryMemory compiles and solves program against an arbitrary fact
// source, for tests and embedded use without a durable store.
func QueryMemory(ctx context.Context, program string, src facts.Source, limit int) (*Result, error) {
	nq, err := Compile(program)
	if err != nil {
		return nil, err
	}
	return solver.Solve(ctx, nq, src, limit)
}
