// Package views implements the derived view engine: pure transformations of
// (raw collection, filter spec) into filtered, sorted, annotated views.
//
// Every derivation follows the same pipeline:
//
//  1. Start from the raw sequence in backend order - the stable baseline.
//  2. Apply the free-text query (case-insensitive substring over the
//     domain's text fields).
//  3. Apply field filters; each is an independent AND-combined predicate and
//     zero-value filter fields are no-ops.
//  4. Stable-sort when a sort key is set, locale-aware for text and
//     chronological for dates; without a key, baseline order is preserved.
//  5. Annotate retained items with computed fields.
//
// Derivations are pure functions of their inputs: same collection, filters
// and clock in, byte-identical view out. Nothing is cached and nothing is
// written back, so results are safe to memoize and recompute on any input
// change. The one tolerated side effect is a logged warning for malformed
// loan dates, which degrade the affected computed field instead of failing
// the derivation.
package views

import (
	"log/slog"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Engine derives annotated views. It holds only a collator and a logger,
// never data; all state flows through the function arguments.
type Engine struct {
	collator *collate.Collator
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithCollator replaces the locale collator used for text sort keys.
func WithCollator(c *collate.Collator) EngineOption {
	return func(e *Engine) { e.collator = c }
}

// NewEngine creates a derivation engine with an undetermined-locale collator.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		collator: collate.New(language.Und),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// compareText is the locale-aware comparison for text sort keys.
func (e *Engine) compareText(a, b string) int {
	return e.collator.CompareString(a, b)
}
