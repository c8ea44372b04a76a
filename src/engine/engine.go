// Package engine coordinates batch evaluation and chart assembly: it bounds
// the incoming sequence to a maximum batch size, evaluates every surviving
// element eagerly, and hands the evaluated list to the chart renderer and the
// metadata serializer.
//
// Dependency direction: engine -> sixsigma for evaluation, engine ->
// sigmachart for rendering. The HTTP layer sits above and only sees Result.
package engine

import (
	"errors"
	"fmt"

	"github.com/sigmaforge/SixSigmaCharter/src/sigmachart"
	"github.com/sigmaforge/SixSigmaCharter/src/sixsigma"
)

// DefaultMaxBatch bounds how many processes one request may render.
const DefaultMaxBatch = 5

// ErrEmptyBatch is returned when the render path receives no processes. The
// request layer is expected to reject empty input before it gets here.
var ErrEmptyBatch = errors.New("engine: empty batch")

// Config carries the fixed settings of an Engine. Zero values fall back to
// the package defaults.
type Config struct {
	MaxBatch int
	Single   sigmachart.Options // fidelity for one-row renders
	Multi    sigmachart.Options // fidelity for multi-row renders
}

// Engine evaluates and renders process batches. All fields are set at
// construction and never mutated, so an Engine is safe for concurrent use;
// every call works on its own buffers.
type Engine struct {
	maxBatch int
	single   sigmachart.Options
	multi    sigmachart.Options
}

// New builds an Engine, substituting defaults for unset config values.
func New(cfg Config) *Engine {
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = DefaultMaxBatch
	}
	if cfg.Single.RowWidth <= 0 {
		cfg.Single = sigmachart.SingleOptions()
	}
	if cfg.Multi.RowWidth <= 0 {
		cfg.Multi = sigmachart.BatchOptions()
	}
	return &Engine{maxBatch: cfg.MaxBatch, single: cfg.Single, multi: cfg.Multi}
}

// MaxBatch reports the configured batch bound.
func (e *Engine) MaxBatch() int { return e.maxBatch }

// Result pairs the composite PNG with the ordered per-process metadata.
type Result struct {
	PNG     []byte
	Records []sixsigma.Record
}

// Evaluate truncates specs to the first MaxBatch elements (input order
// preserved, later elements have no effect) and evaluates each survivor
// eagerly. The first validation failure fails the whole batch, wrapped with
// the element index so the caller can surface the failing field.
func (e *Engine) Evaluate(specs []sixsigma.Process) ([]sixsigma.EvaluatedProcess, error) {
	if len(specs) > e.maxBatch {
		specs = specs[:e.maxBatch]
	}
	out := make([]sixsigma.EvaluatedProcess, 0, len(specs))
	for i, p := range specs {
		ep, err := sixsigma.Evaluate(p)
		if err != nil {
			return nil, fmt.Errorf("process %d: %w", i, err)
		}
		out = append(out, ep)
	}
	return out, nil
}

// Run evaluates, renders and serializes one batch. A single-process batch
// uses the high-fidelity chart setting, multi-row batches the cheaper one.
func (e *Engine) Run(specs []sixsigma.Process) (*Result, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyBatch
	}
	batch, err := e.Evaluate(specs)
	if err != nil {
		return nil, err
	}
	opts := e.multi
	if len(batch) == 1 {
		opts = e.single
	}
	img, err := sigmachart.Render(batch, opts)
	if err != nil {
		return nil, fmt.Errorf("render batch: %w", err)
	}
	return &Result{PNG: img, Records: sixsigma.Records(batch)}, nil
}
