package pose

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Model is a loaded pretrained model. Serve is its fixed serving function:
// one image tensor in, named outputs back.
type Model interface {
	Serve(input ImageTensor) (map[string]Tensor, error)
	Close() error
}

// Opener materialises the model for a variant. It is called at most once
// per variant per successful load.
type Opener func(ctx context.Context, spec VariantSpec) (Model, error)

// ModelLoader memoises one Model per variant for the process lifetime.
type ModelLoader struct {
	open  Opener
	cells map[Variant]*modelCell
}

// modelCell is a lazily initialised slot. A failed open leaves it empty so
// the next caller retries.
type modelCell struct {
	mu    sync.Mutex
	model Model
}

// NewModelLoader creates a loader with an empty cell for every registered variant.
func NewModelLoader(open Opener) *ModelLoader {
	cells := make(map[Variant]*modelCell, len(registry))
	for v := range registry {
		cells[v] = &modelCell{}
	}
	return &ModelLoader{open: open, cells: cells}
}

// Load returns the cached model for v, opening it on first use. Concurrent
// first calls for the same variant block on one open.
func (l *ModelLoader) Load(ctx context.Context, v Variant) (Model, error) {
	spec, err := Lookup(v)
	if err != nil {
		return nil, err
	}
	cell := l.cells[v]

	cell.mu.Lock()
	defer cell.mu.Unlock()
	if cell.model != nil {
		return cell.model, nil
	}

	m, err := l.open(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", v, err)
	}
	cell.model = m
	return m, nil
}

// Loaded reports whether v is already in memory. It never triggers a load.
func (l *ModelLoader) Loaded(v Variant) bool {
	cell, ok := l.cells[v]
	if !ok {
		return false
	}
	cell.mu.Lock()
	defer cell.mu.Unlock()
	return cell.model != nil
}

// Close releases every loaded model.
func (l *ModelLoader) Close() error {
	var errs []error
	for v, cell := range l.cells {
		cell.mu.Lock()
		if cell.model != nil {
			if err := cell.model.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", v, err))
			}
			cell.model = nil
		}
		cell.mu.Unlock()
	}
	return errors.Join(errs...)
}
