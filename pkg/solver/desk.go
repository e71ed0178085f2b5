package solver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	ErrBusy        = errors.New("a request is already in flight")
	ErrEmptyPrompt = errors.New("empty prompt")
)

// Exchange is the prompt and the answer it produced.
type Exchange struct {
	Prompt   string
	Response string
}

type Solver interface {
	Solve(ctx context.Context, problem string) string
}

// Desk owns one Exchange and lets at most one request run against it.
type Desk struct {
	solver   Solver
	inFlight atomic.Bool

	mu       sync.Mutex
	exchange Exchange
}

func NewDesk(solver Solver) *Desk {
	return &Desk{solver: solver}
}

func (d *Desk) Busy() bool {
	return d.inFlight.Load()
}

func (d *Desk) Exchange() Exchange {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exchange
}

// Ask sends problem to the solver and blocks until the answer is stored.
// A second Ask while one is running returns ErrBusy without a request.
func (d *Desk) Ask(ctx context.Context, problem string) (Exchange, error) {
	if strings.TrimSpace(problem) == "" {
		return Exchange{}, ErrEmptyPrompt
	}
	if !d.inFlight.CompareAndSwap(false, true) {
		return Exchange{}, ErrBusy
	}
	defer d.inFlight.Store(false)

	d.mu.Lock()
	d.exchange = Exchange{Prompt: problem}
	d.mu.Unlock()

	answer := d.solver.Solve(ctx, problem)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.exchange.Response = answer
	return d.exchange, nil
}

func (d *Desk) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exchange = Exchange{}
}
