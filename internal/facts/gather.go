package facts

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"nxfacts/internal/domain"
	"nxfacts/internal/logger"
)

// ErrTransportUnavailable is returned when no subset could fetch its commands
var ErrTransportUnavailable = errors.New("device transport unavailable")

// Runner executes CLI commands on a device and returns one decoded response per
// command, in order. Implementations must be safe for concurrent use.
type Runner interface {
	RunCommands(ctx context.Context, commands []string) ([]any, error)
}

const defaultConcurrency = 4

// Gatherer resolves subsets, fetches their command output and merges the facts
type Gatherer struct {
	runner      Runner
	log         logger.Logger
	prefix      string
	concurrency int
}

// Option configures a Gatherer
type Option func(*Gatherer)

// WithPrefix sets the fact key prefix (default ansible_net_)
func WithPrefix(prefix string) Option {
	return func(g *Gatherer) {
		g.prefix = prefix
	}
}

// WithConcurrency bounds how many subsets fetch at once; 1 fetches sequentially
func WithConcurrency(n int) Option {
	return func(g *Gatherer) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// NewGatherer creates a Gatherer over runner
func NewGatherer(runner Runner, log logger.Logger, opts ...Option) *Gatherer {
	g := &Gatherer{
		runner:      runner,
		log:         log.WithComponent("facts"),
		prefix:      domain.DefaultFactPrefix,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the outcome of one gather run
type Result struct {
	Subsets  []string               `json:"gather_subset"`
	Facts    domain.FactMap         `json:"facts"`
	Warnings []string               `json:"warnings"`
	Failures []domain.SubsetFailure `json:"failures,omitempty"`
}

type fetchResult struct {
	responses []any
	err       error
}

// Gather runs the requested subsets. Unknown subset names fail before anything is
// sent to the device. A failing subset is recorded in Result.Failures and the others
// still run; only when every subset fails to fetch does Gather return an error.
func (g *Gatherer) Gather(ctx context.Context, requested []string) (*Result, error) {
	names, err := ResolveSubsets(requested)
	if err != nil {
		return nil, err
	}
	g.log.Debug().Strs("subsets", names).Msg("resolved gather subsets")

	fetched := g.fetchAll(ctx, names)

	run := NewRun(g.log)
	facts := domain.FactMap{}
	var failures []domain.SubsetFailure
	var dispatchErrs []error

	for i, name := range names {
		sub := factSubsets[name]
		if err := fetched[i].err; err != nil {
			failures = append(failures, domain.SubsetFailure{Subset: name, Stage: domain.StageDispatch, Err: err})
			dispatchErrs = append(dispatchErrs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		frag, err := populate(run, sub, fetched[i].responses)
		if err != nil {
			failures = append(failures, domain.SubsetFailure{Subset: name, Stage: domain.StagePopulate, Err: err})
			continue
		}
		facts.Merge(frag)
	}

	if len(dispatchErrs) == len(names) {
		return nil, fmt.Errorf("%w: %w", ErrTransportUnavailable, errors.Join(dispatchErrs...))
	}

	warnings := append([]string{}, run.Warnings()...)
	for _, f := range failures {
		g.log.Warn().Str("subset", f.Subset).Str("stage", f.Stage).Err(f.Err).Msg("subset failed")
		warnings = append(warnings, f.Error())
	}

	facts[domain.FactGatherSubset] = names

	return &Result{
		Subsets:  names,
		Facts:    facts.WithPrefix(g.prefix),
		Warnings: warnings,
		Failures: failures,
	}, nil
}

// fetchAll runs each subset's command list as one Runner call. Subsets do not depend
// on each other's output, so they are fetched concurrently.
func (g *Gatherer) fetchAll(ctx context.Context, names []string) []fetchResult {
	results := make([]fetchResult, len(names))
	p := pool.New().WithMaxGoroutines(g.concurrency)

	for i, name := range names {
		p.Go(func() {
			results[i] = g.fetch(ctx, factSubsets[name])
		})
	}
	p.Wait()

	return results
}

func (g *Gatherer) fetch(ctx context.Context, sub Subset) (res fetchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = fetchResult{err: fmt.Errorf("runner panic: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return fetchResult{err: err}
	}

	cmds := sub.Commands()
	responses, err := g.runner.RunCommands(ctx, cmds)
	if err != nil {
		return fetchResult{err: fmt.Errorf("run commands: %w", err)}
	}
	if len(responses) < len(cmds) {
		g.log.Debug().Str("subset", sub.Name()).Int("expected", len(cmds)).Int("got", len(responses)).
			Msg("runner returned fewer responses than commands")
		responses = append(responses, make([]any, len(cmds)-len(responses))...)
	}

	g.log.Debug().Str("subset", sub.Name()).Int("commands", len(cmds)).Msg("fetched subset commands")
	return fetchResult{responses: responses[:len(cmds)]}
}

// populate runs one subset's parser, turning a panic into that subset's error
func populate(run *Run, sub Subset, responses []any) (frag domain.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag, err = nil, fmt.Errorf("populate panic: %v", r)
		}
	}()
	return sub.Populate(run, responses)
}
