package facts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"nxfacts/internal/domain"
	"nxfacts/internal/logger"
)

// Subset names
const (
	SubsetDefault    = "default"
	SubsetInterfaces = "interfaces"
	SubsetRouting    = "routing"
	SubsetConfig     = "config"

	subsetAll = "all"
)

// ErrUnknownSubset is returned when a gather_subset token names no subset
var ErrUnknownSubset = errors.New("unknown subset")

// DefaultGatherSubset skips the running configuration, which is large
var DefaultGatherSubset = []string{"!" + SubsetConfig}

// Subset fetches a fixed list of commands and turns their responses into a fragment
type Subset interface {
	Name() string
	Commands() []string
	Populate(run *Run, responses []any) (domain.Fragment, error)
}

var factSubsets = map[string]Subset{
	SubsetDefault:    defaultFacts{},
	SubsetInterfaces: interfaceFacts{},
	SubsetRouting:    routingFacts{},
	SubsetConfig:     configFacts{},
}

// ValidSubsets returns every subset name, sorted
func ValidSubsets() []string {
	names := make([]string, 0, len(factSubsets))
	for name := range factSubsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandsFor returns the commands a subset runs, or nil for an unknown name
func CommandsFor(name string) []string {
	sub, ok := factSubsets[name]
	if !ok {
		return nil
	}
	return sub.Commands()
}

// ResolveSubsets expands gather_subset tokens into the subsets to execute.
// "all" includes everything, "!name" excludes, "!all" excludes everything.
// No inclusions means all subsets; exclusions are applied afterwards and
// default is always added back. Tokens may also be comma separated.
func ResolveSubsets(requested []string) ([]string, error) {
	include := make(map[string]bool)
	exclude := make(map[string]bool)

	for _, raw := range requested {
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if token == subsetAll {
				for name := range factSubsets {
					include[name] = true
				}
				continue
			}

			excluded := false
			if strings.HasPrefix(token, "!") {
				token = token[1:]
				if token == subsetAll {
					for name := range factSubsets {
						exclude[name] = true
					}
					continue
				}
				excluded = true
			}

			if _, ok := factSubsets[token]; !ok {
				return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownSubset, token, strings.Join(ValidSubsets(), ", "))
			}
			if excluded {
				exclude[token] = true
			} else {
				include[token] = true
			}
		}
	}

	if len(include) == 0 {
		for name := range factSubsets {
			include[name] = true
		}
	}
	for name := range exclude {
		delete(include, name)
	}
	include[SubsetDefault] = true

	names := make([]string, 0, len(include))
	for name := range include {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Run is the state owned by one gather run and shared by its subsets
type Run struct {
	log      logger.Logger
	macs     *domain.MACSet
	warnings []string
}

// NewRun creates state for a single run
func NewRun(log logger.Logger) *Run {
	return &Run{log: log, macs: domain.NewMACSet()}
}

// Warnf records a user-visible warning and logs it
func (r *Run) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.log.Warn().Msg(msg)
	r.warnings = append(r.warnings, msg)
}

// Warnings returns warnings recorded so far
func (r *Run) Warnings() []string {
	return r.warnings
}

// MACs returns the run's MAC accumulator
func (r *Run) MACs() *domain.MACSet {
	return r.macs
}
