package facts

import "nxfacts/internal/domain"

const cmdShowRunningConfig = "show running-config | json"

type configFacts struct{}

func (configFacts) Name() string { return SubsetConfig }

func (configFacts) Commands() []string { return []string{cmdShowRunningConfig} }

// Populate passes the decoded running configuration through untouched
func (configFacts) Populate(_ *Run, responses []any) (domain.Fragment, error) {
	return domain.Fragment{domain.FactConfig: at(responses, 0)}, nil
}
