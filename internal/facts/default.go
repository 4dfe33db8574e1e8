package facts

import "nxfacts/internal/domain"

const cmdShowVersion = "show version | json"

// identity keys in show version output
var versionKeys = []struct {
	raw  string
	fact string
}{
	{"chassis_id", domain.FactHWID},
	{"host_name", domain.FactHostname},
	{"rr_sys_ver", domain.FactVersion},
}

type defaultFacts struct{}

func (defaultFacts) Name() string { return SubsetDefault }

func (defaultFacts) Commands() []string { return []string{cmdShowVersion} }

// Populate copies identity fields that are present and non-empty. Absent fields are
// left out rather than defaulted.
func (defaultFacts) Populate(run *Run, responses []any) (domain.Fragment, error) {
	data := Validate(run.log, at(responses, 0))

	frag := domain.Fragment{}
	for _, k := range versionKeys {
		if v, ok := data[k.raw]; ok && truthy(v) {
			frag[k.fact] = v
		}
	}
	return frag, nil
}
