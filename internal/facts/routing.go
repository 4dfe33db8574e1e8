package facts

import (
	"nxfacts/internal/domain"
)

const (
	cmdShowIPRoute   = "show ip route vrf all | json"
	cmdShowIPv6Route = "show ipv6 route vrf all | json"
)

var routeRules = []Rule{{Key: "TABLE_vrf", Kind: KindMap, Default: map[string]any{}}}

type routingFacts struct{}

func (routingFacts) Name() string { return SubsetRouting }

func (routingFacts) Commands() []string {
	return []string{cmdShowIPRoute, cmdShowIPv6Route}
}

// Populate parses the IPv4 and IPv6 route tables independently. A malformed VRF row is
// skipped with a warning; the remaining VRFs and the other family are still parsed.
func (routingFacts) Populate(run *Run, responses []any) (domain.Fragment, error) {
	frag := domain.Fragment{}
	for i, family := range []string{domain.FactIPv4, domain.FactIPv6} {
		frag[family] = parseRouteTable(run, family, at(responses, i))
	}
	return frag, nil
}

// parseRouteTable walks TABLE_vrf > TABLE_addrf > TABLE_prefix > TABLE_path and emits one
// route per path with a next hop.
func parseRouteTable(run *Run, family string, resp any) []domain.Route {
	data := Validate(run.log, resp, routeRules...)
	routes := make([]domain.Route, 0)

	for i, vrfRow := range rows(lookup(data, "TABLE_vrf", "ROW_vrf")) {
		vrf, ok := str(vrfRow, "vrf-name-out")
		if !ok {
			run.Warnf("routing: %s: vrf row %d without vrf-name-out, skipping", family, i)
			continue
		}

		addrf := lookup(vrfRow, "TABLE_addrf", "ROW_addrf")
		if addrf == nil {
			run.Warnf("routing: %s: vrf %s: missing TABLE_addrf.ROW_addrf, skipping", family, vrf)
			continue
		}

		for _, afRow := range rows(addrf) {
			for _, prefixRow := range rows(lookup(afRow, "TABLE_prefix", "ROW_prefix")) {
				prefix, ok := str(prefixRow, "ipprefix")
				if !ok || prefix == "" {
					run.log.Debug().Str("vrf", vrf).Msg("skipping prefix row without ipprefix")
					continue
				}
				for _, path := range rows(lookup(prefixRow, "TABLE_path", "ROW_path")) {
					nexthop, ok := str(path, "ipnexthop")
					if !ok || nexthop == "" {
						continue
					}
					routes = append(routes, domain.Route{VRF: vrf, To: prefix, From: nexthop})
				}
			}
		}
	}

	return routes
}
