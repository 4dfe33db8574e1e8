package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nxfacts/internal/domain"
)

func TestRoutingFacts_Fixture(t *testing.T) {
	sub := routingFacts{}
	run := newTestRun()

	frag, err := sub.Populate(run, fixtureResponses(t, sub.Commands()))
	require.NoError(t, err)
	assert.Empty(t, run.Warnings())

	assert.Equal(t, []domain.Route{
		{VRF: "default", To: "0.0.0.0/0", From: "231.125.196.129"},
		{VRF: "default", To: "231.125.196.128/27", From: "231.125.196.139"},
		{VRF: "management", To: "172.24.20.0/24", From: "172.24.20.52"},
	}, frag[domain.FactIPv4])

	assert.Equal(t, []domain.Route{
		{VRF: "default", To: "2b0b:7d:0:2841::1/128", From: "2b0b:7d:0:2841::1"},
		{VRF: "default", To: "2b0b:7d:0:4421::/64", From: "2b0b:7d:0:4421:f0:0:196:139"},
		{VRF: "default", To: "2b0b:7d:0:4421::/64", From: "2b0b:7d:0:4421:f0:0:196:140"},
	}, frag[domain.FactIPv6])
}

func TestRoutingFacts_ECMPRoutesAreDistinct(t *testing.T) {
	resp := routeResponse("default", map[string]any{
		"ipprefix": "10.0.0.0/8",
		"TABLE_path": map[string]any{"ROW_path": []any{
			map[string]any{"ipnexthop": "192.0.2.1"},
			map[string]any{"ipnexthop": "192.0.2.2"},
		}},
	})

	routes := parseRouteTable(newTestRun(), domain.FactIPv4, resp)
	require.Len(t, routes, 2)
	assert.NotEqual(t, routes[0], routes[1])
	assert.Equal(t, "192.0.2.1", routes[0].From)
	assert.Equal(t, "192.0.2.2", routes[1].From)
}

func TestRoutingFacts_FamiliesAreIsolated(t *testing.T) {
	good := routeResponse("default", map[string]any{
		"ipprefix":   "2001:db8::/32",
		"TABLE_path": map[string]any{"ROW_path": map[string]any{"ipnexthop": "fe80::1"}},
	})
	broken := map[string]any{
		"TABLE_vrf": map[string]any{"ROW_vrf": map[string]any{"vrf-name-out": "default"}},
	}

	run := newTestRun()
	frag, err := routingFacts{}.Populate(run, []any{broken, good})
	require.NoError(t, err)

	assert.Equal(t, []domain.Route{}, frag[domain.FactIPv4])
	assert.Equal(t, []domain.Route{{VRF: "default", To: "2001:db8::/32", From: "fe80::1"}}, frag[domain.FactIPv6])
	require.Len(t, run.Warnings(), 1)
	assert.Contains(t, run.Warnings()[0], "routing: ipv4:")
	assert.Contains(t, run.Warnings()[0], "TABLE_addrf")
}

func TestParseRouteTable_MalformedVRFIsSkipped(t *testing.T) {
	vrfRow := func(vrf string, prefixes ...any) any {
		return routeResponse(vrf, prefixes...)["TABLE_vrf"].(map[string]any)["ROW_vrf"]
	}
	resp := map[string]any{
		"TABLE_vrf": map[string]any{"ROW_vrf": []any{
			vrfRow("a", map[string]any{
				"ipprefix":   "10.0.0.0/8",
				"TABLE_path": map[string]any{"ROW_path": map[string]any{"ipnexthop": "192.0.2.1"}},
			}),
			map[string]any{"vrf-name-out": "broken"},
			map[string]any{"TABLE_addrf": map[string]any{}},
			vrfRow("b", map[string]any{
				"ipprefix": "172.16.0.0/12",
				"TABLE_path": map[string]any{"ROW_path": []any{
					map[string]any{"ipnexthop": "198.51.100.1"},
					map[string]any{"ipnexthop": "198.51.100.2"},
				}},
			}),
		}},
	}

	run := newTestRun()
	routes := parseRouteTable(run, domain.FactIPv4, resp)

	assert.Equal(t, []domain.Route{
		{VRF: "a", To: "10.0.0.0/8", From: "192.0.2.1"},
		{VRF: "b", To: "172.16.0.0/12", From: "198.51.100.1"},
		{VRF: "b", To: "172.16.0.0/12", From: "198.51.100.2"},
	}, routes)
	require.Len(t, run.Warnings(), 2)
	assert.Contains(t, run.Warnings()[0], "vrf broken: missing TABLE_addrf.ROW_addrf")
	assert.Contains(t, run.Warnings()[1], "without vrf-name-out")
}

func TestParseRouteTable_SkipsIncompleteRows(t *testing.T) {
	resp := routeResponse("blue",
		map[string]any{"TABLE_path": map[string]any{"ROW_path": map[string]any{"ipnexthop": "192.0.2.1"}}},
		map[string]any{
			"ipprefix":   "198.51.100.0/24",
			"TABLE_path": map[string]any{"ROW_path": map[string]any{"ifname": "Null0"}},
		},
		map[string]any{"ipprefix": "203.0.113.0/24"},
	)

	routes := parseRouteTable(newTestRun(), domain.FactIPv4, resp)
	assert.Empty(t, routes)
	assert.NotNil(t, routes)
}

func TestParseRouteTable_EmptyOrInvalid(t *testing.T) {
	for _, resp := range []any{nil, map[string]any{}, "% Invalid command", map[string]any{"TABLE_vrf": "x"}} {
		routes := parseRouteTable(newTestRun(), domain.FactIPv6, resp)
		assert.Equal(t, []domain.Route{}, routes)
	}
}

// routeResponse builds a one-vrf route table with the given prefix rows
func routeResponse(vrf string, prefixes ...any) map[string]any {
	var rowPrefix any = prefixes
	if len(prefixes) == 1 {
		rowPrefix = prefixes[0]
	}
	return map[string]any{
		"TABLE_vrf": map[string]any{
			"ROW_vrf": map[string]any{
				"vrf-name-out": vrf,
				"TABLE_addrf": map[string]any{
					"ROW_addrf": map[string]any{
						"TABLE_prefix": map[string]any{"ROW_prefix": rowPrefix},
					},
				},
			},
		},
	}
}
