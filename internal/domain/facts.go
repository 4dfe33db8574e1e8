package domain

import "sort"

// Fact category names as emitted (before prefixing)
const (
	FactHWID         = "hwid"
	FactHostname     = "hostname"
	FactVersion      = "version"
	FactConfig       = "config"
	FactInterfaces   = "interfaces"
	FactLLDP         = "lldp"
	FactInfo         = "info"
	FactIPv4         = "ipv4"
	FactIPv6         = "ipv6"
	FactGatherSubset = "gather_subset"
)

// IPAddress is one address/prefix-length pair on an interface
type IPAddress struct {
	Address string `json:"address" yaml:"address"`
	MaskLen string `json:"masklen" yaml:"masklen"`
}

// InterfaceFact is the canonical record for one interface (Ethernet1/24, Vlan1323, mgmt0...)
// Fields are only set when some command output supplied them.
type InterfaceFact struct {
	OperStatus  string      `json:"operstatus,omitempty" yaml:"operstatus,omitempty"`
	MAC         string      `json:"mac,omitempty" yaml:"mac,omitempty"`
	Duplex      string      `json:"duplex,omitempty" yaml:"duplex,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Bandwidth   *int64      `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"` // kbps
	MTU         string      `json:"mtu,omitempty" yaml:"mtu,omitempty"`
	Switchport  string      `json:"switchport,omitempty" yaml:"switchport,omitempty"` // "yes" or "no"
	IPv4        []IPAddress `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6        []IPAddress `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	Tagged      []string    `json:"tagged,omitempty" yaml:"tagged,omitempty"`
}

// SetBandwidth stores a bandwidth value in kbps
func (i *InterfaceFact) SetBandwidth(kbps int64) {
	i.Bandwidth = &kbps
}

// InterfaceTable maps interface name to its fact record
type InterfaceTable map[string]*InterfaceFact

// Get returns the record for name, creating it on first reference
func (t InterfaceTable) Get(name string) *InterfaceFact {
	if intf, ok := t[name]; ok {
		return intf
	}
	intf := &InterfaceFact{}
	t[name] = intf
	return intf
}

// Names returns interface names sorted
func (t InterfaceTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LLDPNeighbor is the neighbour seen on one local port
type LLDPNeighbor struct {
	LocalPortID      string `json:"local_port_id" yaml:"local_port_id"`
	RemoteChassisID  string `json:"remote_chassis_id,omitempty" yaml:"remote_chassis_id,omitempty"`
	RemotePortID     string `json:"remote_port_id,omitempty" yaml:"remote_port_id,omitempty"`
	RemoteSystemName string `json:"remote_system_name,omitempty" yaml:"remote_system_name,omitempty"`
}

// LLDPTable maps local port id to neighbour
type LLDPTable map[string]*LLDPNeighbor

// Route is one candidate path toward a prefix. Routes are never deduplicated.
type Route struct {
	VRF  string `json:"vrf" yaml:"vrf"`
	To   string `json:"to" yaml:"to"`
	From string `json:"from" yaml:"from"`
}

// MACSet tracks MAC addresses seen during one run, in first-seen order
type MACSet struct {
	Macs []string `json:"macs" yaml:"macs"`
	seen map[string]struct{}
}

// NewMACSet creates an empty set
func NewMACSet() *MACSet {
	return &MACSet{Macs: []string{}, seen: make(map[string]struct{})}
}

// Add records mac and reports whether it was new
func (s *MACSet) Add(mac string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[mac]; ok {
		return false
	}
	s.seen[mac] = struct{}{}
	s.Macs = append(s.Macs, mac)
	return true
}

// Len returns the number of distinct MACs
func (s *MACSet) Len() int {
	return len(s.Macs)
}
