package facts

import (
	"strings"

	"nxfacts/internal/domain"
)

const (
	cmdShowInterface     = "show interface | json"
	cmdShowVLAN          = "show vlan | json"
	cmdShowIPv6Interface = "show ipv6 interface vrf all | json"
	cmdShowLLDPNeighbors = "show lldp neighbors detail | json"
)

var (
	interfaceRules = []Rule{{Key: "TABLE_interface", Kind: KindMap, Default: map[string]any{}}}
	vlanRules      = []Rule{{Key: "TABLE_vlanbrief", Kind: KindMap, Default: map[string]any{}}}
	ipv6Rules      = []Rule{{Key: "TABLE_intf", Kind: KindMap, Default: map[string]any{}}}
	lldpRules      = []Rule{{Key: "TABLE_nbor_detail", Kind: KindMap, Default: map[string]any{}}}
)

type interfaceFacts struct{}

func (interfaceFacts) Name() string { return SubsetInterfaces }

func (interfaceFacts) Commands() []string {
	return []string{cmdShowInterface, cmdShowVLAN, cmdShowIPv6Interface, cmdShowLLDPNeighbors}
}

// Populate builds the interface table from the interface, VLAN and IPv6 outputs (in that
// order, each enriching the records the previous one created) and the LLDP neighbour table.
func (interfaceFacts) Populate(run *Run, responses []any) (domain.Fragment, error) {
	intfs := domain.InterfaceTable{}

	ifaceData := Validate(run.log, at(responses, 0), interfaceRules...)
	for _, row := range rows(lookup(ifaceData, "TABLE_interface", "ROW_interface")) {
		name, ok := str(row, "interface")
		if !ok || name == "" {
			continue
		}
		intf := intfs.Get(name)
		if strings.HasPrefix(name, "Vlan") {
			populateSVI(run, row, intf)
		} else {
			populateEthernet(run, row, intf)
		}
	}

	vlanData := Validate(run.log, at(responses, 1), vlanRules...)
	populateVLANBrief(run, vlanData, intfs)

	ipv6Data := Validate(run.log, at(responses, 2), ipv6Rules...)
	populateIPv6(run, ipv6Data, intfs)

	lldpData := Validate(run.log, at(responses, 3), lldpRules...)
	neighbors := populateLLDP(run, lldpData)

	return domain.Fragment{
		domain.FactInterfaces: intfs,
		domain.FactLLDP:       neighbors,
		domain.FactInfo:       run.macs,
	}, nil
}

// populateSVI merges a VLAN interface row (svi_* keys)
func populateSVI(run *Run, row map[string]any, intf *domain.InterfaceFact) {
	if v, ok := str(row, "svi_line_proto"); ok {
		intf.OperStatus = v
	}
	setBandwidth(run, row, "svi_bw", intf)
	appendIPv4(row, "svi_ip_addr", "svi_ip_mask", intf)
	setMAC(run, row, "svi_mac", intf)
	if v, ok := str(row, "svi_mtu"); ok {
		intf.MTU = v
	}
}

// populateEthernet merges a physical or management interface row (eth_* keys)
func populateEthernet(run *Run, row map[string]any, intf *domain.InterfaceFact) {
	if v, ok := str(row, "state"); ok {
		intf.OperStatus = v
	}
	setMAC(run, row, "eth_hw_addr", intf)
	if v, ok := str(row, "eth_duplex"); ok {
		intf.Duplex = v
	}
	if v, ok := str(row, "desc"); ok {
		intf.Description = v
	}
	appendIPv4(row, "eth_ip_addr", "eth_ip_mask", intf)
	setBandwidth(run, row, "eth_bw", intf)
	if v, ok := str(row, "eth_mtu"); ok {
		intf.MTU = v
	}
	if mode, ok := str(row, "eth_mode"); ok && mode == "trunk" {
		intf.Switchport = "yes"
	} else {
		intf.Switchport = "no"
	}
}

func setMAC(run *Run, row map[string]any, key string, intf *domain.InterfaceFact) {
	raw, ok := str(row, key)
	if !ok {
		return
	}
	mac := FormatMAC(raw)
	if mac == "" {
		return
	}
	intf.MAC = mac
	run.macs.Add(mac)
}

// setBandwidth stores bps/1000 truncated to kbps
func setBandwidth(run *Run, row map[string]any, key string, intf *domain.InterfaceFact) {
	raw, ok := row[key]
	if !ok {
		return
	}
	bps, ok := toInt64(raw)
	if !ok {
		run.log.Debug().Str("key", key).Interface("value", raw).Msg("unparsable bandwidth, skipping")
		return
	}
	intf.SetBandwidth(bps / 1000)
}

func appendIPv4(row map[string]any, addrKey, maskKey string, intf *domain.InterfaceFact) {
	addr, ok := str(row, addrKey)
	if !ok {
		return
	}
	mask, ok := str(row, maskKey)
	if !ok {
		return
	}
	intf.IPv4 = append(intf.IPv4, domain.IPAddress{Address: addr, MaskLen: mask})
}

// populateVLANBrief creates or enriches Vlan<id> records from show vlan. The tagged
// member list is only set the first time it is seen for an interface.
func populateVLANBrief(run *Run, data map[string]any, intfs domain.InterfaceTable) {
	for _, row := range rows(lookup(data, "TABLE_vlanbrief", "ROW_vlanbrief")) {
		id, ok := str(row, "vlanshowbr-vlanid")
		if !ok || id == "" {
			run.Warnf("interfaces: skipping vlan row without vlanshowbr-vlanid")
			continue
		}
		vlan := intfs.Get("Vlan" + id)
		if v, ok := str(row, "vlanshowbr-vlanname"); ok {
			vlan.Description = v
		}
		if v, ok := str(row, "vlanshowbr-vlanstate"); ok {
			vlan.OperStatus = v
		}
		if members, ok := str(row, "vlanshowplist-ifidx"); ok && vlan.Tagged == nil {
			vlan.Tagged = strings.Split(members, ",")
		}
	}
}

// populateIPv6 appends addresses from show ipv6 interface. ROW_addr is a list on
// interfaces with several addresses and a bare object when there is only one.
func populateIPv6(run *Run, data map[string]any, intfs domain.InterfaceTable) {
	for _, row := range rows(lookup(data, "TABLE_intf", "ROW_intf")) {
		name, ok := str(row, "intf-name")
		if !ok || name == "" {
			run.Warnf("interfaces: skipping ipv6 row without intf-name")
			continue
		}
		intf := intfs.Get(name)
		for _, addrRow := range rows(lookup(row, "TABLE_addr", "ROW_addr")) {
			addr, ok := str(addrRow, "addr")
			if !ok || addr == "" {
				continue
			}
			intf.IPv6 = append(intf.IPv6, splitPrefix(addr))
		}
	}
}

// splitPrefix splits "2620:6a:0:2841::1/64"; a bare address keeps an empty masklen
func splitPrefix(s string) domain.IPAddress {
	addr, mask, _ := strings.Cut(s, "/")
	return domain.IPAddress{Address: addr, MaskLen: mask}
}

// populateLLDP indexes neighbours by expanded local port id. A repeated port keeps the
// last row; a row without l_port_id is dropped.
func populateLLDP(run *Run, data map[string]any) domain.LLDPTable {
	table := domain.LLDPTable{}
	for _, row := range rows(lookup(data, "TABLE_nbor_detail", "ROW_nbor_detail")) {
		local, ok := str(row, "l_port_id")
		if !ok || local == "" {
			run.Warnf("interfaces: skipping lldp neighbor without l_port_id")
			continue
		}

		nbr := &domain.LLDPNeighbor{LocalPortID: expandPortName(local)}
		if v, ok := str(row, "port_id"); ok {
			nbr.RemoteChassisID = FormatMAC(v)
		}
		if v, ok := str(row, "port_desc"); ok && v != "null" {
			nbr.RemotePortID = v
		}
		if v, ok := str(row, "sys_name"); ok && v != "null" {
			nbr.RemoteSystemName = v
		}
		table[nbr.LocalPortID] = nbr
	}
	return table
}

// expandPortName rewrites the short Eth prefix LLDP uses to the interface table form
func expandPortName(port string) string {
	if strings.HasPrefix(port, "Eth") && !strings.HasPrefix(port, "Ethernet") {
		return "Ethernet" + strings.TrimPrefix(port, "Eth")
	}
	return port
}
