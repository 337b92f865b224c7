package reconcile

import (
	"maps"
	"net/netip"

	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// updateVlans reconciles the configured VLANs; VLANs absent from the
// config are implicit deletions.
func (a *applier) updateVlans() (map[state.VlanID]*state.Vlan, error) {
	diff := newNodeMapDiff[state.VlanID, state.Vlan]("VLAN", a.orig.Vlans)

	for i := range a.cfg.Vlans {
		vlanCfg := &a.cfg.Vlans[i]
		id := state.VlanID(vlanCfg.ID)
		origVlan := a.orig.Vlans[id]

		newVlan, err := a.updateVlan(origVlan, vlanCfg)
		if err != nil {
			return nil, err
		}
		if err := diff.update(id, origVlan, newVlan); err != nil {
			return nil, err
		}
	}

	return diff.result(), nil
}

// updateVlan builds the VLAN described by vlanCfg: port membership from
// the VLAN-port index, response tables from the interface index, relay
// settings from the config. With orig present and identical it returns
// nil.
func (a *applier) updateVlan(orig *state.Vlan, vlanCfg *config.Vlan) (*state.Vlan, error) {
	id := state.VlanID(vlanCfg.ID)
	ports := a.vlanPorts[id]

	arpTable, ndpTable := a.neighborResponseTables(id)

	overridesV4, err := parseDhcpOverrides(vlanCfg.DhcpRelayOverridesV4, true)
	if err != nil {
		return nil, err
	}
	overridesV6, err := parseDhcpOverrides(vlanCfg.DhcpRelayOverridesV6, false)
	if err != nil {
		return nil, err
	}

	dhcpV4Relay, err := parseOptionalAddr(vlanCfg.DhcpRelayAddressV4, true, "dhcpRelayAddressV4")
	if err != nil {
		return nil, err
	}
	dhcpV6Relay, err := parseOptionalAddr(vlanCfg.DhcpRelayAddressV6, false, "dhcpRelayAddressV6")
	if err != nil {
		return nil, err
	}

	// The interface binding falls back to the index when the config does
	// not name one.
	intfID := state.InterfaceID(0)
	if vlanCfg.IntfID != nil {
		intfID = state.InterfaceID(*vlanCfg.IntfID)
	} else if entry := a.vlanInterfaces[id]; entry != nil {
		if first, ok := entry.firstInterface(); ok {
			intfID = first
		}
	}

	if orig != nil &&
		orig.Name == vlanCfg.Name &&
		orig.InterfaceID == intfID &&
		maps.Equal(orig.Ports, ports) &&
		orig.DhcpV4Relay == dhcpV4Relay &&
		orig.DhcpV6Relay == dhcpV6Relay &&
		maps.Equal(orig.DhcpRelayOverridesV4, overridesV4) &&
		maps.Equal(orig.DhcpRelayOverridesV6, overridesV6) &&
		maps.Equal(orig.ArpResponseTable, arpTable) &&
		maps.Equal(orig.NdpResponseTable, ndpTable) {
		return nil, nil
	}

	newVlan := state.NewVlan(id)
	newVlan.Name = vlanCfg.Name
	newVlan.InterfaceID = intfID
	newVlan.Ports = ports
	newVlan.DhcpV4Relay = dhcpV4Relay
	newVlan.DhcpV6Relay = dhcpV6Relay
	newVlan.DhcpRelayOverridesV4 = overridesV4
	newVlan.DhcpRelayOverridesV6 = overridesV6
	newVlan.ArpResponseTable = arpTable
	newVlan.NdpResponseTable = ndpTable
	return newVlan, nil
}

// neighborResponseTables rebuilds the VLAN's ARP and NDP response tables
// from the addresses of the interfaces bound to it.
func (a *applier) neighborResponseTables(id state.VlanID) (arp, ndp map[netip.Addr]state.NeighborResponseEntry) {
	arp = make(map[netip.Addr]state.NeighborResponseEntry)
	ndp = make(map[netip.Addr]state.NeighborResponseEntry)

	entry := a.vlanInterfaces[id]
	if entry == nil {
		return arp, ndp
	}
	for addr, info := range entry.addresses {
		responder := state.NeighborResponseEntry{Mac: info.mac, InterfaceID: info.interfaceID}
		if addr.Is4() {
			arp[addr] = responder
		} else {
			ndp[addr] = responder
		}
	}
	return arp, ndp
}

// parseDhcpOverrides parses a MAC→IP override map with strict format
// checking on both sides.
func parseDhcpOverrides(overrides map[string]string, v4 bool) (map[state.MAC]netip.Addr, error) {
	if len(overrides) == 0 {
		return nil, nil
	}
	parsed := make(map[state.MAC]netip.Addr, len(overrides))
	for macStr, ipStr := range overrides {
		mac, err := state.ParseMAC(macStr)
		if err != nil {
			return nil, newError(KindInvalidDhcpOverride,
				"invalid MAC in DHCP relay override map: %v", err)
		}
		addr, err := netip.ParseAddr(ipStr)
		if err != nil {
			return nil, newError(KindInvalidDhcpOverride,
				"invalid IP in DHCP relay override map: %v", err)
		}
		if v4 != addr.Is4() {
			return nil, newError(KindInvalidDhcpOverride,
				"DHCP relay override %s has the wrong address family", addr)
		}
		parsed[mac] = addr
	}
	return parsed, nil
}
