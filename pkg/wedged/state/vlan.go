package state

import (
	"net/netip"
)

// NeighborResponseEntry is one entry of a VLAN's ARP or NDP response
// table: who answers for an IP, and on which interface.
type NeighborResponseEntry struct {
	Mac         MAC
	InterfaceID InterfaceID
}

// Vlan is the state of one VLAN, including port membership, DHCP relay
// settings, and the neighbor response tables derived from the interfaces
// bound to the VLAN.
type Vlan struct {
	ID                   VlanID
	Name                 string
	InterfaceID          InterfaceID
	Ports                map[PortID]PortVlanInfo
	DhcpV4Relay          netip.Addr
	DhcpV6Relay          netip.Addr
	DhcpRelayOverridesV4 map[MAC]netip.Addr
	DhcpRelayOverridesV6 map[MAC]netip.Addr
	ArpResponseTable     map[netip.Addr]NeighborResponseEntry
	NdpResponseTable     map[netip.Addr]NeighborResponseEntry
}

// NewVlan returns a VLAN with unset relay addresses (the unspecified
// address of each family).
func NewVlan(id VlanID) *Vlan {
	return &Vlan{
		ID:          id,
		DhcpV4Relay: netip.IPv4Unspecified(),
		DhcpV6Relay: netip.IPv6Unspecified(),
	}
}
