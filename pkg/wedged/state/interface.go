package state

import (
	"maps"
	"net/netip"

	"github.com/wedge-network/wedged/pkg/wedged/config"
)

// DefaultMtu is the interface MTU when the config does not set one.
const DefaultMtu = 1500

// Interface is the state of one routed interface. Addresses maps each
// address (with host bits intact) to its prefix length; it always contains
// the auto-generated IPv6 link-local address.
type Interface struct {
	ID                  InterfaceID
	RouterID            RouterID
	VlanID              VlanID
	Name                string
	Mac                 MAC
	Mtu                 int
	Addresses           map[netip.Addr]uint8
	Ndp                 config.NdpConfig
	IsVirtual           bool
	IsStateSyncDisabled bool
}

// AddressesEqual reports whether the interface's address set equals addrs.
func (i *Interface) AddressesEqual(addrs map[netip.Addr]uint8) bool {
	return maps.Equal(i.Addresses, addrs)
}

// NdpEqual reports whether two NDP configs carry the same values,
// comparing the optional router address by value.
func NdpEqual(a, b config.NdpConfig) bool {
	if a.RouterAdvertisementSeconds != b.RouterAdvertisementSeconds ||
		a.CurHopLimit != b.CurHopLimit ||
		a.RouterLifetime != b.RouterLifetime ||
		a.PrefixValidLifetimeSeconds != b.PrefixValidLifetimeSeconds ||
		a.PrefixPreferredLifetimeSeconds != b.PrefixPreferredLifetimeSeconds {
		return false
	}
	if (a.RouterAddress == nil) != (b.RouterAddress == nil) {
		return false
	}
	return a.RouterAddress == nil || *a.RouterAddress == *b.RouterAddress
}
