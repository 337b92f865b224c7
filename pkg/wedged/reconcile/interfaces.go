package reconcile

import (
	"fmt"
	"net/netip"

	"github.com/wedge-network/wedged/pkg/util"
	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// updateInterfaces reconciles the configured interfaces. Every surviving
// interface is fed to the per-VLAN interface index; its non-link-local
// addresses are recorded in the interface route index.
func (a *applier) updateInterfaces() (map[state.InterfaceID]*state.Interface, error) {
	diff := newNodeMapDiff[state.InterfaceID, state.Interface]("interface", a.orig.Interfaces)

	for i := range a.cfg.Interfaces {
		intfCfg := &a.cfg.Interfaces[i]
		id := state.InterfaceID(intfCfg.IntfID)
		origIntf := a.orig.Interfaces[id]

		addrs, err := a.interfaceAddresses(intfCfg)
		if err != nil {
			return nil, err
		}

		newIntf, err := a.updateInterface(origIntf, intfCfg, addrs)
		if err != nil {
			return nil, err
		}

		node := newIntf
		if node == nil {
			node = origIntf
		}
		if err := a.updateVlanInterfaces(node); err != nil {
			return nil, err
		}
		if err := diff.update(id, origIntf, newIntf); err != nil {
			return nil, err
		}
	}

	return diff.result(), nil
}

// updateInterface builds the interface described by intfCfg, or returns
// nil when orig already matches.
func (a *applier) updateInterface(orig *state.Interface, intfCfg *config.Interface,
	addrs map[netip.Addr]uint8) (*state.Interface, error) {

	mac, err := a.interfaceMac(intfCfg)
	if err != nil {
		return nil, err
	}
	name := interfaceName(intfCfg)
	mtu := state.DefaultMtu
	if intfCfg.Mtu != nil {
		mtu = *intfCfg.Mtu
	}
	var ndp config.NdpConfig
	if intfCfg.Ndp != nil {
		ndp = *intfCfg.Ndp
	}

	if orig != nil &&
		orig.RouterID == state.RouterID(intfCfg.RouterID) &&
		orig.VlanID == state.VlanID(intfCfg.VlanID) &&
		orig.Name == name &&
		orig.Mac == mac &&
		orig.AddressesEqual(addrs) &&
		state.NdpEqual(orig.Ndp, ndp) &&
		orig.Mtu == mtu &&
		orig.IsVirtual == intfCfg.IsVirtual &&
		orig.IsStateSyncDisabled == intfCfg.IsStateSyncDisabled {
		return nil, nil
	}

	return &state.Interface{
		ID:                  state.InterfaceID(intfCfg.IntfID),
		RouterID:            state.RouterID(intfCfg.RouterID),
		VlanID:              state.VlanID(intfCfg.VlanID),
		Name:                name,
		Mac:                 mac,
		Mtu:                 mtu,
		Addresses:           addrs,
		Ndp:                 ndp,
		IsVirtual:           intfCfg.IsVirtual,
		IsStateSyncDisabled: intfCfg.IsStateSyncDisabled,
	}, nil
}

func interfaceName(intfCfg *config.Interface) string {
	if intfCfg.Name != nil {
		return *intfCfg.Name
	}
	return fmt.Sprintf("Interface %d", intfCfg.IntfID)
}

func (a *applier) interfaceMac(intfCfg *config.Interface) (state.MAC, error) {
	if intfCfg.Mac == nil {
		return a.platform.LocalMac(), nil
	}
	mac, err := state.ParseMAC(*intfCfg.Mac)
	if err != nil {
		return state.MAC{}, newError(KindInvalidAddress,
			"interface %d MAC: %v", intfCfg.IntfID, err)
	}
	return mac, nil
}

// interfaceAddresses builds the interface's address set: the
// auto-generated IPv6 link-local address plus every configured address.
// Non-link-local addresses (and, for now, v4 link-locals) are recorded in
// the interface route index; the last occurrence of a prefix on the same
// interface wins so repeated applies stay quiet.
func (a *applier) interfaceAddresses(intfCfg *config.Interface) (map[netip.Addr]uint8, error) {
	mac, err := a.interfaceMac(intfCfg)
	if err != nil {
		return nil, err
	}

	addrs := make(map[netip.Addr]uint8)
	addrs[util.EUI64LinkLocal(mac)] = 64

	routerID := state.RouterID(intfCfg.RouterID)
	intfID := state.InterfaceID(intfCfg.IntfID)

	for _, addrStr := range intfCfg.IPAddresses {
		addr, length, err := util.ParseCIDR(addrStr)
		if err != nil {
			return nil, newError(KindInvalidAddress,
				"interface %d address %q: %v", intfCfg.IntfID, addrStr, err)
		}
		if _, dup := addrs[addr]; dup {
			return nil, newError(KindDuplicateInterfaceAddress,
				"duplicate network IP address %s in interface %d", addrStr, intfCfg.IntfID)
		}
		addrs[addr] = length

		// v6 link-locals stay out of the route tables; v4 link-locals
		// are still programmed because they carry live peerings today.
		if addr.Is6() && addr.IsLinkLocalUnicast() {
			continue
		}

		prefix := util.MaskedPrefix(addr, length)
		if a.intfRouteTables[routerID] == nil {
			a.intfRouteTables[routerID] = make(map[netip.Prefix]intfAddress)
		}
		// The same network from another interface is a conflict, except
		// when it is the exact same address: interfaces may share an
		// address on a VLAN, and the VLAN index validates that sharing
		// (mask and MAC agreement). The later occurrence wins either way
		// so repeated applies do not churn the route tables.
		if existing, ok := a.intfRouteTables[routerID][prefix]; ok &&
			existing.intfID != intfID && existing.addr != addr {
			return nil, newError(KindDuplicateNetwork,
				"duplicate network address %s of interface %d as interface %d in VRF %d",
				addrStr, intfID, existing.intfID, routerID)
		}
		a.intfRouteTables[routerID][prefix] = intfAddress{intfID: intfID, addr: addr}
	}

	return addrs, nil
}

// updateVlanInterfaces records intf in the per-VLAN interface index and
// enforces the cross-interface invariants: one router per VLAN, and a
// duplicate IP only with identical mask and MAC.
func (a *applier) updateVlanInterfaces(intf *state.Interface) error {
	entry := a.vlanInterfaces[intf.VlanID]
	if entry == nil {
		entry = &vlanInterfaceInfo{
			interfaces: make(map[state.InterfaceID]struct{}),
			addresses:  make(map[netip.Addr]vlanIpInfo),
		}
		a.vlanInterfaces[intf.VlanID] = entry
	}

	// Each VLAN can only be used with a single virtual router.
	if len(entry.interfaces) == 0 {
		entry.routerID = intf.RouterID
	} else if intf.RouterID != entry.routerID {
		return newError(KindVlanMultiRouter,
			"VLAN %d configured in multiple different virtual routers: %d and %d",
			intf.VlanID, entry.routerID, intf.RouterID)
	}

	if _, dup := entry.interfaces[intf.ID]; dup {
		return newError(KindDuplicateEntry,
			"interface %d processed twice for VLAN %d", intf.ID, intf.VlanID)
	}
	entry.interfaces[intf.ID] = struct{}{}

	for addr, mask := range intf.Addresses {
		info := vlanIpInfo{mask: mask, mac: intf.Mac, interfaceID: intf.ID}
		old, exists := entry.addresses[addr]
		if !exists {
			entry.addresses[addr] = info
			continue
		}
		// Multiple interfaces on the same VLAN may share an IP, as long
		// as they also share its mask and MAC address.
		if old.mask != info.mask {
			return newError(KindVlanAddressMismatch,
				"VLAN %d has IP %s configured multiple times with different masks (%d and %d)",
				intf.VlanID, addr, old.mask, info.mask)
		}
		if old.mac != info.mac {
			return newError(KindVlanAddressMismatch,
				"VLAN %d has IP %s configured multiple times with different MACs (%s and %s)",
				intf.VlanID, addr, old.mac, info.mac)
		}
	}

	// The interface's link-local address answers NDP on this VLAN too.
	linkLocal := util.EUI64LinkLocal(intf.Mac)
	if _, exists := entry.addresses[linkLocal]; !exists {
		entry.addresses[linkLocal] = vlanIpInfo{mask: 64, mac: intf.Mac, interfaceID: intf.ID}
	}
	return nil
}
