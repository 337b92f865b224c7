// Package reconcile turns a declarative switch configuration and the
// previous switch state into a new switch state.
//
// Apply is a pure transformation: it never mutates its inputs, performs no
// I/O, and returns either a complete new state or a structured error.
// Nodes that did not change keep their previous pointers, so downstream
// consumers detect change with pointer equality alone.
package reconcile

import (
	"net/netip"
	"time"

	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/platform"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// vlanIpInfo records how one IP is served on a VLAN.
type vlanIpInfo struct {
	mask        uint8
	mac         state.MAC
	interfaceID state.InterfaceID
}

// vlanInterfaceInfo aggregates the interfaces bound to one VLAN.
type vlanInterfaceInfo struct {
	routerID   state.RouterID
	interfaces map[state.InterfaceID]struct{}
	addresses  map[netip.Addr]vlanIpInfo
}

// firstInterface returns the lowest interface id bound to the VLAN.
func (v *vlanInterfaceInfo) firstInterface() (state.InterfaceID, bool) {
	if len(v.interfaces) == 0 {
		return 0, false
	}
	var min state.InterfaceID
	first := true
	for id := range v.interfaces {
		if first || id < min {
			min = id
			first = false
		}
	}
	return min, true
}

// intfAddress remembers which interface contributed a network prefix, and
// with which (unmasked) address.
type intfAddress struct {
	intfID state.InterfaceID
	addr   netip.Addr
}

// applier carries the working data of one reconciliation pass. It is a
// procedural helper behind Apply; the indexes built by early components
// feed the later ones.
type applier struct {
	orig     *state.SwitchState
	cfg      *config.SwitchConfig
	platform platform.Platform
	prevCfg  *config.SwitchConfig

	portVlans       map[state.PortID]map[state.VlanID]state.PortVlanInfo
	vlanPorts       map[state.VlanID]map[state.PortID]state.PortVlanInfo
	vlanInterfaces  map[state.VlanID]*vlanInterfaceInfo
	intfRouteTables map[state.RouterID]map[netip.Prefix]intfAddress
}

// Apply reconciles cfg against orig and returns the resulting state, or
// nil when no observable change would result. prevCfg is the previously
// applied configuration, used for the static-route diff; it may be nil on
// first apply.
func Apply(orig *state.SwitchState, cfg *config.SwitchConfig, p platform.Platform,
	prevCfg *config.SwitchConfig) (*state.SwitchState, error) {

	a := &applier{
		orig:            orig,
		cfg:             cfg,
		platform:        p,
		prevCfg:         prevCfg,
		portVlans:       make(map[state.PortID]map[state.VlanID]state.PortVlanInfo),
		vlanPorts:       make(map[state.VlanID]map[state.PortID]state.PortVlanInfo),
		vlanInterfaces:  make(map[state.VlanID]*vlanInterfaceInfo),
		intfRouteTables: make(map[state.RouterID]map[netip.Prefix]intfAddress),
	}
	return a.run()
}

func (a *applier) run() (*state.SwitchState, error) {
	newState := a.orig.Clone()
	changed := false

	if cp := a.updateControlPlane(); cp != nil {
		newState.ControlPlane = cp
		changed = true
	}

	if err := a.processVlanPorts(); err != nil {
		return nil, err
	}

	newAcls, err := a.updateAcls()
	if err != nil {
		return nil, err
	}
	if newAcls != nil {
		newState.Acls = newAcls
		changed = true
	}

	newPorts, err := a.updatePorts()
	if err != nil {
		return nil, err
	}
	if newPorts != nil {
		newState.Ports = newPorts
		changed = true
	}

	newAggPorts, err := a.updateAggregatePorts()
	if err != nil {
		return nil, err
	}
	if newAggPorts != nil {
		newState.AggregatePorts = newAggPorts
		changed = true
	}

	newIntfs, err := a.updateInterfaces()
	if err != nil {
		return nil, err
	}
	if newIntfs != nil {
		newState.Interfaces = newIntfs
		changed = true
	}

	// Interfaces must be reconciled before VLANs: the VLAN pass consumes
	// the per-VLAN interface index built above.
	newVlans, err := a.updateVlans()
	if err != nil {
		return nil, err
	}
	if newVlans != nil {
		newState.Vlans = newVlans
		changed = true
	}

	// Likewise the interface pass populates the interface route index.
	curTables := a.orig.RouteTables
	if tables, routesChanged := a.updateInterfaceRoutes(); routesChanged {
		newState.RouteTables = tables
		curTables = tables
		changed = true
	}
	staticTables, staticChanged, err := a.updateStaticRoutes(curTables)
	if err != nil {
		return nil, err
	}
	if staticChanged {
		newState.RouteTables = staticTables
		changed = true
	}

	scalarsChanged, err := a.updateScalars(newState)
	if err != nil {
		return nil, err
	}
	changed = changed || scalarsChanged

	newCollectors, err := a.updateSflowCollectors()
	if err != nil {
		return nil, err
	}
	if newCollectors != nil {
		newState.SflowCollectors = newCollectors
		changed = true
	}

	newLoadBalancers, err := a.updateLoadBalancers()
	if err != nil {
		return nil, err
	}
	if newLoadBalancers != nil {
		newState.LoadBalancers = newLoadBalancers
		changed = true
	}

	if err := a.validate(newState); err != nil {
		return nil, err
	}

	if !changed {
		return nil, nil
	}
	return newState, nil
}

// processVlanPorts builds the bidirectional port↔VLAN membership index
// from the config's vlanPorts list.
func (a *applier) processVlanPorts() error {
	for _, vp := range a.cfg.VlanPorts {
		portID := state.PortID(vp.LogicalPort)
		vlanID := state.VlanID(vp.VlanID)
		info := state.PortVlanInfo{Tagged: vp.EmitTags}

		if a.portVlans[portID] == nil {
			a.portVlans[portID] = make(map[state.VlanID]state.PortVlanInfo)
		}
		if _, dup := a.portVlans[portID][vlanID]; dup {
			return newError(KindDuplicateEntry,
				"duplicate VlanPort for port %d, vlan %d", portID, vlanID)
		}
		a.portVlans[portID][vlanID] = info

		if a.vlanPorts[vlanID] == nil {
			a.vlanPorts[vlanID] = make(map[state.PortID]state.PortVlanInfo)
		}
		a.vlanPorts[vlanID][portID] = info
	}
	return nil
}

// updateScalars merges the global scalar fields into newState and reports
// whether any differed from the previous state.
func (a *applier) updateScalars(newState *state.SwitchState) (bool, error) {
	changed := false

	defaultVlan := state.VlanID(a.cfg.DefaultVlan)
	if a.orig.DefaultVlan != defaultVlan {
		if _, ok := newState.Vlans[defaultVlan]; !ok {
			return false, newError(KindDefaultVlanMissing,
				"default VLAN %d does not exist", defaultVlan)
		}
		newState.DefaultVlan = defaultVlan
		changed = true
	}

	arpAgerInterval := time.Duration(a.cfg.ArpAgerInterval) * time.Second
	if a.orig.ArpAgerInterval != arpAgerInterval {
		newState.ArpAgerInterval = arpAgerInterval
		changed = true
	}

	arpTimeout := time.Duration(a.cfg.ArpTimeoutSeconds) * time.Second
	if a.orig.ArpTimeout != arpTimeout {
		newState.ArpTimeout = arpTimeout
		// There is no separate NDP timeout knob in the config yet; it
		// tracks the ARP timeout.
		newState.NdpTimeout = arpTimeout
		changed = true
	}

	if a.orig.MaxNeighborProbes != a.cfg.MaxNeighborProbes {
		newState.MaxNeighborProbes = a.cfg.MaxNeighborProbes
		changed = true
	}

	staleEntryInterval := time.Duration(a.cfg.StaleEntryInterval) * time.Second
	if a.orig.StaleEntryInterval != staleEntryInterval {
		newState.StaleEntryInterval = staleEntryInterval
		changed = true
	}

	for _, src := range []struct {
		cfg  *string
		prev netip.Addr
		dst  *netip.Addr
		v4   bool
		name string
	}{
		{a.cfg.DhcpRelaySrcOverrideV4, a.orig.DhcpV4RelaySrc, &newState.DhcpV4RelaySrc, true, "dhcpRelaySrcOverrideV4"},
		{a.cfg.DhcpRelaySrcOverrideV6, a.orig.DhcpV6RelaySrc, &newState.DhcpV6RelaySrc, false, "dhcpRelaySrcOverrideV6"},
		{a.cfg.DhcpReplySrcOverrideV4, a.orig.DhcpV4ReplySrc, &newState.DhcpV4ReplySrc, true, "dhcpReplySrcOverrideV4"},
		{a.cfg.DhcpReplySrcOverrideV6, a.orig.DhcpV6ReplySrc, &newState.DhcpV6ReplySrc, false, "dhcpReplySrcOverrideV6"},
	} {
		next, err := parseOptionalAddr(src.cfg, src.v4, src.name)
		if err != nil {
			return false, err
		}
		if src.prev != next {
			*src.dst = next
			changed = true
		}
	}

	return changed, nil
}

func parseOptionalAddr(s *string, v4 bool, name string) (netip.Addr, error) {
	if s == nil {
		if v4 {
			return netip.IPv4Unspecified(), nil
		}
		return netip.IPv6Unspecified(), nil
	}
	addr, err := netip.ParseAddr(*s)
	if err != nil {
		return netip.Addr{}, newError(KindInvalidAddress, "%s: %v", name, err)
	}
	if v4 != addr.Is4() {
		return netip.Addr{}, newError(KindInvalidAddress,
			"%s: %s has the wrong address family", name, addr)
	}
	return addr, nil
}

// validate runs the cross-component checks that need the fully merged
// state: every VLAN referenced by an interface exists, and VLANs carry at
// most one interface (except the default VLAN).
func (a *applier) validate(newState *state.SwitchState) error {
	for vlanID, entry := range a.vlanInterfaces {
		if _, ok := newState.Vlans[vlanID]; !ok {
			first, _ := entry.firstInterface()
			return newError(KindMissingVlan,
				"interface %d refers to non-existent VLAN %d", first, vlanID)
		}
		if len(entry.interfaces) > 1 && vlanID != newState.DefaultVlan {
			return newError(KindVlanMultiInterface,
				"VLAN %d refers to %d interfaces", vlanID, len(entry.interfaces))
		}
	}
	return nil
}
